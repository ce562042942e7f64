// Package similarity provides text and vector similarity primitives.
package similarity

import (
	"math"
	"strings"
)

// Vector is a sparse term-weight mapping. Terms absent from the map carry
// weight zero.
type Vector map[string]float64

// Cosine returns the cosine similarity between two sparse vectors over their
// shared vocabulary. Returns 0 if either vector is the zero vector; returns 1
// for any non-zero vector compared with itself. Symmetric.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for term, wa := range a {
		normA += wa * wa
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Jaccard calculates the Jaccard similarity between two term sets.
// Returns 0 if either set is empty.
func Jaccard(set1, set2 map[string]bool) float64 {
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for term := range set1 {
		if set2[term] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// TokenOverlap returns the Jaccard similarity between the word sets of two
// texts. Words are lower-cased, whitespace-split and suffix-normalized so
// that close morphological variants ("tests", "testing") still overlap.
func TokenOverlap(a, b string) float64 {
	return Jaccard(TokenSet(a), TokenSet(b))
}

// TokenSet builds a normalized word set from free text.
func TokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		set[normalizeToken(word)] = true
	}
	return set
}

// normalizeToken strips common inflection suffixes. Deliberately cruder than
// a full stemmer; it only needs to align variants of the same word.
func normalizeToken(word string) string {
	switch {
	case len(word) > 5 && strings.HasSuffix(word, "ing"):
		return word[:len(word)-3]
	case len(word) > 4 && strings.HasSuffix(word, "ed"):
		return word[:len(word)-2]
	case len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	}
	return word
}
