// Package feature turns workflows into sparse TF-IDF term vectors over a
// collection-wide vocabulary. Extraction is two-phase: build the vocabulary
// across the full input batch, then vectorize individual workflows against
// it. Partial or incremental extraction is not supported because document
// frequencies are only meaningful for the whole collection.
package feature

import (
	"math"
	"sort"
	"strings"

	"github.com/zynxdata/flowmerge/pkg/models"
	"github.com/zynxdata/flowmerge/pkg/similarity"
)

// DefaultMaxTerms caps the vocabulary size when no override is given.
const DefaultMaxTerms = 1000

// Options controls term extraction.
type Options struct {
	// MaxTerms caps the vocabulary, keeping the globally most frequent terms.
	MaxTerms int
	// IncludeEnrichment adds emotion tags and attached memory/prompt context
	// to the extracted text, so that enrichment participates in clustering.
	IncludeEnrichment bool
}

// Vocabulary holds the terms selected from a workflow collection together
// with their document frequencies.
type Vocabulary struct {
	docFreq map[string]int
	numDocs int
}

// Len returns the number of selected terms.
func (v *Vocabulary) Len() int { return len(v.docFreq) }

// Contains reports whether a term survived vocabulary selection.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.docFreq[term]
	return ok
}

// BuildVocabulary scans the full collection once, counting term and document
// frequencies over unigrams and bigrams, and keeps the MaxTerms most frequent
// terms. An empty collection yields an empty vocabulary.
func BuildVocabulary(workflows []*models.Workflow, opts Options) *Vocabulary {
	maxTerms := opts.MaxTerms
	if maxTerms <= 0 {
		maxTerms = DefaultMaxTerms
	}

	termFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for _, w := range workflows {
		terms := Terms(workflowText(w, opts.IncludeEnrichment))
		seen := make(map[string]bool, len(terms))
		for _, term := range terms {
			termFreq[term]++
			if !seen[term] {
				docFreq[term]++
				seen[term] = true
			}
		}
	}

	if len(termFreq) > maxTerms {
		type termCount struct {
			term  string
			count int
		}
		ranked := make([]termCount, 0, len(termFreq))
		for term, count := range termFreq {
			ranked = append(ranked, termCount{term, count})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].count != ranked[j].count {
				return ranked[i].count > ranked[j].count
			}
			return ranked[i].term < ranked[j].term
		})
		kept := make(map[string]int, maxTerms)
		for _, tc := range ranked[:maxTerms] {
			kept[tc.term] = docFreq[tc.term]
		}
		docFreq = kept
	}

	return &Vocabulary{docFreq: docFreq, numDocs: len(workflows)}
}

// Vectorize produces the TF-IDF vector of a single workflow against a
// previously built vocabulary. Terms outside the vocabulary are ignored.
func Vectorize(w *models.Workflow, vocab *Vocabulary, opts Options) similarity.Vector {
	vec := make(similarity.Vector)
	if vocab == nil || vocab.numDocs == 0 {
		return vec
	}

	for _, term := range Terms(workflowText(w, opts.IncludeEnrichment)) {
		if vocab.Contains(term) {
			vec[term]++
		}
	}
	for term, tf := range vec {
		idf := math.Log(float64(vocab.numDocs)/float64(vocab.docFreq[term])) + 1
		vec[term] = tf * idf
	}
	return vec
}

// ExtractAll runs both phases over a collection and returns one vector per
// workflow, in input order.
func ExtractAll(workflows []*models.Workflow, opts Options) []similarity.Vector {
	vocab := BuildVocabulary(workflows, opts)
	vectors := make([]similarity.Vector, len(workflows))
	for i, w := range workflows {
		vectors[i] = Vectorize(w, vocab, opts)
	}
	return vectors
}

// Terms tokenizes text into lower-cased unigrams and adjacent-pair bigrams,
// excluding stop words.
func Terms(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_')
	})

	unigrams := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) >= 2 && !stopWords[word] {
			unigrams = append(unigrams, word)
		}
	}

	terms := make([]string, 0, len(unigrams)*2)
	terms = append(terms, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		terms = append(terms, unigrams[i]+" "+unigrams[i+1])
	}
	return terms
}

// directiveMarkers are mechanical action syntax, not behavior. Left in, a
// marker token would dominate frequencies and pull unrelated workflows
// together just because both use run directives.
var directiveMarkers = []string{"run:", "uses:"}

// actionContent strips directive markers from an action, keeping only the
// command or reference text around them.
func actionContent(action string) string {
	for _, marker := range directiveMarkers {
		for {
			idx := strings.Index(action, marker)
			if idx < 0 {
				break
			}
			action = action[:idx] + " " + action[idx+len(marker):]
		}
	}
	return strings.TrimSpace(action)
}

func workflowText(w *models.Workflow, includeEnrichment bool) string {
	parts := make([]string, 0, 8)
	if w.Name != "" {
		parts = append(parts, w.Name)
	}
	if w.Description != "" {
		parts = append(parts, w.Description)
	}
	for _, action := range w.Actions {
		parts = append(parts, actionContent(action))
	}
	parts = append(parts, w.Triggers...)
	parts = append(parts, w.Tags...)

	if includeEnrichment {
		if w.Emotion != "" {
			parts = append(parts, w.Emotion)
		}
		if w.MemoryContext != "" {
			parts = append(parts, w.MemoryContext)
		}
		if w.PromptContext != "" {
			parts = append(parts, w.PromptContext)
		}
	}
	return strings.Join(parts, " ")
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "must": true, "shall": true,
	"this": true, "that": true, "these": true, "those": true,
	"and": true, "or": true, "but": true, "if": true, "then": true,
	"for": true, "from": true, "with": true, "about": true, "into": true,
	"to": true, "of": true, "in": true, "on": true, "at": true, "by": true,
	"it": true, "its": true, "which": true, "who": true, "what": true,
	"when": true, "where": true, "how": true, "why": true,
}
