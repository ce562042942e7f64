// Package match associates workflows with external annotation records via
// prioritized signal rules.
package match

import (
	"sort"

	"github.com/zynxdata/flowmerge/pkg/models"
)

// MaxCandidates is how many scored records a ranking retains.
const MaxCandidates = 3

// Match is one scored annotation record. Exactly one of Memory and Prompt is
// set, depending on which source the ranking was built from.
type Match struct {
	Memory *models.MemoryRecord
	Prompt *models.PromptRecord
	Score  float64
}

// Ranked is an immutable descending-sorted candidate list, truncated to
// MaxCandidates. Ranking is separated from selection so that the "return
// top-3, attach top-1" policy stays independently testable.
type Ranked []Match

// Best returns the top-ranked match, or false when nothing scored above 0.
func (r Ranked) Best() (Match, bool) {
	if len(r) == 0 {
		return Match{}, false
	}
	return r[0], true
}

// rank sorts candidates by score descending, keeping input order for equal
// scores, and truncates to MaxCandidates. Zero-scored candidates must not be
// passed in.
func rank(matches []Match) Ranked {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > MaxCandidates {
		matches = matches[:MaxCandidates]
	}
	return Ranked(matches)
}
