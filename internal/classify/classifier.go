// Package classify assigns semantic labels to workflow clusters.
package classify

import (
	"strings"

	"github.com/zynxdata/flowmerge/pkg/models"
)

// Category pairs a semantic label with its keyword set. Categories are data,
// not control flow; adding one is a table entry, not a new branch.
type Category struct {
	Label    string
	Keywords []string
}

// Categories is the fixed classification table, evaluated in declaration
// order. On equal keyword hit-counts the earlier entry wins.
var Categories = []Category{
	{Label: "PR Management", Keywords: []string{"pull request", "pr", "review", "merge", "approval"}},
	{Label: "Deployment", Keywords: []string{"deploy", "release", "build", "publish", "docker"}},
	{Label: "Testing", Keywords: []string{"test", "validate", "check", "verify", "assert"}},
	{Label: "Memory Debugger", Keywords: []string{"debug", "memory", "log", "monitor", "profile"}},
	{Label: "Security", Keywords: []string{"security", "scan", "vulnerability", "audit"}},
	{Label: "Documentation", Keywords: []string{"docs", "documentation", "readme"}},
	{Label: "Dependency Management", Keywords: []string{"npm", "yarn", "pip", "install", "update"}},
}

// DefaultLabel is assigned when no keyword of any category matches.
const DefaultLabel = "General Automation"

// Cluster labels a cluster from the concatenated text of its members.
func Cluster(c *models.Cluster) string {
	var b strings.Builder
	for _, w := range c.Members {
		b.WriteString(w.Name)
		b.WriteByte(' ')
		b.WriteString(w.Description)
		b.WriteByte(' ')
		b.WriteString(strings.Join(w.Actions, " "))
		b.WriteByte(' ')
		if w.MemoryContext != "" {
			b.WriteString(w.MemoryContext)
			b.WriteByte(' ')
		}
		if w.PromptContext != "" {
			b.WriteString(w.PromptContext)
			b.WriteByte(' ')
		}
	}
	return Text(b.String())
}

// Text scores free text against the category table and returns the label
// with the most keyword hits. A keyword counts once regardless of how often
// it occurs. Deterministic lookup, no randomness.
func Text(text string) string {
	lower := strings.ToLower(text)

	best := DefaultLabel
	bestHits := 0
	for _, cat := range Categories {
		hits := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best = cat.Label
			bestHits = hits
		}
	}
	return best
}
