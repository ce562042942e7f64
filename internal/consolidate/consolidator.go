// Package consolidate merges a cluster's workflows into one synthesized
// definition.
package consolidate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zynxdata/flowmerge/pkg/models"
)

// defaultBranches scopes push and pull_request triggers in merged output.
var defaultBranches = []string{"main", "develop"}

// runsOn is the runner assigned to every merged job.
const runsOn = "ubuntu-latest"

// Cluster merges every member of a cluster into a single consolidated
// workflow. Returns nil for clusters with fewer than two members: a
// singleton has no merge target, which is intentional.
func Cluster(c *models.Cluster) *models.ConsolidatedWorkflow {
	if c == nil || len(c.Members) < 2 {
		return nil
	}

	return &models.ConsolidatedWorkflow{
		SourceClusterID: c.ID,
		Name:            fmt.Sprintf("%s Master Workflow", c.Label),
		Description:     fmt.Sprintf("Consolidated workflow for %s operations", c.Label),
		Triggers:        mergeTriggers(c.Members),
		Jobs:            mergeJobs(c.Members),
		Env:             mergeEnv(c.Members),
		MemoryContext:   memorySummary(c.Members),
		PromptContext:   promptSummary(c.Members),
	}
}

// mergeTriggers unions all member trigger sets. Branch-scoped events get the
// default branch scope, everything else fires unscoped.
func mergeTriggers(members []*models.Workflow) map[string]models.TriggerScope {
	merged := make(map[string]models.TriggerScope)
	for _, w := range members {
		for _, trigger := range w.Triggers {
			if trigger == "" {
				continue
			}
			if trigger == "push" || trigger == "pull_request" {
				merged[trigger] = models.TriggerScope{Branches: append([]string(nil), defaultBranches...)}
			} else {
				merged[trigger] = models.TriggerScope{}
			}
		}
	}
	return merged
}

// mergeJobs emits one job per member, in cluster order. The member's
// position suffixes the job name so duplicate workflow names still yield
// unique jobs.
func mergeJobs(members []*models.Workflow) []models.Job {
	jobs := make([]models.Job, 0, len(members))
	for i, w := range members {
		jobs = append(jobs, models.Job{
			Name:   fmt.Sprintf("%s_%d", snakeCase(w.Name), i),
			RunsOn: runsOn,
			Steps:  stepsFromActions(w.Actions),
		})
	}
	return jobs
}

// stepsFromActions derives one step per action. Actions carrying an explicit
// run-directive become run steps with the extracted command; any other
// action is wrapped verbatim, so consolidation succeeds even when no member
// has a recognizable directive.
func stepsFromActions(actions []string) []models.Step {
	steps := make([]models.Step, 0, len(actions))
	for _, action := range actions {
		if idx := strings.Index(action, "run:"); idx >= 0 {
			command := strings.TrimSpace(action[idx+len("run:"):])
			steps = append(steps, models.Step{
				Name: "Run: " + truncate(command, 50),
				Run:  command,
			})
		} else {
			steps = append(steps, models.Step{
				Name: "Action: " + truncate(action, 50),
				Run:  action,
			})
		}
	}
	return steps
}

// mergeEnv emits one enablement flag per member plus, when present, its
// emotion tag and reasoning score.
func mergeEnv(members []*models.Workflow) map[string]string {
	env := make(map[string]string)
	for _, w := range members {
		key := strings.ToUpper(snakeCase(w.Name))
		env[key+"_ENABLED"] = "true"
		if w.Emotion != "" {
			env[key+"_EMOTION"] = w.Emotion
		}
		if w.ReasoningScore > 0 {
			env[key+"_REASONING_SCORE"] = strconv.FormatFloat(w.ReasoningScore, 'f', -1, 64)
		}
	}
	return env
}

func memorySummary(members []*models.Workflow) models.MemoryContextSummary {
	emotions := make(map[string]bool)
	tags := make(map[string]bool)
	ids := make(map[string]bool)
	for _, w := range members {
		if w.Emotion != "" {
			emotions[w.Emotion] = true
		}
		if w.ClassificationTag != "" {
			tags[w.ClassificationTag] = true
		}
		if w.MemoryRef != "" {
			ids[w.MemoryRef] = true
		}
	}
	return models.MemoryContextSummary{
		Emotions:  sortedKeys(emotions),
		Tags:      sortedKeys(tags),
		MemoryIDs: sortedKeys(ids),
	}
}

func promptSummary(members []*models.Workflow) models.PromptContextSummary {
	ids := make(map[string]bool)
	var scores []float64
	var sum float64
	for _, w := range members {
		if w.PromptRef != "" {
			ids[w.PromptRef] = true
		}
		if w.ReasoningScore > 0 {
			scores = append(scores, w.ReasoningScore)
			sum += w.ReasoningScore
		}
	}

	summary := models.PromptContextSummary{
		PromptIDs:       sortedKeys(ids),
		ReasoningScores: scores,
	}
	if len(scores) > 0 {
		summary.AverageReasoningScore = sum / float64(len(scores))
	}
	return summary
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func snakeCase(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
	if len(fields) == 0 {
		return "workflow"
	}
	return strings.Join(fields, "_")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
