package match

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zynxdata/flowmerge/pkg/models"
	"github.com/zynxdata/flowmerge/pkg/similarity"
)

// Config holds the overlap thresholds of the similarity-based signal rules.
type Config struct {
	// NameOverlap is the token-overlap threshold for workflow-name vs record
	// reference-name matching.
	NameOverlap float64
	// MemoryContext is the description-vs-context threshold for memory
	// records.
	MemoryContext float64
	// PromptContent is the description-vs-prompt-text threshold for prompt
	// records.
	PromptContent float64
	// PromptContext is the description-vs-injected-context threshold for
	// prompt records.
	PromptContext float64
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() Config {
	return Config{
		NameOverlap:   0.7,
		MemoryContext: 0.5,
		PromptContent: 0.3,
		PromptContext: 0.3,
	}
}

// Matcher scores annotation records against workflows. Records are never
// mutated; workflows are mutated only by Enrich.
type Matcher struct {
	cfg Config
}

// New returns a matcher. Zero-valued thresholds fall back to defaults.
func New(cfg Config) *Matcher {
	def := DefaultConfig()
	if cfg.NameOverlap == 0 {
		cfg.NameOverlap = def.NameOverlap
	}
	if cfg.MemoryContext == 0 {
		cfg.MemoryContext = def.MemoryContext
	}
	if cfg.PromptContent == 0 {
		cfg.PromptContent = def.PromptContent
	}
	if cfg.PromptContext == 0 {
		cfg.PromptContext = def.PromptContext
	}
	return &Matcher{cfg: cfg}
}

// MatchMemories ranks memory records against a workflow, best first,
// retaining the top candidates. Records scoring 0 are excluded.
func (m *Matcher) MatchMemories(w *models.Workflow, records []*models.MemoryRecord) Ranked {
	var matches []Match
	for _, rec := range records {
		if score := m.scoreMemory(w, rec); score > 0 {
			matches = append(matches, Match{Memory: rec, Score: score})
		}
	}
	return rank(matches)
}

// scoreMemory evaluates the memory signal rules in priority order; the first
// satisfied rule determines the score. Rules are not summed. Absent record
// fields never match.
func (m *Matcher) scoreMemory(w *models.Workflow, rec *models.MemoryRecord) float64 {
	switch {
	case rec.TaskID != "" && strings.Contains(w.Name, rec.TaskID):
		return 1.0
	case rec.WorkflowName != "" && similarity.TokenOverlap(w.Name, rec.WorkflowName) > m.cfg.NameOverlap:
		return 0.8
	case rec.TriggerPattern != "" && anyTriggerIn(w.Triggers, rec.TriggerPattern):
		return 0.6
	case rec.Context != "" && similarity.TokenOverlap(w.Description, rec.Context) > m.cfg.MemoryContext:
		return 0.5
	}
	return 0.0
}

// MatchPrompts ranks prompt records against a workflow, best first.
func (m *Matcher) MatchPrompts(w *models.Workflow, records []*models.PromptRecord) Ranked {
	var matches []Match
	for _, rec := range records {
		if score := m.scorePrompt(w, rec); score > 0 {
			matches = append(matches, Match{Prompt: rec, Score: score})
		}
	}
	return rank(matches)
}

func (m *Matcher) scorePrompt(w *models.Workflow, rec *models.PromptRecord) float64 {
	nameLower := strings.ToLower(w.Name)
	switch {
	case rec.TaskType != "" && strings.Contains(nameLower, strings.ToLower(rec.TaskType)):
		return 1.0
	case rec.WorkflowTag != "" && strings.Contains(nameLower, strings.ToLower(rec.WorkflowTag)):
		return 0.9
	case rec.Prompt != "" && similarity.TokenOverlap(w.Description, rec.Prompt) > m.cfg.PromptContent:
		return 0.6
	case rec.InjectedContext != "" && similarity.TokenOverlap(w.Description, rec.InjectedContext) > m.cfg.PromptContext:
		return 0.5
	}
	return 0.0
}

func anyTriggerIn(triggers []string, pattern string) bool {
	for _, trigger := range triggers {
		if trigger != "" && strings.Contains(pattern, trigger) {
			return true
		}
	}
	return false
}

// Enrich attaches the best memory and prompt matches to the workflow. A
// workflow with no record scoring above 0 is left untouched; that is a valid
// outcome, not an error.
func (m *Matcher) Enrich(w *models.Workflow, memories []*models.MemoryRecord, prompts []*models.PromptRecord) {
	if best, ok := m.MatchMemories(w, memories).Best(); ok {
		rec := best.Memory
		w.Emotion = rec.Emotion
		w.ClassificationTag = rec.Tag
		w.MemoryRef = rec.MemoryID
		w.MemoryContext = rec.Context
		log.Debug().
			Str("workflow", w.Name).
			Str("memory", rec.MemoryID).
			Str("emotion", rec.Emotion).
			Float64("score", best.Score).
			Msg("Matched memory record")
	}

	if best, ok := m.MatchPrompts(w, prompts).Best(); ok {
		rec := best.Prompt
		w.PromptRef = rec.PromptID
		w.PromptContext = rec.InjectedContext
		w.InjectedPrompt = rec.Prompt
		w.ReasoningScore = rec.ReasoningScore
		log.Debug().
			Str("workflow", w.Name).
			Str("prompt", rec.PromptID).
			Float64("reasoning_score", rec.ReasoningScore).
			Float64("score", best.Score).
			Msg("Matched prompt record")
	}
}

// EnrichAll enriches every workflow in the batch in place.
func (m *Matcher) EnrichAll(workflows []*models.Workflow, memories []*models.MemoryRecord, prompts []*models.PromptRecord) {
	for _, w := range workflows {
		m.Enrich(w, memories, prompts)
	}
}
