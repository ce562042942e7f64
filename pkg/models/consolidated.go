package models

// TriggerScope limits a merged trigger to a set of branches. An empty scope
// means the trigger fires unconditionally.
type TriggerScope struct {
	Branches []string `json:"branches,omitempty" yaml:"branches,omitempty"`
}

// Step is a single step inside a consolidated job.
type Step struct {
	Name string `json:"name" yaml:"name"`
	Run  string `json:"run" yaml:"run"`
}

// Job is one merged job derived from a single member workflow. The job name
// embeds the member's position in the cluster so duplicate workflow names
// still produce unique jobs.
type Job struct {
	Name   string `json:"name" yaml:"-"`
	RunsOn string `json:"runs_on" yaml:"runs-on"`
	Steps  []Step `json:"steps" yaml:"steps"`
}

// MemoryContextSummary aggregates the attached memory annotations of a
// cluster's members for traceability.
type MemoryContextSummary struct {
	Emotions  []string `json:"emotions,omitempty" yaml:"emotions,omitempty"`
	Tags      []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	MemoryIDs []string `json:"memory_ids,omitempty" yaml:"memory_ids,omitempty"`
}

// PromptContextSummary aggregates the attached prompt annotations of a
// cluster's members, including the arithmetic mean of reasoning scores.
type PromptContextSummary struct {
	PromptIDs             []string  `json:"prompt_ids,omitempty" yaml:"prompt_ids,omitempty"`
	ReasoningScores       []float64 `json:"reasoning_scores,omitempty" yaml:"reasoning_scores,omitempty"`
	AverageReasoningScore float64   `json:"average_reasoning_score" yaml:"average_reasoning_score"`
}

// ConsolidatedWorkflow is a single synthesized workflow merging every member
// of a cluster. Created once per cluster with more than one member and never
// updated afterwards.
type ConsolidatedWorkflow struct {
	SourceClusterID string                  `json:"source_cluster_id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	Triggers        map[string]TriggerScope `json:"triggers"`
	Jobs            []Job                   `json:"jobs"`
	Env             map[string]string       `json:"env"`
	MemoryContext   MemoryContextSummary    `json:"memory_context"`
	PromptContext   PromptContextSummary    `json:"prompt_context"`
}
