package models

// MemoryRecord is an affect-tagged memory entry produced by an external
// memory loader. Records are read-only inputs to the cross-source matcher.
type MemoryRecord struct {
	MemoryID       string `json:"memory_id"`
	TaskID         string `json:"task_id,omitempty"`
	Emotion        string `json:"emotion,omitempty"`
	Tag            string `json:"tag,omitempty"`
	Context        string `json:"context,omitempty"`
	TriggerPattern string `json:"trigger_pattern,omitempty"`
	WorkflowName   string `json:"workflow_name,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
}

// PromptRecord is a reasoning-scored prompt entry produced by an external
// prompt loader. Records are read-only inputs to the cross-source matcher.
type PromptRecord struct {
	PromptID        string  `json:"prompt_id"`
	TaskType        string  `json:"task_type,omitempty"`
	WorkflowTag     string  `json:"workflow_tag,omitempty"`
	Prompt          string  `json:"prompt,omitempty"`
	InjectedContext string  `json:"injected_context,omitempty"`
	Timestamp       string  `json:"timestamp,omitempty"`
	ReasoningScore  float64 `json:"reasoning_score,omitempty"`
}
