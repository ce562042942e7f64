// Package models contains domain models for flowmerge.
package models

// Workflow is a normalized automation workflow definition produced by an
// external parser. Triggers, Dependencies and Tags carry set semantics;
// Actions preserve source order.
type Workflow struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	WorkflowType string   `json:"workflow_type,omitempty"`
	Triggers     []string `json:"triggers,omitempty"`
	Actions      []string `json:"actions,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Tags         []string `json:"tags,omitempty"`

	// Enrichment fields. Set only by the cross-source matcher; empty when no
	// annotation record scored above zero for this workflow.
	Emotion           string  `json:"emotion,omitempty"`
	ClassificationTag string  `json:"classification_tag,omitempty"`
	MemoryRef         string  `json:"memory_ref,omitempty"`
	MemoryContext     string  `json:"memory_context,omitempty"`
	PromptRef         string  `json:"prompt_ref,omitempty"`
	PromptContext     string  `json:"prompt_context,omitempty"`
	InjectedPrompt    string  `json:"injected_prompt,omitempty"`
	ReasoningScore    float64 `json:"reasoning_score,omitempty"`
}

// Enriched reports whether any annotation record has been attached.
func (w *Workflow) Enriched() bool {
	return w.MemoryRef != "" || w.PromptRef != ""
}

// Clone returns a copy of the workflow. Slices are copied so that enrichment
// of the clone never leaks into the original collection.
func (w *Workflow) Clone() *Workflow {
	c := *w
	c.Triggers = append([]string(nil), w.Triggers...)
	c.Actions = append([]string(nil), w.Actions...)
	c.Dependencies = append([]string(nil), w.Dependencies...)
	c.Tags = append([]string(nil), w.Tags...)
	return &c
}

// Cluster is a group of workflows deemed similar by vector-space proximity.
// Members is never empty. Cohesion is the mean pairwise similarity over all
// member pairs, 1.0 for singleton clusters by convention.
type Cluster struct {
	ID       string             `json:"id"`
	Label    string             `json:"label"`
	Members  []*Workflow        `json:"members"`
	Cohesion float64            `json:"cohesion"`
	Centroid map[string]float64 `json:"-"`
}

// Size returns the number of member workflows.
func (c *Cluster) Size() int { return len(c.Members) }
