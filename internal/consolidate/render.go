package consolidate

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zynxdata/flowmerge/pkg/models"
)

// yamlDocument shapes a consolidated workflow into the GitHub-Actions-style
// YAML layout of the reference output files.
type yamlDocument struct {
	Name          string                         `yaml:"name"`
	Description   string                         `yaml:"description"`
	On            map[string]models.TriggerScope `yaml:"on"`
	Jobs          orderedJobs                    `yaml:"jobs"`
	Env           map[string]string              `yaml:"env,omitempty"`
	MemoryContext models.MemoryContextSummary    `yaml:"memory_context"`
	PromptContext models.PromptContextSummary    `yaml:"prompt_context"`
}

// orderedJobs marshals the job sequence as a mapping keyed by job name while
// preserving cluster order, which plain map marshaling would lose.
type orderedJobs []models.Job

func (j orderedJobs) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, job := range j {
		var value yaml.Node
		if err := value.Encode(job); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: job.Name},
			&value,
		)
	}
	return node, nil
}

// RenderYAML serializes a consolidated workflow to its YAML document form.
func RenderYAML(cw *models.ConsolidatedWorkflow) ([]byte, error) {
	doc := yamlDocument{
		Name:          cw.Name,
		Description:   cw.Description,
		On:            cw.Triggers,
		Jobs:          orderedJobs(cw.Jobs),
		Env:           cw.Env,
		MemoryContext: cw.MemoryContext,
		PromptContext: cw.PromptContext,
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render consolidated workflow %s: %w", cw.SourceClusterID, err)
	}
	return data, nil
}
