// Package ingest loads normalized workflow and annotation records from JSON
// files. It performs no parsing heuristics of its own; records arrive
// already normalized by the external extraction tooling.
package ingest

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/zynxdata/flowmerge/internal/sanitize"
	"github.com/zynxdata/flowmerge/pkg/models"
)

// LoadWorkflows reads a JSON array of normalized workflow records.
func LoadWorkflows(path string) ([]*models.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflows: %w", err)
	}

	workflows, err := decodeOneOrMany[models.Workflow](data)
	if err != nil {
		return nil, fmt.Errorf("decode workflows %s: %w", path, err)
	}
	log.Debug().Int("count", len(workflows)).Str("path", path).Msg("Loaded workflows")
	return workflows, nil
}

// LoadMemoryRecords reads memory annotation records. The file may hold a
// single record or an array of records; both shapes occur in the wild.
func LoadMemoryRecords(path string) ([]*models.MemoryRecord, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read memory records: %w", err)
	}

	records, err := decodeOneOrMany[models.MemoryRecord](data)
	if err != nil {
		return nil, fmt.Errorf("decode memory records %s: %w", path, err)
	}
	// Context text flows into consolidated documents; scrub it up front.
	for _, r := range records {
		r.Context = sanitize.Text(r.Context)
	}
	log.Debug().Int("count", len(records)).Str("path", path).Msg("Loaded memory records")
	return records, nil
}

// LoadPromptRecords reads prompt annotation records, single or array form.
func LoadPromptRecords(path string) ([]*models.PromptRecord, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt records: %w", err)
	}

	records, err := decodeOneOrMany[models.PromptRecord](data)
	if err != nil {
		return nil, fmt.Errorf("decode prompt records %s: %w", path, err)
	}
	for _, r := range records {
		r.InjectedContext = sanitize.Text(r.InjectedContext)
	}
	log.Debug().Int("count", len(records)).Str("path", path).Msg("Loaded prompt records")
	return records, nil
}

// WriteJSON serializes any result value to an indented JSON file.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// decodeOneOrMany accepts either a JSON array of T or a single T object.
func decodeOneOrMany[T any](data []byte) ([]*T, error) {
	var many []*T
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}

	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []*T{&one}, nil
}
