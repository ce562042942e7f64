// Package pipeline orchestrates a full clustering and consolidation run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/zynxdata/flowmerge/internal/classify"
	"github.com/zynxdata/flowmerge/internal/cluster"
	"github.com/zynxdata/flowmerge/internal/consolidate"
	"github.com/zynxdata/flowmerge/internal/match"
	"github.com/zynxdata/flowmerge/pkg/models"
)

// Config holds the knobs of a pipeline run.
type Config struct {
	Cluster cluster.Config
	Match   match.Config
	// EnrichClustering makes annotation enrichment complete before feature
	// extraction, so enrichment context participates in clustering. When
	// false, matching and clustering run concurrently over the same input
	// snapshot.
	EnrichClustering bool
}

// Stats summarizes a run.
type Stats struct {
	WorkflowCount     int     `json:"workflow_count"`
	EnrichedCount     int     `json:"enriched_count"`
	ClusterCount      int     `json:"cluster_count"`
	ConsolidatedCount int     `json:"consolidated_count"`
	MeanCohesion      float64 `json:"mean_cohesion"`
}

// Result is the complete output of one run.
type Result struct {
	RunID        string                         `json:"run_id"`
	Strategy     string                         `json:"strategy"`
	Workflows    []*models.Workflow             `json:"workflows"`
	Clusters     []*models.Cluster              `json:"clusters"`
	Consolidated []*models.ConsolidatedWorkflow `json:"consolidated"`
	Stats        Stats                          `json:"stats"`
}

// Pipeline wires the matcher, clustering engine, classifier and consolidator
// into one run. Each Run operates on a fresh copy of its inputs; no state
// crosses invocations.
type Pipeline struct {
	cfg     Config
	engine  *cluster.Engine
	matcher *match.Matcher
}

// New builds a pipeline from configuration.
func New(cfg Config) *Pipeline {
	// Enrichment text in the vectors means the engine reads fields the
	// matcher writes, so the concurrent legs are off the table either way
	// the flags are set.
	if cfg.Cluster.Features.IncludeEnrichment {
		cfg.EnrichClustering = true
	}
	if cfg.EnrichClustering {
		cfg.Cluster.Features.IncludeEnrichment = true
	}
	if cfg.Cluster.Strategy == "" {
		cfg.Cluster.Strategy = cluster.DefaultConfig().Strategy
	}
	return &Pipeline{
		cfg:     cfg,
		engine:  cluster.NewEngine(cfg.Cluster),
		matcher: match.New(cfg.Match),
	}
}

// Run executes enrichment, extraction, clustering, classification and
// consolidation over one workflow batch. Feature extraction always covers
// the full batch before clustering starts; when enrichment feeds clustering
// the matcher completes first, otherwise matching and clustering proceed
// concurrently.
func (p *Pipeline) Run(ctx context.Context, workflows []*models.Workflow, memories []*models.MemoryRecord, prompts []*models.PromptRecord) (*Result, error) {
	runID := uuid.NewString()
	log.Info().
		Str("run_id", runID).
		Int("workflows", len(workflows)).
		Int("memories", len(memories)).
		Int("prompts", len(prompts)).
		Bool("enrich_clustering", p.cfg.EnrichClustering).
		Msg("Starting pipeline run")

	snapshot := make([]*models.Workflow, len(workflows))
	for i, w := range workflows {
		snapshot[i] = w.Clone()
	}

	var clusters []*models.Cluster
	if p.cfg.EnrichClustering {
		// Hard ordering: enrichment must land before the vocabulary is
		// built, or the enrichment text cannot participate in the vectors.
		p.matcher.EnrichAll(snapshot, memories, prompts)
		var err error
		clusters, err = p.engine.Cluster(ctx, snapshot)
		if err != nil {
			return nil, fmt.Errorf("cluster workflows: %w", err)
		}
	} else {
		// Matcher writes enrichment fields only and the engine reads text
		// fields only, so the two legs are independent here.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			clusters, err = p.engine.Cluster(gctx, snapshot)
			if err != nil {
				return fmt.Errorf("cluster workflows: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			p.matcher.EnrichAll(snapshot, memories, prompts)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	for _, c := range clusters {
		c.Label = classify.Cluster(c)
	}

	consolidated := make([]*models.ConsolidatedWorkflow, 0, len(clusters))
	for _, c := range clusters {
		if cw := consolidate.Cluster(c); cw != nil {
			consolidated = append(consolidated, cw)
		}
	}

	result := &Result{
		RunID:        runID,
		Strategy:     string(p.cfg.Cluster.Strategy),
		Workflows:    snapshot,
		Clusters:     clusters,
		Consolidated: consolidated,
		Stats:        buildStats(snapshot, clusters, consolidated),
	}

	log.Info().
		Str("run_id", runID).
		Int("clusters", len(clusters)).
		Int("consolidated", len(consolidated)).
		Float64("mean_cohesion", result.Stats.MeanCohesion).
		Msg("Pipeline run complete")
	return result, nil
}

// Space exposes the engine's vector space for similarity queries against the
// same batch, outside a clustering run.
func (p *Pipeline) Space(workflows []*models.Workflow) *cluster.Space {
	return p.engine.Space(workflows)
}

func buildStats(workflows []*models.Workflow, clusters []*models.Cluster, consolidated []*models.ConsolidatedWorkflow) Stats {
	stats := Stats{
		WorkflowCount:     len(workflows),
		ClusterCount:      len(clusters),
		ConsolidatedCount: len(consolidated),
	}
	for _, w := range workflows {
		if w.Enriched() {
			stats.EnrichedCount++
		}
	}
	if len(clusters) > 0 {
		var sum float64
		for _, c := range clusters {
			sum += c.Cohesion
		}
		stats.MeanCohesion = sum / float64(len(clusters))
	}
	return stats
}
