package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zynxdata/flowmerge/internal/cluster"
	"github.com/zynxdata/flowmerge/internal/feature"
	"github.com/zynxdata/flowmerge/pkg/models"
)

func scenarioWorkflows() []*models.Workflow {
	return []*models.Workflow{
		{
			ID:       "pr-review.yml",
			Name:     "PR Review",
			Triggers: []string{"pull_request"},
			Actions:  []string{"run: npm test", "run: npm run lint"},
		},
		{
			ID:       "review-bot.yml",
			Name:     "Code Review Bot",
			Triggers: []string{"pull_request"},
			Actions:  []string{"uses: actions/checkout@v3"},
		},
		{
			ID:       "deploy-prod.yml",
			Name:     "Deploy Production",
			Triggers: []string{"push"},
			Actions:  []string{"run: docker build", "run: docker push registry"},
		},
		{
			ID:       "deploy-staging.yml",
			Name:     "Deploy Staging",
			Triggers: []string{"push"},
			Actions:  []string{"run: docker build", "run: helm upgrade staging"},
		},
	}
}

func TestRun_ReviewScenario(t *testing.T) {
	p := New(Config{Cluster: cluster.Config{Strategy: cluster.StrategyKMeans, K: 2}})

	result, err := p.Run(context.Background(), scenarioWorkflows(), nil, nil)
	require.NoError(t, err)
	require.Len(t, result.Clusters, 2)

	var review *models.Cluster
	for _, c := range result.Clusters {
		for _, m := range c.Members {
			if m.ID == "pr-review.yml" {
				review = c
			}
		}
	}
	require.NotNil(t, review)

	memberIDs := make(map[string]bool)
	for _, m := range review.Members {
		memberIDs[m.ID] = true
	}
	assert.True(t, memberIDs["review-bot.yml"], "both review workflows must share a cluster")
	assert.Equal(t, "PR Management", review.Label)

	require.Len(t, result.Consolidated, 2)
	var reviewCW *models.ConsolidatedWorkflow
	for _, cw := range result.Consolidated {
		if cw.SourceClusterID == review.ID {
			reviewCW = cw
		}
	}
	require.NotNil(t, reviewCW)
	assert.Equal(t, []string{"main", "develop"}, reviewCW.Triggers["pull_request"].Branches)
}

func TestRun_EmptyInput(t *testing.T) {
	p := New(Config{Cluster: cluster.Config{Strategy: cluster.StrategyKMeans, K: 2}})

	result, err := p.Run(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Clusters)
	assert.Empty(t, result.Consolidated)
	assert.Zero(t, result.Stats.WorkflowCount)
}

func TestRun_InvalidConfigurationSurfaces(t *testing.T) {
	p := New(Config{Cluster: cluster.Config{Strategy: cluster.StrategyKMeans, K: 99}})

	_, err := p.Run(context.Background(), scenarioWorkflows(), nil, nil)
	assert.ErrorIs(t, err, cluster.ErrInvalidConfiguration)
}

func TestRun_InputsNotMutated(t *testing.T) {
	workflows := scenarioWorkflows()
	memories := []*models.MemoryRecord{
		{MemoryID: "mem_pr", TaskID: "PR Review", Emotion: "focused", Tag: "pr", Context: "review automation"},
	}
	p := New(Config{Cluster: cluster.Config{Strategy: cluster.StrategyKMeans, K: 2}})

	result, err := p.Run(context.Background(), workflows, memories, nil)
	require.NoError(t, err)

	assert.Empty(t, workflows[0].Emotion, "original inputs must stay untouched")

	var enriched int
	for _, w := range result.Workflows {
		if w.Enriched() {
			enriched++
		}
	}
	assert.Equal(t, 1, enriched)
	assert.Equal(t, 1, result.Stats.EnrichedCount)
}

func TestRun_EnrichedClusteringUsesContext(t *testing.T) {
	workflows := scenarioWorkflows()
	memories := []*models.MemoryRecord{
		{MemoryID: "mem_1", TaskID: "PR Review", Emotion: "frustrated", Context: "flaky reviews"},
	}

	p := New(Config{
		Cluster:          cluster.Config{Strategy: cluster.StrategyKMeans, K: 2},
		EnrichClustering: true,
	})

	result, err := p.Run(context.Background(), workflows, memories, nil)
	require.NoError(t, err)
	require.Len(t, result.Clusters, 2)
	assert.Equal(t, 1, result.Stats.EnrichedCount)
}

func TestNew_EnrichmentFeaturesForceSequentialPath(t *testing.T) {
	// Asking the extractor for enrichment context without asking for the
	// enrichment ordering must not leave matcher writes racing engine reads.
	p := New(Config{Cluster: cluster.Config{
		Strategy: cluster.StrategyKMeans,
		K:        2,
		Features: feature.Options{IncludeEnrichment: true},
	}})

	assert.True(t, p.cfg.EnrichClustering)

	memories := []*models.MemoryRecord{
		{MemoryID: "mem_1", TaskID: "PR Review", Emotion: "focused", Context: "review automation"},
	}
	result, err := p.Run(context.Background(), scenarioWorkflows(), memories, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.EnrichedCount)
}

func TestRun_Deterministic(t *testing.T) {
	p := New(Config{Cluster: cluster.Config{Strategy: cluster.StrategyKMeans, K: 2, Seed: 42}})

	first, err := p.Run(context.Background(), scenarioWorkflows(), nil, nil)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), scenarioWorkflows(), nil, nil)
	require.NoError(t, err)

	require.Len(t, second.Clusters, len(first.Clusters))
	for i := range first.Clusters {
		assert.Equal(t, first.Clusters[i].Label, second.Clusters[i].Label)
		require.Len(t, second.Clusters[i].Members, len(first.Clusters[i].Members))
		for j := range first.Clusters[i].Members {
			assert.Equal(t, first.Clusters[i].Members[j].ID, second.Clusters[i].Members[j].ID)
		}
	}
}

func TestRun_DBSCANStrategy(t *testing.T) {
	p := New(Config{Cluster: cluster.Config{Strategy: cluster.StrategyDBSCAN, Eps: 0.9, MinPts: 2}})

	result, err := p.Run(context.Background(), scenarioWorkflows(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "dbscan", result.Strategy)

	seen := make(map[string]int)
	for _, c := range result.Clusters {
		for _, m := range c.Members {
			seen[m.ID]++
		}
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "workflow %s must not repeat across clusters", id)
	}
}
