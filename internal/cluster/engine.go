package cluster

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zynxdata/flowmerge/internal/feature"
	"github.com/zynxdata/flowmerge/pkg/models"
)

// Strategy selects the clustering algorithm.
type Strategy string

const (
	// StrategyKMeans partitions workflows into a caller-supplied number of
	// clusters; every workflow belongs to exactly one.
	StrategyKMeans Strategy = "kmeans"
	// StrategyDBSCAN groups workflows into density-connected components;
	// workflows without a dense neighborhood are outliers and excluded.
	StrategyDBSCAN Strategy = "dbscan"
)

// ErrInvalidConfiguration is returned when clustering is invoked with an
// out-of-range cluster count or an unknown strategy.
var ErrInvalidConfiguration = errors.New("invalid clustering configuration")

// Config holds clustering parameters.
type Config struct {
	Strategy Strategy
	// K is the target cluster count for the k-means strategy.
	K int
	// Eps is the DBSCAN neighborhood radius in distance terms; two workflows
	// are neighbors when their similarity is at least 1-Eps.
	Eps float64
	// MinPts is the minimum neighborhood size (including the point itself)
	// for a DBSCAN core point.
	MinPts int
	// Seed fixes the k-means initialization so results are reproducible
	// given identical input order.
	Seed int64
	// MaxIterations caps the k-means refinement loop.
	MaxIterations int

	Features feature.Options
}

// DefaultConfig mirrors the defaults of the reference pipeline.
func DefaultConfig() Config {
	return Config{
		Strategy:      StrategyKMeans,
		K:             5,
		Eps:           0.3,
		MinPts:        2,
		Seed:          42,
		MaxIterations: 50,
	}
}

// Engine clusters workflow batches. Each call is a pure transformation of
// its input; no state crosses calls.
type Engine struct {
	cfg Config
}

// NewEngine returns an engine with the given configuration. Zero-valued
// numeric fields fall back to defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Strategy == "" {
		cfg.Strategy = def.Strategy
	}
	if cfg.Eps == 0 {
		cfg.Eps = def.Eps
	}
	if cfg.MinPts == 0 {
		cfg.MinPts = def.MinPts
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	return &Engine{cfg: cfg}
}

// Cluster groups the batch into similarity clusters. An empty batch returns
// an empty result, not an error; invalid parameters return an error wrapping
// ErrInvalidConfiguration before any computation starts.
func (e *Engine) Cluster(ctx context.Context, workflows []*models.Workflow) ([]*models.Cluster, error) {
	if len(workflows) == 0 {
		return []*models.Cluster{}, nil
	}

	if err := e.validate(len(workflows)); err != nil {
		return nil, err
	}

	space := NewSpace(workflows, e.cfg.Features)

	var groups []group
	switch e.cfg.Strategy {
	case StrategyKMeans:
		groups = e.kmeans(ctx, space)
	case StrategyDBSCAN:
		groups = e.dbscan(space)
	}

	clusters := make([]*models.Cluster, 0, len(groups))
	for i, g := range groups {
		members := make([]*models.Workflow, len(g.members))
		for j, idx := range g.members {
			members[j] = space.Workflow(idx)
		}
		clusters = append(clusters, &models.Cluster{
			ID:       fmt.Sprintf("cluster_%d", i),
			Members:  members,
			Cohesion: space.Cohesion(g.members),
			Centroid: g.centroid,
		})
	}

	log.Debug().
		Str("strategy", string(e.cfg.Strategy)).
		Int("workflows", len(workflows)).
		Int("clusters", len(clusters)).
		Msg("Clustering complete")
	return clusters, nil
}

// Space builds the vector space the engine would cluster in, for similarity
// queries outside a clustering run.
func (e *Engine) Space(workflows []*models.Workflow) *Space {
	return NewSpace(workflows, e.cfg.Features)
}

func (e *Engine) validate(n int) error {
	switch e.cfg.Strategy {
	case StrategyKMeans:
		if e.cfg.K <= 0 || e.cfg.K > n {
			return fmt.Errorf("%w: cluster count %d out of range for %d workflows", ErrInvalidConfiguration, e.cfg.K, n)
		}
	case StrategyDBSCAN:
		if e.cfg.Eps <= 0 || e.cfg.Eps >= 1 {
			return fmt.Errorf("%w: eps %.3f must be in (0,1)", ErrInvalidConfiguration, e.cfg.Eps)
		}
		if e.cfg.MinPts < 1 {
			return fmt.Errorf("%w: min_pts %d must be positive", ErrInvalidConfiguration, e.cfg.MinPts)
		}
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfiguration, e.cfg.Strategy)
	}
	return nil
}

// group is an intermediate cluster: member positions in the space plus an
// optional centroid.
type group struct {
	members  []int
	centroid map[string]float64
}
