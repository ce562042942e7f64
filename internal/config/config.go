// Package config provides configuration management for flowmerge.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zynxdata/flowmerge/internal/cluster"
	"github.com/zynxdata/flowmerge/internal/feature"
	"github.com/zynxdata/flowmerge/internal/match"
	"github.com/zynxdata/flowmerge/internal/pipeline"
)

// Config is the top-level YAML structure.
type Config struct {
	Strategy         string  `yaml:"strategy"`
	Clusters         int     `yaml:"clusters"`
	Eps              float64 `yaml:"eps"`
	MinPts           int     `yaml:"min_pts"`
	Seed             int64   `yaml:"seed"`
	MaxIterations    int     `yaml:"max_iterations"`
	MaxTerms         int     `yaml:"max_terms"`
	EnrichClustering bool    `yaml:"enrich_clustering"`
	StorePath        string  `yaml:"store_path"`

	Match MatchConfig `yaml:"match"`
}

// MatchConfig holds the cross-source matching thresholds.
type MatchConfig struct {
	NameOverlap   float64 `yaml:"name_overlap"`
	MemoryContext float64 `yaml:"memory_context"`
	PromptContent float64 `yaml:"prompt_content"`
	PromptContext float64 `yaml:"prompt_context"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cc := cluster.DefaultConfig()
	mc := match.DefaultConfig()
	return &Config{
		Strategy:      string(cc.Strategy),
		Clusters:      cc.K,
		Eps:           cc.Eps,
		MinPts:        cc.MinPts,
		Seed:          cc.Seed,
		MaxIterations: cc.MaxIterations,
		MaxTerms:      feature.DefaultMaxTerms,
		StorePath:     "flowmerge.db",
		Match: MatchConfig{
			NameOverlap:   mc.NameOverlap,
			MemoryContext: mc.MemoryContext,
			PromptContent: mc.PromptContent,
			PromptContext: mc.PromptContext,
		},
	}
}

// Load reads the YAML file at path. A missing file returns the defaults, not
// an error; an empty workspace is a valid state.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Pipeline translates the file configuration into pipeline knobs.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		Cluster: cluster.Config{
			Strategy:      cluster.Strategy(c.Strategy),
			K:             c.Clusters,
			Eps:           c.Eps,
			MinPts:        c.MinPts,
			Seed:          c.Seed,
			MaxIterations: c.MaxIterations,
			Features:      feature.Options{MaxTerms: c.MaxTerms},
		},
		Match: match.Config{
			NameOverlap:   c.Match.NameOverlap,
			MemoryContext: c.Match.MemoryContext,
			PromptContent: c.Match.PromptContent,
			PromptContext: c.Match.PromptContext,
		},
		EnrichClustering: c.EnrichClustering,
	}
}
