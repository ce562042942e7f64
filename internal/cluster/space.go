// Package cluster partitions workflow collections into similarity clusters.
package cluster

import (
	"sort"

	"github.com/zynxdata/flowmerge/internal/feature"
	"github.com/zynxdata/flowmerge/pkg/models"
	"github.com/zynxdata/flowmerge/pkg/similarity"
)

// Space is the vector space of one clustering run: every workflow of the
// batch paired with its TF-IDF vector. A Space is built once per run and is
// read-only afterwards.
type Space struct {
	workflows []*models.Workflow
	vectors   []similarity.Vector
	index     map[string]int
}

// NewSpace extracts features for the full batch. The vocabulary is built
// across the whole collection, so a Space can only exist for a complete
// batch, never for a partial one.
func NewSpace(workflows []*models.Workflow, opts feature.Options) *Space {
	s := &Space{
		workflows: workflows,
		vectors:   feature.ExtractAll(workflows, opts),
		index:     make(map[string]int, len(workflows)),
	}
	for i, w := range workflows {
		s.index[w.ID] = i
	}
	return s
}

// Len returns the number of workflows in the space.
func (s *Space) Len() int { return len(s.workflows) }

// Workflow returns the workflow at position i.
func (s *Space) Workflow(i int) *models.Workflow { return s.workflows[i] }

// Vector returns the vector at position i.
func (s *Space) Vector(i int) similarity.Vector { return s.vectors[i] }

// Similarity returns the cosine similarity between the workflows at
// positions i and j.
func (s *Space) Similarity(i, j int) float64 {
	return similarity.Cosine(s.vectors[i], s.vectors[j])
}

// ScoredWorkflow pairs a workflow with its similarity to a query target.
type ScoredWorkflow struct {
	Workflow *models.Workflow
	Score    float64
}

// FindSimilar returns the k workflows most similar to the workflow with the
// given ID, best first. Returns nil when the ID is not part of the space.
func (s *Space) FindSimilar(id string, k int) []ScoredWorkflow {
	target, ok := s.index[id]
	if !ok {
		return nil
	}

	scored := make([]ScoredWorkflow, 0, len(s.workflows)-1)
	for i := range s.workflows {
		if i == target {
			continue
		}
		scored = append(scored, ScoredWorkflow{
			Workflow: s.workflows[i],
			Score:    s.Similarity(target, i),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Cohesion returns the mean pairwise similarity over the given member
// positions, 1.0 for a singleton by convention.
func (s *Space) Cohesion(members []int) float64 {
	if len(members) < 2 {
		return 1.0
	}

	var sum float64
	pairs := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			sum += s.Similarity(members[i], members[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// InterClusterSimilarity returns the mean similarity between all cross-pairs
// of two clusters, 0 when either cluster has no members in this space.
func (s *Space) InterClusterSimilarity(a, b *models.Cluster) float64 {
	var sum float64
	pairs := 0
	for _, wa := range a.Members {
		ia, ok := s.index[wa.ID]
		if !ok {
			continue
		}
		for _, wb := range b.Members {
			ib, ok := s.index[wb.ID]
			if !ok {
				continue
			}
			sum += s.Similarity(ia, ib)
			pairs++
		}
	}
	if pairs == 0 {
		return 0.0
	}
	return sum / float64(pairs)
}
