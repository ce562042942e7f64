package cluster

import (
	"context"
	"math/rand"

	"github.com/zynxdata/flowmerge/pkg/similarity"
)

// kmeans partitions the space into exactly cfg.K non-empty groups by
// iterative centroid refinement. Distance is 1 - cosine similarity.
// Initialization uses the configured seed; with identical input order the
// partition is reproducible.
func (e *Engine) kmeans(ctx context.Context, space *Space) []group {
	n := space.Len()
	k := e.cfg.K

	centroids := initialCentroids(space, k, rand.New(rand.NewSource(e.cfg.Seed)))

	assignment := make([]int, n)
	for iter := 0; iter < e.cfg.MaxIterations; iter++ {
		if ctx.Err() != nil {
			break
		}

		changed := false
		for i := 0; i < n; i++ {
			best := nearestCentroid(space.Vector(i), centroids)
			if iter == 0 || best != assignment[i] {
				assignment[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		centroids = recomputeCentroids(space, assignment, k)
		repairEmptyClusters(space, assignment, centroids)
	}

	groups := make([]group, k)
	for i := range groups {
		groups[i].centroid = centroids[i]
	}
	for i, c := range assignment {
		groups[c].members = append(groups[c].members, i)
	}

	// Drop empty groups; possible only if the loop exited before repair ran.
	out := groups[:0]
	for _, g := range groups {
		if len(g.members) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// initialCentroids seeds k centroids by farthest-point traversal: the first
// is drawn from the seeded source, each further centroid is the point least
// similar to its nearest already-chosen centroid. Deterministic for a fixed
// seed and input order.
func initialCentroids(space *Space, k int, rnd *rand.Rand) []similarity.Vector {
	n := space.Len()
	chosen := make([]int, 0, k)
	chosen = append(chosen, rnd.Intn(n))

	for len(chosen) < k {
		next := -1
		nextSim := 2.0
		for i := 0; i < n; i++ {
			if containsInt(chosen, i) {
				continue
			}
			// Similarity to the closest chosen centroid.
			closest := -1.0
			for _, c := range chosen {
				if sim := space.Similarity(i, c); sim > closest {
					closest = sim
				}
			}
			if closest < nextSim {
				next = i
				nextSim = closest
			}
		}
		chosen = append(chosen, next)
	}

	centroids := make([]similarity.Vector, k)
	for i, idx := range chosen {
		centroids[i] = cloneVector(space.Vector(idx))
	}
	return centroids
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// nearestCentroid returns the centroid index with the highest cosine
// similarity to v. Ties and zero vectors resolve to the lowest index.
func nearestCentroid(v similarity.Vector, centroids []similarity.Vector) int {
	best := 0
	bestSim := -1.0
	for i, c := range centroids {
		if sim := similarity.Cosine(v, c); sim > bestSim {
			best = i
			bestSim = sim
		}
	}
	return best
}

// recomputeCentroids sets each centroid to the term-wise mean of its
// members' vectors. An empty cluster keeps a nil centroid until repaired.
func recomputeCentroids(space *Space, assignment []int, k int) []similarity.Vector {
	centroids := make([]similarity.Vector, k)
	counts := make([]int, k)
	for i, c := range assignment {
		if centroids[c] == nil {
			centroids[c] = make(similarity.Vector)
		}
		for term, w := range space.Vector(i) {
			centroids[c][term] += w
		}
		counts[c]++
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for term := range centroids[c] {
			centroids[c][term] /= float64(counts[c])
		}
	}
	return centroids
}

// repairEmptyClusters reseeds each empty cluster with the point least
// similar to its current centroid, so the partition always has k non-empty
// groups.
func repairEmptyClusters(space *Space, assignment []int, centroids []similarity.Vector) {
	counts := make([]int, len(centroids))
	for _, c := range assignment {
		counts[c]++
	}

	for c := range centroids {
		if counts[c] > 0 {
			continue
		}

		worst := -1
		worstSim := 2.0
		for i, cur := range assignment {
			if counts[cur] <= 1 {
				continue
			}
			sim := similarity.Cosine(space.Vector(i), centroids[cur])
			if sim < worstSim {
				worst = i
				worstSim = sim
			}
		}
		if worst < 0 {
			continue
		}
		counts[assignment[worst]]--
		assignment[worst] = c
		counts[c]++
		centroids[c] = cloneVector(space.Vector(worst))
	}
}

func cloneVector(v similarity.Vector) similarity.Vector {
	out := make(similarity.Vector, len(v))
	for term, w := range v {
		out[term] = w
	}
	return out
}
