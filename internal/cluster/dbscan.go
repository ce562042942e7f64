package cluster

// dbscan groups workflows into density-connected components. Two workflows
// are neighbors when their similarity is at least 1-Eps; a core point has at
// least MinPts workflows in its neighborhood (itself included). Points
// reachable from no core point are outliers and appear in no group.
func (e *Engine) dbscan(space *Space) []group {
	n := space.Len()
	threshold := 1.0 - e.cfg.Eps
	minPts := e.cfg.MinPts

	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		neighbors[i] = append(neighbors[i], i)
		for j := i + 1; j < n; j++ {
			if space.Similarity(i, j) >= threshold {
				neighbors[i] = append(neighbors[i], j)
				neighbors[j] = append(neighbors[j], i)
			}
		}
	}

	const (
		unvisited = 0
		noise     = -1
	)
	labels := make([]int, n) // 0 unvisited, -1 noise, >0 cluster number
	current := 0

	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		if len(neighbors[i]) < minPts {
			labels[i] = noise
			continue
		}

		current++
		labels[i] = current

		// Expand the component breadth-first from the seed core point.
		queue := append([]int(nil), neighbors[i]...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if labels[j] == noise {
				labels[j] = current // border point claimed by this cluster
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = current
			if len(neighbors[j]) >= minPts {
				queue = append(queue, neighbors[j]...)
			}
		}
	}

	groups := make([]group, current)
	for i, label := range labels {
		if label > 0 {
			groups[label-1].members = append(groups[label-1].members, i)
		}
	}
	return groups
}
