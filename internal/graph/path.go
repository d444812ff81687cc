package graph

import (
	"fmt"

	"conceptgraph/internal/domain"
)

// ShortestPath returns a fewest-hop path between two concepts, endpoints
// included. found is false when either endpoint is unknown or the endpoints
// are in different components. A concept's path to itself is the single
// element [sourceID].
//
// Among several shortest paths the one returned is determined by adjacency
// order, i.e. the order edges were loaded in.
func (h *Handle) ShortestPath(sourceID, targetID string) (path []string, found bool) {
	path, err := h.ShortestPathWithBudget(sourceID, targetID, 0)
	if err != nil || path == nil {
		return nil, false
	}
	return path, true
}

// ShortestPathWithBudget is ShortestPath with a bound on the number of
// adjacency entries examined. A stepBudget of 0 is unbounded. A nil path with a
// nil error means no path exists.
func (h *Handle) ShortestPathWithBudget(sourceID, targetID string, stepBudget int) ([]string, error) {
	if stepBudget < 0 {
		return nil, fmt.Errorf("%w: step budget must not be negative, got %d", domain.ErrInvalidArgument, stepBudget)
	}
	if !h.Has(sourceID) || !h.Has(targetID) {
		return nil, nil
	}
	if sourceID == targetID {
		return []string{sourceID}, nil
	}

	visited := map[string]struct{}{sourceID: {}}
	parent := make(map[string]string)
	queue := []string{sourceID}
	steps := 0

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, nb := range h.adjacency[current] {
			if stepBudget > 0 {
				steps++
				if steps > stepBudget {
					return nil, fmt.Errorf("%w after %d steps", domain.ErrBudgetExhausted, stepBudget)
				}
			}

			if nb.ID == targetID {
				parent[targetID] = current
				return reconstructPath(parent, sourceID, targetID), nil
			}
			if _, seen := visited[nb.ID]; seen {
				continue
			}
			visited[nb.ID] = struct{}{}
			parent[nb.ID] = current
			queue = append(queue, nb.ID)
		}
	}

	return nil, nil
}

func reconstructPath(parent map[string]string, sourceID, targetID string) []string {
	path := []string{targetID}
	for p := parent[targetID]; ; p = parent[p] {
		path = append(path, p)
		if p == sourceID {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindPath wraps ShortestPath in a PathResult for serialisation
func (h *Handle) FindPath(sourceID, targetID string) domain.PathResult {
	result := domain.PathResult{
		Source: sourceID,
		Target: targetID,
		Path:   []string{},
		Hops:   -1,
	}
	if path, ok := h.ShortestPath(sourceID, targetID); ok {
		result.Path = path
		result.Hops = len(path) - 1
	}
	return result
}
