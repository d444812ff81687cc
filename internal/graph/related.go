package graph

import (
	"fmt"
	"math"

	"conceptgraph/internal/domain"
)

const (
	// DefaultResultCap is the number of related concepts returned when the
	// caller does not choose a cap.
	DefaultResultCap = 10

	// NoCap disables truncation of expansion results
	NoCap = math.MaxInt
)

// ExpandOptions configures a related-concepts expansion
type ExpandOptions struct {
	// MaxDepth is the maximum hop distance reported. Must be positive.
	MaxDepth int

	// ResultCap truncates the output after traversal. 0 selects DefaultResultCap.
	ResultCap int

	// StepBudget bounds the number of adjacency entries examined. 0 is unbounded.
	StepBudget int
}

// ExpandResult is the full outcome of an expansion
type ExpandResult struct {
	Related         []domain.RelatedConcept `json:"related"`
	Total           int                     `json:"total"`
	Truncated       bool                    `json:"truncated"`
	BudgetExhausted bool                    `json:"budget_exhausted,omitempty"`
}

// frame is one level of the explicit DFS stack
type frame struct {
	id    string
	depth int
	next  int
}

// Expand returns the concepts reachable from startID within maxDepth hops, in
// depth-first pre-order, truncated to resultCap.
//
// Distance is the depth at which a concept was first discovered by the
// depth-first walk, which is not necessarily its shortest hop distance when the
// graph has cycles. For the same reason a larger maxDepth can drop concepts a
// smaller one returned. An unknown startID yields an empty result.
func (h *Handle) Expand(startID string, maxDepth, resultCap int) ([]domain.RelatedConcept, error) {
	res, err := h.ExpandWithOptions(startID, ExpandOptions{
		MaxDepth:  maxDepth,
		ResultCap: resultCap,
	})
	if err != nil {
		return nil, err
	}
	return res.Related, nil
}

// ExpandWithOptions is Expand with an optional step budget and the traversal
// totals exposed.
func (h *Handle) ExpandWithOptions(startID string, opts ExpandOptions) (*ExpandResult, error) {
	if opts.MaxDepth <= 0 {
		return nil, fmt.Errorf("%w: max depth must be positive, got %d", domain.ErrInvalidArgument, opts.MaxDepth)
	}
	if opts.ResultCap < 0 {
		return nil, fmt.Errorf("%w: result cap must not be negative, got %d", domain.ErrInvalidArgument, opts.ResultCap)
	}
	if opts.StepBudget < 0 {
		return nil, fmt.Errorf("%w: step budget must not be negative, got %d", domain.ErrInvalidArgument, opts.StepBudget)
	}

	resultCap := opts.ResultCap
	if resultCap == 0 {
		resultCap = DefaultResultCap
	}

	result := &ExpandResult{Related: make([]domain.RelatedConcept, 0)}
	if !h.Has(startID) {
		return result, nil
	}

	discovered := map[string]struct{}{startID: {}}
	stack := []frame{{id: startID}}
	steps := 0

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		adj := h.adjacency[top.id]
		if top.next >= len(adj) {
			stack = stack[:len(stack)-1]
			continue
		}

		nb := adj[top.next]
		top.next++
		depth := top.depth + 1

		if opts.StepBudget > 0 {
			steps++
			if steps > opts.StepBudget {
				result.BudgetExhausted = true
				break
			}
		}

		if _, seen := discovered[nb.ID]; seen {
			continue
		}
		discovered[nb.ID] = struct{}{}

		node, _ := h.Node(nb.ID)
		result.Related = append(result.Related, domain.RelatedConcept{
			Node:         node,
			Relationship: nb.EdgeType,
			Strength:     nb.Strength,
			Distance:     depth,
		})

		if depth < opts.MaxDepth {
			stack = append(stack, frame{id: nb.ID, depth: depth})
		}
	}

	result.Total = len(result.Related)
	if len(result.Related) > resultCap {
		result.Related = result.Related[:resultCap]
		result.Truncated = true
	}

	return result, nil
}
