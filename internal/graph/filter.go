package graph

import (
	"fmt"
	"strings"

	"conceptgraph/internal/domain"
)

// NodeFilter narrows a node set. Zero-valued fields do not filter.
type NodeFilter struct {
	Category string
	Type     string

	// Text is matched as a substring of the node's name, category or type
	Text            string
	CaseInsensitive bool

	// Limit caps the result after all other criteria. 0 means no limit.
	Limit int
}

// FilterNodes returns the nodes matching every criterion of f, preserving
// their relative order.
func FilterNodes(nodes []domain.Node, f NodeFilter) ([]domain.Node, error) {
	if f.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", domain.ErrInvalidArgument, f.Limit)
	}

	text := f.Text
	if f.CaseInsensitive {
		text = strings.ToLower(text)
	}

	out := make([]domain.Node, 0, len(nodes))
	for _, node := range nodes {
		if f.Category != "" && node.Category != f.Category {
			continue
		}
		if f.Type != "" && string(node.Type) != f.Type {
			continue
		}
		if text != "" && !matchesText(node, text, f.CaseInsensitive) {
			continue
		}
		out = append(out, node)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func matchesText(node domain.Node, text string, foldCase bool) bool {
	for _, field := range []string{node.Name, node.Category, string(node.Type)} {
		if foldCase {
			field = strings.ToLower(field)
		}
		if strings.Contains(field, text) {
			return true
		}
	}
	return false
}

// NodeIDs returns the set of IDs of the given nodes
func NodeIDs(nodes []domain.Node) map[string]struct{} {
	ids := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		ids[node.ID] = struct{}{}
	}
	return ids
}

// InducedEdges keeps the edges whose endpoints are both among kept. Filter
// nodes first, then edges with the result, so that no edge points at a
// filtered-out node.
func InducedEdges(edges []domain.Edge, kept []domain.Node) []domain.Edge {
	return InducedEdgesByID(edges, NodeIDs(kept))
}

// InducedEdgesByID is InducedEdges over an ID set
func InducedEdgesByID(edges []domain.Edge, ids map[string]struct{}) []domain.Edge {
	out := make([]domain.Edge, 0, len(edges))
	for _, edge := range edges {
		if _, ok := ids[edge.Source]; !ok {
			continue
		}
		if _, ok := ids[edge.Target]; !ok {
			continue
		}
		out = append(out, edge)
	}
	return out
}

// Subgraph filters the snapshot's nodes and returns them with their induced edges
func (h *Handle) Subgraph(f NodeFilter) (*domain.GraphFragment, error) {
	nodes, err := FilterNodes(h.nodes, f)
	if err != nil {
		return nil, err
	}
	return &domain.GraphFragment{
		Nodes: nodes,
		Edges: InducedEdges(h.edges, nodes),
	}, nil
}

// Search returns the nodes whose name, category or type contains text
func (h *Handle) Search(text string, limit int, caseInsensitive bool) ([]domain.Node, error) {
	return FilterNodes(h.nodes, NodeFilter{
		Text:            text,
		CaseInsensitive: caseInsensitive,
		Limit:           limit,
	})
}
