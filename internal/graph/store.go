package graph

import (
	"fmt"
	"sync/atomic"
	"time"

	"conceptgraph/internal/domain"

	"github.com/google/uuid"
)

// Dropped-edge reasons reported in LoadReport
const (
	ReasonUnknownSource = "unknown source node"
	ReasonUnknownTarget = "unknown target node"
	ReasonUnknownBoth   = "unknown source and target nodes"
)

// LoadReport summarises a successful Load
type LoadReport struct {
	Nodes   int                  `json:"nodes"`
	Edges   int                  `json:"edges"`
	Dropped []domain.DroppedEdge `json:"dropped"`
}

// HasWarnings reports whether any edge was dropped
func (r *LoadReport) HasWarnings() bool {
	return r != nil && len(r.Dropped) > 0
}

// Handle is a loaded, read-only graph snapshot with its adjacency index.
// A Handle is never mutated after Load returns, so it is safe for concurrent use.
type Handle struct {
	version   string
	loadedAt  time.Time
	nodes     []domain.Node
	edges     []domain.Edge
	index     map[string]int
	adjacency map[string][]domain.Neighbor
}

// Load validates nodes and edges and builds the adjacency index in O(N+E).
//
// Duplicate node IDs make the snapshot ambiguous and fail with
// domain.ErrInvalidGraph. Edges that reference an unknown node are dropped and
// listed in the returned LoadReport.
func Load(nodes []domain.Node, edges []domain.Edge) (*Handle, *LoadReport, error) {
	h := &Handle{
		version:   uuid.NewString(),
		loadedAt:  time.Now(),
		nodes:     make([]domain.Node, len(nodes)),
		edges:     make([]domain.Edge, 0, len(edges)),
		index:     make(map[string]int, len(nodes)),
		adjacency: make(map[string][]domain.Neighbor, len(nodes)),
	}
	copy(h.nodes, nodes)

	for i, node := range h.nodes {
		if prev, exists := h.index[node.ID]; exists {
			return nil, nil, fmt.Errorf("%w: duplicate node id %q at positions %d and %d",
				domain.ErrInvalidGraph, node.ID, prev, i)
		}
		h.index[node.ID] = i
	}

	report := &LoadReport{
		Nodes:   len(h.nodes),
		Dropped: make([]domain.DroppedEdge, 0),
	}

	for i, edge := range edges {
		_, hasSource := h.index[edge.Source]
		_, hasTarget := h.index[edge.Target]
		if !hasSource || !hasTarget {
			report.Dropped = append(report.Dropped, domain.DroppedEdge{
				Index:  i,
				Edge:   edge,
				Reason: dropReason(hasSource, hasTarget),
			})
			continue
		}

		h.edges = append(h.edges, edge)
		h.adjacency[edge.Source] = append(h.adjacency[edge.Source], domain.Neighbor{
			ID:       edge.Target,
			EdgeType: edge.Type,
			Strength: edge.Strength,
		})
		if edge.Target == edge.Source {
			continue
		}
		h.adjacency[edge.Target] = append(h.adjacency[edge.Target], domain.Neighbor{
			ID:       edge.Source,
			EdgeType: edge.Type,
			Strength: edge.Strength,
		})
	}
	report.Edges = len(h.edges)

	return h, report, nil
}

func dropReason(hasSource, hasTarget bool) string {
	switch {
	case !hasSource && !hasTarget:
		return ReasonUnknownBoth
	case !hasSource:
		return ReasonUnknownSource
	default:
		return ReasonUnknownTarget
	}
}

// Version returns the unique identifier assigned to this snapshot at load time
func (h *Handle) Version() string {
	return h.version
}

// LoadedAt returns when the snapshot was loaded
func (h *Handle) LoadedAt() time.Time {
	return h.loadedAt
}

// Node looks up a node by ID
func (h *Handle) Node(id string) (domain.Node, bool) {
	i, ok := h.index[id]
	if !ok {
		return domain.Node{}, false
	}
	return h.nodes[i], true
}

// Has reports whether the snapshot contains a node with the given ID
func (h *Handle) Has(id string) bool {
	_, ok := h.index[id]
	return ok
}

// Neighbors returns the adjacency entries of a node in edge insertion order.
// Unknown and isolated nodes yield an empty slice.
func (h *Handle) Neighbors(id string) []domain.Neighbor {
	adj := h.adjacency[id]
	out := make([]domain.Neighbor, len(adj))
	copy(out, adj)
	return out
}

// Nodes returns a copy of the snapshot's nodes in load order
func (h *Handle) Nodes() []domain.Node {
	out := make([]domain.Node, len(h.nodes))
	copy(out, h.nodes)
	return out
}

// Edges returns a copy of the retained edges in load order
func (h *Handle) Edges() []domain.Edge {
	out := make([]domain.Edge, len(h.edges))
	copy(out, h.edges)
	return out
}

// NodeCount returns the number of nodes
func (h *Handle) NodeCount() int {
	return len(h.nodes)
}

// EdgeCount returns the number of retained edges
func (h *Handle) EdgeCount() int {
	return len(h.edges)
}

// Fragment returns the snapshot as a GraphFragment
func (h *Handle) Fragment() *domain.GraphFragment {
	return &domain.GraphFragment{
		Nodes: h.Nodes(),
		Edges: h.Edges(),
	}
}

// Store publishes the current snapshot. Readers take the Handle once per query
// session; Publish swaps in a new Handle without touching the old one.
type Store struct {
	current atomic.Pointer[Handle]
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Current returns the published handle, or nil if nothing has been loaded
func (s *Store) Current() *Handle {
	return s.current.Load()
}

// Publish makes an already loaded handle current
func (s *Store) Publish(h *Handle) {
	s.current.Store(h)
}
