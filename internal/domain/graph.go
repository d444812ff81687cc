package domain

// RelatedConcept is one entry of a related-concepts expansion
type RelatedConcept struct {
	Node
	Relationship EdgeType `json:"relationship"`
	Strength     float64  `json:"strength"`
	Distance     int      `json:"distance"`
}

// PathResult is the outcome of a shortest-path query. Path is empty and Hops is
// -1 when the endpoints are not connected.
type PathResult struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Path   []string `json:"path"`
	Hops   int      `json:"pathLength"`
}

// Found reports whether a path exists
func (p PathResult) Found() bool {
	return p.Hops >= 0
}

// SnapshotInfo describes the currently published graph snapshot
type SnapshotInfo struct {
	Version  string        `json:"version"`
	LoadedAt string        `json:"loaded_at"`
	Source   string        `json:"source"`
	Nodes    int           `json:"nodes"`
	Edges    int           `json:"edges"`
	Dropped  []DroppedEdge `json:"dropped,omitempty"`
}
