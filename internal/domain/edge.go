package domain

// EdgeType labels the relationship an edge expresses (function, pathology,
// treatment, prescription, ...). Opaque to the graph core.
type EdgeType string

const (
	EdgeTypeFunction     EdgeType = "function"
	EdgeTypePathology    EdgeType = "pathology"
	EdgeTypeDevelopment  EdgeType = "development"
	EdgeTypeSymptom      EdgeType = "symptom"
	EdgeTypeTreatment    EdgeType = "treatment"
	EdgeTypePrescription EdgeType = "prescription"
)

// Edge represents a relationship between two concepts. Edges are stored with a
// direction but traversed as undirected.
type Edge struct {
	Source      string   `json:"source" yaml:"source"`
	Target      string   `json:"target" yaml:"target"`
	Type        EdgeType `json:"type" yaml:"type"`
	Strength    float64  `json:"strength" yaml:"strength"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewEdge creates a new edge
func NewEdge(source, target string, edgeType EdgeType, strength float64) Edge {
	return Edge{
		Source:   source,
		Target:   target,
		Type:     edgeType,
		Strength: strength,
	}
}

// Neighbor is one adjacency entry: the node on the other side of an edge plus
// the edge's label and weight.
type Neighbor struct {
	ID       string   `json:"id"`
	EdgeType EdgeType `json:"edge_type"`
	Strength float64  `json:"strength"`
}

// DroppedEdge records an edge rejected while loading a snapshot
type DroppedEdge struct {
	Index  int    `json:"index"`
	Edge   Edge   `json:"edge"`
	Reason string `json:"reason"`
}
