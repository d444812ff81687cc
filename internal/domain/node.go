package domain

// NodeType tags the kind of concept a node represents. The graph core treats it
// as an opaque string; the constants below only name the values used by the
// built-in dataset.
type NodeType string

const (
	NodeTypeOrgan     NodeType = "organ"
	NodeTypeFunction  NodeType = "function"
	NodeTypePathology NodeType = "pathology"
	NodeTypeSymptom   NodeType = "symptom"
	NodeTypeTreatment NodeType = "treatment"
	NodeTypeFormula   NodeType = "formula"
)

// Node represents a concept in the knowledge graph
type Node struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Type        NodeType `json:"type" yaml:"type"`
	Category    string   `json:"category" yaml:"category"`
	Level       int      `json:"level" yaml:"level"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewNode creates a node with the identifying fields set
func NewNode(id, name string, nodeType NodeType, category string, level int) Node {
	return Node{
		ID:       id,
		Name:     name,
		Type:     nodeType,
		Category: category,
		Level:    level,
	}
}
