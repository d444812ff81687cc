package codec

import (
	"fmt"
	"io"

	"conceptgraph/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the MIME type of exported documents
func (c *YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// yamlFragment represents the YAML structure for graph data
type yamlFragment struct {
	Nodes []yamlNode `yaml:"nodes"`
	Edges []yamlEdge `yaml:"edges,omitempty"`
	Links []yamlEdge `yaml:"links,omitempty"`
}

type yamlNode struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Category    string `yaml:"category"`
	Level       int    `yaml:"level,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type yamlEdge struct {
	Source      string  `yaml:"source"`
	Target      string  `yaml:"target"`
	Type        string  `yaml:"type"`
	Strength    float64 `yaml:"strength"`
	Description string  `yaml:"description,omitempty"`
}

// Parse imports graph data from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.GraphFragment, error) {
	var yf yamlFragment
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	fragment := domain.NewGraphFragment()

	// Convert nodes
	for _, yn := range yf.Nodes {
		fragment.AddNode(domain.Node{
			ID:          yn.ID,
			Name:        yn.Name,
			Type:        domain.NodeType(yn.Type),
			Category:    yn.Category,
			Level:       yn.Level,
			Description: yn.Description,
		})
	}

	// Convert edges, then the "links" spelling
	for _, ye := range append(yf.Edges, yf.Links...) {
		fragment.AddEdge(domain.Edge{
			Source:      ye.Source,
			Target:      ye.Target,
			Type:        domain.EdgeType(ye.Type),
			Strength:    ye.Strength,
			Description: ye.Description,
		})
	}

	return fragment, nil
}

// Export exports graph data to YAML
func (c *YAMLCodec) Export(fragment *domain.GraphFragment, w io.Writer) error {
	yf := yamlFragment{
		Nodes: make([]yamlNode, 0, len(fragment.Nodes)),
		Edges: make([]yamlEdge, 0, len(fragment.Edges)),
	}

	for _, node := range fragment.Nodes {
		yf.Nodes = append(yf.Nodes, yamlNode{
			ID:          node.ID,
			Name:        node.Name,
			Type:        string(node.Type),
			Category:    node.Category,
			Level:       node.Level,
			Description: node.Description,
		})
	}

	for _, edge := range fragment.Edges {
		yf.Edges = append(yf.Edges, yamlEdge{
			Source:      edge.Source,
			Target:      edge.Target,
			Type:        string(edge.Type),
			Strength:    edge.Strength,
			Description: edge.Description,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yf); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
