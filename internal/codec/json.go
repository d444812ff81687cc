package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"conceptgraph/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the MIME type of exported documents
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// jsonFragment accepts edges under either "edges" or "links"
type jsonFragment struct {
	Nodes []domain.Node `json:"nodes"`
	Edges []domain.Edge `json:"edges"`
	Links []domain.Edge `json:"links"`
}

// Parse imports graph data from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.GraphFragment, error) {
	var jf jsonFragment
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&jf); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	fragment := domain.NewGraphFragment()
	fragment.Nodes = append(fragment.Nodes, jf.Nodes...)
	fragment.Edges = append(fragment.Edges, jf.Edges...)
	fragment.Edges = append(fragment.Edges, jf.Links...)

	return fragment, nil
}

// Export exports graph data to JSON
func (c *JSONCodec) Export(fragment *domain.GraphFragment, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(fragment); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
