// Package loader reads graph snapshots from the configured source: the
// embedded seed dataset, a JSON or YAML file, or the SQLite snapshot tables.
package loader

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"conceptgraph/internal/codec"
	"conceptgraph/internal/domain"
)

//go:embed data/builtin.yaml
var builtinYAML []byte

// LoadFile reads a snapshot file, choosing the codec from its extension
func LoadFile(path string) (*domain.GraphFragment, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	fragment, err := c.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fragment, nil
}

// Builtin returns a fresh copy of the embedded concept graph
func Builtin() *domain.GraphFragment {
	fragment, err := codec.NewYAMLCodec().Parse(bytes.NewReader(builtinYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded dataset is invalid: %v", err))
	}
	return fragment
}
