package codec

import (
	"bytes"
	"strings"
	"testing"

	"conceptgraph/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFragment() *domain.GraphFragment {
	f := domain.NewGraphFragment()
	f.AddNode(domain.NewNode("liver", "肝", domain.NodeTypeOrgan, "脏腑", 1))
	f.AddNode(domain.NewNode("shuxie", "主疏泄", domain.NodeTypeFunction, "生理功能", 2))
	f.AddEdge(domain.NewEdge("liver", "shuxie", domain.EdgeTypeFunction, 1.0))
	return f
}

func TestJSONCodec(t *testing.T) {
	c := NewJSONCodec()
	assert.Equal(t, "json", c.Format())

	t.Run("accepts links as edges", func(t *testing.T) {
		input := `{
			"nodes": [{"id": "a", "name": "A", "type": "organ", "category": "x", "level": 1}],
			"links": [{"source": "a", "target": "b", "type": "function", "strength": 0.5}]
		}`
		f, err := c.Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, f.Nodes, 1)
		require.Len(t, f.Edges, 1)
		assert.Equal(t, "b", f.Edges[0].Target)
		assert.Equal(t, 0.5, f.Edges[0].Strength)
	})

	t.Run("edges come before links", func(t *testing.T) {
		input := `{"nodes": [], "edges": [{"source": "a", "target": "b"}], "links": [{"source": "c", "target": "d"}]}`
		f, err := c.Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, f.Edges, 2)
		assert.Equal(t, "a", f.Edges[0].Source)
		assert.Equal(t, "c", f.Edges[1].Source)
	})

	t.Run("export output parses back", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, c.Export(sampleFragment(), &buf))
		assert.Contains(t, buf.String(), `"edges"`)

		f, err := c.Parse(&buf)
		require.NoError(t, err)
		assert.Equal(t, sampleFragment(), f)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := c.Parse(strings.NewReader("{nodes"))
		assert.Error(t, err)
	})
}

func TestYAMLCodec(t *testing.T) {
	c := NewYAMLCodec()
	assert.Equal(t, "yaml", c.Format())

	t.Run("parses nodes and links", func(t *testing.T) {
		input := `
nodes:
  - id: liver
    name: 肝
    type: organ
    category: 脏腑
    level: 1
    description: 主疏泄
links:
  - source: liver
    target: shuxie
    type: function
    strength: 1.0
`
		f, err := c.Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, f.Nodes, 1)
		assert.Equal(t, domain.NodeTypeOrgan, f.Nodes[0].Type)
		assert.Equal(t, "主疏泄", f.Nodes[0].Description)
		require.Len(t, f.Edges, 1)
		assert.Equal(t, domain.EdgeTypeFunction, f.Edges[0].Type)
	})

	t.Run("empty document is an empty fragment", func(t *testing.T) {
		f, err := c.Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, f.Nodes)
		assert.Empty(t, f.Edges)
	})

	t.Run("export output parses back", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, c.Export(sampleFragment(), &buf))

		f, err := c.Parse(&buf)
		require.NoError(t, err)
		assert.Equal(t, sampleFragment(), f)
	})
}

func TestCodecLookup(t *testing.T) {
	tests := []struct {
		path    string
		format  string
		wantErr bool
	}{
		{"graph.json", "json", false},
		{"graph.yaml", "yaml", false},
		{"graph.YML", "yaml", false},
		{"graph.csv", "", true},
		{"graph", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, err := ForPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, c.Format())
		})
	}

	assert.Equal(t, "yaml", ForContentType("application/x-yaml").Format())
	assert.Equal(t, "json", ForContentType("application/json; charset=utf-8").Format())
	assert.Equal(t, "json", ForContentType("").Format())

	assert.Equal(t, "application/json", NewJSONCodec().ContentType())
	assert.Equal(t, "application/x-yaml", NewYAMLCodec().ContentType())
}
