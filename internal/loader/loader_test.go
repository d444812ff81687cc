package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"conceptgraph/internal/config"
	"conceptgraph/internal/domain"
	"conceptgraph/internal/graph"
	"conceptgraph/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	f := Builtin()
	assert.Len(t, f.Nodes, 37)
	assert.Len(t, f.Edges, 33)

	t.Run("loads without warnings", func(t *testing.T) {
		_, report, err := graph.Load(f.Nodes, f.Edges)
		require.NoError(t, err)
		assert.False(t, report.HasWarnings())
	})

	t.Run("keeps descriptions", func(t *testing.T) {
		assert.Equal(t, "liver", f.Nodes[1].ID)
		assert.Equal(t, "肝主疏泄，藏血，为将军之官", f.Nodes[1].Description)
	})

	t.Run("returns an independent copy", func(t *testing.T) {
		f.Nodes[0].Name = "changed"
		assert.NotEqual(t, "changed", Builtin().Nodes[0].Name)
	})

	t.Run("liver reaches its formula", func(t *testing.T) {
		h, _, err := graph.Load(f.Nodes, f.Edges)
		require.NoError(t, err)
		path, ok := h.ShortestPath("liver", "xiaoyao_san")
		require.True(t, ok)
		assert.Equal(t, []string{"liver", "shuxie", "ganyu_qizhi", "shugan_liqi", "xiaoyao_san"}, path)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("json with links", func(t *testing.T) {
		path := filepath.Join(dir, "graph.json")
		content := `{"nodes":[{"id":"a","name":"A"},{"id":"b","name":"B"}],"links":[{"source":"a","target":"b","type":"function","strength":1}]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		f, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, f.Nodes, 2)
		assert.Len(t, f.Edges, 1)
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "graph.yml")
		require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - id: a\n    name: A\n"), 0644))

		f, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "A", f.Nodes[0].Name)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "graph.txt"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed content names the file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}

func TestNewSource(t *testing.T) {
	ctx := context.Background()

	t.Run("builtin", func(t *testing.T) {
		src, err := NewSource(config.SnapshotConfig{Source: config.SourceBuiltin}, nil)
		require.NoError(t, err)
		assert.Equal(t, "builtin", src.Name())

		f, err := src.Load(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, f.Nodes)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "graph.yaml")
		require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - id: x\n"), 0644))

		src, err := NewSource(config.SnapshotConfig{Source: config.SourceFile, Path: path}, nil)
		require.NoError(t, err)
		assert.Equal(t, "file:"+path, src.Name())

		f, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "x", f.Nodes[0].ID)
	})

	t.Run("file without path", func(t *testing.T) {
		_, err := NewSource(config.SnapshotConfig{Source: config.SourceFile}, nil)
		assert.Error(t, err)
	})

	t.Run("sqlite", func(t *testing.T) {
		repo, err := sqlite.New(":memory:")
		require.NoError(t, err)
		defer repo.Close()

		stored := domain.NewGraphFragment()
		stored.AddNode(domain.NewNode("heart", "心", domain.NodeTypeOrgan, "脏腑", 1))
		require.NoError(t, repo.ReplaceSnapshot(ctx, stored))

		src, err := NewSource(config.SnapshotConfig{Source: config.SourceSQLite}, repo)
		require.NoError(t, err)

		f, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, stored, f)
	})

	t.Run("sqlite without repository", func(t *testing.T) {
		_, err := NewSource(config.SnapshotConfig{Source: config.SourceSQLite}, nil)
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewSource(config.SnapshotConfig{Source: "s3"}, nil)
		assert.Error(t, err)
	})
}
