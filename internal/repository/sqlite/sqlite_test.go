package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"conceptgraph/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func testFragment() *domain.GraphFragment {
	f := domain.NewGraphFragment()
	// deliberately not sorted by id
	f.AddNode(domain.Node{ID: "pixu", Name: "脾虚", Type: domain.NodeTypePathology, Category: "病理", Level: 3})
	f.AddNode(domain.Node{ID: "spleen", Name: "脾", Type: domain.NodeTypeOrgan, Category: "脏腑", Level: 1, Description: "脾主运化"})
	f.AddNode(domain.Node{ID: "yunhua", Name: "主运化", Type: domain.NodeTypeFunction, Category: "生理功能", Level: 2})
	f.AddEdge(domain.Edge{Source: "spleen", Target: "yunhua", Type: domain.EdgeTypeFunction, Strength: 1.0, Description: "脾主运化"})
	f.AddEdge(domain.Edge{Source: "yunhua", Target: "pixu", Type: domain.EdgeTypePathology, Strength: 0.9})
	return f
}

func TestReplaceAndLoadSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("empty database loads an empty fragment", func(t *testing.T) {
		repo := newTestRepo(t)
		f, err := repo.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, f.Nodes)
		assert.Empty(t, f.Edges)
	})

	t.Run("round trip preserves order and fields", func(t *testing.T) {
		repo := newTestRepo(t)
		require.NoError(t, repo.ReplaceSnapshot(ctx, testFragment()))

		f, err := repo.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, testFragment(), f)
	})

	t.Run("replace discards the previous snapshot", func(t *testing.T) {
		repo := newTestRepo(t)
		require.NoError(t, repo.ReplaceSnapshot(ctx, testFragment()))

		next := domain.NewGraphFragment()
		next.AddNode(domain.NewNode("heart", "心", domain.NodeTypeOrgan, "脏腑", 1))
		require.NoError(t, repo.ReplaceSnapshot(ctx, next))

		f, err := repo.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, next, f)
	})

	t.Run("dangling edges and duplicate ids are stored as given", func(t *testing.T) {
		repo := newTestRepo(t)
		f := testFragment()
		f.AddNode(domain.NewNode("pixu", "dup", domain.NodeTypeSymptom, "症状", 4))
		f.AddEdge(domain.NewEdge("pixu", "ghost", domain.EdgeTypeSymptom, 0.5))
		require.NoError(t, repo.ReplaceSnapshot(ctx, f))

		loaded, err := repo.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, f, loaded)
	})

	t.Run("nil fragment", func(t *testing.T) {
		repo := newTestRepo(t)
		err := repo.ReplaceSnapshot(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("cancelled context leaves the stored snapshot intact", func(t *testing.T) {
		repo := newTestRepo(t)
		require.NoError(t, repo.ReplaceSnapshot(ctx, testFragment()))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, repo.ReplaceSnapshot(cancelled, domain.NewGraphFragment()))

		f, err := repo.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, testFragment(), f)
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Nodes)
	assert.Zero(t, stats.Edges)
	assert.Nil(t, stats.ImportedAt)

	require.NoError(t, repo.ReplaceSnapshot(ctx, testFragment()))

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 2, stats.Edges)
	require.NotNil(t, stats.ImportedAt)
}

func TestFileDatabasePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.db")

	repo, err := New(path)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceSnapshot(ctx, testFragment()))
	require.NoError(t, repo.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	f, err := reopened.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, testFragment(), f)
}
