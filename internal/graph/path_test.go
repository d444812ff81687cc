package graph

import (
	"math/rand"
	"testing"

	"conceptgraph/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortestPath(t *testing.T) {
	t.Run("chain end to end", func(t *testing.T) {
		h := chainHandle(t)
		path, ok := h.ShortestPath("liver", "xiaoyao_san")
		require.True(t, ok)
		assert.Equal(t, []string{"liver", "shuxie", "ganyu_qizhi", "shugan_liqi", "xiaoyao_san"}, path)
	})

	t.Run("traverses edges against their direction", func(t *testing.T) {
		h := chainHandle(t)
		path, ok := h.ShortestPath("xiaoyao_san", "shuxie")
		require.True(t, ok)
		assert.Equal(t, []string{"xiaoyao_san", "shugan_liqi", "ganyu_qizhi", "shuxie"}, path)
	})

	t.Run("path to self is trivial", func(t *testing.T) {
		h := chainHandle(t)
		for _, id := range []string{"liver", "ganyu_qizhi", "xiaoyao_san"} {
			path, ok := h.ShortestPath(id, id)
			require.True(t, ok)
			assert.Equal(t, []string{id}, path)
		}

		isolated := mustLoad(t, nodes("alone"), nil)
		path, ok := isolated.ShortestPath("alone", "alone")
		require.True(t, ok)
		assert.Equal(t, []string{"alone"}, path)
	})

	t.Run("disconnected components have no path", func(t *testing.T) {
		h := mustLoad(t, nodes("a", "b", "c", "d"), []domain.Edge{
			edge("a", "b"),
			edge("c", "d"),
		})
		path, ok := h.ShortestPath("a", "d")
		assert.False(t, ok)
		assert.Nil(t, path)
	})

	t.Run("unknown endpoints have no path", func(t *testing.T) {
		h := chainHandle(t)
		_, ok := h.ShortestPath("liver", "heart")
		assert.False(t, ok)
		_, ok = h.ShortestPath("heart", "liver")
		assert.False(t, ok)
		_, ok = h.ShortestPath("heart", "heart")
		assert.False(t, ok)
	})

	t.Run("ties broken by adjacency order", func(t *testing.T) {
		// two 2-hop routes s-a-t and s-b-t
		h := mustLoad(t, nodes("s", "a", "b", "t"), []domain.Edge{
			edge("s", "b"),
			edge("s", "a"),
			edge("a", "t"),
			edge("b", "t"),
		})
		path, ok := h.ShortestPath("s", "t")
		require.True(t, ok)
		assert.Equal(t, []string{"s", "b", "t"}, path)
	})

	t.Run("prefers fewer hops over stronger edges", func(t *testing.T) {
		h := mustLoad(t, nodes("s", "m", "t"), []domain.Edge{
			{Source: "s", Target: "m", Strength: 1.0},
			{Source: "m", Target: "t", Strength: 1.0},
			{Source: "s", Target: "t", Strength: 0.1},
		})
		path, ok := h.ShortestPath("s", "t")
		require.True(t, ok)
		assert.Equal(t, []string{"s", "t"}, path)
	})

	t.Run("length is minimal on generated graphs", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 60; i++ {
			ns, es := randomGraph(rng, 15, 18)
			h := mustLoad(t, ns, es)
			from := ns[rng.Intn(len(ns))].ID
			to := ns[rng.Intn(len(ns))].ID
			dist := hopDistances(ns, es, from)

			path, ok := h.ShortestPath(from, to)
			want, reachable := dist[to]
			require.Equal(t, reachable, ok, "%s -> %s", from, to)
			if !ok {
				continue
			}

			assert.Equal(t, want, len(path)-1)
			assert.Equal(t, from, path[0])
			assert.Equal(t, to, path[len(path)-1])
			for j := 1; j < len(path); j++ {
				assert.True(t, adjacent(h, path[j-1], path[j]), "%s and %s not adjacent", path[j-1], path[j])
			}
		}
	})

	t.Run("budget", func(t *testing.T) {
		h := chainHandle(t)

		_, err := h.ShortestPathWithBudget("liver", "xiaoyao_san", 2)
		assert.ErrorIs(t, err, domain.ErrBudgetExhausted)

		path, err := h.ShortestPathWithBudget("liver", "xiaoyao_san", 50)
		require.NoError(t, err)
		assert.Len(t, path, 5)

		_, err = h.ShortestPathWithBudget("liver", "xiaoyao_san", -1)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestFindPath(t *testing.T) {
	h := chainHandle(t)

	found := h.FindPath("liver", "ganyu_qizhi")
	assert.True(t, found.Found())
	assert.Equal(t, 2, found.Hops)
	assert.Equal(t, []string{"liver", "shuxie", "ganyu_qizhi"}, found.Path)

	missing := h.FindPath("liver", "heart")
	assert.False(t, missing.Found())
	assert.Equal(t, -1, missing.Hops)
	assert.NotNil(t, missing.Path)
	assert.Empty(t, missing.Path)

	self := h.FindPath("liver", "liver")
	assert.Equal(t, 0, self.Hops)
}

func adjacent(h *Handle, a, b string) bool {
	for _, nb := range h.Neighbors(a) {
		if nb.ID == b {
			return true
		}
	}
	return false
}
