package graph

import (
	"math/rand"
	"testing"

	"conceptgraph/internal/domain"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helpers
// ============================================================================

func node(id string) domain.Node {
	return domain.Node{ID: id, Name: id}
}

func edge(source, target string) domain.Edge {
	return domain.Edge{Source: source, Target: target, Type: "related", Strength: 1.0}
}

func nodes(ids ...string) []domain.Node {
	out := make([]domain.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, node(id))
	}
	return out
}

// chainHandle is liver - shuxie - ganyu_qizhi - shugan_liqi - xiaoyao_san
func chainHandle(t *testing.T) *Handle {
	t.Helper()
	h, report, err := Load(
		[]domain.Node{
			{ID: "liver", Name: "肝", Type: domain.NodeTypeOrgan, Category: "脏腑", Level: 1},
			{ID: "shuxie", Name: "主疏泄", Type: domain.NodeTypeFunction, Category: "生理功能", Level: 2},
			{ID: "ganyu_qizhi", Name: "肝郁气滞", Type: domain.NodeTypePathology, Category: "病理", Level: 3},
			{ID: "shugan_liqi", Name: "疏肝理气", Type: domain.NodeTypeTreatment, Category: "治法", Level: 5},
			{ID: "xiaoyao_san", Name: "逍遥散", Type: domain.NodeTypeFormula, Category: "方剂", Level: 6},
		},
		[]domain.Edge{
			{Source: "liver", Target: "shuxie", Type: domain.EdgeTypeFunction, Strength: 1.0},
			{Source: "shuxie", Target: "ganyu_qizhi", Type: domain.EdgeTypePathology, Strength: 0.9},
			{Source: "ganyu_qizhi", Target: "shugan_liqi", Type: domain.EdgeTypeTreatment, Strength: 0.9},
			{Source: "shugan_liqi", Target: "xiaoyao_san", Type: domain.EdgeTypePrescription, Strength: 0.9},
		},
	)
	require.NoError(t, err)
	require.Empty(t, report.Dropped)
	return h
}

func mustLoad(t *testing.T, ns []domain.Node, es []domain.Edge) *Handle {
	t.Helper()
	h, _, err := Load(ns, es)
	require.NoError(t, err)
	return h
}

// randomTree builds a tree over n nodes with edges in shuffled order
func randomTree(rng *rand.Rand, n int) ([]domain.Node, []domain.Edge) {
	ns := make([]domain.Node, n)
	for i := range ns {
		ns[i] = node(nodeName(i))
	}
	es := make([]domain.Edge, 0, n-1)
	for i := 1; i < n; i++ {
		es = append(es, edge(nodeName(rng.Intn(i)), nodeName(i)))
	}
	rng.Shuffle(len(es), func(i, j int) { es[i], es[j] = es[j], es[i] })
	return ns, es
}

// randomGraph builds a graph over n nodes with m random edges
func randomGraph(rng *rand.Rand, n, m int) ([]domain.Node, []domain.Edge) {
	ns := make([]domain.Node, n)
	for i := range ns {
		ns[i] = node(nodeName(i))
	}
	es := make([]domain.Edge, 0, m)
	for i := 0; i < m; i++ {
		es = append(es, edge(nodeName(rng.Intn(n)), nodeName(rng.Intn(n))))
	}
	return ns, es
}

func nodeName(i int) string {
	return "n" + string(rune('A'+i/26)) + string(rune('a'+i%26))
}

// hopDistances is an independent BFS over the raw edge list used to cross-check
// the adjacency index.
func hopDistances(ns []domain.Node, es []domain.Edge, from string) map[string]int {
	adj := make(map[string][]string)
	for _, e := range es {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}
	dist := map[string]int{from: 0}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if _, ok := dist[next]; ok {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

func relatedIDs(related []domain.RelatedConcept) []string {
	ids := make([]string, 0, len(related))
	for _, r := range related {
		ids = append(ids, r.ID)
	}
	return ids
}
