package domain

import (
	"testing"
)

func TestGraphFragment(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		g := NewGraphFragment()

		if g.Nodes == nil || g.Edges == nil {
			t.Fatal("expected collections to be initialized")
		}
		if len(g.Nodes) != 0 || len(g.Edges) != 0 {
			t.Errorf("expected empty fragment, got %d nodes, %d edges", len(g.Nodes), len(g.Edges))
		}
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		g := NewGraphFragment()
		g.AddNode(NewNode("b", "B", NodeTypeSymptom, "", 0))
		g.AddNode(NewNode("a", "A", NodeTypeSymptom, "", 0))
		g.AddEdge(NewEdge("b", "a", EdgeTypeSymptom, 1))

		if g.Nodes[0].ID != "b" || g.Nodes[1].ID != "a" {
			t.Errorf("expected order [b a], got [%s %s]", g.Nodes[0].ID, g.Nodes[1].ID)
		}
		if len(g.Edges) != 1 {
			t.Errorf("expected 1 edge, got %d", len(g.Edges))
		}
	})
}

func TestPathResultFound(t *testing.T) {
	if (PathResult{Hops: -1}).Found() {
		t.Error("expected Hops -1 to mean not found")
	}
	if !(PathResult{Path: []string{"a"}, Hops: 0}).Found() {
		t.Error("expected a zero-hop path to be found")
	}
}
