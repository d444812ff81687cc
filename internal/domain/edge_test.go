package domain

import (
	"testing"
)

func TestNewEdge(t *testing.T) {
	edge := NewEdge("liver", "shuxie", EdgeTypeFunction, 0.8)

	if edge.Source != "liver" || edge.Target != "shuxie" {
		t.Errorf("expected liver -> shuxie, got %s -> %s", edge.Source, edge.Target)
	}
	if edge.Type != EdgeTypeFunction {
		t.Errorf("expected Type %s, got %s", EdgeTypeFunction, edge.Type)
	}
	if edge.Strength != 0.8 {
		t.Errorf("expected Strength 0.8, got %v", edge.Strength)
	}
}
