package graph

import "testing"

func TestLongHopClassification(t *testing.T) {
	b := NewBuilder(6)
	for i := int32(0); i < 6; i++ {
		b.SetLabel(i, 'A')
	}
	for i := int32(0); i < 5; i++ {
		b.AddEdge(i, i+1)
	}
	// A long-range edge from 0 to 5 spans further than blockWidth=2.
	b.AddEdge(0, 5)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	table := NewLongHopTable(g, 2)
	if !table.IsLongForward(0) {
		t.Fatal("vertex 0 should be classified as a long forward hop source")
	}
	if table.IsLongForward(4) {
		t.Fatal("vertex 4 has only a short edge to 5, should not be long")
	}
	if !table.IsTargetOfLongEdge(5) {
		t.Fatal("vertex 5 is the far endpoint of edge 0->5, should need reverse-pass persistent storage")
	}
	if table.IsTargetOfLongEdge(1) {
		t.Fatal("vertex 1 is only reached by a short edge, should not be a long-edge target")
	}
}
