package graph

import "testing"

// buildChain builds a linear chain of len(labels) vertices labeled
// left to right by labels, 0 -> 1 -> ... -> n-1.
func buildChain(t *testing.T, labels string) *CSR {
	t.Helper()
	b := NewBuilder(int32(len(labels)))
	for i, c := range []byte(labels) {
		b.SetLabel(int32(i), c)
	}
	for i := 0; i < len(labels)-1; i++ {
		b.AddEdge(int32(i), int32(i+1))
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestChainTopology(t *testing.T) {
	g := buildChain(t, "ACGTA")
	if g.NumVertices() != 5 {
		t.Fatalf("NumVertices = %d, want 5", g.NumVertices())
	}
	if g.NumEdges() != 4 {
		t.Fatalf("NumEdges = %d, want 4", g.NumEdges())
	}
	for v := int32(0); v < 5; v++ {
		for _, p := range g.InNeighbors(v) {
			if p >= v {
				t.Fatalf("predecessor %d not below %d", p, v)
			}
		}
	}
	if err := g.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

// buildBubble builds start(0)->A(1)->{X(2),Y(3)}->T(4), the
// S3/S4 scenario graph from the spec.
func buildBubble(t *testing.T) *CSR {
	t.Helper()
	labels := "SACGT"
	// vertices: 0=S 1=A 2=C(X) 3=G(Y) 4=T ; edges 0-1,1-2,1-3,2-4,3-4
	b := NewBuilder(5)
	b.SetLabel(0, 'S')
	b.SetLabel(1, 'A')
	b.SetLabel(2, 'C')
	b.SetLabel(3, 'G')
	b.SetLabel(4, 'T')
	b.AddEdge(0, 1)
	b.AddEdge(1, 2)
	b.AddEdge(1, 3)
	b.AddEdge(2, 4)
	b.AddEdge(3, 4)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_ = labels
	return g
}

func TestBubbleTopology(t *testing.T) {
	g := buildBubble(t)
	if len(g.OutNeighbors(1)) != 2 {
		t.Fatalf("expected vertex 1 to fan out to 2 successors, got %v", g.OutNeighbors(1))
	}
	if len(g.InNeighbors(4)) != 2 {
		t.Fatalf("expected vertex 4 to have 2 predecessors, got %v", g.InNeighbors(4))
	}
}

func TestCycleRejected(t *testing.T) {
	b := NewBuilder(3)
	b.AddEdge(0, 1)
	b.AddEdge(1, 2)
	b.AddEdge(2, 0)
	if _, err := b.Build(); err == nil {
		t.Fatal("expected cyclic graph to be rejected")
	}
}

func TestEdgeOutOfRange(t *testing.T) {
	b := NewBuilder(2)
	b.AddEdge(0, 5)
	if _, err := b.Build(); err == nil {
		t.Fatal("expected out-of-range edge to be rejected")
	}
}

func TestComputeLeftMostReachableVertex(t *testing.T) {
	g := buildChain(t, "AAAAAAAAAA")
	u, err := g.ComputeLeftMostReachableVertex(9, 3)
	if err != nil {
		t.Fatalf("ComputeLeftMostReachableVertex: %v", err)
	}
	if u != 6 {
		t.Fatalf("leftmost reachable = %d, want 6", u)
	}

	// Bounding beyond the graph's start should clamp at vertex 0.
	u, err = g.ComputeLeftMostReachableVertex(9, 1000)
	if err != nil {
		t.Fatalf("ComputeLeftMostReachableVertex: %v", err)
	}
	if u != 0 {
		t.Fatalf("leftmost reachable = %d, want 0", u)
	}
}

func TestComputeLeftMostReachableVertexInvalidVertex(t *testing.T) {
	g := buildChain(t, "ACGT")
	if _, err := g.ComputeLeftMostReachableVertex(99, 1); err == nil {
		t.Fatal("expected error for out-of-range vertex")
	}
}
