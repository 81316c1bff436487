package dp

import (
	"testing"

	"github.com/exascience/dagaligner/align"
	"github.com/exascience/dagaligner/batch"
	"github.com/exascience/dagaligner/fastq"
	"github.com/exascience/dagaligner/graph"
)

func chainGraph(t *testing.T, labels string) *graph.CSR {
	t.Helper()
	b := graph.NewBuilder(int32(len(labels)))
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

func singleReadBatch(t *testing.T, seq string, laneWidth int, blockHeight int32) *batch.Batch {
	t.Helper()
	reads := []fastq.Read{{Seq: []byte(seq)}}
	order := batch.SortByDecreasingLength(reads)
	batcher := batch.Batcher{LaneWidth: laneWidth, BlockHeight: int(blockHeight)}
	batches := batcher.Make(reads, order)
	return &batches[0]
}

// TestForwardReverseChain exercises scenario S1 from the alignment
// test matrix: a perfect match along a simple chain scores the read
// length and the reverse pass's boosted score agrees with forward's
// after the boost correction.
func TestForwardReverseChain(t *testing.T) {
	g := chainGraph(t, "ACGTA")
	longHop := graph.NewLongHopTable(g, 2)
	cg := Compile(g, longHop)
	b := singleReadBatch(t, "ACGTA", 1, 2)

	engine := NewEngine[int32](align.DefaultScores, 2, 2, 1000)

	fwd, err := engine.RunForward(cg, b)
	if err != nil {
		t.Fatalf("RunForward: %v", err)
	}
	if !fwd[0].Valid || fwd[0].Score != 5 {
		t.Fatalf("forward endpoint = %+v, want score 5", fwd[0])
	}
	if fwd[0].Vertex != 4 || fwd[0].Row != 4 {
		t.Fatalf("forward endpoint coordinates = %+v, want vertex 4 row 4", fwd[0])
	}

	rev, err := engine.RunReverse(cg, b, fwd)
	if err != nil {
		t.Fatalf("RunReverse: %v", err)
	}
	AssertConsistency(fwd[0], rev[0])
	if rev[0].Vertex != 0 {
		t.Fatalf("reverse endpoint vertex = %d, want 0", rev[0].Vertex)
	}

	info := ToBestScoreInfo(fwd[0], rev[0], int32(len("ACGTA")), '+')
	if info.QryRowStart != 0 {
		t.Fatalf("QryRowStart = %d, want 0", info.QryRowStart)
	}
}

// TestForwardMismatchTakesDeletionOrMismatch exercises scenario S2:
// a read one character short of the chain still finds a local
// alignment of the surviving prefix and suffix.
func TestForwardMismatchTakesDeletionOrMismatch(t *testing.T) {
	g := chainGraph(t, "ACGTA")
	longHop := graph.NewLongHopTable(g, 2)
	cg := Compile(g, longHop)
	b := singleReadBatch(t, "ACTA", 1, 2)

	engine := NewEngine[int32](align.DefaultScores, 2, 2, 1000)
	fwd, err := engine.RunForward(cg, b)
	if err != nil {
		t.Fatalf("RunForward: %v", err)
	}
	if fwd[0].Score != 3 {
		t.Fatalf("forward score = %d, want 3", fwd[0].Score)
	}
}

// TestForwardBubbleTakesBothPaths exercises scenarios S3/S4: a bubble
// graph scores equally well through either branch.
func TestForwardBubbleTakesBothPaths(t *testing.T) {
	b := graph.NewBuilder(5)
	b.SetLabel(0, 'A')
	b.SetLabel(1, 'C')
	b.SetLabel(2, 'G')
	b.SetLabel(3, 'T')
	b.SetLabel(4, 'X')
	b.AddEdge(0, 1)
	b.AddEdge(0, 2)
	b.AddEdge(1, 3)
	b.AddEdge(2, 3)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	longHop := graph.NewLongHopTable(g, 2)
	cg := Compile(g, longHop)

	engine := NewEngine[int32](align.DefaultScores, 2, 2, 1000)

	for _, seq := range []string{"ACT", "AGT"} {
		batch := singleReadBatch(t, seq, 1, 2)
		fwd, err := engine.RunForward(cg, batch)
		if err != nil {
			t.Fatalf("RunForward(%s): %v", seq, err)
		}
		if fwd[0].Score != 3 {
			t.Fatalf("RunForward(%s) score = %d, want 3", seq, fwd[0].Score)
		}
	}
}

func TestScoreOverflowDetected(t *testing.T) {
	g := chainGraph(t, "AAAA")
	longHop := graph.NewLongHopTable(g, 2)
	cg := Compile(g, longHop)
	b := singleReadBatch(t, "AAAA", 1, 2)

	engine := NewEngine[int32](align.DefaultScores, 2, 2, int32(2))
	if _, err := engine.RunForward(cg, b); err == nil {
		t.Fatal("expected ScoreOverflow error when max score is too small")
	}
}
