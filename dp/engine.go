// Package dp implements the forward and reverse vectorized Smith-
// Waterman-over-a-DAG kernels of SPEC_FULL.md §4.4/§4.5. Both
// directions run L lanes (one per read in a batch.Batch) in lockstep
// through the same recurrence, over vertices in topological order,
// while bounding the working set to a rolling window of blockWidth
// columns plus a persistent side store for vertices reached across a
// wider gap. Grounded on the flat-matrix, sync.Pool-backed scratch
// buffer pattern of elprep's filters/sw.go (int32Matrix, rowView) and
// filters/pairhmm.go (float64Matrix, matrix pooling), generalized from
// a plain string-vs-string matrix to a DAG-shaped one.
package dp

import (
	"sync"

	"golang.org/x/exp/constraints"

	"github.com/exascience/dagaligner/align"
	"github.com/exascience/dagaligner/dagerr"
	"github.com/exascience/dagaligner/graph"
)

// CompiledGraph precomputes the per-vertex bookkeeping the DP engine
// needs, once per reference graph, so it can be shared read-only
// across every batch and every worker goroutine (SPEC_FULL.md §5:
// "Graph and long-hop tables are read-only and shared by reference").
type CompiledGraph struct {
	Graph   *graph.CSR
	LongHop *graph.LongHopTable

	// forwardIdx[v] is the slot v owns in the forward pass's farther
	// store, or -1 if v never needs one.
	forwardIdx []int32
	numForward int

	// targetIdx[v] is the slot v owns in the reverse pass's farther
	// store, or -1 if v never needs one.
	targetIdx []int32
	numTarget int
}

// Compile precomputes a CompiledGraph for g using longHop's
// classification.
func Compile(g *graph.CSR, longHop *graph.LongHopTable) *CompiledGraph {
	n := int32(g.NumVertices())
	cg := &CompiledGraph{
		Graph:      g,
		LongHop:    longHop,
		forwardIdx: make([]int32, n),
		targetIdx:  make([]int32, n),
	}
	for v := int32(0); v < n; v++ {
		if longHop.IsLongForward(v) {
			cg.forwardIdx[v] = int32(cg.numForward)
			cg.numForward++
		} else {
			cg.forwardIdx[v] = -1
		}
		if longHop.IsTargetOfLongEdge(v) {
			cg.targetIdx[v] = int32(cg.numTarget)
			cg.numTarget++
		} else {
			cg.targetIdx[v] = -1
		}
	}
	return cg
}

// Endpoint is one lane's running-maximum tracker: the best score seen
// so far and the (row, vertex) coordinate it was set at. Tie policy is
// last-update-wins, matching spec.md §4.4's "latest wins" rule, which
// falls out naturally from using >= rather than > when updating.
type Endpoint struct {
	Score  int32
	Row    int32
	Vertex int32
	// Valid is false for a lane that never produced a positive score
	// (an all-sentinel padding lane, or a batch slot with no read).
	Valid bool
}

// Engine runs the DP recurrence at a fixed score precision T. Variants
// {int8,int16,int32} are monomorphized at compile time per
// SPEC_FULL.md §9's "tagged-variant dispatch, not runtime virtual
// calls" design note.
type Engine[T constraints.Signed] struct {
	Scores      align.Scores
	BlockWidth  int32
	BlockHeight int32
	MaxScore    T

	// forwardPools and reversePools are kept separate, never shared:
	// a forward-pass scratch's farther store is sized to
	// cg.numForward slots and a reverse-pass scratch's to
	// cg.numTarget slots, and those counts differ whenever a vertex
	// fans out multiple long edges (graph/longhop.go's per-vertex
	// source/target classification is not symmetric). Pooling both
	// passes under one key let RunReverse hand back a forward-sized
	// farther store, indexing past its backing array.
	forwardPools *scratchPools[T]
	reversePools *scratchPools[T]
}

// NewEngine constructs an Engine ready to run batches at precision T.
// maxScore is the largest value representable in T that the caller
// wants to allow before treating a cell as an overflow (typically
// derived from T's bit width by the caller, e.g. config.Config).
func NewEngine[T constraints.Signed](scores align.Scores, blockWidth, blockHeight int32, maxScore T) *Engine[T] {
	return &Engine[T]{
		Scores:       scores,
		BlockWidth:   blockWidth,
		BlockHeight:  blockHeight,
		MaxScore:     maxScore,
		forwardPools: newScratchPools[T](),
		reversePools: newScratchPools[T](),
	}
}

// columnStore holds, for a fixed number of vertex slots, blockHeight
// rows of L-wide score vectors. It backs both the "nearby" rolling
// window and the "farther" persistent side store; the only difference
// between the two uses is how slots are assigned to vertices.
type columnStore[T constraints.Signed] struct {
	height int
	lanes  int
	data   []T
}

func newColumnStore[T constraints.Signed](slots, height, lanes int) *columnStore[T] {
	return &columnStore[T]{height: height, lanes: lanes, data: make([]T, slots*height*lanes)}
}

func (c *columnStore[T]) row(slot, r int) []T {
	off := (slot*c.height + r) * c.lanes
	return c.data[off : off+c.lanes]
}

// scratch bundles the buffers one worker goroutine needs to run
// either pass over one batch; allocated once per worker and reused
// across batches via sync.Pool, mirroring
// filters/pairhmm.go's pairHMMMatricesPool.
type scratch[T constraints.Signed] struct {
	nearby   *columnStore[T]
	farther  *columnStore[T]
	lastRow  [2][]T
	best     []Endpoint
}

func newScratch[T constraints.Signed](n int, blockWidth, blockHeight, lanes, fartherSlots int) *scratch[T] {
	s := &scratch[T]{
		nearby:  newColumnStore[T](int(blockWidth), blockHeight, lanes),
		lastRow: [2][]T{make([]T, n*lanes), make([]T, n*lanes)},
		best:    make([]Endpoint, lanes),
	}
	if fartherSlots > 0 {
		s.farther = newColumnStore[T](fartherSlots, blockHeight, lanes)
	}
	return s
}

// scratchPools holds one sync.Pool per scratch shape (the key below),
// all at score precision T, so RunForward
// and RunReverse can reuse buffers across batches without a worker
// having to thread its own scratch struct through the caller's
// scheduling loop.
type scratchPools[T constraints.Signed] struct {
	mu    sync.Mutex
	pools map[[5]int]*sync.Pool // keyed by (n, blockWidth, blockHeight, lanes, fartherSlots)
}

func newScratchPools[T constraints.Signed]() *scratchPools[T] {
	return &scratchPools[T]{pools: make(map[[5]int]*sync.Pool)}
}

func (p *scratchPools[T]) get(n, blockWidth, blockHeight, lanes, fartherSlots int) *scratch[T] {
	key := [5]int{n, blockWidth, blockHeight, lanes, fartherSlots}
	p.mu.Lock()
	pool, ok := p.pools[key]
	if !ok {
		pool = &sync.Pool{New: func() interface{} {
			return newScratch[T](n, blockWidth, blockHeight, lanes, fartherSlots)
		}}
		p.pools[key] = pool
	}
	p.mu.Unlock()
	return pool.Get().(*scratch[T])
}

func (p *scratchPools[T]) put(n, blockWidth, blockHeight, lanes, fartherSlots int, s *scratch[T]) {
	key := [5]int{n, blockWidth, blockHeight, lanes, fartherSlots}
	p.mu.Lock()
	pool := p.pools[key]
	p.mu.Unlock()
	if pool != nil {
		pool.Put(s)
	}
}

// checkOverflow returns dagerr.ScoreOverflow if score cannot be
// represented in T without wraparound.
func checkOverflow[T constraints.Signed](score int32, maxScore T) error {
	if score > int32(maxScore) {
		return dagerr.New(dagerr.ScoreOverflow, "DP cell exceeds the configured score precision")
	}
	return nil
}

// ToBestScoreInfo converts one lane's forward/reverse endpoints into
// the caller-facing result record. readLength converts reverseEnd.Row
// (a "steps from the end of the read" coordinate, per RunReverse) back
// into a forward-oriented 0-based row. CIGAR is left empty for the
// caller to fill in; strand is supplied by the caller since it depends
// on which orientation (original or reverse-complemented) produced the
// better score; VertexSeqOffset is always 0.
func ToBestScoreInfo(forward, reverseEnd Endpoint, readLength int32, strand byte) align.BestScoreInfo {
	return align.BestScoreInfo{
		Score:           forward.Score,
		RefColumnEnd:    forward.Vertex,
		RefColumnStart:  reverseEnd.Vertex,
		QryRowEnd:       forward.Row,
		QryRowStart:     readLength - 1 - reverseEnd.Row,
		Strand:          strand,
		VertexSeqOffset: 0,
	}
}
