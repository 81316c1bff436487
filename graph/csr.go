// Package graph implements the immutable, topologically sorted
// compressed-sparse-row representation of the reference DAG, and the
// long-hop classification used to bound the DP engine's rolling
// column window.
//
// The type here plays the same role for this repository that
// elprep's filters/assemble-reads.go kmerGraph plays for the
// haplotype assembler: a vertex/edge graph built incrementally from
// evidence and then queried during alignment. Where kmerGraph stays
// mutable for its whole lifetime (vertices and edges are added,
// merged and pruned repeatedly while assembling), CSR is built once
// by a Builder and frozen: the DP engine's inner loops only ever read
// it, from multiple worker goroutines at once, so freezing after
// construction is what makes that safe without locks (see
// SPEC_FULL.md §5).
package graph

import "github.com/exascience/dagaligner/dagerr"

// CSR is a directed acyclic graph with one label byte per vertex,
// stored as a pair of compressed-sparse-row adjacency tables (one for
// in-edges, one for out-edges) plus a per-vertex global column
// offset. Vertex ids are a topological order: every edge (u,v)
// satisfies u<v.
type CSR struct {
	labels []byte

	inOffsets   []int32
	inNeighbors []int32

	outOffsets   []int32
	outNeighbors []int32

	// colOffset maps a vertex to its position in the linearization of
	// the reference. For single-character vertices this always
	// equals the vertex id; it is a separate array (rather than an
	// alias for the id) so that a future multi-character-vertex
	// extension only has to change how this array is populated.
	colOffset []int32

	numEdges int
}

// NumVertices returns the number of vertices in the graph.
func (g *CSR) NumVertices() int { return len(g.labels) }

// NumEdges returns the number of edges in the graph.
func (g *CSR) NumEdges() int { return g.numEdges }

// Label returns the character label of vertex v.
func (g *CSR) Label(v int32) byte { return g.labels[v] }

// InNeighbors returns the ordered predecessor ids of vertex v.
func (g *CSR) InNeighbors(v int32) []int32 {
	return g.inNeighbors[g.inOffsets[v]:g.inOffsets[v+1]]
}

// OutNeighbors returns the ordered successor ids of vertex v.
func (g *CSR) OutNeighbors(v int32) []int32 {
	return g.outNeighbors[g.outOffsets[v]:g.outOffsets[v+1]]
}

// ColumnOffset returns the global column offset of vertex v, i.e. its
// position in the linearization of the reference. Equal to v for
// every vertex in this implementation, since all vertices carry a
// single-character label.
func (g *CSR) ColumnOffset(v int32) int32 { return g.colOffset[v] }

// TotalRefLength returns the sum of all vertex label lengths, i.e.
// the width of the Phase 1 DP matrix.
func (g *CSR) TotalRefLength() int32 { return int32(len(g.labels)) }

// Verify checks the CSR invariants: predecessor ids strictly below
// their successor, and in-CSR/out-CSR being mutual inverses.
// Builder.Build runs it once at load time, right after its
// topological sort.
func (g *CSR) Verify() error {
	n := int32(g.NumVertices())
	for v := int32(0); v < n; v++ {
		for _, p := range g.InNeighbors(v) {
			if p >= v {
				return dagerr.New(dagerr.InvalidGraph, "predecessor id not below successor id after sort")
			}
			if !containsSorted(g.OutNeighbors(p), v) {
				return dagerr.New(dagerr.InvalidGraph, "in-CSR and out-CSR are not mutual inverses")
			}
		}
		for _, s := range g.OutNeighbors(v) {
			if s <= v {
				return dagerr.New(dagerr.InvalidGraph, "successor id not above predecessor id after sort")
			}
			if !containsSorted(g.InNeighbors(s), v) {
				return dagerr.New(dagerr.InvalidGraph, "out-CSR and in-CSR are not mutual inverses")
			}
		}
	}
	return nil
}

func containsSorted(s []int32, v int32) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// ComputeLeftMostReachableVertex finds the smallest vertex u
// reachable backward from v along any path of at most maxHops
// characters, breaking ties by minimum vertex id. It is computed by
// a reverse breadth-first search over in-edges that accumulates path
// length in characters (one character per traversed vertex, since
// every vertex here carries a single-character label).
func (g *CSR) ComputeLeftMostReachableVertex(v int32, maxHops int32) (int32, error) {
	n := int32(g.NumVertices())
	if v < 0 || v >= n {
		return 0, dagerr.New(dagerr.InvalidGraph, "computeLeftMostReachableVertex: vertex id out of range")
	}

	bestDistance := make(map[int32]int32, 16)
	bestDistance[v] = 0
	queue := []int32{v}
	leftMost := v

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curDist := bestDistance[cur]
		if cur < leftMost {
			leftMost = cur
		}
		for _, p := range g.InNeighbors(cur) {
			d := curDist + 1
			if d > maxHops {
				continue
			}
			if prev, seen := bestDistance[p]; !seen || d < prev {
				bestDistance[p] = d
				queue = append(queue, p)
			}
		}
	}
	return leftMost, nil
}
