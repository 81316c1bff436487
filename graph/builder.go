package graph

import "github.com/exascience/dagaligner/dagerr"

// Builder accumulates vertices and edges as they arrive off the wire,
// in whatever order the ingest format hands them to it, and then
// freezes them into a topologically sorted CSR. This mirrors the
// incremental-then-frozen lifecycle of elprep's kmerGraph
// (filters/assemble-reads.go): vertices and edges are added one at a
// time by id, and only rewritten into their final numbering once
// (there: updateVertexId while merging linear chains; here: Build
// remapping ingest-order ids to topological order).
type Builder struct {
	labels []byte
	edges  [][2]int32
}

// NewBuilder returns a Builder for a graph with exactly numVertices
// vertices, addressed by 0-based ids [0, numVertices).
func NewBuilder(numVertices int32) *Builder {
	return &Builder{labels: make([]byte, numVertices)}
}

// SetLabel sets the character label of vertex v.
func (b *Builder) SetLabel(v int32, label byte) {
	b.labels[v] = label
}

// AddEdge records a directed edge from -> to. Both ids are 0-based.
// Edges do not need to arrive in any particular order; Build
// topologically sorts the graph before freezing it.
func (b *Builder) AddEdge(from, to int32) {
	b.edges = append(b.edges, [2]int32{from, to})
}

// Build topologically sorts the accumulated vertices and edges (via
// Kahn's algorithm, which detects a cycle as a side effect of not
// being able to dequeue every vertex) and freezes the result into an
// immutable CSR. It fails with dagerr.InvalidGraph if the graph is
// cyclic or an edge references a vertex outside [0, numVertices), and
// runs CSR.Verify before returning.
func (b *Builder) Build() (*CSR, error) {
	n := int32(len(b.labels))
	for _, e := range b.edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			return nil, dagerr.New(dagerr.InvalidGraph, "edge references a vertex outside the declared vertex count")
		}
	}

	// Kahn's algorithm over the ingest-order ids.
	outAdj := make([][]int32, n)
	inDegree := make([]int32, n)
	for _, e := range b.edges {
		outAdj[e[0]] = append(outAdj[e[0]], e[1])
		inDegree[e[1]]++
	}

	queue := make([]int32, 0, n)
	for v := int32(0); v < n; v++ {
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	topoOrder := make([]int32, 0, n)
	for len(queue) > 0 {
		// Pop the smallest-id ready vertex so that ties among
		// independent sources resolve deterministically; a plain
		// queue would make the resulting numbering depend on
		// iteration order over the fan-in counts above.
		minIdx := 0
		for i := 1; i < len(queue); i++ {
			if queue[i] < queue[minIdx] {
				minIdx = i
			}
		}
		v := queue[minIdx]
		queue = append(queue[:minIdx], queue[minIdx+1:]...)

		topoOrder = append(topoOrder, v)
		for _, w := range outAdj[v] {
			inDegree[w]--
			if inDegree[w] == 0 {
				queue = append(queue, w)
			}
		}
	}

	if int32(len(topoOrder)) != n {
		return nil, dagerr.New(dagerr.InvalidGraph, "reference graph contains a cycle")
	}

	// newID[old] gives the 0-based topological rank of the ingest-order id.
	newID := make([]int32, n)
	for rank, old := range topoOrder {
		newID[old] = int32(rank)
	}

	labels := make([]byte, n)
	colOffset := make([]int32, n)
	for old, rank := range newID {
		labels[rank] = b.labels[old]
		colOffset[rank] = rank
	}

	outNeighbors := make([][]int32, n)
	inNeighbors := make([][]int32, n)
	for _, e := range b.edges {
		u, v := newID[e[0]], newID[e[1]]
		outNeighbors[u] = append(outNeighbors[u], v)
		inNeighbors[v] = append(inNeighbors[v], u)
	}

	g := &CSR{
		labels:    labels,
		colOffset: colOffset,
		numEdges:  len(b.edges),
	}
	g.inOffsets, g.inNeighbors = flatten(inNeighbors)
	g.outOffsets, g.outNeighbors = flatten(outNeighbors)

	sortAdjacency(g.inOffsets, g.inNeighbors)
	sortAdjacency(g.outOffsets, g.outNeighbors)

	if err := g.Verify(); err != nil {
		return nil, err
	}
	return g, nil
}

func flatten(adj [][]int32) (offsets, neighbors []int32) {
	offsets = make([]int32, len(adj)+1)
	for v, ns := range adj {
		offsets[v+1] = offsets[v] + int32(len(ns))
	}
	neighbors = make([]int32, offsets[len(adj)])
	for v, ns := range adj {
		copy(neighbors[offsets[v]:], ns)
	}
	return
}

func sortAdjacency(offsets, neighbors []int32) {
	for v := 0; v < len(offsets)-1; v++ {
		insertionSortInt32(neighbors[offsets[v]:offsets[v+1]])
	}
}

func insertionSortInt32(s []int32) {
	for i := 1; i < len(s); i++ {
		key := s[i]
		j := i - 1
		for j >= 0 && s[j] > key {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = key
	}
}
