package graph

import "github.com/willf/bitset"

// LongHopTable precomputes, for every long edge (p, v) with
// v-p >= blockWidth, which of its two endpoints each DP pass must
// retain in a persistent "farther" store rather than its rolling
// window: the source p for the forward pass (which visits vertices in
// increasing id order and reaches v only after p would otherwise have
// scrolled out of the window), and the far endpoint v for the reverse
// pass (which visits vertices in decreasing id order and reaches p
// only after v would otherwise have scrolled out). The two
// classifications are stored as willf/bitset.BitSet values rather
// than []bool, the same choice elprep's filters/ref-confidence.go
// makes for per-base flags (informativeBases *bitset.BitSet) instead
// of a boolean slice.
type LongHopTable struct {
	blockWidth int32
	forward    *bitset.BitSet
	target     *bitset.BitSet
}

// NewLongHopTable classifies every vertex of g against blockWidth.
// blockWidth must be a power of two (checked by config.Config, not
// here, since this is purely computational and should not depend on
// the config package).
func NewLongHopTable(g *CSR, blockWidth int32) *LongHopTable {
	n := uint(g.NumVertices())
	t := &LongHopTable{
		blockWidth: blockWidth,
		forward:    bitset.New(n),
		target:     bitset.New(n),
	}
	for v := int32(0); v < int32(g.NumVertices()); v++ {
		for _, p := range g.InNeighbors(v) {
			if v-p >= blockWidth {
				t.forward.Set(uint(p))
				// v is the far endpoint of this edge; the reverse pass
				// walks vertices in decreasing id order, so v is
				// visited before p and must keep its row alive in a
				// persistent store for p to read later.
				t.target.Set(uint(v))
			}
		}
	}
	return t
}

// IsLongForward reports whether vertex v needs its forward-pass score
// retained in the "farther" side store because one of its
// descendants along an in-edge lies outside the rolling window.
func (t *LongHopTable) IsLongForward(v int32) bool { return t.forward.Test(uint(v)) }

// IsTargetOfLongEdge reports whether v is the far endpoint of some
// long in-edge, i.e. whether the reverse-pass DP kernel must retain v's row
// in its persistent store rather than its rolling window: the reverse
// pass visits vertices in decreasing id order, so a near predecessor
// of v (in the original graph) is visited only after v, and if that
// predecessor lies blockWidth or more steps away v's row would
// otherwise have been evicted from the rolling window by then.
func (t *LongHopTable) IsTargetOfLongEdge(v int32) bool { return t.target.Test(uint(v)) }
