package dp

import (
	"log"

	"github.com/exascience/dagaligner/batch"
)

// RunReverse runs the recurrence of SPEC_FULL.md §4.5 on the reversed
// graph and reversed reads: vertices are visited in decreasing id
// order, in-neighbors are replaced by out-neighbors, and each lane's
// read is walked back to front. forwardEndpoints supplies, per lane,
// the coordinate the forward pass reported; the "cell-boost" trick
// forces the argmax through that exact coordinate so the reverse pass
// reports the begin position of the same optimum path, not some other
// equally-scoring one.
func (e *Engine[T]) RunReverse(cg *CompiledGraph, b *batch.Batch, forwardEndpoints []Endpoint) ([]Endpoint, error) {
	g := cg.Graph
	n := int32(g.NumVertices())
	L := len(b.Reads)
	W := int(e.BlockWidth)
	H := int(e.BlockHeight)

	s := e.reversePools.get(int(n), W, H, L, cg.numTarget)
	defer e.reversePools.put(int(n), W, H, L, cg.numTarget, s)

	for i := range s.best {
		s.best[i] = Endpoint{}
	}
	for i := range s.lastRow[0] {
		s.lastRow[0][i] = 0
		s.lastRow[1][i] = 0
	}

	// targetRow/targetVertex: the boost coordinate for each lane, in
	// reverse-pass (row, vertex) terms. A lane with no forward
	// endpoint (empty batch slot, or an all-mismatch read) never
	// boosts.
	targetRow := make([]int32, L)
	boosts := make([]bool, L)
	for lane := 0; lane < L; lane++ {
		if lane >= len(forwardEndpoints) || !forwardEndpoints[lane].Valid {
			continue
		}
		length := int32(b.Lengths[lane])
		fw := forwardEndpoints[lane]
		if fw.Row < 0 || fw.Row >= length {
			continue
		}
		targetRow[lane] = length - 1 - fw.Row
		boosts[lane] = true
	}

	cur, prev := 0, 1
	numBlocks := (b.PaddedLen + H - 1) / H

	for blk := 0; blk < numBlocks; blk++ {
		rowBase := blk * H
		rowsInBlock := H
		if rowBase+rowsInBlock > b.PaddedLen {
			rowsInBlock = b.PaddedLen - rowBase
		}

		for vi := n - 1; vi >= 0; vi-- {
			v := vi
			label := g.Label(v)
			// The reverse pass's "predecessors" are v's out-neighbors
			// in the original graph: they are visited before v since
			// they carry larger ids.
			preds := g.OutNeighbors(v)
			colSlot := int(v) % W
			isLong := cg.targetIdx[v] >= 0
			fslot := 0
			if isLong {
				fslot = int(cg.targetIdx[v])
			}

			for l := 0; l < rowsInBlock; l++ {
				row := rowBase + l
				readRow := reverseRowView(b, row, L)
				dest := s.nearby.row(colSlot, l)
				var fdest []T
				if isLong {
					fdest = s.farther.row(fslot, l)
				}

				for lane := 0; lane < L; lane++ {
					if b.Reads[lane] < 0 {
						dest[lane] = 0
						if isLong {
							fdest[lane] = 0
						}
						continue
					}

					var sub int32
					if readRow[lane] == label {
						sub = int32(e.Scores.Match)
					} else {
						sub = -int32(e.Scores.Mismatch)
					}

					var up int32
					if l == 0 {
						up = int32(s.lastRow[prev][int(v)*L+lane])
					} else {
						up = int32(s.nearby.row(colSlot, l-1)[lane])
					}

					best := sub
					if best < 0 {
						best = 0
					}

					for _, p := range preds {
						// p is v's out-neighbor: p > v, and it is "near"
						// (rolling-window reachable) iff p-v < blockWidth.
						near := p-v < e.BlockWidth
						var diag int32
						if l == 0 {
							diag = int32(s.lastRow[prev][int(p)*L+lane])
						} else if near {
							diag = int32(s.nearby.row(int(p)%W, l-1)[lane])
						} else {
							diag = int32(s.farther.row(int(cg.targetIdx[p]), l-1)[lane])
						}
						if c := diag + sub; c > best {
							best = c
						}

						var horiz int32
						if near {
							horiz = int32(s.nearby.row(int(p)%W, l)[lane])
						} else {
							horiz = int32(s.farther.row(int(cg.targetIdx[p]), l)[lane])
						}
						if c := horiz - int32(e.Scores.Del); c > best {
							best = c
						}
					}

					if c := up - int32(e.Scores.Ins); c > best {
						best = c
					}

					if boosts[lane] && int32(row) == targetRow[lane] && v == forwardEndpoints[lane].Vertex {
						best = int32(e.Scores.Match) + 1
					}

					if err := checkOverflow(best, e.MaxScore); err != nil {
						return nil, err
					}

					dest[lane] = T(best)
					if isLong {
						fdest[lane] = T(best)
					}

					if best >= s.best[lane].Score {
						s.best[lane] = Endpoint{Score: best, Row: int32(row), Vertex: v, Valid: best > 0}
					}
				}
			}

			// Save v's bottom row now, before a later vertex reuses
			// colSlot in the rolling window.
			copy(s.lastRow[cur][int(v)*L:int(v)*L+L], s.nearby.row(colSlot, rowsInBlock-1))
		}
		cur, prev = prev, cur
	}

	result := make([]Endpoint, L)
	for lane := 0; lane < L; lane++ {
		result[lane] = s.best[lane]
		if boosts[lane] {
			result[lane].Score--
		}
	}
	return result, nil
}

// reverseRowView returns the reverse-pass character row: for each
// lane, the character at forward index length[lane]-1-row (row
// characters from the end of its read), or the pad sentinel once row
// runs past that lane's length.
func reverseRowView(b *batch.Batch, row int, laneWidth int) []byte {
	out := make([]byte, laneWidth)
	for lane := 0; lane < laneWidth; lane++ {
		length := b.Lengths[lane]
		if row >= length {
			out[lane] = batch.PadSentinel
			continue
		}
		fwdRow := length - 1 - row
		out[lane] = b.RowView(fwdRow, laneWidth)[lane]
	}
	return out
}

// AssertConsistency checks spec.md §4.5's forward/reverse agreement
// property: the reverse pass's already-de-boosted score must equal
// the forward pass's score. A mismatch means the boost trick failed
// to force the reverse argmax through the forward endpoint — an
// implementation bug, not a data problem, so it panics rather than
// returning an error the caller might swallow.
func AssertConsistency(forward, reverseEnd Endpoint) {
	if !forward.Valid {
		return
	}
	if forward.Score != reverseEnd.Score {
		log.Panicf("dp: forward/reverse score disagreement after boost correction: forward=%d reverse=%d", forward.Score, reverseEnd.Score)
	}
}
