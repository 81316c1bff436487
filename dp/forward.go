package dp

import (
	"github.com/exascience/dagaligner/batch"
)

// RunForward runs the forward Smith-Waterman-over-a-DAG recurrence of
// SPEC_FULL.md §4.4 over one batch, in topological vertex order,
// tracking each lane's running best score and (row, vertex) endpoint.
func (e *Engine[T]) RunForward(cg *CompiledGraph, b *batch.Batch) ([]Endpoint, error) {
	g := cg.Graph
	n := int32(g.NumVertices())
	L := len(b.Reads)
	W := int(e.BlockWidth)
	H := int(e.BlockHeight)

	s := e.forwardPools.get(int(n), W, H, L, cg.numForward)
	defer e.forwardPools.put(int(n), W, H, L, cg.numForward, s)

	for i := range s.best {
		s.best[i] = Endpoint{}
	}
	for i := range s.lastRow[0] {
		s.lastRow[0][i] = 0
		s.lastRow[1][i] = 0
	}

	cur, prev := 0, 1
	numBlocks := (b.PaddedLen + H - 1) / H

	for blk := 0; blk < numBlocks; blk++ {
		rowBase := blk * H
		rowsInBlock := H
		if rowBase+rowsInBlock > b.PaddedLen {
			rowsInBlock = b.PaddedLen - rowBase
		}

		for v := int32(0); v < n; v++ {
			label := g.Label(v)
			preds := g.InNeighbors(v)
			colSlot := int(v) % W
			isLong := cg.forwardIdx[v] >= 0
			fslot := 0
			if isLong {
				fslot = int(cg.forwardIdx[v])
			}

			for l := 0; l < rowsInBlock; l++ {
				row := rowBase + l
				readRow := b.RowView(row, L)
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
						var diag int32
						near := v-p < e.BlockWidth
						if l == 0 {
							diag = int32(s.lastRow[prev][int(p)*L+lane])
						} else if near {
							diag = int32(s.nearby.row(int(p)%W, l-1)[lane])
						} else {
							diag = int32(s.farther.row(int(cg.forwardIdx[p]), l-1)[lane])
						}
						if c := diag + sub; c > best {
							best = c
						}

						var horiz int32
						if near {
							horiz = int32(s.nearby.row(int(p)%W, l)[lane])
						} else {
							horiz = int32(s.farther.row(int(cg.forwardIdx[p]), l)[lane])
						}
						if c := horiz - int32(e.Scores.Del); c > best {
							best = c
						}
					}

					if c := up - int32(e.Scores.Ins); c > best {
						best = c
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
	copy(result, s.best)
	return result, nil
}
