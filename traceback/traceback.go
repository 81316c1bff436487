// Package traceback implements SPEC_FULL.md §4.6: given a forward
// endpoint, recompute a narrow slab of the DP matrix restricted to the
// vertices actually reachable within the alignment's length, then walk
// it backward to produce an edit string.
//
// Unlike the batched, lane-vectorized kernels in package dp, this is
// a scalar, single-read recomputation — matching the split in
// _examples/original_source/src/include/align.hpp between the
// vectorized Phase 1 scan and the scalar Phase 4 walk-back.
package traceback

import (
	"log"

	"github.com/exascience/dagaligner/align"
	"github.com/exascience/dagaligner/graph"
)

// Op is one edit operation, using the CIGAR alphabet spec.md §4.7
// calls for: '=' match, 'X' mismatch, 'I' insertion, 'D' deletion.
type Op byte

const (
	OpMatch     Op = '='
	OpMismatch  Op = 'X'
	OpInsertion Op = 'I'
	OpDeletion  Op = 'D'
)

// Result holds the walked-back edit string (oldest operation first)
// and the (vertex, row) the walk terminated at. StartRow counts
// characters consumed, the same convention Walk's bestRow parameter
// uses (row R means "R characters of the query have been consumed");
// converting to BestScoreInfo's 0-indexed QryRowStart is StartRow-1.
//
// ReferenceSteps is the number of reference-consuming ops (match,
// mismatch, deletion) actually walked. In a branching graph the
// vertex-id span from StartVertex to the alignment's end vertex is
// not the path length: the optimal path may skip over sibling
// branches' ids entirely, so id arithmetic overcounts. ReferenceSteps
// is the caller's source of truth for the CIGAR reference-length law
// of spec.md §8, not RefColumnEnd-RefColumnStart+1.
type Result struct {
	Ops            []Op
	StartVertex    int32
	StartRow       int32
	ReferenceSteps int32
}

// maxHopsForRead bounds computeLeftMostReachableVertex's backward
// search by the longest path of read-length characters the alignment
// could plausibly have taken, generously accounting for the DP
// engine mixing match/mismatch/insertion/deletion steps at possibly
// very different costs. spec.md §4.6 states the bound as
// "L·match/del + L"; read literally against the source, this is
// read length times the larger of the match and deletion costs, plus
// one extra read length as slack for insertions that consume no
// reference character.
func maxHopsForRead(scores align.Scores, readLen int32) int32 {
	unit := scores.Match
	if scores.Del > unit {
		unit = scores.Del
	}
	return readLen*unit + readLen
}

// Walk recomputes the slab ending at (bestRow, bestVertex) and walks
// it back to produce an edit string. read is the same orientation
// (original or reverse-complemented) the forward/reverse DP ran on.
// bestRow counts characters consumed (1-based), which is
// dp.Endpoint.Row+1 since dp.Endpoint.Row is the 0-indexed query
// position of the last consumed character.
func Walk(g *graph.CSR, scores align.Scores, read []byte, bestVertex, bestRow, bestScore int32) (*Result, error) {
	u, err := g.ComputeLeftMostReachableVertex(bestVertex, maxHopsForRead(scores, int32(len(read))))
	if err != nil {
		return nil, err
	}

	m := int(bestVertex-u) + 1
	local := func(v int32) int { return int(v - u) }

	// diffs[r-1][j] = cell(r,j) - cell(r-1,j) for r in [1,bestRow],
	// stored as int8: spec.md §4.6 bounds |diff| by
	// max(match, ins, del), which always fits.
	diffs := make([][]int8, bestRow)
	for r := range diffs {
		diffs[r] = make([]int8, m)
	}

	prevRow := make([]int32, m)
	curRow := make([]int32, m)

	for row := int32(0); row <= bestRow; row++ {
		for j := 0; j < m; j++ {
			v := u + int32(j)
			label := g.Label(v)
			var sub int32
			if row > 0 {
				sub = scores.Sub(read[row-1], label)
			}

			best := int32(0)
			if row > 0 && sub > best {
				best = sub
			}

			if row > 0 {
				for _, p := range g.InNeighbors(v) {
					if p < u {
						continue
					}
					if c := prevRow[local(p)] + sub; c > best {
						best = c
					}
				}
			}
			for _, p := range g.InNeighbors(v) {
				if p < u || p >= v {
					continue
				}
				if c := curRow[local(p)] - scores.Del; c > best {
					best = c
				}
			}
			if row > 0 {
				if c := prevRow[j] - scores.Ins; c > best {
					best = c
				}
			}

			curRow[j] = best
			if row > 0 {
				diff := best - prevRow[j]
				if diff > 127 || diff < -128 {
					log.Panicf("traceback: vertical difference %d overflowed int8 storage at vertex %d row %d", diff, v, row)
				}
				diffs[row-1][j] = int8(diff)
			}
		}
		copy(prevRow, curRow)
	}

	if curRow[local(bestVertex)] != bestScore {
		log.Panicf("traceback: slab recomputation score %d disagrees with reported best score %d", curRow[local(bestVertex)], bestScore)
	}

	return walkBack(g, scores, read, u, bestVertex, bestRow, curRow, diffs, m, local)
}

func walkBack(
	g *graph.CSR,
	scores align.Scores,
	read []byte,
	u, bestVertex, bestRow int32,
	bottomRow []int32,
	diffs [][]int8,
	m int,
	local func(int32) int,
) (*Result, error) {
	currentAbs := make([]int32, m)
	copy(currentAbs, bottomRow)

	v := bestVertex
	row := bestRow
	// lastV/lastRow track the most recent cell known to be part of
	// the alignment; a zero cell marks the reset boundary one step
	// before the alignment actually begins, so on that break the
	// walk reports lastV/lastRow, not the zero cell itself.
	lastV, lastRow := v, row
	var ops []Op

	for {
		cur := currentAbs[local(v)]
		if cur == 0 {
			v, row = lastV, lastRow
			break
		}
		lastV, lastRow = v, row

		label := g.Label(v)
		var sub int32
		var op Op
		if row > 0 {
			sub = scores.Sub(read[row-1], label)
			if read[row-1] == label {
				op = OpMatch
			} else {
				op = OpMismatch
			}
		}

		var aboveAbs []int32
		if row > 0 {
			aboveAbs = make([]int32, m)
			for j := 0; j < m; j++ {
				aboveAbs[j] = currentAbs[j] - int32(diffs[row-1][j])
			}
		}

		matched := false
		if row > 0 {
			for _, p := range g.InNeighbors(v) {
				if p < u {
					continue
				}
				if aboveAbs[local(p)]+sub == cur {
					ops = append(ops, op)
					v, row = p, row-1
					currentAbs = aboveAbs
					matched = true
					break
				}
			}
			if !matched && sub == cur {
				ops = append(ops, op)
				break
			}
		}
		if matched {
			continue
		}

		for _, p := range g.InNeighbors(v) {
			if p < u || p >= v {
				continue
			}
			if currentAbs[local(p)]-scores.Del == cur {
				ops = append(ops, OpDeletion)
				v = p
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if row > 0 && aboveAbs[local(v)]-scores.Ins == cur {
			ops = append(ops, OpInsertion)
			row = row - 1
			currentAbs = aboveAbs
			continue
		}

		log.Panicf("traceback: walk-back found no recurrence branch explaining vertex %d row %d", v, row)
	}

	reversed := make([]Op, len(ops))
	var referenceSteps int32
	for i, op := range ops {
		reversed[len(ops)-1-i] = op
		if op == OpMatch || op == OpMismatch || op == OpDeletion {
			referenceSteps++
		}
	}
	return &Result{Ops: reversed, StartVertex: v, StartRow: row, ReferenceSteps: referenceSteps}, nil
}
