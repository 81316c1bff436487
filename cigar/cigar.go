// Package cigar run-length encodes a traceback edit string into the
// compacted form spec.md §4.7 calls for, and validates it against the
// three CIGAR laws of spec.md §8: score, and query/reference length.
//
// No teacher or example package does exactly this — the closest
// analogue in the corpus, elprep's sam package, only ever consumes an
// existing CIGAR string; it never produces one from a raw edit
// string. Compaction and validation here are written directly against
// spec.md, in the plain, allocate-once style the rest of this port
// uses for small data transforms.
package cigar

import (
	"log"
	"strconv"
	"strings"

	"github.com/exascience/dagaligner/align"
	"github.com/exascience/dagaligner/traceback"
)

// Element is one run of the compacted CIGAR: Length repetitions of Op.
type Element struct {
	Length int32
	Op     traceback.Op
}

// Compact run-length encodes ops, which must be given oldest
// operation first (traceback.Result.Ops is already in this order).
func Compact(ops []traceback.Op) []Element {
	if len(ops) == 0 {
		return nil
	}
	elems := make([]Element, 0, len(ops))
	cur := ops[0]
	n := int32(1)
	for _, op := range ops[1:] {
		if op == cur {
			n++
			continue
		}
		elems = append(elems, Element{Length: n, Op: cur})
		cur = op
		n = 1
	}
	elems = append(elems, Element{Length: n, Op: cur})
	return elems
}

// String renders elems in the standard "<count><op>" form, e.g. "3=1X2=".
func String(elems []Element) string {
	var b strings.Builder
	for _, e := range elems {
		b.WriteString(strconv.Itoa(int(e.Length)))
		b.WriteByte(byte(e.Op))
	}
	return b.String()
}

// QueryConsumed returns the number of query characters the CIGAR
// consumes: match, mismatch and insertion ops.
func QueryConsumed(elems []Element) int32 {
	var n int32
	for _, e := range elems {
		switch e.Op {
		case traceback.OpMatch, traceback.OpMismatch, traceback.OpInsertion:
			n += e.Length
		}
	}
	return n
}

// ReferenceConsumed returns the number of reference characters the
// CIGAR consumes: match, mismatch and deletion ops.
func ReferenceConsumed(elems []Element) int32 {
	var n int32
	for _, e := range elems {
		switch e.Op {
		case traceback.OpMatch, traceback.OpMismatch, traceback.OpDeletion:
			n += e.Length
		}
	}
	return n
}

// ReplayScore recomputes the score implied by elems under scores,
// independent of however the CIGAR was produced: the CIGAR score law
// of spec.md §8.
func ReplayScore(elems []Element, scores align.Scores) int32 {
	var s int32
	for _, e := range elems {
		switch e.Op {
		case traceback.OpMatch:
			s += e.Length * scores.Match
		case traceback.OpMismatch:
			s -= e.Length * scores.Mismatch
		case traceback.OpInsertion:
			s -= e.Length * scores.Ins
		case traceback.OpDeletion:
			s -= e.Length * scores.Del
		}
	}
	return s
}

// Validate checks the CIGAR score and length laws of spec.md §8
// against the reported best score and the query/reference ranges the
// alignment is expected to span. A mismatch always means an
// implementation bug, never bad input — the same InvariantViolation
// convention dp.AssertConsistency and traceback's slab/score
// cross-check use — so Validate panics rather than returning an
// error a caller might swallow.
func Validate(elems []Element, scores align.Scores, bestScore, qryLen, refLen int32) {
	if got := ReplayScore(elems, scores); got != bestScore {
		log.Panicf("cigar: replayed score %d does not match reported best score %d", got, bestScore)
	}
	if got := QueryConsumed(elems); got != qryLen {
		log.Panicf("cigar: query-consuming ops sum to %d, want %d", got, qryLen)
	}
	if got := ReferenceConsumed(elems); got != refLen {
		log.Panicf("cigar: reference-consuming ops sum to %d, want %d", got, refLen)
	}
}
