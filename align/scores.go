// Package align holds the score-model constants and the per-query
// result record shared by the batcher, the DP engine and the
// traceback subsystem.
package align

// Scores holds the linear (non-affine) edit costs used throughout the
// engine. All four fields are non-negative; mismatch, ins and del are
// subtracted, match is added, exactly as elprep's filters/sw.go keeps
// matchValue/mismatchPenalty/gapOpenPenalty/gapExtendPenalty as a
// single small value group threaded through one alignment routine
// rather than scattered constants.
type Scores struct {
	Match    int32
	Mismatch int32
	Ins      int32
	Del      int32
}

// DefaultScores are the match=1, mismatch=1, ins=1, del=1 costs used
// throughout the property tests and scenario tests.
var DefaultScores = Scores{Match: 1, Mismatch: 1, Ins: 1, Del: 1}

// Sub returns the substitution score for aligning a query character
// against a reference character.
func (s Scores) Sub(a, b byte) int32 {
	if a == b {
		return s.Match
	}
	return -s.Mismatch
}
