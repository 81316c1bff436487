package cigar

import (
	"testing"

	"github.com/exascience/dagaligner/align"
	"github.com/exascience/dagaligner/traceback"
)

func ops(s string) []traceback.Op {
	o := make([]traceback.Op, len(s))
	for i := 0; i < len(s); i++ {
		o[i] = traceback.Op(s[i])
	}
	return o
}

func TestCompactAndString(t *testing.T) {
	elems := Compact(ops("====XX=="))
	if got := String(elems); got != "4=2X2=" {
		t.Fatalf("String = %q, want 4=2X2=", got)
	}
}

func TestCompactSingleRun(t *testing.T) {
	elems := Compact(ops("====="))
	if got := String(elems); got != "5=" {
		t.Fatalf("String = %q, want 5=", got)
	}
}

func TestCompactEmpty(t *testing.T) {
	if elems := Compact(nil); elems != nil {
		t.Fatalf("Compact(nil) = %v, want nil", elems)
	}
}

func TestReplayScoreMatchesScenarioS1(t *testing.T) {
	elems := Compact(ops("====="))
	if got := ReplayScore(elems, align.DefaultScores); got != 5 {
		t.Fatalf("ReplayScore = %d, want 5", got)
	}
}

func TestReplayScoreMixedOps(t *testing.T) {
	// 2=1D1= : two matches, one deletion, one match.
	elems := Compact(ops("=="))
	elems = append(elems, Element{Length: 1, Op: traceback.OpDeletion})
	elems = append(elems, Element{Length: 1, Op: traceback.OpMatch})
	if got := ReplayScore(elems, align.DefaultScores); got != 2 {
		t.Fatalf("ReplayScore = %d, want 2", got)
	}
}

func TestQueryAndReferenceConsumed(t *testing.T) {
	elems := []Element{
		{Length: 2, Op: traceback.OpMatch},
		{Length: 1, Op: traceback.OpInsertion},
		{Length: 1, Op: traceback.OpDeletion},
		{Length: 3, Op: traceback.OpMismatch},
	}
	if got := QueryConsumed(elems); got != 6 {
		t.Fatalf("QueryConsumed = %d, want 6", got)
	}
	if got := ReferenceConsumed(elems); got != 6 {
		t.Fatalf("ReferenceConsumed = %d, want 6", got)
	}
}

func TestValidatePassesForConsistentAlignment(t *testing.T) {
	elems := Compact(ops("====="))
	// Should not panic.
	Validate(elems, align.DefaultScores, 5, 5, 5)
}

func TestValidatePanicsOnScoreMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Validate did not panic on score mismatch")
		}
	}()
	elems := Compact(ops("====="))
	Validate(elems, align.DefaultScores, 999, 5, 5)
}
