// Package dagerr defines the error kinds surfaced by ingest and the
// alignment engine, in the idiomatic-Go generalization of elprep's
// mix of returned errors at parsing boundaries (see vcf.Open,
// bed.ParseBed) and log.Panic/log.Fatal at hard invariant violations
// (see sam/sam-types.go's Alignment.RG, filters/haplotypecaller.go).
package dagerr

import "fmt"

// Kind classifies an *Error.
type Kind int

const (
	// InputNotFound means a file path was not accessible.
	InputNotFound Kind = iota
	// InvalidGraph means a cycle was detected, CSR verification
	// failed, or an edge referenced a nonexistent vertex.
	InvalidGraph
	// UnsupportedGraph means a bi-directed edge flag was set, an
	// edge had nonzero overlap, or a vertex carried more than one
	// character where the DP engine requires single characters.
	UnsupportedGraph
	// ScoreOverflow means a DP cell would exceed the chosen score
	// precision.
	ScoreOverflow
	// InvariantViolation means a recomputed score disagreed with the
	// Phase 1 score, or a CIGAR's implied score disagreed with the
	// reported score. Always indicates an implementation bug, never
	// bad input.
	InvariantViolation
)

func (k Kind) String() string {
	switch k {
	case InputNotFound:
		return "InputNotFound"
	case InvalidGraph:
		return "InvalidGraph"
	case UnsupportedGraph:
		return "UnsupportedGraph"
	case ScoreOverflow:
		return "ScoreOverflow"
	case InvariantViolation:
		return "InvariantViolation"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type returned by ingest and the
// alignment engine.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns a new *Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap returns a new *Error of the given kind, wrapping cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
