package align

// BestScoreInfo carries everything the pipeline learns about one
// query's best local alignment. One instance is created per input
// read, initialized to a zero Score before Phase 1, and its fields
// are then filled in monotonically as the read moves through the
// forward pass, the reverse pass, and traceback. The caller owns the
// slice these are stored in and indexes it by the read's original
// position, so output order is independent of batch completion order
// (see the concurrency model in SPEC_FULL.md §5).
type BestScoreInfo struct {
	Score int32

	// RefColumnEnd and RefColumnStart are vertex ids (0-indexed) in
	// the reference graph where the optimal alignment ends and
	// begins, respectively.
	RefColumnEnd   int32
	RefColumnStart int32

	// QryRowEnd and QryRowStart are 0-indexed, inclusive character
	// positions in the query.
	QryRowEnd   int32
	QryRowStart int32

	// Strand is '+' if the query aligned strictly better than its
	// reverse complement, '-' otherwise (ties included).
	Strand byte

	// VertexSeqOffset is the intra-vertex offset of RefColumnEnd; it
	// is always 0 for the single-character vertices this engine
	// supports, and exists as a separate field only so that
	// multi-character vertices remain a straightforward extension.
	VertexSeqOffset int32

	// CIGAR is the compacted edit transcript realizing Score.
	CIGAR string
}
