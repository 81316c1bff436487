// Package batch implements the read batcher of SPEC_FULL.md §4.2:
// sort queries by decreasing length, pack them into groups of L
// lanes, pad each group to a multiple of the block height, and emit a
// struct-of-arrays character buffer with per-batch prefix offsets.
package batch

import (
	psort "github.com/exascience/pargo/sort"

	"github.com/exascience/dagaligner/fastq"
)

// Batch is a contiguous range of up to L reads after the global
// length sort, padded to a common length that is a multiple of
// blockHeight. Chars is stored struct-of-arrays: Chars[h*L+lane] is
// the character at row h of the given lane's read, matching the
// access pattern the forward/reverse DP kernels want when they load
// one row across all lanes at once.
type Batch struct {
	// Reads are indices into the reads slice passed to Make (the
	// caller's original order, before sorting) occupying each lane;
	// unused trailing lanes (when the last batch is not full) hold -1.
	Reads []int
	// Lengths holds each occupied lane's real (unpadded) length.
	Lengths []int
	// PaddedLen is the common padded length shared by every lane in
	// the batch, a multiple of blockHeight.
	PaddedLen int
	// Chars is the SoA character buffer, PaddedLen*L bytes.
	Chars []byte
	// Offset is this batch's starting position in the global sort
	// order passed to Make, so any batch can be located in O(1) by
	// index (Offset/LaneWidth) without scanning prior batches.
	Offset int
}

// PadSentinel is the padding character used to fill both unused
// lanes and the tail of shorter reads within a batch. It can never
// equal an upper-cased nucleotide label, so a padded cell never
// contributes a match.
const PadSentinel = 0

// lengthSorter adapts a slice of fastq.Read indices to
// pargo/sort.StableSorter, the same shape as elprep's
// sam.AlignmentSorter (sam/sam-types.go), sorting by decreasing
// sequence length instead of by alignment coordinate.
type lengthSorter struct {
	order []int
	reads []fastq.Read
}

func (s lengthSorter) Len() int { return len(s.order) }

func (s lengthSorter) Less(i, j int) bool {
	return len(s.reads[s.order[i]].Seq) > len(s.reads[s.order[j]].Seq)
}

func (s lengthSorter) SequentialSort(i, j int) {
	order, reads := s.order[i:j], s.reads
	for a := 1; a < len(order); a++ {
		key := order[a]
		b := a - 1
		for b >= 0 && len(reads[order[b]].Seq) < len(reads[key].Seq) {
			order[b+1] = order[b]
			b--
		}
		order[b+1] = key
	}
}

func (s lengthSorter) NewTemp() psort.StableSorter {
	return lengthSorter{order: make([]int, len(s.order)), reads: s.reads}
}

func (s lengthSorter) Assign(p psort.StableSorter) func(i, j, length int) {
	dst, src := s.order, p.(lengthSorter).order
	return func(i, j, length int) {
		copy(dst[i:i+length], src[j:j+length])
	}
}

// SortByDecreasingLength returns the indices of reads in order of
// decreasing sequence length, stable on ties (ties keep their
// original relative order, matching sam.By.ParallelStableSort's
// stability guarantee).
func SortByDecreasingLength(reads []fastq.Read) []int {
	order := make([]int, len(reads))
	for i := range order {
		order[i] = i
	}
	psort.StableSort(lengthSorter{order: order, reads: reads})
	return order
}

// Batcher packs sorted reads into fixed-width lane batches.
type Batcher struct {
	LaneWidth   int // L
	BlockHeight int // H, must divide every batch's PaddedLen
}

// Make splits reads (already sorted by SortByDecreasingLength, or in
// whatever order the caller wants lanes assigned) into Batches of up
// to LaneWidth reads each.
func (b Batcher) Make(reads []fastq.Read, order []int) []Batch {
	var batches []Batch
	for start := 0; start < len(order); start += b.LaneWidth {
		end := start + b.LaneWidth
		if end > len(order) {
			end = len(order)
		}
		batch := b.makeOne(reads, order[start:end])
		batch.Offset = start
		batches = append(batches, batch)
	}
	return batches
}

func (b Batcher) makeOne(reads []fastq.Read, laneOrder []int) Batch {
	longest := 0
	for _, idx := range laneOrder {
		if n := len(reads[idx].Seq); n > longest {
			longest = n
		}
	}
	padded := roundUpToMultiple(longest, b.BlockHeight)
	if padded == 0 {
		padded = b.BlockHeight
	}

	batch := Batch{
		Reads:     make([]int, b.LaneWidth),
		Lengths:   make([]int, b.LaneWidth),
		PaddedLen: padded,
		Chars:     make([]byte, padded*b.LaneWidth),
	}
	for lane := 0; lane < b.LaneWidth; lane++ {
		if lane >= len(laneOrder) {
			batch.Reads[lane] = -1
			continue
		}
		idx := laneOrder[lane]
		batch.Reads[lane] = idx
		seq := reads[idx].Seq
		batch.Lengths[lane] = len(seq)
		for h, c := range seq {
			batch.Chars[h*b.LaneWidth+lane] = c
		}
		// Rows beyond len(seq) stay PadSentinel via the zero-valued
		// byte slice; unused lanes are entirely PadSentinel too.
	}
	return batch
}

// RowView returns the row of characters at DP row h across every
// lane of the batch, the SoA slice the vector kernels load one row at
// a time.
func (batch Batch) RowView(h int, laneWidth int) []byte {
	return batch.Chars[h*laneWidth : (h+1)*laneWidth]
}

func roundUpToMultiple(n, m int) int {
	if m <= 0 {
		return n
	}
	r := n % m
	if r == 0 {
		return n
	}
	return n + (m - r)
}
