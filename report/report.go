// Package report formats the per-read INFO-line output of spec.md §6
// to an io.Writer, stamping every line with a run id.
//
// Grounded on filters/print-bqsr.go's fprintln/fprintf-with-latched-
// error convention (BaseRecalibratorTables.fprintln/fprintf): every
// write goes through a small wrapper that no-ops once a prior write
// has already failed, so a caller only has to check the error once at
// the end of a report rather than after every line.
package report

import (
	"fmt"
	"io"

	"github.com/exascience/dagaligner/align"
	"github.com/google/uuid"
)

// Reporter writes INFO lines for one run to w. RunID uniquely tags
// every line from this run, the way a log aggregator would want to
// group them, using github.com/google/uuid the same way the teacher
// depends on it (elprep's go.mod carries it as a direct, unindirected
// dependency for exactly this kind of run-scoped identifier, even
// though no elprep source file happens to import it).
type Reporter struct {
	w     io.Writer
	RunID uuid.UUID
	err   error
}

// New returns a Reporter that writes to w, stamped with a fresh
// random run id.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w, RunID: uuid.New()}
}

func (r *Reporter) printf(format string, a ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, a...)
}

// Err returns the first write error encountered, if any.
func (r *Reporter) Err() error { return r.err }

// ReadStart prints the "aligning read #N" line, emitted before Phase
// 1 runs for that read.
func (r *Reporter) ReadStart(idx1Based int, length int) {
	r.printf("INFO, %s, aligning read #%d, length = %d\n", r.RunID, idx1Based, length)
}

// BestScore prints the endpoint line, emitted once the reverse pass
// has produced a BestScoreInfo.
func (r *Reporter) BestScore(info align.BestScoreInfo) {
	r.printf("INFO, %s, best score = %d, strand = %c, ending at vertex id = %d, DP row = %d, DP col = %d\n",
		r.RunID, info.Score, info.Strand, info.RefColumnEnd, info.QryRowEnd, info.RefColumnEnd+info.VertexSeqOffset)
}

// Cigar prints the compacted CIGAR line, emitted once the traceback
// and CIGAR compaction have completed for that read.
func (r *Reporter) Cigar(cigar string) {
	r.printf("INFO, %s, cigar: %s\n", r.RunID, cigar)
}
