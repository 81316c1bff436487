package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/exascience/dagaligner/align"
)

func TestReportSequence(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.ReadStart(1, 5)
	r.BestScore(align.BestScoreInfo{
		Score:          5,
		RefColumnEnd:   4,
		RefColumnStart: 0,
		QryRowEnd:      4,
		QryRowStart:    0,
		Strand:         '+',
	})
	r.Cigar("5=")

	if err := r.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"aligning read #1, length = 5",
		"best score = 5, strand = +, ending at vertex id = 4, DP row = 4, DP col = 4",
		"cigar: 5=",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q does not contain %q", out, want)
		}
	}
}

func TestReportStampsRunID(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.ReadStart(1, 3)
	if !strings.Contains(buf.String(), r.RunID.String()) {
		t.Fatalf("output %q does not contain run id %s", buf.String(), r.RunID)
	}
}

func TestReportLatchesWriteError(t *testing.T) {
	r := New(failingWriter{})
	r.ReadStart(1, 3)
	if r.Err() == nil {
		t.Fatal("expected a latched write error")
	}
	r.Cigar("3=") // should be a no-op, not panic
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}
