package fastq

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "reads.fastq")
	if err := os.WriteFile(name, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return name
}

func TestParseFastqBasic(t *testing.T) {
	name := writeTemp(t, "@read1\nacgt\n+\nIIII\n@read2\nACGT\n+\nIIII\n")
	reads, err := ParseFastq(name)
	if err != nil {
		t.Fatalf("ParseFastq: %v", err)
	}
	if len(reads) != 2 {
		t.Fatalf("got %d reads, want 2", len(reads))
	}
	if reads[0].ID != "read1" || string(reads[0].Seq) != "ACGT" {
		t.Fatalf("read1 = %+v", reads[0])
	}
	if reads[1].ID != "read2" || string(reads[1].Seq) != "ACGT" {
		t.Fatalf("read2 = %+v", reads[1])
	}
}

func TestParseFastqMissingHeader(t *testing.T) {
	name := writeTemp(t, "read1\nACGT\n+\nIIII\n")
	if _, err := ParseFastq(name); err == nil {
		t.Fatal("expected error for missing '@' header")
	}
}

func TestParseFastqQualLengthMismatch(t *testing.T) {
	name := writeTemp(t, "@read1\nACGT\n+\nII\n")
	if _, err := ParseFastq(name); err == nil {
		t.Fatal("expected error for quality/sequence length mismatch")
	}
}

func TestParseFastqTruncated(t *testing.T) {
	name := writeTemp(t, "@read1\nACGT\n")
	if _, err := ParseFastq(name); err == nil {
		t.Fatal("expected error for truncated record")
	}
}

func TestParseFastqMissingFile(t *testing.T) {
	if _, err := ParseFastq(filepath.Join(t.TempDir(), "nope.fastq")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
