// Package fastq implements query-read ingest: SPEC_FULL.md §6.2's
// "sequence of records each with an identifier and a nucleotide
// sequence". Grounded on elprep's fasta.ParseFasta
// (fasta/fasta-files.go) for the upper-casing-on-ingest rule, adapted
// to the four-line-per-record FASTQ format rather than FASTA's
// header/multi-line-body format.
package fastq

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/exascience/dagaligner/dagerr"
	"github.com/exascience/dagaligner/internal"
)

// Read is one query record: an identifier and an upper-cased
// nucleotide sequence. Quality scores are parsed for format fidelity
// but the alignment core (spec.md's "Non-goals: alignment quality
// scoring beyond raw score") never consults them.
type Read struct {
	ID   string
	Seq  []byte
	Qual []byte
}

// upperCaseTable maps every byte to its ingest form: a/c/g/t upper
// cased, A/C/G/T kept, and everything else (including ambiguity codes
// and quality characters that never belong here) mapped to a zero
// sentinel, the same value batch.PadSentinel pads with. The DP engine
// compares bytes directly, so such a query byte never matches a
// nucleotide label.
var upperCaseTable = func() [256]byte {
	var t [256]byte
	for _, c := range []byte("ACGT") {
		t[c] = c
		t[c+('a'-'A')] = c
	}
	return t
}()

// ParseFastq reads a FASTQ file and returns one Read per record, in
// file order. Reads are handed to the batcher unsorted; the batcher
// itself is responsible for the decreasing-length sort spec.md §4.2
// calls for.
func ParseFastq(filename string) ([]Read, error) {
	f, err := openFile(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var reads []Read
	lineNo := 0
	for {
		header, ok := nextLine(scanner, &lineNo)
		if !ok {
			break
		}
		if len(header) == 0 || header[0] != '@' {
			return nil, dagerr.New(dagerr.InvalidGraph, "fastq record missing '@' header at line "+strconv.Itoa(lineNo))
		}
		seqLine, ok := nextLine(scanner, &lineNo)
		if !ok {
			return nil, dagerr.New(dagerr.InvalidGraph, "fastq file truncated after header")
		}
		plusLine, ok := nextLine(scanner, &lineNo)
		if !ok || len(plusLine) == 0 || plusLine[0] != '+' {
			return nil, dagerr.New(dagerr.InvalidGraph, "fastq record missing '+' separator at line "+strconv.Itoa(lineNo))
		}
		qualLine, ok := nextLine(scanner, &lineNo)
		if !ok {
			return nil, dagerr.New(dagerr.InvalidGraph, "fastq file truncated after '+' separator")
		}
		if len(qualLine) != len(seqLine) {
			return nil, dagerr.New(dagerr.InvalidGraph, "fastq quality string length does not match sequence length")
		}

		seq := []byte(seqLine)
		for i, c := range seq {
			seq[i] = upperCaseTable[c]
		}

		reads = append(reads, Read{
			ID:   strings.TrimPrefix(header, "@"),
			Seq:  seq,
			Qual: []byte(qualLine),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, dagerr.Wrap(dagerr.InvalidGraph, "scanning fastq file", err)
	}
	return reads, nil
}

func nextLine(scanner *bufio.Scanner, lineNo *int) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	*lineNo++
	return scanner.Text(), true
}
