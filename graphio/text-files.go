// Package graphio implements the two reference-graph ingest paths
// named in SPEC_FULL.md §6.1: a plain-text adjacency-list format and
// a length-prefixed binary fragment stream. Both parsers hand their
// result to a graph.Builder and then Sort/Verify it before returning,
// mirroring elprep's convention of validating structure right after
// parsing and before it reaches the filter pipeline (see
// sam.Open/ParseBamHeader running header validation before any
// alignment record is handed to a filter).
package graphio

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/exascience/dagaligner/dagerr"
	"github.com/exascience/dagaligner/graph"
	"github.com/exascience/dagaligner/internal"
)

// upperCaseLabel upper-cases nucleotide labels on ingest and leaves
// anything else as-is. The DP engine compares label and query bytes
// directly; since fastq maps every query byte outside A/C/G/T to a
// zero sentinel, a non-zero label outside the four bases never
// matches a query character. Grounded on elprep's fasta package upper-casing tables
// (fasta/fasta-files.go's iupacUpperTable), reduced to the plain
// upper-casing rule spec.md §3 calls for.
func upperCaseLabel(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// ParseText parses the plain-text reference graph format: line 1
// holds the vertex count; each subsequent line holds zero or more
// 1-based out-neighbor ids followed by the vertex's single-character
// label, space-separated. Grounded on bed.ParseBed's
// bufio.Scanner-plus-strings.Split line-oriented parsing idiom
// (bed/bed-files.go).
func ParseText(filename string) (*graph.CSR, error) {
	f, err := openFile(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, dagerr.New(dagerr.InvalidGraph, "text graph file is empty")
	}
	numVertices, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || numVertices <= 0 {
		return nil, dagerr.Wrap(dagerr.InvalidGraph, "invalid vertex count on line 1", err)
	}

	b := graph.NewBuilder(int32(numVertices))
	for row := 0; row < numVertices; row++ {
		if !scanner.Scan() {
			return nil, dagerr.New(dagerr.InvalidGraph, "text graph file ended before all vertex lines were read")
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			return nil, dagerr.New(dagerr.InvalidGraph, "vertex line missing a label")
		}
		label := fields[len(fields)-1]
		if len(label) != 1 {
			return nil, dagerr.New(dagerr.UnsupportedGraph, "multi-character vertex labels are not supported by the DP engine")
		}
		b.SetLabel(int32(row), upperCaseLabel(label[0]))

		for _, tok := range fields[:len(fields)-1] {
			oneBased, err := strconv.Atoi(tok)
			if err != nil {
				return nil, dagerr.Wrap(dagerr.InvalidGraph, "invalid out-neighbor id", err)
			}
			to := int32(oneBased - 1)
			if to < 0 || to >= int32(numVertices) {
				return nil, dagerr.New(dagerr.InvalidGraph, "edge references a vertex outside the declared vertex count")
			}
			b.AddEdge(int32(row), to)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, dagerr.Wrap(dagerr.InvalidGraph, "scanning text graph file", err)
	}

	return b.Build()
}
