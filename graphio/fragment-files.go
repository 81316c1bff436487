package graphio

import (
	"encoding/binary"
	"io"

	"github.com/exascience/dagaligner/dagerr"
	"github.com/exascience/dagaligner/graph"
	"github.com/exascience/dagaligner/internal"
)

// Fragment-stream record kinds. Grounded on sam's BAM record parsing
// (sam/bam-files.go), which reads a length prefix, dispatches on a
// tag byte, and then reads a fixed or variable payload depending on
// the tag — the same shape used here for vertex and edge records.
const (
	recordVertex byte = 0
	recordEdge   byte = 1
)

// ParseFragmentStream parses the length-prefixed binary reference
// graph format: a sequence of records, each preceded by a uint32
// byte length (covering everything after the length field itself,
// including the one-byte kind tag).
//
// Vertex record payload: uint32 1-based id, uint16 sequence length,
// then that many sequence bytes (only length 1 is supported by the
// vector DP engine; longer fragments are rejected as
// UnsupportedGraph, per spec.md's "multi-character vertices are a
// natural extension but not implemented").
//
// Edge record payload: uint32 1-based from id, uint32 1-based to id,
// one byte fromStart flag, one byte toEnd flag, int32 overlap. Per
// spec.md §6, the core only supports fromStart=false, toEnd=false,
// overlap=0; anything else is UnsupportedGraph.
func ParseFragmentStream(filename string) (*graph.CSR, error) {
	f, err := openFile(filename)
	if err != nil {
		return nil, err
	}
	defer internal.Close(f)

	labels := make(map[int32]byte)
	var edges [][2]int32
	maxVertex := int32(0)

	var lenBuf [4]byte
	for {
		_, err := io.ReadFull(f, lenBuf[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, dagerr.Wrap(dagerr.InvalidGraph, "reading fragment record length prefix", err)
		}
		recLen := binary.BigEndian.Uint32(lenBuf[:])
		if recLen == 0 {
			return nil, dagerr.New(dagerr.InvalidGraph, "zero-length fragment record")
		}
		payload := make([]byte, recLen)
		if _, err := io.ReadFull(f, payload); err != nil {
			return nil, dagerr.Wrap(dagerr.InvalidGraph, "reading fragment record payload", err)
		}

		kind := payload[0]
		body := payload[1:]
		switch kind {
		case recordVertex:
			v, seq, err := parseVertexRecord(body)
			if err != nil {
				return nil, err
			}
			if len(seq) != 1 {
				return nil, dagerr.New(dagerr.UnsupportedGraph, "multi-character vertex sequences are not supported")
			}
			labels[v] = upperCaseLabel(seq[0])
			if v > maxVertex {
				maxVertex = v
			}
		case recordEdge:
			from, to, err := parseEdgeRecord(body)
			if err != nil {
				return nil, err
			}
			edges = append(edges, [2]int32{from, to})
			if from > maxVertex {
				maxVertex = from
			}
			if to > maxVertex {
				maxVertex = to
			}
		default:
			return nil, dagerr.New(dagerr.InvalidGraph, "unrecognized fragment record kind")
		}
	}

	b := graph.NewBuilder(maxVertex + 1)
	for v, label := range labels {
		b.SetLabel(v, label)
	}
	for _, e := range edges {
		b.AddEdge(e[0], e[1])
	}
	return b.Build()
}

func parseVertexRecord(body []byte) (id int32, seq []byte, err error) {
	if len(body) < 6 {
		return 0, nil, dagerr.New(dagerr.InvalidGraph, "truncated vertex record")
	}
	oneBased := binary.BigEndian.Uint32(body[0:4])
	seqLen := binary.BigEndian.Uint16(body[4:6])
	if len(body) < 6+int(seqLen) {
		return 0, nil, dagerr.New(dagerr.InvalidGraph, "vertex record sequence shorter than declared length")
	}
	if oneBased == 0 {
		return 0, nil, dagerr.New(dagerr.InvalidGraph, "fragment vertex ids are 1-based, got 0")
	}
	return int32(oneBased) - 1, body[6 : 6+seqLen], nil
}

func parseEdgeRecord(body []byte) (from, to int32, err error) {
	if len(body) < 14 {
		return 0, 0, dagerr.New(dagerr.InvalidGraph, "truncated edge record")
	}
	fromOneBased := binary.BigEndian.Uint32(body[0:4])
	toOneBased := binary.BigEndian.Uint32(body[4:8])
	fromStart := body[8] != 0
	toEnd := body[9] != 0
	overlap := int32(binary.BigEndian.Uint32(body[10:14]))

	if fromStart || toEnd {
		return 0, 0, dagerr.New(dagerr.UnsupportedGraph, "bi-directed edges (fromStart/toEnd) are not supported")
	}
	if overlap != 0 {
		return 0, 0, dagerr.New(dagerr.UnsupportedGraph, "overlapping edges (overlap != 0) are not supported")
	}
	if fromOneBased == 0 || toOneBased == 0 {
		return 0, 0, dagerr.New(dagerr.InvalidGraph, "fragment edge ids are 1-based, got 0")
	}
	return int32(fromOneBased) - 1, int32(toOneBased) - 1, nil
}
