package graphio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func appendVertexRecord(buf *bytes.Buffer, oneBasedID uint32, seq string) {
	body := make([]byte, 1+6+len(seq))
	body[0] = recordVertex
	binary.BigEndian.PutUint32(body[1:5], oneBasedID)
	binary.BigEndian.PutUint16(body[5:7], uint16(len(seq)))
	copy(body[7:], seq)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	buf.Write(lenBuf[:])
	buf.Write(body)
}

func appendEdgeRecord(buf *bytes.Buffer, fromOneBased, toOneBased uint32, fromStart, toEnd bool, overlap int32) {
	body := make([]byte, 1+14)
	body[0] = recordEdge
	binary.BigEndian.PutUint32(body[1:5], fromOneBased)
	binary.BigEndian.PutUint32(body[5:9], toOneBased)
	if fromStart {
		body[9] = 1
	}
	if toEnd {
		body[10] = 1
	}
	binary.BigEndian.PutUint32(body[11:15], uint32(overlap))
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	buf.Write(lenBuf[:])
	buf.Write(body)
}

func writeFragmentFile(t *testing.T, buf *bytes.Buffer) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "graph.frag")
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return name
}

func TestParseFragmentStreamChain(t *testing.T) {
	var buf bytes.Buffer
	appendVertexRecord(&buf, 1, "A")
	appendVertexRecord(&buf, 2, "C")
	appendVertexRecord(&buf, 3, "G")
	appendEdgeRecord(&buf, 1, 2, false, false, 0)
	appendEdgeRecord(&buf, 2, 3, false, false, 0)

	g, err := ParseFragmentStream(writeFragmentFile(t, &buf))
	if err != nil {
		t.Fatalf("ParseFragmentStream: %v", err)
	}
	if g.NumVertices() != 3 || g.NumEdges() != 2 {
		t.Fatalf("got %d vertices, %d edges", g.NumVertices(), g.NumEdges())
	}
}

func TestParseFragmentStreamRejectsBiDirected(t *testing.T) {
	var buf bytes.Buffer
	appendVertexRecord(&buf, 1, "A")
	appendVertexRecord(&buf, 2, "C")
	appendEdgeRecord(&buf, 1, 2, true, false, 0)

	if _, err := ParseFragmentStream(writeFragmentFile(t, &buf)); err == nil {
		t.Fatal("expected UnsupportedGraph error for fromStart=true")
	}
}

func TestParseFragmentStreamRejectsOverlap(t *testing.T) {
	var buf bytes.Buffer
	appendVertexRecord(&buf, 1, "A")
	appendVertexRecord(&buf, 2, "C")
	appendEdgeRecord(&buf, 1, 2, false, false, 3)

	if _, err := ParseFragmentStream(writeFragmentFile(t, &buf)); err == nil {
		t.Fatal("expected UnsupportedGraph error for nonzero overlap")
	}
}

func TestParseFragmentStreamRejectsMultiCharVertex(t *testing.T) {
	var buf bytes.Buffer
	appendVertexRecord(&buf, 1, "ACGT")

	if _, err := ParseFragmentStream(writeFragmentFile(t, &buf)); err == nil {
		t.Fatal("expected UnsupportedGraph error for multi-character vertex")
	}
}
