// Command aligncmd wires the pipeline of SPEC_FULL.md §13 end to end:
// ingest (graphio, fastq) → batcher → forward/reverse DP → traceback
// → CIGAR compaction → report, one command reading two files and
// writing INFO lines to standard output.
//
// Grounded on _examples/ExaScience-elprep's main.go: a single
// top-level command that maps a returned error to log.Fatal's exit
// code 1, dispatching into the package that does the actual work
// rather than inlining logic in main itself.
package main

import (
	"io"
	"log"
	"math"
	"os"

	"golang.org/x/exp/constraints"

	"github.com/exascience/dagaligner/align"
	"github.com/exascience/dagaligner/batch"
	"github.com/exascience/dagaligner/cigar"
	"github.com/exascience/dagaligner/config"
	"github.com/exascience/dagaligner/dp"
	"github.com/exascience/dagaligner/fastq"
	"github.com/exascience/dagaligner/graph"
	"github.com/exascience/dagaligner/graphio"
	"github.com/exascience/dagaligner/report"
	"github.com/exascience/dagaligner/traceback"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.Parse(args)
	if err != nil {
		return err
	}

	g, err := loadGraph(cfg)
	if err != nil {
		return err
	}

	reads, err := fastq.ParseFastq(cfg.ReadsFile)
	if err != nil {
		return err
	}
	rcReads := reverseComplementAll(reads)

	longHop := graph.NewLongHopTable(g, cfg.BlockWidth)
	cg := dp.Compile(g, longHop)

	order := batch.SortByDecreasingLength(reads)
	batcher := batch.Batcher{LaneWidth: cfg.LaneWidth(), BlockHeight: int(cfg.BlockHeight)}
	batches := batcher.Make(reads, order)
	rcBatches := batcher.Make(rcReads, order)

	rep := report.New(out)
	results := make([]align.BestScoreInfo, len(reads))

	switch cfg.Precision {
	case config.Precision8:
		err = alignBatches[int8](cg, reads, rcReads, batches, rcBatches, cfg, rep, results, math.MaxInt8)
	case config.Precision16:
		err = alignBatches[int16](cg, reads, rcReads, batches, rcBatches, cfg, rep, results, math.MaxInt16)
	case config.Precision32:
		err = alignBatches[int32](cg, reads, rcReads, batches, rcBatches, cfg, rep, results, math.MaxInt32)
	}
	if err != nil {
		return err
	}
	return rep.Err()
}

func loadGraph(cfg *config.Config) (*graph.CSR, error) {
	switch cfg.GraphKind {
	case "fragment":
		return graphio.ParseFragmentStream(cfg.GraphFile)
	default:
		return graphio.ParseText(cfg.GraphFile)
	}
}

// alignBatches runs the full forward/reverse/traceback/CIGAR pipeline
// at score precision T for every batch, in both the original and
// reverse-complemented orientation, reporting whichever orientation
// scored higher per spec.md §8's strand law (the reverse complement
// on ties).
func alignBatches[T constraints.Signed](
	cg *dp.CompiledGraph,
	reads, rcReads []fastq.Read,
	batches, rcBatches []batch.Batch,
	cfg *config.Config,
	rep *report.Reporter,
	results []align.BestScoreInfo,
	maxScore T,
) error {
	engine := dp.NewEngine[T](align.DefaultScores, cfg.BlockWidth, cfg.BlockHeight, maxScore)

	for bi := range batches {
		b, rb := batches[bi], rcBatches[bi]

		fwd, err := engine.RunForward(cg, &b)
		if err != nil {
			return err
		}
		rev, err := engine.RunReverse(cg, &b, fwd)
		if err != nil {
			return err
		}
		rcFwd, err := engine.RunForward(cg, &rb)
		if err != nil {
			return err
		}
		rcRev, err := engine.RunReverse(cg, &rb, rcFwd)
		if err != nil {
			return err
		}

		for lane := range b.Reads {
			readIdx := b.Reads[lane]
			if readIdx < 0 {
				continue
			}
			dp.AssertConsistency(fwd[lane], rev[lane])
			dp.AssertConsistency(rcFwd[lane], rcRev[lane])

			read := reads[readIdx]
			rep.ReadStart(readIdx+1, len(read.Seq))

			strand := byte('+')
			f, r, seq := fwd[lane], rev[lane], read.Seq
			if rcFwd[lane].Score >= f.Score {
				strand = '-'
				f, r, seq = rcFwd[lane], rcRev[lane], rcReads[readIdx].Seq
			}

			info := dp.ToBestScoreInfo(f, r, int32(len(seq)), strand)

			tb, err := traceback.Walk(cg.Graph, engine.Scores, seq, f.Vertex, f.Row+1, f.Score)
			if err != nil {
				return err
			}
			info.RefColumnStart = tb.StartVertex
			info.QryRowStart = tb.StartRow - 1

			elems := cigar.Compact(tb.Ops)
			info.CIGAR = cigar.String(elems)
			// tb.ReferenceSteps, not RefColumnEnd-RefColumnStart+1: in a
			// branching graph the walked path's length is not the
			// vertex-id span, since the optimal path can skip over
			// sibling-branch ids entirely.
			cigar.Validate(elems, engine.Scores, info.Score,
				info.QryRowEnd-info.QryRowStart+1,
				tb.ReferenceSteps)

			results[readIdx] = info
			rep.BestScore(info)
			rep.Cigar(info.CIGAR)
		}
	}
	return nil
}

func reverseComplementAll(reads []fastq.Read) []fastq.Read {
	out := make([]fastq.Read, len(reads))
	for i, rd := range reads {
		out[i] = fastq.Read{ID: rd.ID, Seq: reverseComplement(rd.Seq), Qual: rd.Qual}
	}
	return out
}

func reverseComplement(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, c := range seq {
		out[len(seq)-1-i] = complement(c)
	}
	return out
}

func complement(c byte) byte {
	switch c {
	case 'A':
		return 'T'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	case 'T':
		return 'A'
	default:
		return c
	}
}
