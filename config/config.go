// Package config parses and validates the command-line knobs of
// spec.md §6: score precision, block geometry, the graph format and
// the two input file paths. Alignment mode has no flag, since only
// local mode exists. Flag wiring follows
// _examples/ExaScience-elprep/cmd/filter.go's flag.FlagSet-per-command
// style: a FlagSet local to the parse function, one *Var call per
// knob, defaults matching spec.md's stated defaults.
package config

import (
	"flag"
	"fmt"

	"github.com/exascience/dagaligner/dagerr"
)

// Precision selects the integer width of every DP score cell.
type Precision int

const (
	Precision8  Precision = 8
	Precision16 Precision = 16
	Precision32 Precision = 32
)

// Config holds one run's worth of alignment settings. Only local mode
// is supported (spec.md §1's explicit non-goal list rules out global
// and semi-global alignment), so there is no Mode field to select
// between them.
type Config struct {
	GraphFile string
	GraphKind string // "text" or "fragment"
	ReadsFile string

	Precision   Precision
	BlockWidth  int32
	BlockHeight int32
}

const (
	defaultBlockWidth  = 8
	defaultBlockHeight = 16
	defaultPrecision   = 16
)

// Parse builds a Config from args (typically os.Args[1:]), applying
// spec.md §6's stated defaults and failing with dagerr.InvalidGraph if
// blockWidth/blockHeight are not powers of two or precision is not
// one of 8/16/32.
func Parse(args []string) (*Config, error) {
	var (
		graphFile   string
		graphKind   string
		readsFile   string
		precision   int
		blockWidth  int
		blockHeight int
	)

	flags := flag.NewFlagSet("dagaligner", flag.ContinueOnError)
	flags.StringVar(&graphFile, "graph", "", "reference graph file")
	flags.StringVar(&graphKind, "graph-format", "text", "reference graph format: text or fragment")
	flags.StringVar(&readsFile, "reads", "", "FASTQ query file")
	flags.IntVar(&precision, "precision", defaultPrecision, "DP score precision in bits: 8, 16 or 32")
	flags.IntVar(&blockWidth, "block-width", defaultBlockWidth, "rolling column window width, a power of two")
	flags.IntVar(&blockHeight, "block-height", defaultBlockHeight, "row-block height, a power of two")

	if err := flags.Parse(args); err != nil {
		return nil, dagerr.Wrap(dagerr.InvalidGraph, "parsing command-line flags", err)
	}

	if graphFile == "" {
		return nil, dagerr.New(dagerr.InputNotFound, "missing required -graph flag")
	}
	if readsFile == "" {
		return nil, dagerr.New(dagerr.InputNotFound, "missing required -reads flag")
	}
	if graphKind != "text" && graphKind != "fragment" {
		return nil, dagerr.New(dagerr.InvalidGraph, fmt.Sprintf("unrecognized -graph-format %q, want text or fragment", graphKind))
	}
	if !isPowerOfTwo(blockWidth) {
		return nil, dagerr.New(dagerr.InvalidGraph, fmt.Sprintf("-block-width %d is not a power of two", blockWidth))
	}
	if !isPowerOfTwo(blockHeight) {
		return nil, dagerr.New(dagerr.InvalidGraph, fmt.Sprintf("-block-height %d is not a power of two", blockHeight))
	}
	var p Precision
	switch precision {
	case 8:
		p = Precision8
	case 16:
		p = Precision16
	case 32:
		p = Precision32
	default:
		return nil, dagerr.New(dagerr.InvalidGraph, fmt.Sprintf("-precision %d must be 8, 16 or 32", precision))
	}

	return &Config{
		GraphFile:   graphFile,
		GraphKind:   graphKind,
		ReadsFile:   readsFile,
		Precision:   p,
		BlockWidth:  int32(blockWidth),
		BlockHeight: int32(blockHeight),
	}, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// LaneWidth derives the SIMD lane count L from the chosen precision
// and a fixed 512-bit register width, per spec.md §6's "SIMD lane
// count L (derived from precision and register width)".
func (c *Config) LaneWidth() int {
	const registerBits = 512
	return registerBits / int(c.Precision)
}
