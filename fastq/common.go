package fastq

import (
	"os"

	"github.com/exascience/dagaligner/dagerr"
	"github.com/exascience/dagaligner/internal"
)

// openFile mirrors graphio's helper of the same name: translate a
// missing/unreadable input file into dagerr.InputNotFound rather than
// panicking, since this is the program's outermost input boundary.
func openFile(filename string) (*os.File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, dagerr.Wrap(dagerr.InputNotFound, "opening fastq file "+filename, err)
	}
	internal.AdviseSequential(f)
	return f, nil
}
