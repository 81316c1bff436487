package graphio

import (
	"os"

	"github.com/exascience/dagaligner/dagerr"
	"github.com/exascience/dagaligner/internal"
)

// openFile opens filename for reading, translating any failure into a
// dagerr.InputNotFound error rather than panicking: a missing or
// unreadable reference graph file is routine, expected user error at
// the program's outermost boundary. Reference graphs are read once,
// start to finish, so the file is advised for sequential access.
func openFile(filename string) (*os.File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, dagerr.Wrap(dagerr.InputNotFound, "opening reference graph file "+filename, err)
	}
	internal.AdviseSequential(f)
	return f, nil
}
