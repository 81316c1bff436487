// Package internal collects small helpers shared by the ingest code,
// in the same spirit as elprep's internal package: thin, panic-on-
// programmer-error wrappers around the standard library, kept out of
// the public API surface.
package internal

import (
	"io"
	"log"
	"os"

	"golang.org/x/sys/unix"
)

// AdviseSequential hints to the kernel that f will be read once,
// start to finish, the same access pattern elprep's fasta and sam
// packages advise for whole-file reference/alignment ingestion.
// Grounded on fasta/fasta-files.go's use of golang.org/x/sys/unix for
// low-level file hints; unlike that file's Mmap/Munmap, this is a
// best-effort hint, so a failure is not fatal and is silently ignored.
func AdviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}

// Close closes c, panicking if it returns an error.
func Close(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Panic(err)
	}
}
