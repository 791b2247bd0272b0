// Package source reads a log file one line at a time.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// MaxLineSize is the longest line a File can return. Longer lines are a read error.
const MaxLineSize = 1 << 20

// ErrSourceUnavailable is returned when the log file cannot be opened.
var ErrSourceUnavailable = errors.New("log source unavailable")

// File iterates over the lines of an open log file.
type File struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
}

// Open opens path for sequential line reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return &File{
		path:    path,
		file:    f,
		scanner: NewScanner(f),
	}, nil
}

// NewScanner returns a line scanner over r with the same line handling as File:
// lines end at "\n", a "\r" immediately before it is dropped with it, and
// lines may be up to MaxLineSize bytes long. A final line without "\n" also
// loses a single trailing "\r".
func NewScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return s
}

// Path returns the file path passed to Open.
func (f *File) Path() string { return f.path }

// Scan advances to the next line. It returns false at end of file or on error.
func (f *File) Scan() bool { return f.scanner.Scan() }

// Text returns the most recent line, without its line terminator.
func (f *File) Text() string { return f.scanner.Text() }

// Err returns the first non-EOF read error.
func (f *File) Err() error {
	if err := f.scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	return nil
}

// Close releases the underlying file.
func (f *File) Close() error { return f.file.Close() }
