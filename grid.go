package flowscan

import (
	"errors"
	"fmt"
	"io"
)

// ErrRaggedInput is returned when a line's width differs from the first
// line of the grid.
var ErrRaggedInput = errors.New("grid lines have differing widths")

// PairResult describes one scanned line pair.
type PairResult struct {
	Row     int    `json:"row"`     // index of the current line, starting at 1
	Aligned int    `json:"aligned"` // pipe-over-caret positions in this pair
	Line    string `json:"line"`    // current line after flood fill
}

// Count streams lines from r and scans each adjacent pair, feeding every
// scanned (and flood-filled) line back in as the previous line of the next
// pair, so fills propagate down the grid. It returns the total number of
// pipe-over-caret positions.
func Count(r io.Reader, opts ...Option) (int, error) {
	return countLines(NewSource(r), opts, nil)
}

// CountFile is Count over a file path ("-" for stdin, gzip transparent).
func CountFile(path string, opts ...Option) (int, error) {
	src, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return countLines(src, opts, nil)
}

// CountEach is Count with a per-pair callback, invoked after each scan
// with the mutated current line. The callback's error aborts the stream.
func CountEach(r io.Reader, visit func(PairResult) error, opts ...Option) (int, error) {
	return countLines(NewSource(r), opts, visit)
}

// CountSource is CountEach over an already-open Source. A nil visit skips
// the callback. The Source is not closed.
func CountSource(src *Source, visit func(PairResult) error, opts ...Option) (int, error) {
	return countLines(src, opts, visit)
}

func countLines(src *Source, opts []Option, visit func(PairResult) error) (int, error) {
	s := NewScanner(opts...)
	defer s.Release()

	prev := make([]byte, s.Capacity())
	curr := make([]byte, s.Capacity())

	width, err := src.ReadLine(prev)
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	total := 0
	for row := 2; ; row++ {
		n, err := src.ReadLine(curr)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n != width {
			return total, fmt.Errorf("%w: line %d is %d bytes, want %d", ErrRaggedInput, row, n, width)
		}

		aligned, err := s.ScanPair(prev[:width], curr[:width])
		if err != nil {
			return total, err
		}
		total += aligned

		if visit != nil {
			if err := visit(PairResult{Row: row, Aligned: aligned, Line: string(curr[:width])}); err != nil {
				return total, err
			}
		}

		prev, curr = curr, prev
	}
}
