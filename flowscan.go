// Package flowscan scans pairs of equal-width text lines for positions
// where a pipe marker in the previous line sits directly above a caret
// marker in the current line, flood-filling the current line around those
// positions and counting them. It is the inner loop of a grid in which
// fills propagate downward: each scanned line becomes the previous line of
// the next pair.
package flowscan

import (
	"sync"

	"github.com/phdavis1027/flowscan/internal/scanner"
)

// Sentinel errors surfaced by Scanner and the grid drivers.
var (
	ErrCapacityExceeded   = scanner.ErrCapacityExceeded
	ErrLengthMismatch     = scanner.ErrLengthMismatch
	ErrMaskBufferTooSmall = scanner.ErrMaskBufferTooSmall
)

// Markers is the three-byte alphabet a Scanner classifies against.
type Markers struct {
	Pipe  byte // wall/flow cell in the previous line
	Caret byte // source cell in the current line
	Empty byte // unfilled cell, eligible for flood fill
}

// DefaultMarkers matches the puzzle input format.
var DefaultMarkers = Markers{Pipe: '|', Caret: '^', Empty: '.'}

// Option configures a Scanner.
type Option func(*config)

type config struct {
	markers  Markers
	capacity int
}

// WithMarkers replaces the default marker alphabet.
func WithMarkers(m Markers) Option {
	return func(c *config) { c.markers = m }
}

// WithCapacity sets the maximum line length in bytes. The default is
// scanner.DefaultCapacity (256).
func WithCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

// Scanner scans one line pair per call. Not safe for concurrent use.
type Scanner struct {
	inner *scanner.Scanner
}

// NewScanner builds a Scanner. With no options it draws from an internal
// pool; call Release when done to return it.
func NewScanner(opts ...Option) *Scanner {
	cfg := config{markers: DefaultMarkers}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Scanner{inner: scanner.NewWithConfig(scanner.Config{
		Pipe:     cfg.markers.Pipe,
		Caret:    cfg.markers.Caret,
		Empty:    cfg.markers.Empty,
		Capacity: cfg.capacity,
	})}
}

// Release returns the Scanner to the pool.
func (s *Scanner) Release() {
	s.inner.Release()
}

// Capacity reports the maximum line length in bytes.
func (s *Scanner) Capacity() int { return s.inner.Capacity() }

// MaskWords reports how many uint64 words an output mask buffer needs.
func (s *Scanner) MaskWords() int { return s.inner.Words() }

// Scan processes one line pair. prev is only read; curr is mutated in
// place (empty cells under a pipe are filled, and non-caret neighbors of
// pipe-over-caret positions are filled). pipeMask and caretMask receive
// the raw marker classification of the pair, one bit per byte position,
// and are fully overwritten on every call. The count of pipe-over-caret
// positions is returned.
func (s *Scanner) Scan(prev, curr []byte, pipeMask, caretMask []uint64) (int, error) {
	return s.inner.Scan(prev, curr, pipeMask, caretMask)
}

// maskPool holds pointers so a Put does not re-box the slice header.
var maskPool = sync.Pool{
	New: func() interface{} {
		m := make([]uint64, scanner.DefaultCapacity/scanner.WordBits)
		return &m
	},
}

// ScanPair is Scan for callers that do not need the classification masks;
// scratch mask buffers are pooled internally.
func (s *Scanner) ScanPair(prev, curr []byte) (int, error) {
	words := s.inner.Words()
	if words > scanner.DefaultCapacity/scanner.WordBits {
		pipeMask := make([]uint64, words)
		caretMask := make([]uint64, words)
		return s.inner.Scan(prev, curr, pipeMask, caretMask)
	}

	pipeMask := maskPool.Get().(*[]uint64)
	caretMask := maskPool.Get().(*[]uint64)
	defer func() {
		maskPool.Put(pipeMask)
		maskPool.Put(caretMask)
	}()

	return s.inner.Scan(prev, curr, *pipeMask, *caretMask)
}
