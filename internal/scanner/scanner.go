// Package scanner locates positions where a pipe marker in one text line
// sits directly above a caret marker in the next, and flood-fills the
// current line around those positions. Marker positions are tracked as
// bitmasks, one bit per byte, packed into 64-bit words.
package scanner

import (
	"errors"
	"math/bits"
	"sync"
)

const (
	// DefaultCapacity is the maximum line length a pooled Scanner accepts,
	// in bytes. One mask word covers 64 bytes.
	DefaultCapacity = 256

	// WordBits is the width of one mask word.
	WordBits = 64
)

// Default marker bytes.
const (
	DefaultPipe  = '|'
	DefaultCaret = '^'
	DefaultEmpty = '.'
)

var (
	ErrCapacityExceeded   = errors.New("line length exceeds scanner capacity")
	ErrLengthMismatch     = errors.New("previous and current line lengths differ")
	ErrMaskBufferTooSmall = errors.New("mask buffer has fewer words than scanner capacity")
)

// Config parameterizes a Scanner. Zero-value fields fall back to the
// defaults above.
type Config struct {
	Pipe     byte
	Caret    byte
	Empty    byte
	Capacity int
}

// Scanner classifies line pairs against a fixed marker alphabet. A Scanner
// holds no line content between calls; it is cheap and safe to reuse, but a
// single Scanner must not be shared by concurrent Scan calls because of the
// aligned-mask scratch space.
type Scanner struct {
	pipe  byte
	caret byte
	empty byte

	capacity int
	words    int

	// scratch for the aligned mask, reused across calls
	aligned []uint64
}

var scannerPool = sync.Pool{
	New: func() interface{} {
		return newScanner(Config{})
	},
}

// New returns a default-configured Scanner from the pool.
func New() *Scanner {
	return scannerPool.Get().(*Scanner)
}

// NewWithConfig builds a Scanner with custom markers or capacity. Scanners
// with non-default capacity are not pooled on Release.
func NewWithConfig(cfg Config) *Scanner {
	if cfg.Capacity == 0 || cfg.Capacity == DefaultCapacity {
		s := New()
		s.SetMarkers(orDefault(cfg.Pipe, DefaultPipe), orDefault(cfg.Caret, DefaultCaret), orDefault(cfg.Empty, DefaultEmpty))
		return s
	}
	return newScanner(cfg)
}

func newScanner(cfg Config) *Scanner {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	words := (capacity + WordBits - 1) / WordBits
	return &Scanner{
		pipe:     orDefault(cfg.Pipe, DefaultPipe),
		caret:    orDefault(cfg.Caret, DefaultCaret),
		empty:    orDefault(cfg.Empty, DefaultEmpty),
		capacity: capacity,
		words:    words,
		aligned:  make([]uint64, words),
	}
}

func orDefault(b, def byte) byte {
	if b == 0 {
		return def
	}
	return b
}

// SetMarkers replaces the marker alphabet. Idempotent; must not race with
// an in-flight Scan on the same Scanner.
func (s *Scanner) SetMarkers(pipe, caret, empty byte) {
	s.pipe = pipe
	s.caret = caret
	s.empty = empty
}

// Release resets the Scanner to the default alphabet and returns it to the
// pool. Only default-capacity Scanners are pooled.
func (s *Scanner) Release() {
	if s.capacity != DefaultCapacity {
		return
	}
	s.SetMarkers(DefaultPipe, DefaultCaret, DefaultEmpty)
	scannerPool.Put(s)
}

// Capacity reports the maximum line length in bytes.
func (s *Scanner) Capacity() int { return s.capacity }

// Words reports the number of 64-bit words needed for an output mask.
func (s *Scanner) Words() int { return s.words }

// Scan processes one line pair. prev is read-only; curr is mutated in
// place. pipeMask receives the pipe positions of prev and caretMask the
// caret positions of curr, one bit per byte; both are fully overwritten.
// The return value counts positions where a pipe in prev sits directly
// above a caret in curr.
//
// Two mutations happen, in order. First, during classification, every
// empty byte of curr that sits under a pipe is overwritten with the pipe
// marker; carets are classified against the original bytes, so a byte
// filled this way is never also counted as a caret. Second, for every
// pipe-over-caret position, its immediate left and right neighbors in curr
// are overwritten with the pipe marker unless the neighbor is itself a
// caret. Neighbor propagation crosses mask-word boundaries but never the
// ends of the line.
func (s *Scanner) Scan(prev, curr []byte, pipeMask, caretMask []uint64) (int, error) {
	if hasWide() {
		return s.scan(prev, curr, pipeMask, caretMask, s.classifyWide)
	}
	return s.scan(prev, curr, pipeMask, caretMask, s.classifyScalar)
}

// ScanScalar forces the scalar classification path (exported for tests and
// benchmarks).
func (s *Scanner) ScanScalar(prev, curr []byte, pipeMask, caretMask []uint64) (int, error) {
	return s.scan(prev, curr, pipeMask, caretMask, s.classifyScalar)
}

// ScanWide forces the word-at-a-time classification path (exported for
// tests and benchmarks).
func (s *Scanner) ScanWide(prev, curr []byte, pipeMask, caretMask []uint64) (int, error) {
	return s.scan(prev, curr, pipeMask, caretMask, s.classifyWide)
}

func (s *Scanner) scan(prev, curr []byte, pipeMask, caretMask []uint64, classify func([]byte, []byte, []uint64, []uint64)) (int, error) {
	if len(prev) != len(curr) {
		return 0, ErrLengthMismatch
	}
	if len(curr) > s.capacity {
		return 0, ErrCapacityExceeded
	}
	if len(pipeMask) < s.words || len(caretMask) < s.words {
		return 0, ErrMaskBufferTooSmall
	}

	for w := 0; w < s.words; w++ {
		pipeMask[w] = 0
		caretMask[w] = 0
	}
	if len(curr) == 0 {
		return 0, nil
	}

	classify(prev, curr, pipeMask, caretMask)
	return s.expandAndFill(curr, pipeMask, caretMask), nil
}

// HasWide reports whether Scan uses the word-at-a-time path.
func HasWide() bool {
	return hasWide()
}

// expandAndFill computes the aligned mask, propagates it to horizontal
// neighbors, fills non-caret neighbors in curr with the pipe marker, and
// returns the aligned population count.
func (s *Scanner) expandAndFill(curr []byte, pipeMask, caretMask []uint64) int {
	n := len(curr)
	w := (n + WordBits - 1) / WordBits

	count := 0
	for i := 0; i < w; i++ {
		s.aligned[i] = pipeMask[i] & caretMask[i]
		count += bits.OnesCount64(s.aligned[i])
	}

	for i := 0; i < w; i++ {
		nb := s.aligned[i]<<1 | s.aligned[i]>>1
		if i > 0 {
			nb |= s.aligned[i-1] >> (WordBits - 1)
		}
		if i+1 < w {
			nb |= s.aligned[i+1] << (WordBits - 1)
		}
		nb &^= caretMask[i]
		if i == w-1 {
			// An aligned position at the last byte must not spill a fill
			// past the end of the line.
			if rem := n & (WordBits - 1); rem != 0 {
				nb &= 1<<rem - 1
			}
		}
		for nb != 0 {
			curr[i*WordBits+bits.TrailingZeros64(nb)] = s.pipe
			nb &= nb - 1
		}
	}

	return count
}
