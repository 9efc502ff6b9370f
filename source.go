package flowscan

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"strings"
)

// ErrLineTooLong is returned by ReadLine when a line does not fit in the
// caller's buffer.
var ErrLineTooLong = errors.New("line does not fit in the buffer")

// Source reads newline-delimited lines from a file, stdin, or an arbitrary
// reader. Each Source owns its resource; any number may be open at once.
// Not safe for concurrent use.
type Source struct {
	rc io.ReadCloser
	br *bufio.Reader
}

// Open opens a line source by path. "-" reads stdin; gzip input is
// detected by magic number or a .gz suffix.
func Open(path string) (*Source, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	return &Source{rc: rc, br: bufio.NewReader(rc)}, nil
}

// NewSource wraps an arbitrary reader as a line source.
func NewSource(r io.Reader) *Source {
	return &Source{rc: io.NopCloser(r), br: bufio.NewReader(r)}
}

// ReadLine reads the next line into buf and returns the number of payload
// bytes. The trailing newline (and a carriage return before it) is
// stripped and not counted. io.EOF signals end of input; ErrLineTooLong is
// returned when the line exceeds len(buf), with the source left positioned
// after the offending line. Lines longer than the internal read buffer are
// reassembled from fragments, so only the caller's buffer bounds the line
// length.
func (s *Source) ReadLine(buf []byte) (int, error) {
	total := 0   // payload bytes copied into buf
	dropped := 0 // payload bytes that did not fit
	last := byte(0)
	first := true

	for {
		frag, err := s.br.ReadSlice('\n')
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return 0, err
		}
		if first && len(frag) == 0 {
			return 0, io.EOF
		}
		first = false

		done := err != bufio.ErrBufferFull
		if done && len(frag) > 0 && frag[len(frag)-1] == '\n' {
			frag = frag[:len(frag)-1]
		}
		if len(frag) > 0 {
			last = frag[len(frag)-1]
			if dropped == 0 {
				n := copy(buf[total:], frag)
				total += n
				dropped = len(frag) - n
			} else {
				dropped += len(frag)
			}
		}
		if done {
			break
		}
	}

	switch {
	case dropped == 0:
		if total > 0 && buf[total-1] == '\r' {
			total--
		}
		return total, nil
	case dropped == 1 && last == '\r':
		// Only the carriage return spilled; the payload itself fits.
		return total, nil
	default:
		return 0, ErrLineTooLong
	}
}

// Close releases the underlying resource. Safe to call more than once.
func (s *Source) Close() error {
	if s.rc == nil {
		return nil
	}
	err := s.rc.Close()
	s.rc = nil
	return err
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// Detect gzip by magic number (1F 8B) or by .gz suffix.
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	_, _ = fh.Seek(0, io.SeekStart)
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}
