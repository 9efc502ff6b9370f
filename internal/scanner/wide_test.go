package scanner

import (
	"encoding/binary"
	"testing"
)

func TestEqLanes(t *testing.T) {
	tests := []struct {
		name string
		data string
		b    byte
		want uint64
	}{
		{"no match", "........", '|', 0},
		{"all match", "||||||||", '|', high},
		{"first byte", "|.......", '|', 0x80},
		{"last byte", ".......|", '|', 0x80 << 56},
		{"off-by-one values", "{}{}{}{}", '|', 0}, // '{' is '|'-1, '}' is '|'+1
		{"high-bit bytes", "\x80\xff\xfc\x80\xff\xfc\x80\xff", '|', 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := binary.LittleEndian.Uint64([]byte(tt.data))
			got := eqLanes(x, uint64(tt.b)*lanes)
			if got != tt.want {
				t.Errorf("eqLanes(%q, %q) = %#x, want %#x", tt.data, tt.b, got, tt.want)
			}
		})
	}
}

func TestMoveMask(t *testing.T) {
	// Exhaustive over all 256 lane patterns.
	for pat := 0; pat < 256; pat++ {
		var m uint64
		for i := 0; i < 8; i++ {
			if pat>>i&1 == 1 {
				m |= 0x80 << (8 * i)
			}
		}
		if got := moveMask(m); got != uint64(pat) {
			t.Fatalf("moveMask(%#x) = %#x, want %#x", m, got, pat)
		}
	}
}

func TestClassifyWide_TailShorterThanWord(t *testing.T) {
	// 11 bytes: one full word plus a 3-byte scalar tail, with markers on
	// both sides of the split.
	prev := []byte("..|.....|.|")
	curr := []byte("..^......'^")

	s := New()
	defer s.Release()

	pipeMask := make([]uint64, s.Words())
	caretMask := make([]uint64, s.Words())

	count, err := s.ScanWide(prev, curr, pipeMask, caretMask)
	if err != nil {
		t.Fatalf("ScanWide failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if want := uint64(1<<2 | 1<<8 | 1<<10); pipeMask[0] != want {
		t.Errorf("pipe mask = %#x, want %#x", pipeMask[0], want)
	}
	if want := uint64(1<<2 | 1<<10); caretMask[0] != want {
		t.Errorf("caret mask = %#x, want %#x", caretMask[0], want)
	}
}
