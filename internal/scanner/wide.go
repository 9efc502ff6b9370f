package scanner

import "encoding/binary"

// SWAR constants: lanes replicates a value into every byte of a word,
// high/low carry the per-byte sign and low bits.
const (
	lanes = 0x0101010101010101
	high  = 0x8080808080808080
	low7  = 0x7f7f7f7f7f7f7f7f

	// moveMul gathers the per-byte high bits (0x80 at byte i) into the top
	// byte of the product, bit i at position 56+i. Each target bit has
	// exactly one contributing term, so no carries reach the top byte.
	moveMul = 0x0002040810204081
)

// eqLanes returns 0x80 in every byte of x equal to the byte replicated in
// b, and 0x00 elsewhere. Exact zero-byte detection (no borrow-chain false
// positives): a byte of v is zero iff adding 0x7f to its low seven bits
// does not set the sign bit and the sign bit itself is clear.
func eqLanes(x, b uint64) uint64 {
	v := x ^ b
	y := v&low7 + low7
	return ^(y | v | low7) & high
}

// moveMask packs an eqLanes result into eight bits, bit i set iff byte i
// matched.
func moveMask(m uint64) uint64 {
	return (m * moveMul) >> 56
}

// classifyWide is the eight-bytes-per-step classification pass. It is
// byte-for-byte equivalent to classifyScalar; the tail shorter than a word
// falls back to the scalar loop. Word loads are little-endian so that mask
// bit order matches byte order on every platform.
func (s *Scanner) classifyWide(prev, curr []byte, pipeMask, caretMask []uint64) {
	pipeL := uint64(s.pipe) * lanes
	caretL := uint64(s.caret) * lanes
	emptyL := uint64(s.empty) * lanes

	n := len(curr)
	i := 0
	for ; i+8 <= n; i += 8 {
		p := binary.LittleEndian.Uint64(prev[i:])
		c := binary.LittleEndian.Uint64(curr[i:])

		pm := eqLanes(p, pipeL)
		cm := eqLanes(c, caretL)

		// Caret classification wins over the fill, as in the scalar pass;
		// with a degenerate alphabet where caret == empty the byte stays a
		// caret and is not overwritten.
		if fill := pm & eqLanes(c, emptyL) &^ cm; fill != 0 {
			// Widen 0x80 match flags to full-byte 0xff and splat the pipe
			// marker over the matched bytes.
			full := (fill >> 7) * 0xff
			binary.LittleEndian.PutUint64(curr[i:], c&^full|pipeL&full)
		}

		pipeMask[i>>6] |= moveMask(pm) << (i & (WordBits - 1))
		caretMask[i>>6] |= moveMask(cm) << (i & (WordBits - 1))
	}

	if i < n {
		s.classifyRange(prev, curr, pipeMask, caretMask, i)
	}
}
