package scanner

// classifyScalar is the byte-at-a-time classification pass.
func (s *Scanner) classifyScalar(prev, curr []byte, pipeMask, caretMask []uint64) {
	s.classifyRange(prev, curr, pipeMask, caretMask, 0)
}

// classifyRange records pipe positions of prev and caret positions of curr
// into the mask words from start onward, and overwrites empty bytes of
// curr that sit under a pipe with the pipe marker. The caret test reads
// each byte before any overwrite, so the fill can never manufacture a
// caret.
func (s *Scanner) classifyRange(prev, curr []byte, pipeMask, caretMask []uint64, start int) {
	for i := start; i < len(curr); i++ {
		p := prev[i] == s.pipe
		if curr[i] == s.caret {
			caretMask[i>>6] |= 1 << (i & (WordBits - 1))
		} else if p && curr[i] == s.empty {
			curr[i] = s.pipe
		}
		if p {
			pipeMask[i>>6] |= 1 << (i & (WordBits - 1))
		}
	}
}
