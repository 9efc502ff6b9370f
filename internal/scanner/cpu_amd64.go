//go:build amd64

package scanner

import (
	"golang.org/x/sys/cpu"
)

// The packed path only pays off when math/bits popcount and trailing-zero
// lowering hit single instructions; POPCNT is the cutoff for that
// generation of x86.
func hasWide() bool {
	return cpu.X86.HasPOPCNT
}
