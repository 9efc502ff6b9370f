//go:build !amd64

package scanner

// hasWide is unconditionally true off amd64; the wide path is portable Go
// and there is no feature worth gating on.
func hasWide() bool {
	return true
}
