// Package enumerator implements the mixed-radix wildcard counter the
// CPU and GPU workers both stripe candidates with.
package enumerator

import "namehash/internal/hashcore"

// Result is the outcome of advancing an enumerator state.
type Result int

const (
	// OK means the advance succeeded and counts now holds a valid tuple.
	OK Result = iota
	// Exhausted means the advance carried past the highest digit; counts
	// is left in an unspecified state and must not be used.
	Exhausted
)

// Next adds inc to counts[0], carrying overflow (modulo alphabetSize)
// into successive positions, low digit first. counts may have length 0
// (a width-0 pattern with no wildcards at all, i.e. exactly one
// candidate): in that case Next(counts, 0) is OK and Next(counts, n>0)
// is Exhausted.
func Next(counts []int, inc uint64, alphabetSize int) Result {
	if len(counts) == 0 {
		if inc == 0 {
			return OK
		}
		return Exhausted
	}

	carry := inc
	for i := 0; i < len(counts); i++ {
		v := uint64(counts[i]) + carry
		counts[i] = int(v % uint64(alphabetSize))
		carry = v / uint64(alphabetSize)
		if carry == 0 {
			return OK
		}
	}
	return Exhausted
}

// Apply writes alphabet[counts[i]] into hs at primary[i] and, for
// i < len(secondary), also at secondary[i].
func Apply(hs *hashcore.HashString, counts []int, alphabet []byte, primary, secondary []int) {
	for i, idx := range primary {
		letter := alphabet[counts[i]]
		hs.Set(idx, letter)
		if i < len(secondary) {
			hs.Set(secondary[i], letter)
		}
	}
}

// Seed builds the starting counts for worker t out of N, by advancing
// base (typically all-zero) by t. It returns the seeded counts and
// whether that worker has any work at all.
func Seed(width int, base []int, t uint64, alphabetSize int) ([]int, Result) {
	counts := make([]int, width)
	copy(counts, base)
	res := Next(counts, t, alphabetSize)
	return counts, res
}
