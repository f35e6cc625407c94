// Package kernelgen synthesises the per-pattern OpenCL C source the GPU
// device pool compiles: a text prelude of #define constants carrying the
// precomputed hash state, tail bytes, wildcard offsets, alphabet, and
// bucket parameters, concatenated with the static bruteforce kernel body.
package kernelgen

import (
	_ "embed"
	"fmt"
	"strings"

	"namehash/internal/pattern"
	"namehash/internal/targetindex"
)

//go:embed kernel.cl
var kernelBody string

// Params bundles everything Generate needs beyond the pattern and alphabet.
type Params struct {
	MaxResults int
	NumHashes  int
}

const bucketMask = 0xFFFF

// Generate produces the full kernel source for pat: the #define prelude
// plus the static kernel body.
func Generate(pat *pattern.Pattern, alphabet []byte, idx *targetindex.GPUIndex, p Params) string {
	hs := pat.HashStr
	offset := hs.Offset()
	a, b, c := hs.State()

	tail := hs.Tail()
	// logicalRemaining bytes split into full 12-byte blocks (consumed by
	// the kernel's own main mixing loop) plus a final block of the
	// remaining 1-12 bytes (absorbed by the finalisation schedule). This
	// mirrors hash_full's "while length > 12" loop exactly.
	logicalRemaining := hs.Size() - offset
	length := ((logicalRemaining - 1) / 12) * 12

	var sb strings.Builder
	fmt.Fprintf(&sb, "#define NUM_LETTERS %d\n", len(alphabet))
	fmt.Fprintf(&sb, "#define LETTERS %q\n", string(alphabet))
	fmt.Fprintf(&sb, "#define STR %s\n", byteList(tail))
	fmt.Fprintf(&sb, "#define LEN %d\n", length)
	fmt.Fprintf(&sb, "#define NUM_INDICES %d\n", len(pat.Primary))
	fmt.Fprintf(&sb, "#define INDICES %s\n", intList(rebase(pat.Primary, offset)))
	fmt.Fprintf(&sb, "#define NUM_INDICES2 %d\n", len(pat.Secondary))
	fmt.Fprintf(&sb, "#define INDICES2 %s\n", intList(rebase(pat.Secondary, offset)))
	fmt.Fprintf(&sb, "#define A %dU\n", a)
	fmt.Fprintf(&sb, "#define B %dU\n", b)
	fmt.Fprintf(&sb, "#define C %dU\n", c)
	fmt.Fprintf(&sb, "#define BUCKET_MASK %#x\n", bucketMask)
	fmt.Fprintf(&sb, "#define BUCKET_SIZE %d\n", idx.BucketSize)
	fmt.Fprintf(&sb, "#define NUM_HASHES %d\n", p.NumHashes)
	fmt.Fprintf(&sb, "#define MAX_RESULTS %d\n", p.MaxResults)
	sb.WriteString("\n")
	sb.WriteString(kernelBody)
	return sb.String()
}

func byteList(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}

func intList(v []int) string {
	if len(v) == 0 {
		return "0" // OpenCL C can't declare a zero-length array initialiser
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}

func rebase(indices []int, offset int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = idx - offset
	}
	return out
}
