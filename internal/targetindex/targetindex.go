// Package targetindex holds the set of target digests workers test
// candidates against, in a CPU hash-map form and a GPU dense two-level
// bucket form.
package targetindex

// reservedEmpty is the GPU bucket array's sentinel for "unused slot".
// A real target whose digest is exactly 0 can never be matched through
// the GPU path; see spec's reserved-zero caveat.
const reservedEmpty = 0

// Target pairs a digest's identifier with whether one was actually
// supplied (a bare -n hex digest carries none; a file_data_id;hex file
// entry always does, even when the id itself is 0).
type Target struct {
	ID    uint32
	HasID bool
}

// Index is the CPU-side lookup structure: a set of target digests, each
// carrying an optional identifier.
type Index struct {
	digests map[uint64]Target
}

// Build constructs a CPU Index from digest/id pairs. ids may be shorter
// than digests (or nil): entries beyond len(ids) carry no identifier.
// Duplicate digests keep the first identifier seen.
func Build(digests []uint64, ids []uint32) *Index {
	idx := &Index{digests: make(map[uint64]Target, len(digests))}
	for i, d := range digests {
		if _, exists := idx.digests[d]; exists {
			continue
		}
		var target Target
		if i < len(ids) {
			target = Target{ID: ids[i], HasID: true}
		}
		idx.digests[d] = target
	}
	return idx
}

// Lookup reports whether h is a target digest and, if so, its Target.
// The reserved digest 0 never matches, even if present among the
// inserted targets.
func (idx *Index) Lookup(h uint64) (Target, bool) {
	if h == reservedEmpty {
		return Target{}, false
	}
	target, ok := idx.digests[h]
	return target, ok
}

// Len reports the number of distinct digests held by idx, counting a
// reserved 0 digest if one was inserted.
func (idx *Index) Len() int { return len(idx.digests) }

// Each calls fn once per distinct digest in idx, in unspecified order.
// Used to re-derive the flat digest list a GPU dense-bucket table is
// built from when both CPU and GPU lookup structures are needed for
// the same target set.
func (idx *Index) Each(fn func(h uint64, target Target)) {
	for h, target := range idx.digests {
		fn(h, target)
	}
}

// GPUIndex is the dense two-level table a GPU kernel walks: 0x10000
// buckets keyed on the low 16 bits of the digest, each a row of
// bucket_size slots, plus one trailing sentinel slot.
type GPUIndex struct {
	BucketSize int
	Buckets    []uint64 // len == BucketSize*0x10000 + 1
}

const bucketMask = 0xFFFF
const numBuckets = bucketMask + 1

// BuildGPU constructs the dense bucket table for digests. bucket_size is
// the maximum number of digests sharing any single 16-bit bucket key.
func BuildGPU(digests []uint64) *GPUIndex {
	counts := make([]int, numBuckets)
	distinct := dedupe(digests)
	for _, d := range distinct {
		counts[d&bucketMask]++
	}

	bucketSize := 0
	for _, c := range counts {
		if c > bucketSize {
			bucketSize = c
		}
	}

	buckets := make([]uint64, bucketSize*numBuckets+1)
	remaining := make([]int, numBuckets)
	copy(remaining, counts)
	for _, d := range distinct {
		b := int(d & bucketMask)
		remaining[b]--
		buckets[bucketSize*b+remaining[b]] = d
	}

	return &GPUIndex{BucketSize: bucketSize, Buckets: buckets}
}

// Lookup performs the device-equivalent membership test on the host: a
// linear scan of the candidate's bucket row. Used by host-side
// re-verification of GPU-reported matches.
func (g *GPUIndex) Lookup(h uint64) bool {
	if h == reservedEmpty {
		return false
	}
	base := g.BucketSize * int(h&bucketMask)
	for j := 0; j < g.BucketSize; j++ {
		if g.Buckets[base+j] == h {
			return true
		}
	}
	return false
}

func dedupe(digests []uint64) []uint64 {
	seen := make(map[uint64]bool, len(digests))
	out := make([]uint64, 0, len(digests))
	for _, d := range digests {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
