package hashcore

import "testing"

func TestNewNormalizesBytes(t *testing.T) {
	hs := New("foo/bar")
	want := "FOO\\BAR"
	for i := 0; i < len(want); i++ {
		if hs.At(i) != want[i] {
			t.Fatalf("byte %d = %q, want %q", i, hs.At(i), want[i])
		}
	}
	if hs.Size() != len("foo/bar") {
		t.Errorf("Size() = %d, want %d", hs.Size(), len("foo/bar"))
	}
}

func TestNewPaddingIsZero(t *testing.T) {
	hs := New("AB")
	for i := hs.Size(); i < len(hs.data); i++ {
		if hs.data[i] != 0 {
			t.Errorf("padding byte %d = %#x, want 0", i, hs.data[i])
		}
	}
}

func TestLeadingWildcardForcesOffsetZero(t *testing.T) {
	hs := New("*ABCDEFGHIJKLM")
	if hs.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0 for a pattern beginning with a wildcard", hs.Offset())
	}
}

func TestWildcardInFirstBlockForcesOffsetZero(t *testing.T) {
	hs := New("ABCDEFGHIJK*LMNOP")
	if hs.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0 when the wildcard falls inside the first block", hs.Offset())
	}
}

func TestInvariantPrefixIsPrecomputed(t *testing.T) {
	// Wildcard at index 13: the byte just before it (index 12) is the
	// first index of the second block, so the whole first block (0-11)
	// is the precomputed prefix.
	hs := New("AAAAAAAAAAAAB*BBB")
	if hs.Offset() != 12 {
		t.Errorf("Offset() = %d, want 12", hs.Offset())
	}
}

func TestWildcardAtBlockBoundaryStaysUnprecomputed(t *testing.T) {
	// Wildcard exactly at index 12: the byte just before it is index 11,
	// still inside the first block, so nothing can be precomputed yet.
	hs := New("AAAAAAAAAAAA*BBBB")
	if hs.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", hs.Offset())
	}
}

func TestNoWildcardPrecomputesUpToFinalBlock(t *testing.T) {
	s := "AAAAAAAAAAAABBBBBBBBBBBBCCCC" // 28 bytes, no wildcard
	hs := New(s)
	if hs.Offset() != 24 {
		t.Errorf("Offset() = %d, want 24 (two full blocks precomputed, final block left for hash_full)", hs.Offset())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	hs := New("AAAAAAAAAAAA*BBBB")
	clone := hs.Clone()

	clone.Set(13, 'Z')
	if hs.At(13) == 'Z' {
		t.Error("mutating the clone's buffer affected the original")
	}

	if clone.Offset() != hs.Offset() {
		t.Errorf("clone offset = %d, want %d", clone.Offset(), hs.Offset())
	}
	a1, b1, c1 := hs.State()
	a2, b2, c2 := clone.State()
	if a1 != a2 || b1 != b2 || c1 != c2 {
		t.Error("clone should start with the same precomputed state")
	}
}

func TestApplyThenHashMatchesDirectHash(t *testing.T) {
	// "A*C" with '*' resolved to 'B' must hash identically to "ABC".
	hs := New("A*C")
	hs.Set(1, 'B')
	if got, want := HashFull(hs), Hash("ABC"); got != want {
		t.Errorf("HashFull after resolving wildcard = %#x, want %#x", got, want)
	}
}
