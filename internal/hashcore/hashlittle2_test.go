package hashcore

import "testing"

func TestHashVectors(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"ABC", 0x3f4b48af09685927},
		{"1234", 0xffe6567b8d44ca9b},
		{"foo/BAR/baz", 0x8095dac5bce31bb6},
		{"A", 0x1014ba110786e8c},
		{"HELLOWORLD", 0x88c57da3bd8216b1},
	}
	for _, c := range cases {
		got := Hash(c.in)
		if got != c.want {
			t.Errorf("Hash(%q) = %#x, want %#x", c.in, got, c.want)
		}
	}
}

func TestHashIsCaseAndSlashInsensitive(t *testing.T) {
	if Hash("abc") != Hash("ABC") {
		t.Error("Hash should be case-insensitive")
	}
	if Hash("foo/bar") != Hash("foo\\bar") {
		t.Error("Hash should treat / and \\ identically")
	}
}

func TestPrecomputeMatchesFullHash(t *testing.T) {
	for _, s := range []string{"HELLOWORLDFOO", "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", "X"} {
		full := New(s)
		full.offset, full.a, full.b, full.c = 0, 0, 0, 0 // force hash_full to recompute from the seed

		precomputed := New(s) // New already precomputes up to the string's invariant prefix

		if HashFull(full) != HashFull(precomputed) {
			t.Errorf("HashFull with offset=0 disagrees with the precomputed path for %q", s)
		}
	}
}

func TestPrecomputeAtEveryBlockBoundary(t *testing.T) {
	s := "AAAAAAAAAAAABBBBBBBBBBBBCCCCCCCCCCCC" // 36 bytes, 3 full blocks
	reference := New(s)
	reference.offset, reference.a, reference.b, reference.c = 0, 0, 0, 0
	want := HashFull(reference)

	for prefix := 0; prefix <= 36; prefix += 12 {
		hs := New(s)
		hs.offset, hs.a, hs.b, hs.c = 0, 0, 0, 0
		Precompute(hs, prefix)
		if got := HashFull(hs); got != want {
			t.Errorf("Precompute(%d) then HashFull = %#x, want %#x", prefix, got, want)
		}
	}
}
