package hashcore

// HashString is an owned, padded, uppercased byte buffer carrying its
// partial hashlittle2 state and the offset at which further hashing must
// resume. See Precompute and HashFull.
type HashString struct {
	size   int
	data   []byte // len(data) == paddedLen(size) + 1 trailing zero byte
	offset int
	a, b, c uint32
}

// paddedLen returns the smallest multiple of 12 that is >= size. A
// non-empty string is floored at 12 so the finalisation step always has
// a full 12-byte block to read, even when size itself is a multiple of
// 12 less than 12 (i.e. size == 0 is the only value below 12 that is
// already a multiple of 12, and it never occurs in validated patterns).
func paddedLen(size int) int {
	rem := size % 12
	padded := size
	if rem != 0 {
		padded = size + (12 - rem)
	}
	if size > 0 && padded < 12 {
		padded = 12
	}
	return padded
}

// upper maps a-z to A-Z and / to \, leaving every other byte untouched.
func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	if b == '/' {
		return '\\'
	}
	return b
}

// New builds a HashString from s: uppercases and normalises each byte,
// pads the buffer to a multiple of 12 plus a trailing zero, then
// precomputes over the invariant prefix preceding the first wildcard.
func New(s string) *HashString {
	h := &HashString{}
	h.assign(s)
	return h
}

// assign installs s as h's source, discarding any prior buffer, and
// re-precomputes over the new invariant prefix.
func (h *HashString) assign(s string) {
	size := len(s)
	data := make([]byte, paddedLen(size)+1)
	for i := 0; i < size; i++ {
		data[i] = upper(s[i])
	}
	h.size = size
	h.data = data
	h.offset = 0
	h.a, h.b, h.c = 0, 0, 0
	Precompute(h, h.prefixLen())
}

// prefixLen finds the largest multiple of 12 that is <= the byte index
// just before the first wildcard. A wildcard at index 0 forces length 0.
// A pattern with no wildcard at all precomputes everything short of the
// final (<= 12 byte) block.
func (h *HashString) prefixLen() int {
	idx := h.size
	for i := 0; i < h.size; i++ {
		if h.data[i] == '*' || h.data[i] == '%' {
			idx = i
			break
		}
	}
	if idx == 0 {
		return 0
	}
	before := idx - 1
	if before < 0 {
		return 0
	}
	return before - before%12
}

// Size returns the logical (unpadded) length of the source string.
func (h *HashString) Size() int { return h.size }

// Offset returns the byte offset at which hash_full must resume.
func (h *HashString) Offset() int { return h.offset }

// State returns the precomputed partial-hash state (a, b, c).
func (h *HashString) State() (uint32, uint32, uint32) { return h.a, h.b, h.c }

// Tail returns the padded buffer from offset to its end, inclusive of
// the trailing zero byte. The kernel source generator emits all of it as
// STR; the kernel mixes its first LEN bytes and finalises the block after.
func (h *HashString) Tail() []byte { return h.data[h.offset:] }

// At returns the byte at padded-buffer index i.
func (h *HashString) At(i int) byte { return h.data[i] }

// Set overwrites padded-buffer index i. Callers must not extend the
// logical length; Set is used by Apply to write resolved wildcard
// letters into the buffer.
func (h *HashString) Set(i int, b byte) { h.data[i] = b }

// Clone returns an independent copy sharing no backing array, for CPU
// workers that need a private, per-goroutine scratch buffer of a shared
// pattern's precomputed state.
func (h *HashString) Clone() *HashString {
	c := &HashString{
		size:   h.size,
		offset: h.offset,
		a:      h.a,
		b:      h.b,
		c:      h.c,
	}
	c.data = make([]byte, len(h.data))
	copy(c.data, h.data)
	return c
}
