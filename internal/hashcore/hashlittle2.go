// Package hashcore implements Bob Jenkins' hashlittle2 and the padded,
// partially-precomputed string buffer (HashString) the brute-force engine
// hashes candidates through.
package hashcore

// rotl rotates v left by n bits, modulo 32. n is never 0.
func rotl(v uint32, n uint) uint32 {
	return (v << n) | (v >> (32 - n))
}

// mixBlock consumes one 12-byte block and runs the main mixing schedule,
// rotation constants {4,6,8,16,19,4}.
func mixBlock(k []byte, a, b, c uint32) (uint32, uint32, uint32) {
	a += uint32(k[0]) | uint32(k[1])<<8 | uint32(k[2])<<16 | uint32(k[3])<<24
	b += uint32(k[4]) | uint32(k[5])<<8 | uint32(k[6])<<16 | uint32(k[7])<<24
	c += uint32(k[8]) | uint32(k[9])<<8 | uint32(k[10])<<16 | uint32(k[11])<<24

	a -= c
	a ^= rotl(c, 4)
	c += b
	b -= a
	b ^= rotl(a, 6)
	a += c
	c -= b
	c ^= rotl(b, 8)
	b += a
	a -= c
	a ^= rotl(c, 16)
	c += b
	b -= a
	b ^= rotl(a, 19)
	a += c
	c -= b
	c ^= rotl(b, 4)
	b += a

	return a, b, c
}

// finalBlock absorbs the trailing (up to 12-byte) block and runs the
// finalisation schedule, rotation constants {14,11,25,16,4,14,24}.
func finalBlock(k []byte, a, b, c uint32) (uint32, uint32, uint32) {
	a += uint32(k[0]) | uint32(k[1])<<8 | uint32(k[2])<<16 | uint32(k[3])<<24
	b += uint32(k[4]) | uint32(k[5])<<8 | uint32(k[6])<<16 | uint32(k[7])<<24
	c += uint32(k[8]) | uint32(k[9])<<8 | uint32(k[10])<<16 | uint32(k[11])<<24

	c ^= b
	c -= rotl(b, 14)
	a ^= c
	a -= rotl(c, 11)
	b ^= a
	b -= rotl(a, 25)
	c ^= b
	c -= rotl(b, 16)
	a ^= c
	a -= rotl(c, 4)
	b ^= a
	b -= rotl(a, 14)
	c ^= b
	c -= rotl(b, 24)

	return a, b, c
}

const seedConst uint32 = 0xdeadbeef

// HashFull returns the finalised 64-bit digest of s. If s has no partial
// state (offset == 0) hashing starts from the seed over the whole padded
// buffer; otherwise it resumes from the precomputed (a, b, c) at s.offset.
func HashFull(s *HashString) uint64 {
	var a, b, c uint32
	var k []byte
	length := s.size

	if s.offset > 0 {
		k = s.data[s.offset:]
		length -= s.offset
		a, b, c = s.a, s.b, s.c
	} else {
		k = s.data
		seed := seedConst + uint32(s.size)
		a, b, c = seed, seed, seed
	}

	for length > 12 {
		a, b, c = mixBlock(k, a, b, c)
		length -= 12
		k = k[12:]
	}

	a, b, c = finalBlock(k, a, b, c)
	return uint64(c)<<32 | uint64(b)
}

// Precompute consumes prefixLen bytes (a multiple of 12) from the start of
// s, writes the resulting (a, b, c) state back into s, and sets s.offset to
// the number of bytes consumed. It never finalises: the final (1-12 byte)
// block of the logical string is always left for HashFull, so a prefixLen
// reaching into that block is cut back to the block's start.
func Precompute(s *HashString, prefixLen int) {
	if limit := ((s.size - 1) / 12) * 12; prefixLen > limit {
		prefixLen = limit
	}
	seed := seedConst + uint32(s.size)
	a, b, c := seed, seed, seed

	k := s.data
	remaining := prefixLen
	for remaining > 0 {
		a, b, c = mixBlock(k, a, b, c)
		k = k[12:]
		remaining -= 12
	}

	s.a, s.b, s.c = a, b, c
	s.offset = prefixLen
}

// Hash is a convenience one-shot entry point for code that has a plain Go
// string and no need for partial-hash reuse (the listfile recombination
// driver, tests).
func Hash(s string) uint64 {
	return HashFull(New(s))
}
