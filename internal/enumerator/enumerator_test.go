package enumerator

import (
	"testing"

	"namehash/internal/hashcore"
)

func TestNextExhaustivelyVisitsEveryTuple(t *testing.T) {
	const alphabetSize = 3
	const width = 3
	total := 1
	for i := 0; i < width; i++ {
		total *= alphabetSize
	}

	seen := make(map[[width]int]bool)
	counts := make([]int, width)
	var count [width]int
	copy(count[:], counts)
	seen[count] = true

	visits := 1
	for {
		res := Next(counts, 1, alphabetSize)
		if res == Exhausted {
			break
		}
		copy(count[:], counts)
		if seen[count] {
			t.Fatalf("tuple %v visited twice", count)
		}
		seen[count] = true
		visits++
	}

	if visits != total {
		t.Errorf("visited %d tuples, want %d", visits, total)
	}
}

func TestNextCarriesLowToHigh(t *testing.T) {
	counts := []int{2, 0}
	if res := Next(counts, 1, 3); res != OK {
		t.Fatalf("Next returned %v, want OK", res)
	}
	if counts[0] != 0 || counts[1] != 1 {
		t.Errorf("counts = %v, want [0 1]", counts)
	}
}

func TestNextExhaustedAtTopOfHighestDigit(t *testing.T) {
	counts := []int{2, 2}
	if res := Next(counts, 1, 3); res != Exhausted {
		t.Fatalf("Next returned %v, want Exhausted", res)
	}
}

func TestNextWidthZeroHasExactlyOneCandidate(t *testing.T) {
	var counts []int
	if res := Next(counts, 0, 3); res != OK {
		t.Fatalf("Next(width 0, inc 0) = %v, want OK", res)
	}
	if res := Next(counts, 1, 3); res != Exhausted {
		t.Fatalf("Next(width 0, inc 1) = %v, want Exhausted", res)
	}
}

func TestCPUStripingVisitsSameMultisetAsSingleThreaded(t *testing.T) {
	const alphabetSize = 4
	const width = 3
	const threads = 5

	single := map[uint64]bool{}
	counts := make([]int, width)
	for {
		single[encode(counts, alphabetSize)] = true
		if Next(counts, 1, alphabetSize) == Exhausted {
			break
		}
	}

	striped := map[uint64]bool{}
	for tid := uint64(0); tid < threads; tid++ {
		c, res := Seed(width, make([]int, width), tid, alphabetSize)
		if res == Exhausted {
			continue
		}
		for {
			striped[encode(c, alphabetSize)] = true
			if Next(c, threads, alphabetSize) == Exhausted {
				break
			}
		}
	}

	if len(striped) != len(single) {
		t.Fatalf("striped visited %d candidates, want %d", len(striped), len(single))
	}
	for k := range single {
		if !striped[k] {
			t.Fatalf("striped run missed candidate %d", k)
		}
	}
}

func encode(counts []int, alphabetSize int) uint64 {
	var v uint64
	mul := uint64(1)
	for _, c := range counts {
		v += uint64(c) * mul
		mul *= uint64(alphabetSize)
	}
	return v
}

func TestApplyWritesPrimaryAndMirroredSecondary(t *testing.T) {
	hs := hashcore.New("*%*")
	alphabet := []byte("ABC")
	// primary at indices 0 and 2 (two '*'), secondary at index 1 ('%').
	primary := []int{0, 2}
	secondary := []int{1}
	counts := []int{1, 2} // alphabet[1]='B' at primary[0]/secondary[0], alphabet[2]='C' at primary[1]

	Apply(hs, counts, alphabet, primary, secondary)

	if hs.At(0) != 'B' || hs.At(1) != 'B' || hs.At(2) != 'C' {
		t.Errorf("buffer = %q, want BBC", []byte{hs.At(0), hs.At(1), hs.At(2)})
	}
}
