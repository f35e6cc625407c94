// Package cpupool runs the pattern-matching brute force across N
// parallel CPU worker goroutines, one per compute thread, striped with
// the enumerator the way the worker-pool pattern in the reference
// discovery scanner fans out concurrent probes.
package cpupool

import (
	"sync"
	"sync/atomic"

	"namehash/internal/enumerator"
	"namehash/internal/hashcore"
	"namehash/internal/pattern"
	"namehash/internal/targetindex"
)

// reportInterval is how many candidates a worker processes between
// progress publications (spec: "every ~10,000 candidates").
const reportInterval = 10000

// Match is a single resolved candidate whose digest hit the target index.
type Match struct {
	Text   string
	Target targetindex.Target
}

// MatchSink receives matches as they're found. Implementations must be
// safe for concurrent use: every CPU worker goroutine calls Report.
type MatchSink interface {
	Report(Match)
}

// Pool runs N CPU worker goroutines over a single pattern.
type Pool struct {
	Threads int
}

// New returns a Pool with the given thread count (already capped and
// validated by the caller against hardware parallelism).
func New(threads int) *Pool {
	return &Pool{Threads: threads}
}

// Run enumerates every candidate of pat across p.Threads goroutines,
// looking each candidate's digest up in idx and reporting hits to sink.
// onProgress, if non-nil, is called with the incremental candidate
// count roughly every 10,000 candidates per worker; it must be safe for
// concurrent use.
func (p *Pool) Run(pat *pattern.Pattern, alphabet []byte, idx *targetindex.Index, sink MatchSink, onProgress func(delta uint64)) {
	width := pat.Width()
	alphabetSize := len(alphabet)
	base := make([]int, width)

	var wg sync.WaitGroup
	for t := 0; t < p.Threads; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			p.runWorker(t, base, pat, alphabet, alphabetSize, idx, sink, onProgress)
		}(t)
	}
	wg.Wait()
}

func (p *Pool) runWorker(t int, base []int, pat *pattern.Pattern, alphabet []byte, alphabetSize int, idx *targetindex.Index, sink MatchSink, onProgress func(delta uint64)) {
	counts, res := enumerator.Seed(pat.Width(), base, uint64(t), alphabetSize)
	if res == enumerator.Exhausted {
		return
	}

	hs := pat.HashStr.Clone()
	var since uint64
	for {
		enumerator.Apply(hs, counts, alphabet, pat.Primary, pat.Secondary)
		digest := hashcore.HashFull(hs)
		if target, ok := idx.Lookup(digest); ok {
			sink.Report(Match{Text: pattern.Format(hs), Target: target})
		}

		since++
		if since >= reportInterval {
			if onProgress != nil {
				onProgress(since)
			}
			since = 0
		}

		if enumerator.Next(counts, uint64(p.Threads), alphabetSize) == enumerator.Exhausted {
			break
		}
	}
	if since > 0 && onProgress != nil {
		onProgress(since)
	}
}

// AtomicCounter is a trivial onProgress target for callers that only
// need a running total (e.g. to feed the progress reporter).
type AtomicCounter struct {
	n atomic.Uint64
}

func (c *AtomicCounter) Add(delta uint64) { c.n.Add(delta) }
func (c *AtomicCounter) Load() uint64     { return c.n.Load() }
