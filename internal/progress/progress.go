// Package progress reports candidates/sec, ETA, and match count at a
// 100ms cadence. It drives a Bubble Tea program when its output writer is
// a TTY, ticking a live dashboard with tea.Tick, and falls back to a
// single rewritten line on that writer (annotated with CPU/memory load
// via gopsutil) when it isn't a terminal. With -q set it prints nothing.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	psutil "github.com/shirou/gopsutil/v3/cpu"
	psmem "github.com/shirou/gopsutil/v3/mem"
	"github.com/mattn/go-isatty"
)

const tickInterval = 100 * time.Millisecond

// Counters is the live state a Reporter samples every tick. Candidates
// and Matches are updated with atomic adds from worker goroutines;
// Total is fixed once the search space is known (0 means unknown, e.g.
// listfile mode).
type Counters struct {
	Candidates atomic.Uint64
	Matches    atomic.Uint64
	Total      uint64
}

// sample is one tick's derived figures, shared by both render paths.
type sample struct {
	candidates uint64
	matches    uint64
	rate       float64
	elapsed    time.Duration
	eta        string
	cpuPct     float64
	memPct     float64
}

func (c *Counters) sample(lastCandidates uint64, start time.Time) sample {
	cur := c.Candidates.Load()
	rate := float64(cur-lastCandidates) / tickInterval.Seconds()
	cpuPct, memPct := sampleLoad()

	eta := "?"
	if c.Total > 0 && rate > 0 {
		remaining := float64(c.Total-cur) / rate
		if remaining > 0 {
			eta = time.Duration(remaining * float64(time.Second)).Round(time.Second).String()
		} else {
			eta = "0s"
		}
	}

	return sample{
		candidates: cur,
		matches:    c.Matches.Load(),
		rate:       rate,
		elapsed:    time.Since(start).Round(time.Second),
		eta:        eta,
		cpuPct:     cpuPct,
		memPct:     memPct,
	}
}

// Reporter samples Counters every tickInterval and renders either a
// Bubble Tea dashboard (TTY) or a flat stderr line (pipe), until Stop is
// called.
type Reporter struct {
	counters *Counters
	out      io.Writer
	quiet    bool
	tty      bool

	program *teaProgram
	stop    chan struct{}
	done    chan struct{}
}

// New builds a Reporter writing to w (typically os.Stderr). quiet
// suppresses all output (-q); the TTY/pipe choice is auto-detected from
// w when it exposes Fd().
func New(counters *Counters, w io.Writer, quiet bool) *Reporter {
	tty := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		tty = isatty.IsTerminal(f.Fd())
	}
	return &Reporter{counters: counters, out: w, quiet: quiet, tty: tty, stop: make(chan struct{}), done: make(chan struct{})}
}

// Start begins the reporting loop in a background goroutine.
func (r *Reporter) Start() {
	if r.quiet {
		close(r.done)
		return
	}
	if r.tty {
		r.program = newTeaProgram(r.counters)
		go func() {
			defer close(r.done)
			r.program.run()
		}()
		return
	}
	go r.runPlain()
}

// Stop halts the reporting loop and blocks until its goroutine exits.
func (r *Reporter) Stop() {
	if r.quiet {
		return
	}
	if r.program != nil {
		r.program.stop()
		<-r.done
		return
	}
	close(r.stop)
	<-r.done
}

func (r *Reporter) runPlain() {
	defer close(r.done)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var lastCandidates uint64
	start := time.Now()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			s := r.counters.sample(lastCandidates, start)
			lastCandidates = s.candidates
			fmt.Fprintf(r.out, "\r%d candidates (%.0f/s) | %d matches | eta %s | cpu %.0f%% mem %.0f%% | %s",
				s.candidates, s.rate, s.matches, s.eta, s.cpuPct, s.memPct, s.elapsed)
		}
	}
}

// IsTerminal reports whether f is a TTY.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}

func sampleLoad() (cpuPct, memPct float64) {
	if pcts, err := psutil.Percent(0, false); err == nil && len(pcts) > 0 {
		cpuPct = pcts[0]
	}
	if mem, err := psmem.VirtualMemory(); err == nil {
		memPct = mem.UsedPercent
	}
	return cpuPct, memPct
}
