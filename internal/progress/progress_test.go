package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestQuietReporterProducesNoOutput(t *testing.T) {
	var buf bytes.Buffer
	counters := &Counters{}
	r := New(counters, &buf, true)
	r.Start()
	counters.Candidates.Add(100)
	r.Stop()
	if buf.Len() != 0 {
		t.Errorf("expected no output from a quiet reporter, got %q", buf.String())
	}
}

func TestPlainReporterWritesCandidateLine(t *testing.T) {
	var buf bytes.Buffer
	counters := &Counters{}
	r := New(counters, &buf, false)
	r.Start()
	counters.Candidates.Add(500)
	counters.Matches.Add(1)
	time.Sleep(3 * tickInterval)
	r.Stop()

	out := buf.String()
	if !strings.Contains(out, "candidates") {
		t.Errorf("expected a rendered candidates line, got %q", out)
	}
	if !strings.Contains(out, "1 matches") {
		t.Errorf("expected the match count to appear, got %q", out)
	}
}

func TestSampleComputesETAFromKnownTotal(t *testing.T) {
	counters := &Counters{Total: 1000}
	counters.Candidates.Store(500)
	s := counters.sample(0, time.Now().Add(-time.Second))
	if s.eta == "?" {
		t.Error("expected a computed ETA once rate and total are known")
	}
}

func TestSampleReportsUnknownETAWithoutTotal(t *testing.T) {
	counters := &Counters{}
	counters.Candidates.Store(500)
	s := counters.sample(0, time.Now().Add(-time.Second))
	if s.eta != "?" {
		t.Errorf("expected unknown ETA with Total == 0, got %q", s.eta)
	}
}
