package matchsink

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"namehash/internal/cpupool"
	"namehash/internal/targetindex"
)

func TestReportWithIdentifierPrefixesFileDataID(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPlain(&buf)
	sink.Report(cpupool.Match{Text: "foo/bar/baz", Target: targetindex.Target{ID: 10, HasID: true}})
	assert.Equal(t, "10;foo/bar/baz\n", buf.String())
}

func TestReportWithoutIdentifierOmitsPrefix(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPlain(&buf)
	sink.Report(cpupool.Match{Text: "abc", Target: targetindex.Target{}})
	assert.Equal(t, "abc\n", buf.String())
}

func TestPlainSinkNeverColorizes(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPlain(&buf)
	sink.Report(cpupool.Match{Text: "abc"})
	assert.False(t, strings.Contains(buf.String(), "\x1b["))
}

func TestReportIsSafeForConcurrentUse(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPlain(&buf)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.Report(cpupool.Match{Text: "x"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, strings.Count(buf.String(), "x\n"))
}
