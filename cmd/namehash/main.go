// Command namehash is the bundled CLI driving the brute-force engine:
// it parses flags, loads targets and patterns (or a listfile), and runs
// the CPU or GPU worker pool to exhaustion, printing matches as they're
// found.
package main

import (
	"fmt"
	"os"
	"time"

	"namehash/internal/alphabet"
	"namehash/internal/cliconfig"
	"namehash/internal/cpupool"
	"namehash/internal/gpupool"
	"namehash/internal/iohelpers"
	"namehash/internal/listfile"
	"namehash/internal/log"
	"namehash/internal/matchsink"
	"namehash/internal/pattern"
	"namehash/internal/progress"
	"namehash/internal/statusserver"
	"namehash/internal/targetindex"
	"namehash/pkg/errs"
)

func main() {
	cfg, err := cliconfig.Parse(os.Args[1:])
	if err != nil {
		printUsage()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Help {
		printUsage()
		os.Exit(0)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: namehash -n <hex|file> (-p <pattern> [-p <pattern> ...] | -f <file> | -l <file>) [options]

  -n <hex|file>   target digest (hex) or file_data_id;hex file (required)
  -p <pattern>    pattern to search, repeatable
  -f <file>       file of patterns, optional ;alphabet suffix per line
  -a <alphabet>   alphabet preset (default|digits|numbers|letters|hex) or literal
  -l <file>       listfile: file_data_id;name per line
  -c <N>          cap CPU threads (default: hardware parallelism)
  -g              enable GPU mode
  -w <N>          GPU batch work size (default 2^31)
  -m <N>          per-batch max match capacity (default 1024)
  -q              suppress progress output
  -status-addr    serve a read-only JSON progress endpoint on this address
  -?              print this help`)
}

func run(cfg *cliconfig.Config) error {
	digests, ids, err := iohelpers.ParseTargets(cfg.TargetSpec)
	if err != nil {
		return err
	}
	idx := targetindex.Build(digests, ids)

	counters := &progress.Counters{}
	reporter := progress.New(counters, os.Stderr, cfg.Quiet)
	reporter.Start()
	defer reporter.Stop()

	sink := matchsink.New(os.Stdout)

	if cfg.StatusAddr != "" {
		srv := statusserver.New(cfg.StatusAddr, counters)
		errCh := make(chan error, 1)
		srv.Start(errCh)
		defer srv.Stop(2 * time.Second)
	}

	onProgress := func(delta uint64) { counters.Candidates.Add(delta) }
	countingSink := &countingMatchSink{sink: sink, counters: counters}

	if len(cfg.Patterns) == 0 && cfg.PatternFile == "" {
		return runListfile(cfg, idx, countingSink)
	}
	return runPatterns(cfg, idx, countingSink, onProgress)
}

// countingMatchSink wraps a MatchSink to also tick the live match
// counter the progress reporter samples.
type countingMatchSink struct {
	sink     cpupool.MatchSink
	counters *progress.Counters
}

func (c *countingMatchSink) Report(m cpupool.Match) {
	c.counters.Matches.Add(1)
	c.sink.Report(m)
}

func runListfile(cfg *cliconfig.Config, idx *targetindex.Index, sink cpupool.MatchSink) error {
	f, err := iohelpers.Open(cfg.ListfilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := listfile.ParseFile(f)
	if err != nil {
		return errs.IO(cfg.ListfilePath, err)
	}

	listfile.Run(entries, idx, sink, listfile.Config{Threads: cfg.ResolvedThreads()})
	return nil
}

func runPatterns(cfg *cliconfig.Config, idx *targetindex.Index, sink cpupool.MatchSink, onProgress func(uint64)) error {
	entries, err := loadPatternEntries(cfg)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		pat, err := pattern.Parse(entry.Pattern)
		if err != nil {
			return errs.Usage("%s", err)
		}
		alphaName := entry.Alphabet
		if alphaName == "" {
			alphaName = cfg.Alphabet
		}
		alpha := alphabet.Resolve(alphaName)

		if cfg.GPU {
			if err := runGPU(cfg, pat, alpha, idx, sink, onProgress); err != nil {
				return err
			}
			continue
		}
		pool := cpupool.New(cfg.ResolvedThreads())
		pool.Run(pat, alpha, idx, sink, onProgress)
	}
	return nil
}

func loadPatternEntries(cfg *cliconfig.Config) ([]pattern.FileEntry, error) {
	if cfg.PatternFile != "" {
		f, err := iohelpers.Open(cfg.PatternFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		entries, err := pattern.ParseFile(f)
		if err != nil {
			return nil, errs.IO(cfg.PatternFile, err)
		}
		return entries, nil
	}

	entries := make([]pattern.FileEntry, len(cfg.Patterns))
	for i, p := range cfg.Patterns {
		entries[i] = pattern.FileEntry{Pattern: p}
	}
	return entries, nil
}

func runGPU(cfg *cliconfig.Config, pat *pattern.Pattern, alpha []byte, idx *targetindex.Index, sink cpupool.MatchSink, onProgress func(uint64)) error {
	gpuIdx := targetindex.BuildGPU(digestsOf(idx))
	pool, err := gpupool.New(gpupool.Config{
		Pattern:    pat,
		Alphabet:   alpha,
		Index:      gpuIdx,
		CPUIndex:   idx,
		WorkSize:   cfg.GPUWorkSize,
		Slots:      cfg.GPUSlots,
		MaxResults: cfg.MaxResults,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	go drainWarnings(pool)
	return pool.Run(sink, onProgress)
}

func drainWarnings(pool *gpupool.Pool) {
	for w := range pool.Warnings() {
		fmt.Fprintln(os.Stderr, "namehash: warning:", w)
	}
}

// digestsOf re-derives the flat digest list a CPU Index was built from,
// for the parallel GPU dense-bucket table gpupool.New also needs.
func digestsOf(idx *targetindex.Index) []uint64 {
	digests := make([]uint64, 0, idx.Len())
	idx.Each(func(h uint64, _ targetindex.Target) {
		digests = append(digests, h)
	})
	return digests
}
