// Package listfile implements the secondary "listfile recombination"
// mode: given a list of known file_data_id;name pairs, it rebuilds
// path/base candidates and probes a configurable set of directory
// prefixes, reporting any whose digest matches an unknown target.
package listfile

import (
	"bufio"
	"io"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"namehash/internal/cpupool"
	"namehash/internal/hashcore"
	"namehash/internal/targetindex"
)

// Entry is one parsed listfile line: a file_data_id paired with a known
// name.
type Entry struct {
	ID   uint32
	Name string
}

// ParseFile reads "file_data_id;name" pairs, one per line. Lines without
// a ';' separator, and blank lines, are skipped.
func ParseFile(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		idStr, name, ok := strings.Cut(line, ";")
		if !ok || name == "" {
			continue
		}
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{ID: uint32(id), Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DefaultPrefixes is the conventional directory probe list, kept as
// the default for a now-configurable list.
var DefaultPrefixes = []string{"Data/", "Alternate/", "Test/"}

// Config parametrises a recombination run.
type Config struct {
	Prefixes []string // default DefaultPrefixes
	Threads  int      // default runtime.NumCPU()
}

func (c Config) withDefaults() Config {
	if c.Prefixes == nil {
		c.Prefixes = DefaultPrefixes
	}
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	return c
}

// Run probes every entry's name under each configured prefix, then
// recombines every distinct path component with every distinct base
// component across entries, reporting digest hits against idx to sink.
func Run(entries []Entry, idx *targetindex.Index, sink cpupool.MatchSink, cfg Config) {
	cfg = cfg.withDefaults()

	probePrefixes(entries, idx, sink, cfg.Prefixes)

	pathNames, baseNames := splitNames(entries)
	recombine(pathNames, baseNames, idx, sink, cfg.Threads)
}

func probePrefixes(entries []Entry, idx *targetindex.Index, sink cpupool.MatchSink, prefixes []string) {
	for _, e := range entries {
		for _, prefix := range prefixes {
			candidate := prefix + e.Name
			if target, ok := idx.Lookup(hashcore.Hash(candidate)); ok {
				sink.Report(cpupool.Match{Text: candidate, Target: target})
			}
		}
	}
}

// splitNames extracts the set of distinct directory components and the
// set of distinct base (filename) components across every entry whose
// name contains at least one '/'. Dedup is case-insensitive, matching
// the original's case-insensitive ordered set.
func splitNames(entries []Entry) (pathNames, baseNames []string) {
	pathSeen := make(map[string]string) // upper key -> first-seen original
	baseSeen := make(map[string]string)

	for _, e := range entries {
		idx := strings.LastIndexByte(e.Name, '/')
		if idx < 0 {
			continue
		}
		path := e.Name[:idx]
		base := e.Name[idx+1:]
		if _, ok := pathSeen[strings.ToUpper(path)]; !ok {
			pathSeen[strings.ToUpper(path)] = path
		}
		if _, ok := baseSeen[strings.ToUpper(base)]; !ok {
			baseSeen[strings.ToUpper(base)] = base
		}
	}

	for _, v := range pathSeen {
		pathNames = append(pathNames, v)
	}
	for _, v := range baseSeen {
		baseNames = append(baseNames, v)
	}
	return pathNames, baseNames
}

// recombine stripes the base-name list across threads; each thread
// walks every path for each of its assigned bases.
func recombine(pathNames, baseNames []string, idx *targetindex.Index, sink cpupool.MatchSink, threads int) {
	var wg sync.WaitGroup
	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			for b := t; b < len(baseNames); b += threads {
				base := baseNames[b]
				for _, path := range pathNames {
					candidate := path + "/" + base
					if target, ok := idx.Lookup(hashcore.Hash(candidate)); ok {
						sink.Report(cpupool.Match{Text: candidate, Target: target})
					}
				}
			}
		}(t)
	}
	wg.Wait()
}
