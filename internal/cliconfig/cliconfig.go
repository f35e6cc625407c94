// Package cliconfig parses and validates the CLI flag surface, built on
// the standard flag package with no cobra/pflag layer.
package cliconfig

import (
	"flag"
	"fmt"
	"runtime"

	"namehash/pkg/errs"
)

// Config is the fully parsed and validated CLI configuration.
type Config struct {
	TargetSpec   string   // -n: hex digest or path to file_data_id;hex file
	Patterns     []string // -p, repeatable
	PatternFile  string   // -f
	Alphabet     string   // -a
	ListfilePath string   // -l
	Threads      int      // -c, 0 means "use hardware parallelism"
	GPU          bool     // -g
	GPUWorkSize  uint64   // -w
	GPUSlots     int      // -K: rotating buffer slots per device (default 2)
	MaxResults   int      // -m
	Quiet        bool     // -q
	Help         bool     // -?
	StatusAddr   string   // supplemental: -status-addr
}

// stringList accumulates repeated -p occurrences.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse parses args (typically os.Args[1:]) into a validated Config, or
// a usage error: a missing -n, or neither -p/-f nor -l, or an unknown
// flag, is a usage error.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("namehash", flag.ContinueOnError)
	fs.Usage = func() {} // the caller prints its own usage message

	var patterns stringList
	targetSpec := fs.String("n", "", "target: hex digest or file_data_id;hex file")
	fs.Var(&patterns, "p", "pattern to search (repeatable)")
	patternFile := fs.String("f", "", "file of patterns (optional ;alphabet suffix)")
	alphabet := fs.String("a", "default", "alphabet preset or literal")
	listfile := fs.String("l", "", "listfile: file_data_id;name per line")
	threads := fs.Int("c", 0, "cap CPU threads (default: hardware parallelism)")
	gpu := fs.Bool("g", false, "enable GPU mode")
	workSize := fs.Uint64("w", 1<<31, "GPU batch work size")
	slots := fs.Int("K", 2, "GPU rotating buffer slots per device")
	maxResults := fs.Int("m", 1024, "per-batch max match capacity")
	quiet := fs.Bool("q", false, "suppress progress output")
	help := fs.Bool("?", false, "print help and exit")
	statusAddr := fs.String("status-addr", "", "optional address to serve a read-only JSON progress endpoint on")

	if err := fs.Parse(args); err != nil {
		return nil, errs.Usage("%s", err)
	}

	cfg := &Config{
		TargetSpec:   *targetSpec,
		Patterns:     patterns,
		PatternFile:  *patternFile,
		Alphabet:     *alphabet,
		ListfilePath: *listfile,
		Threads:      *threads,
		GPU:          *gpu,
		GPUWorkSize:  *workSize,
		GPUSlots:     *slots,
		MaxResults:   *maxResults,
		Quiet:        *quiet,
		Help:         *help,
		StatusAddr:   *statusAddr,
	}

	if cfg.Help {
		return cfg, nil
	}

	// Threads == 0 stands for "not given", so an explicit -c 0 is caught here.
	threadsSet := false
	fs.Visit(func(f *flag.Flag) { threadsSet = threadsSet || f.Name == "c" })
	if threadsSet && cfg.Threads <= 0 {
		return nil, errs.Usage("-c must be > 0")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TargetSpec == "" {
		return errs.Usage("missing required flag -n")
	}
	if len(c.Patterns) == 0 && c.PatternFile == "" && c.ListfilePath == "" {
		return errs.Usage("either -p/-f or -l must be provided")
	}
	if c.Threads < 0 {
		return errs.Usage("-c must be > 0")
	}
	if c.Threads > runtime.NumCPU() {
		return errs.Usage("-c (%d) exceeds hardware parallelism (%d)", c.Threads, runtime.NumCPU())
	}
	if c.MaxResults <= 0 {
		return errs.Usage("-m must be > 0")
	}
	return nil
}

// ResolvedThreads returns the effective CPU thread count: c.Threads if
// set, otherwise hardware parallelism.
func (c *Config) ResolvedThreads() int {
	if c.Threads > 0 {
		return c.Threads
	}
	return runtime.NumCPU()
}
