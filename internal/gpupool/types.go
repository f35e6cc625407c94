// Package gpupool runs the pattern-matching brute force across one
// worker thread per OpenCL device, each device double (or K-) buffered
// in a producer/consumer pipeline. The real implementation lives in
// gpupool.go (build tag "opencl", cgo); without that tag
// gpupool_stub.go reports GPU support as unavailable so the rest of
// the repository builds without an OpenCL SDK installed.
package gpupool

import (
	"namehash/internal/cpupool"
	"namehash/internal/pattern"
	"namehash/internal/targetindex"
)

// Match is shared with cpupool so both paths report through the same
// sink (internal/matchsink).
type Match = cpupool.Match

// MatchSink receives matches found by any device worker. Implementations
// must be safe for concurrent use.
type MatchSink = cpupool.MatchSink

// DeviceInfo describes one discovered OpenCL GPU device.
type DeviceInfo struct {
	PlatformName string
	DeviceName   string
	PlatformIdx  int
	DeviceIdx    int
}

// Config parametrises a Pool over a single pattern. Index is the dense
// table shipped to the device; CPUIndex carries the same target set's
// identifiers for host-side re-verification, which the device's bucket
// table alone cannot supply.
type Config struct {
	Pattern    *pattern.Pattern
	Alphabet   []byte
	Index      *targetindex.GPUIndex
	CPUIndex   *targetindex.Index
	WorkSize   uint64 // GPU_MAX_WORK_SIZE, default 1<<31
	Slots      int    // K rotating buffer slots per device, default 2
	MaxResults int    // per-batch match capacity, default 1024
}

// withDefaults fills in the documented defaults for any zero field.
func (c Config) withDefaults() Config {
	if c.WorkSize == 0 {
		c.WorkSize = 1 << 31
	}
	if c.Slots == 0 {
		c.Slots = 2
	}
	if c.MaxResults == 0 {
		c.MaxResults = 1024
	}
	return c
}
