//go:build !opencl

package gpupool

import "namehash/pkg/errs"

// Pool is the no-cgo stand-in used when the binary was built without the
// "opencl" tag. Every operation reports a device error rather than
// panicking or silently doing nothing.
type Pool struct{}

// Discover always returns an empty device list and a device error: this
// build has no OpenCL support compiled in.
func Discover() ([]DeviceInfo, error) {
	return nil, errs.New(errs.KindDevice, "GPU support not compiled in", "rebuild with -tags opencl and a system OpenCL SDK")
}

// New always fails for the same reason as Discover.
func New(cfg Config) (*Pool, error) {
	return nil, errs.New(errs.KindDevice, "GPU support not compiled in", "rebuild with -tags opencl and a system OpenCL SDK")
}

// Run never succeeds on the stub pool; callers should not be able to
// construct one via New, but Run is defined to satisfy any interface
// that expects it.
func (p *Pool) Run(sink MatchSink, onProgress func(delta uint64)) error {
	return errs.New(errs.KindDevice, "GPU support not compiled in", "rebuild with -tags opencl and a system OpenCL SDK")
}

// Close is a no-op on the stub pool.
func (p *Pool) Close() {}

// Warnings always returns a closed channel on the stub pool: since New
// never succeeds, no device worker ever runs to produce one.
func (p *Pool) Warnings() <-chan *errs.Error {
	ch := make(chan *errs.Error)
	close(ch)
	return ch
}
