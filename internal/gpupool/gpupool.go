//go:build opencl

package gpupool

/*
#cgo CFLAGS: -DCL_TARGET_OPENCL_VERSION=120
#cgo linux LDFLAGS: -lOpenCL
#cgo darwin LDFLAGS: -framework OpenCL
#cgo windows LDFLAGS: -lOpenCL

#ifdef __APPLE__
#include <OpenCL/cl.h>
#else
#include <CL/cl.h>
#endif
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"namehash/internal/enumerator"
	"namehash/internal/hashcore"
	"namehash/internal/kernelgen"
	"namehash/internal/pattern"
	"namehash/pkg/errs"
)

// Discover enumerates every OpenCL platform and every GPU device within
// it.
func Discover() ([]DeviceInfo, error) {
	var numPlatforms C.cl_uint
	if err := C.clGetPlatformIDs(0, nil, &numPlatforms); err != C.CL_SUCCESS {
		return nil, clError("clGetPlatformIDs", err)
	}
	if numPlatforms == 0 {
		return nil, errs.New(errs.KindDevice, "no OpenCL platforms found")
	}

	platforms := make([]C.cl_platform_id, numPlatforms)
	if err := C.clGetPlatformIDs(numPlatforms, &platforms[0], nil); err != C.CL_SUCCESS {
		return nil, clError("clGetPlatformIDs", err)
	}

	var infos []DeviceInfo
	for pi, platform := range platforms {
		var numDevices C.cl_uint
		if err := C.clGetDeviceIDs(platform, C.CL_DEVICE_TYPE_GPU, 0, nil, &numDevices); err != C.CL_SUCCESS || numDevices == 0 {
			continue
		}
		devices := make([]C.cl_device_id, numDevices)
		if err := C.clGetDeviceIDs(platform, C.CL_DEVICE_TYPE_GPU, numDevices, &devices[0], nil); err != C.CL_SUCCESS {
			continue
		}
		for di, dev := range devices {
			infos = append(infos, DeviceInfo{
				PlatformName: platformName(platform),
				DeviceName:   deviceName(dev),
				PlatformIdx:  pi,
				DeviceIdx:    di,
			})
		}
	}

	if len(infos) == 0 {
		return nil, errs.New(errs.KindDevice, "no GPU devices discovered across any OpenCL platform")
	}
	return infos, nil
}

func platformName(p C.cl_platform_id) string {
	var buf [256]C.char
	C.clGetPlatformInfo(p, C.CL_PLATFORM_NAME, 256, unsafe.Pointer(&buf[0]), nil)
	return C.GoString(&buf[0])
}

func deviceName(d C.cl_device_id) string {
	var buf [256]C.char
	C.clGetDeviceInfo(d, C.CL_DEVICE_NAME, 256, unsafe.Pointer(&buf[0]), nil)
	return C.GoString(&buf[0])
}

func clError(op string, code C.cl_int) *errs.Error {
	return errs.Device(op, fmt.Errorf("OpenCL error %d", int(code)))
}

// slot is one of a device's K rotating buffer sets.
type slot struct {
	initialCounts []int // host copy of the batch's starting counts
	workSize      uint64
	numResultsBuf C.cl_mem
	resultsBuf    C.cl_mem
	countsBuf     C.cl_mem
	readEvent     C.cl_event
	pending       bool
}

// device owns one OpenCL context/queue/program/kernel and its K slots.
type device struct {
	info     DeviceInfo
	platform C.cl_platform_id
	id       C.cl_device_id
	context  C.cl_context
	queue    C.cl_command_queue
	program  C.cl_program
	kernel   C.cl_kernel
	bucketBuf C.cl_mem
	slots    []slot
}

// Pool runs one worker goroutine per discovered GPU device, each device
// double (or K-) buffered to keep the device fed while results drain.
type Pool struct {
	cfg     Config
	devices []*device

	mu        sync.Mutex // guards the host enumerator and match reporting
	counts    []int
	exhausted bool

	warnings chan *errs.Error
}

// New discovers GPU devices, builds the per-pattern kernel, and prepares
// a context/queue/program/kernel plus K slots on every device.
func New(cfg Config) (*Pool, error) {
	cfg = cfg.withDefaults()

	infos, err := Discover()
	if err != nil {
		return nil, err
	}

	idx := cfg.Index
	src := kernelgen.Generate(cfg.Pattern, cfg.Alphabet, idx, kernelgen.Params{
		MaxResults: cfg.MaxResults,
		NumHashes:  cfg.CPUIndex.Len(), // informational; not used by lookup logic
	})
	csrc := C.CString(src)
	defer C.free(unsafe.Pointer(csrc))

	p := &Pool{
		cfg:      cfg,
		counts:   make([]int, cfg.Pattern.Width()),
		warnings: make(chan *errs.Error, 64),
	}

	platforms := map[int]C.cl_platform_id{}
	{
		var numPlatforms C.cl_uint
		C.clGetPlatformIDs(0, nil, &numPlatforms)
		ids := make([]C.cl_platform_id, numPlatforms)
		C.clGetPlatformIDs(numPlatforms, &ids[0], nil)
		for i, id := range ids {
			platforms[i] = id
		}
	}

	for _, info := range infos {
		platform := platforms[info.PlatformIdx]
		var numDevices C.cl_uint
		C.clGetDeviceIDs(platform, C.CL_DEVICE_TYPE_GPU, 0, nil, &numDevices)
		devIDs := make([]C.cl_device_id, numDevices)
		C.clGetDeviceIDs(platform, C.CL_DEVICE_TYPE_GPU, numDevices, &devIDs[0], nil)
		devID := devIDs[info.DeviceIdx]

		var clErr C.cl_int
		ctx := C.clCreateContext(nil, 1, &devID, nil, nil, &clErr)
		if clErr != C.CL_SUCCESS {
			p.Close()
			return nil, clError("clCreateContext", clErr)
		}
		queue := C.clCreateCommandQueue(ctx, devID, 0, &clErr)
		if clErr != C.CL_SUCCESS {
			p.Close()
			return nil, clError("clCreateCommandQueue", clErr)
		}

		program := C.clCreateProgramWithSource(ctx, 1, &csrc, nil, &clErr)
		if clErr != C.CL_SUCCESS {
			p.Close()
			return nil, clError("clCreateProgramWithSource", clErr)
		}
		if buildErr := C.clBuildProgram(program, 1, &devID, nil, nil, nil); buildErr != C.CL_SUCCESS {
			var logSize C.size_t
			C.clGetProgramBuildInfo(program, devID, C.CL_PROGRAM_BUILD_LOG, 0, nil, &logSize)
			logBuf := make([]C.char, logSize+1)
			C.clGetProgramBuildInfo(program, devID, C.CL_PROGRAM_BUILD_LOG, logSize, unsafe.Pointer(&logBuf[0]), nil)
			p.Close()
			return nil, errs.Device("clBuildProgram", fmt.Errorf("%s", C.GoString(&logBuf[0])))
		}

		kernel := C.clCreateKernel(program, C.CString("bruteforce"), &clErr)
		if clErr != C.CL_SUCCESS {
			p.Close()
			return nil, clError("clCreateKernel", clErr)
		}

		bucketBytes := C.size_t(len(idx.Buckets) * 8)
		bucketBuf := C.clCreateBuffer(ctx, C.CL_MEM_READ_ONLY|C.CL_MEM_COPY_HOST_PTR, bucketBytes, unsafe.Pointer(&idx.Buckets[0]), &clErr)
		if clErr != C.CL_SUCCESS {
			p.Close()
			return nil, clError("clCreateBuffer(bucket_hashes)", clErr)
		}

		d := &device{
			info:      info,
			platform:  platform,
			id:        devID,
			context:   ctx,
			queue:     queue,
			program:   program,
			kernel:    kernel,
			bucketBuf: bucketBuf,
			slots:     make([]slot, cfg.Slots),
		}

		width := cfg.Pattern.Width()
		countsElemSize := C.size_t(unsafe.Sizeof(C.size_t(0)))
		for i := range d.slots {
			var e C.cl_int
			countsSize := countsElemSize
			if width > 0 {
				countsSize = countsElemSize * C.size_t(width)
			}
			d.slots[i].countsBuf = C.clCreateBuffer(ctx, C.CL_MEM_READ_ONLY, countsSize, nil, &e)
			d.slots[i].numResultsBuf = C.clCreateBuffer(ctx, C.CL_MEM_READ_WRITE, C.size_t(4), nil, &e)
			d.slots[i].resultsBuf = C.clCreateBuffer(ctx, C.CL_MEM_WRITE_ONLY, C.size_t(8*cfg.MaxResults), nil, &e)
		}

		p.devices = append(p.devices, d)
	}

	return p, nil
}

// Warnings delivers non-fatal capacity and consistency reports on an
// independent sink from the fatal error path, so they never compete
// with Run's returned error. The channel is closed once all device
// workers have exited Run.
func (p *Pool) Warnings() <-chan *errs.Error {
	return p.warnings
}

func (p *Pool) warn(e *errs.Error) {
	select {
	case p.warnings <- e:
	default: // a slow or absent consumer must never block device workers
	}
}

// Close releases every OpenCL object the pool owns, in reverse order of
// acquisition, on every exit path.
func (p *Pool) Close() {
	for _, d := range p.devices {
		for _, s := range d.slots {
			if s.countsBuf != nil {
				C.clReleaseMemObject(s.countsBuf)
			}
			if s.numResultsBuf != nil {
				C.clReleaseMemObject(s.numResultsBuf)
			}
			if s.resultsBuf != nil {
				C.clReleaseMemObject(s.resultsBuf)
			}
		}
		if d.bucketBuf != nil {
			C.clReleaseMemObject(d.bucketBuf)
		}
		if d.kernel != nil {
			C.clReleaseKernel(d.kernel)
		}
		if d.program != nil {
			C.clReleaseProgram(d.program)
		}
		if d.queue != nil {
			C.clReleaseCommandQueue(d.queue)
		}
		if d.context != nil {
			C.clReleaseContext(d.context)
		}
	}
}

// nextBatch advances the shared host enumerator by workSize and returns
// the batch's starting counts, or ok=false once exhausted. Must be
// called under p.mu.
func (p *Pool) nextBatch(workSize uint64) (counts []int, ok bool) {
	if p.exhausted {
		return nil, false
	}
	start := make([]int, len(p.counts))
	copy(start, p.counts)
	if enumerator.Next(p.counts, workSize, len(p.cfg.Alphabet)) == enumerator.Exhausted {
		p.exhausted = true
	}
	return start, true
}

// Run drives every device's four-phase pipeline to exhaustion and
// returns the first fatal device error encountered, if any.
func (p *Pool) Run(sink MatchSink, onProgress func(delta uint64)) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(p.devices))

	for _, d := range p.devices {
		wg.Add(1)
		go func(d *device) {
			defer wg.Done()
			if err := p.runDevice(d, sink, onProgress); err != nil {
				errCh <- err
			}
		}(d)
	}
	wg.Wait()
	close(errCh)
	close(p.warnings)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pool) runDevice(d *device, sink MatchSink, onProgress func(delta uint64)) error {
	K := len(d.slots)
	current := 0
	anyPrepared := false

	for {
		s := &d.slots[current%K]

		// Drain.
		if s.pending {
			C.clWaitForEvents(1, &s.readEvent)
			p.handleResults(d, s, sink)
			C.clReleaseEvent(s.readEvent)
			s.pending = false
		}

		// Prepare (under the host-enumerator mutex).
		p.mu.Lock()
		counts, ok := p.nextBatch(p.cfg.WorkSize)
		p.mu.Unlock()
		if !ok {
			break
		}
		anyPrepared = true
		s.initialCounts = counts
		s.workSize = p.cfg.WorkSize

		if err := p.dispatch(d, s); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress(p.cfg.WorkSize)
		}

		current++
	}

	// Cycle through every slot once more to drain pending reads.
	for i := 0; i < K; i++ {
		s := &d.slots[(current+i)%K]
		if s.pending {
			C.clWaitForEvents(1, &s.readEvent)
			p.handleResults(d, s, sink)
			C.clReleaseEvent(s.readEvent)
			s.pending = false
		}
	}

	_ = anyPrepared
	return nil
}

func (p *Pool) dispatch(d *device, s *slot) error {
	width := len(s.initialCounts)
	if width > 0 {
		hostCounts := make([]C.size_t, width)
		for i, c := range s.initialCounts {
			hostCounts[i] = C.size_t(c)
		}
		C.clEnqueueWriteBuffer(d.queue, s.countsBuf, C.CL_TRUE, 0, C.size_t(width)*C.size_t(unsafe.Sizeof(C.size_t(0))), unsafe.Pointer(&hostCounts[0]), 0, nil, nil)
	}
	var zero C.cl_uint
	C.clEnqueueWriteBuffer(d.queue, s.numResultsBuf, C.CL_TRUE, 0, 4, unsafe.Pointer(&zero), 0, nil, nil)

	C.clSetKernelArg(d.kernel, 0, C.size_t(unsafe.Sizeof(s.countsBuf)), unsafe.Pointer(&s.countsBuf))
	C.clSetKernelArg(d.kernel, 1, C.size_t(unsafe.Sizeof(s.numResultsBuf)), unsafe.Pointer(&s.numResultsBuf))
	C.clSetKernelArg(d.kernel, 2, C.size_t(unsafe.Sizeof(s.resultsBuf)), unsafe.Pointer(&s.resultsBuf))
	C.clSetKernelArg(d.kernel, 3, C.size_t(unsafe.Sizeof(d.bucketBuf)), unsafe.Pointer(&d.bucketBuf))

	globalSize := C.size_t(s.workSize)
	var kernelEvent C.cl_event
	if err := C.clEnqueueNDRangeKernel(d.queue, d.kernel, 1, nil, &globalSize, nil, 0, nil, &kernelEvent); err != C.CL_SUCCESS {
		return clError("clEnqueueNDRangeKernel", err)
	}

	var readEvent C.cl_event
	C.clEnqueueReadBuffer(d.queue, s.resultsBuf, C.CL_FALSE, 0, C.size_t(8*p.cfg.MaxResults), nil, 1, &kernelEvent, &readEvent)
	C.clReleaseEvent(kernelEvent)
	s.readEvent = readEvent
	s.pending = true
	return nil
}

// handleResults replays each device-reported candidate on the host
// (next(initial_counts, g) + apply + hash_full) and re-verifies its
// digest before reporting a match.
func (p *Pool) handleResults(d *device, s *slot, sink MatchSink) {
	var numResults C.cl_uint
	C.clEnqueueReadBuffer(d.queue, s.numResultsBuf, C.CL_TRUE, 0, 4, unsafe.Pointer(&numResults), 0, nil, nil)
	if numResults == 0 {
		return
	}
	n := int(numResults)
	if n > p.cfg.MaxResults {
		p.warn(errs.Capacity(p.cfg.MaxResults))
		n = p.cfg.MaxResults
	}

	results := make([]C.cl_ulong, n)
	C.clEnqueueReadBuffer(d.queue, s.resultsBuf, C.CL_TRUE, 0, C.size_t(8*n), unsafe.Pointer(&results[0]), 0, nil, nil)

	hs := p.cfg.Pattern.HashStr.Clone()
	alphabetSize := len(p.cfg.Alphabet)

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, r := range results {
		g := uint64(r)
		counts := make([]int, len(s.initialCounts))
		copy(counts, s.initialCounts)
		if enumerator.Next(counts, g, alphabetSize) == enumerator.Exhausted {
			p.warn(errs.Consistency(g, "candidate index lay outside the batch range"))
			continue
		}
		enumerator.Apply(hs, counts, p.cfg.Alphabet, p.cfg.Pattern.Primary, p.cfg.Pattern.Secondary)
		digest := hashcore.HashFull(hs)
		if !p.cfg.Index.Lookup(digest) {
			if digest != 0 {
				p.warn(errs.Consistency(g, "device-reported match failed to reproduce its digest on the CPU"))
			}
			continue
		}
		target, _ := p.cfg.CPUIndex.Lookup(digest)
		sink.Report(Match{Text: pattern.Format(hs), Target: target})
	}
}
