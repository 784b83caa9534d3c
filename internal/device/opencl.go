//go:build opencl

package device

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

const compiledBackend = true

// openCLBackend owns an OpenCL context and command queue on one device.
type openCLBackend struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	deviceName string
}

func openDefault() (Backend, error) {
	return newOpenCLBackend()
}

// pickDevice prefers the first GPU on any platform and falls back to a CPU device.
func pickDevice(platforms []*cl.Platform) *cl.Device {
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, err := p.GetDevices(kind)
			if err != nil && err != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0]
			}
		}
	}
	return nil
}

func newOpenCLBackend() (*openCLBackend, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no OpenCL platforms available: %w", ErrNoDevice)
	}
	device := pickDevice(platforms)
	if device == nil {
		return nil, ErrNoDevice
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	return &openCLBackend{
		context:    context,
		queue:      queue,
		deviceName: device.Name(),
	}, nil
}

func (b *openCLBackend) Name() string {
	return "opencl:" + b.deviceName
}

func (b *openCLBackend) Allocate(n int) (Buffer, error) {
	if b.context == nil {
		return nil, errors.New("device: OpenCL backend closed")
	}
	if n < 1 {
		return nil, fmt.Errorf("allocating %d elements: %w", n, ErrAllocFailed)
	}
	mem, err := b.context.CreateEmptyBuffer(cl.MemReadWrite, n*ComplexSize)
	if err != nil {
		return nil, fmt.Errorf("allocating %d elements: %w: %w", n, ErrAllocFailed, err)
	}
	return &openCLBuffer{queue: b.queue, mem: mem, n: n}, nil
}

func (b *openCLBackend) Close() error {
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.context != nil {
		b.context.Release()
		b.context = nil
	}
	return nil
}

// openCLBuffer is a read/write cl_mem of n complex64 values.
type openCLBuffer struct {
	queue *cl.CommandQueue
	mem   *cl.MemObject
	n     int
}

// Mem exposes the underlying memory object for kernel argument binding.
func (b *openCLBuffer) Mem() *cl.MemObject {
	return b.mem
}

func (b *openCLBuffer) Len() int {
	return b.n
}

func (b *openCLBuffer) Upload(src []complex64) error {
	if b.mem == nil {
		return ErrReleased
	}
	if len(src) < b.n {
		return ErrLengthMismatch
	}
	ptr := unsafe.Pointer(&src[0])
	if _, err := b.queue.EnqueueWriteBuffer(b.mem, true, 0, b.n*ComplexSize, ptr, nil); err != nil {
		return fmt.Errorf("writing result buffer: %w", err)
	}
	return nil
}

func (b *openCLBuffer) Download(dst []complex64) error {
	if b.mem == nil {
		return ErrReleased
	}
	if len(dst) < b.n {
		return ErrLengthMismatch
	}
	ptr := unsafe.Pointer(&dst[0])
	if _, err := b.queue.EnqueueReadBuffer(b.mem, true, 0, b.n*ComplexSize, ptr, nil); err != nil {
		return fmt.Errorf("reading result buffer: %w", err)
	}
	return nil
}

func (b *openCLBuffer) Release() error {
	if b.mem != nil {
		b.mem.Release()
		b.mem = nil
	}
	return nil
}
