package obsgrid

import (
	"fmt"

	"github.com/Distortions81/huygens-grid/internal/device"
)

// ResultBuffer holds one complex field value per observation point, in the
// same flat order as the point list. It is either a *HostBuffer or a
// *DeviceBuffer; the variant is fixed when the grid is constructed.
type ResultBuffer interface {
	Len() int
	OnDevice() bool

	allocate(n int) error
	release() error
}

// HostBuffer is a result buffer in process memory.
type HostBuffer struct {
	data []complex64
}

// Data returns the backing slice. Kernels running on the host write into it
// directly.
func (b *HostBuffer) Data() []complex64 {
	return b.data
}

// Len returns the number of complex elements.
func (b *HostBuffer) Len() int {
	return len(b.data)
}

// OnDevice reports false.
func (b *HostBuffer) OnDevice() bool {
	return false
}

// allocate resizes to n, keeping existing values and zeroing any new tail.
func (b *HostBuffer) allocate(n int) error {
	if len(b.data) >= n {
		b.data = b.data[:n]
		return nil
	}
	b.data = append(b.data, make([]complex64, n-len(b.data))...)
	return nil
}

// release is a no-op; host memory lives as long as the grid.
func (b *HostBuffer) release() error {
	return nil
}

// DeviceBuffer is a result buffer in accelerator memory. Results must be
// copied back with Download before host-side use.
type DeviceBuffer struct {
	backend device.Backend
	buf     device.Buffer
}

// Handle returns the device buffer, or nil if none is currently allocated.
func (b *DeviceBuffer) Handle() device.Buffer {
	return b.buf
}

// Backend returns the backend the buffer is allocated on.
func (b *DeviceBuffer) Backend() device.Backend {
	return b.backend
}

// Len returns the number of complex elements, or 0 when no buffer is held.
func (b *DeviceBuffer) Len() int {
	if b.buf == nil {
		return 0
	}
	return b.buf.Len()
}

// OnDevice reports true.
func (b *DeviceBuffer) OnDevice() bool {
	return true
}

// Download copies the device results into dst.
func (b *DeviceBuffer) Download(dst []complex64) error {
	if b.buf == nil {
		return device.ErrReleased
	}
	return b.buf.Download(dst)
}

func (b *DeviceBuffer) allocate(n int) error {
	buf, err := b.backend.Allocate(n)
	if err != nil {
		return fmt.Errorf("%w: %d points on %s: %w", ErrAllocation, n, b.backend.Name(), err)
	}
	b.buf = buf
	return nil
}

func (b *DeviceBuffer) release() error {
	if b.buf == nil {
		return nil
	}
	err := b.buf.Release()
	b.buf = nil
	return err
}
