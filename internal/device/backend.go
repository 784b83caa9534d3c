package device

import (
	"sync"
	"unsafe"
)

// ComplexSize is the byte size of one result element (a packed float2).
const ComplexSize = int(unsafe.Sizeof(complex64(0)))

// Backend allocates device memory for complex results.
type Backend interface {
	Name() string
	// Allocate reserves device memory for n complex64 elements.
	Allocate(n int) (Buffer, error)
	Close() error
}

// Buffer is a device-resident block of complex64 values.
type Buffer interface {
	Len() int
	// Upload copies len() elements from host to device.
	Upload(src []complex64) error
	// Download copies len() elements from device to host.
	Download(dst []complex64) error
	// Release frees the device memory. Releasing twice is a no-op.
	Release() error
}

var (
	backendMu sync.RWMutex
	backend   Backend

	openOnce   sync.Once
	openedDef  Backend
	openDefErr error
)

// Register installs b as the process-wide backend. Passing nil clears it.
func Register(b Backend) {
	backendMu.Lock()
	backend = b
	backendMu.Unlock()
}

// Current reports the registered backend, or nil.
func Current() Backend {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	return b
}

// Compiled reports whether a real device backend is built into this binary.
func Compiled() bool {
	return compiledBackend
}

// Default returns the registered backend if there is one, otherwise the
// compiled-in backend, opened on first use and cached.
func Default() (Backend, error) {
	if b := Current(); b != nil {
		return b, nil
	}
	if !compiledBackend {
		return nil, ErrNotCompiled
	}
	openOnce.Do(func() {
		openedDef, openDefErr = openDefault()
	})
	return openedDef, openDefErr
}
