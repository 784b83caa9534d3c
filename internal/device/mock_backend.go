package device

import (
	"fmt"
	"sync"
)

// MockBackend is a host-memory backend for development and tests. It behaves
// like a device backend: buffers must be released explicitly.
type MockBackend struct {
	// FailAlloc, when set, is wrapped into every Allocate error.
	FailAlloc error

	mu     sync.Mutex
	live   int
	allocs int
	closed bool
}

// NewMockBackend returns a mock backend with no injected failures.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

func (b *MockBackend) Name() string {
	return "mock"
}

func (b *MockBackend) Allocate(n int) (Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailAlloc != nil {
		return nil, fmt.Errorf("mock backend: %w: %w", ErrAllocFailed, b.FailAlloc)
	}
	if b.closed {
		return nil, fmt.Errorf("mock backend closed: %w", ErrAllocFailed)
	}
	if n < 1 {
		return nil, fmt.Errorf("mock backend: %d elements: %w", n, ErrAllocFailed)
	}
	b.live++
	b.allocs++
	return &mockBuffer{owner: b, data: make([]complex64, n)}, nil
}

// Live reports how many buffers are allocated and not yet released.
func (b *MockBackend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

// Allocations reports the total number of successful allocations.
func (b *MockBackend) Allocations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.allocs
}

func (b *MockBackend) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

type mockBuffer struct {
	owner *MockBackend
	data  []complex64
}

func (b *mockBuffer) Len() int {
	return len(b.data)
}

func (b *mockBuffer) Upload(src []complex64) error {
	if b.data == nil {
		return ErrReleased
	}
	if len(src) < len(b.data) {
		return ErrLengthMismatch
	}
	copy(b.data, src)
	return nil
}

func (b *mockBuffer) Download(dst []complex64) error {
	if b.data == nil {
		return ErrReleased
	}
	if len(dst) < len(b.data) {
		return ErrLengthMismatch
	}
	copy(dst, b.data)
	return nil
}

func (b *mockBuffer) Release() error {
	if b.data == nil {
		return nil
	}
	b.data = nil
	b.owner.mu.Lock()
	b.owner.live--
	b.owner.mu.Unlock()
	return nil
}
