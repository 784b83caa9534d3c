package device

import "errors"

var (
	// ErrNotCompiled is returned when no device backend was built into the binary.
	ErrNotCompiled = errors.New("device: backend not compiled in; rebuild with -tags opencl")

	// ErrNoDevice is returned when the backend is compiled in but no usable
	// device was found at runtime.
	ErrNoDevice = errors.New("device: no suitable device found")

	// ErrAllocFailed is returned when device memory could not be allocated.
	ErrAllocFailed = errors.New("device: allocation failed")

	// ErrLengthMismatch is returned when a host slice is shorter than the buffer.
	ErrLengthMismatch = errors.New("device: length mismatch")

	// ErrReleased is returned for transfers on a released buffer.
	ErrReleased = errors.New("device: buffer released")
)
