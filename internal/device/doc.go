// Package device abstracts the accelerator that holds device-resident result
// memory for the observation grid.
//
// A real backend is compiled in with the "opencl" build tag. Without it,
// Default reports ErrNotCompiled and only explicitly registered or injected
// backends (such as MockBackend) are usable.
package device
