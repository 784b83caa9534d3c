//go:build !opencl

package device

const compiledBackend = false

func openDefault() (Backend, error) {
	return nil, ErrNotCompiled
}
