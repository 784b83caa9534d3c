package obsgrid

import "github.com/Distortions81/huygens-grid/internal/device"

type options struct {
	backend device.Backend
	strict  bool
}

// Option configures New.
type Option func(*options)

// WithBackend places a device-resident result buffer on b instead of the
// process default backend.
func WithBackend(b device.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithStrictParams makes SetSpeedOfSound report invalid values instead of
// silently ignoring them.
func WithStrictParams() Option {
	return func(o *options) { o.strict = true }
}
