package obsgrid

import "errors"

var (
	// ErrConfiguration is returned by New when a device-resident result is
	// requested but no device backend is available.
	ErrConfiguration = errors.New("obsgrid: result cannot be placed on the device")

	// ErrAllocation is returned when the device result buffer could not be
	// allocated. The grid holds no device buffer afterwards.
	ErrAllocation = errors.New("obsgrid: result buffer allocation failed")

	// ErrGridTooLarge is returned by New when an axis count or the total
	// point count exceeds MaxPoints.
	ErrGridTooLarge = errors.New("obsgrid: grid too large")

	// ErrInvalidSpeedOfSound is returned by SetSpeedOfSound in strict mode
	// for values <= 0.
	ErrInvalidSpeedOfSound = errors.New("obsgrid: speed of sound must be positive")
)
