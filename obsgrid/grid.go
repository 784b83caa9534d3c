package obsgrid

import (
	"fmt"
	"log/slog"

	"github.com/Distortions81/huygens-grid/internal/device"
)

// ObservationGrid is a discrete grid of field observation points together
// with the buffer that receives one complex result per point.
//
// Points are generated eagerly by New. Counts and the flattened point planes
// are computed lazily and cached. An ObservationGrid is meant for a single
// goroutine: concurrent readers are safe only once New has returned and as
// long as nobody calls SetSpeedOfSound or triggers the first FlattenedPoints
// build at the same time.
type ObservationGrid struct {
	dim          int
	minLimits    Coord
	maxLimits    Coord
	resolution   float32
	speedOfSound float32
	strict       bool

	counts      Counts
	total       int
	countsReady bool

	points []Coord
	flat   []float32

	resultOnGPU bool
	result      ResultBuffer
}

// New builds the observation grid spanning [minL, maxL] with resolution
// samples per meter along every axis, and allocates its result buffer on the
// host or, when resultOnGPU is set, on the device backend.
//
// New fails with ErrConfiguration when resultOnGPU is requested and no device
// backend is available, and with ErrAllocation when the device buffer cannot
// be allocated, and with ErrGridTooLarge when the bounds and resolution ask for
// more than MaxPoints points. No grid is returned in any of these cases.
func New(dim int, minL, maxL Coord, resolution, speedOfSound float32, resultOnGPU bool, opts ...Option) (*ObservationGrid, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	g := &ObservationGrid{
		dim:          dim,
		minLimits:    minL,
		maxLimits:    maxL,
		resolution:   resolution,
		speedOfSound: speedOfSound,
		strict:       o.strict,
		resultOnGPU:  resultOnGPU,
	}

	if resultOnGPU {
		backend := o.backend
		if backend == nil {
			b, err := device.Default()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
			}
			backend = b
		}
		g.result = &DeviceBuffer{backend: backend}
	} else {
		g.result = &HostBuffer{}
	}

	if err := g.loadCounts(); err != nil {
		return nil, err
	}
	g.points = generatePoints(minL, resolution, g.counts)

	if err := g.AllocateResultBuffer(); err != nil {
		return nil, err
	}
	return g, nil
}

// PointCounts returns the number of observation points along x, y and z.
// An axis with zero extent has exactly one point.
func (g *ObservationGrid) PointCounts() Counts {
	// New has already rejected oversized grids, so this cannot fail here.
	_ = g.loadCounts()
	return g.counts
}

// loadCounts computes and caches the counts on first use.
func (g *ObservationGrid) loadCounts() error {
	if g.countsReady {
		return nil
	}
	n, err := computeCounts(g.minLimits, g.maxLimits, g.resolution)
	if err != nil {
		return err
	}
	g.counts = n
	g.total = n.Product()
	g.countsReady = true
	return nil
}

// TotalPointCount returns the number of observation points.
func (g *ObservationGrid) TotalPointCount() int {
	if !g.countsReady {
		g.PointCounts()
	}
	return g.total
}

// AreaSize returns the extent of the volume in meters.
func (g *ObservationGrid) AreaSize() Coord {
	return g.maxLimits.Sub(g.minLimits)
}

// AreaSizeX, AreaSizeY and AreaSizeZ return single components of AreaSize.
func (g *ObservationGrid) AreaSizeX() float32 { return g.AreaSize().X }
func (g *ObservationGrid) AreaSizeY() float32 { return g.AreaSize().Y }
func (g *ObservationGrid) AreaSizeZ() float32 { return g.AreaSize().Z }

// Points returns the observation points in row-major order, z fastest.
// The slice is owned by the grid and must not be modified.
func (g *ObservationGrid) Points() []Coord {
	return g.points
}

// Index returns the flat index of grid cell (i, j, k).
func (g *ObservationGrid) Index(i, j, k int) int {
	n := g.PointCounts()
	return i*n.Y*n.Z + j*n.Z + k
}

// PointAt returns the observation point at grid cell (i, j, k).
func (g *ObservationGrid) PointAt(i, j, k int) Coord {
	return g.points[g.Index(i, j, k)]
}

// FlattenedPoints returns the points as three contiguous planes suited for
// device transfer: [x1..xn y1..yn z1..zn]. The slice is built on the first
// call and the same slice is returned afterwards; it must not be modified.
func (g *ObservationGrid) FlattenedPoints() []float32 {
	if g.flat == nil {
		n := g.TotalPointCount()
		flat := make([]float32, 3*n)
		xs, ys, zs := flat[:n], flat[n:2*n], flat[2*n:]
		for i, p := range g.points {
			xs[i] = p.X
			ys[i] = p.Y
			zs[i] = p.Z
		}
		g.flat = flat
	}
	return g.flat
}

// PositionAt maps raster cell (x, z) of a w by h image to a position in the
// volume. Interpolation runs from the max limits at the raster origin toward
// the min limits; y stays at the max limit. w and h must be non-zero.
func (g *ObservationGrid) PositionAt(x, z, w, h int) Coord {
	t := Coord{X: float32(x) / float32(w), Y: 0, Z: float32(z) / float32(h)}
	return lerp(g.maxLimits, g.minLimits, t)
}

// AllocateResultBuffer (re)allocates the result buffer for TotalPointCount
// elements. A device buffer that is already held is released first. On
// failure the grid holds no device buffer until a later call succeeds.
func (g *ObservationGrid) AllocateResultBuffer() error {
	if err := g.result.release(); err != nil {
		slog.Warn("releasing previous result buffer", "err", err)
	}
	n := g.TotalPointCount()
	if err := g.result.allocate(n); err != nil {
		return err
	}
	if db, ok := g.result.(*DeviceBuffer); ok {
		slog.Debug("allocated device result buffer", "points", n, "backend", db.backend.Name())
	}
	return nil
}

// ReleaseResultBuffer frees a device result buffer. It is a no-op for host
// buffers and when no device buffer is held.
func (g *ObservationGrid) ReleaseResultBuffer() error {
	return g.result.release()
}

// ResultBuffer returns the result buffer variant chosen at construction.
func (g *ObservationGrid) ResultBuffer() ResultBuffer {
	return g.result
}

// Close releases the device result buffer, if any. It never fails; release
// errors are logged.
func (g *ObservationGrid) Close() {
	if g.result == nil {
		return
	}
	if err := g.result.release(); err != nil {
		slog.Warn("releasing result buffer on close", "err", err)
	}
}

// Construction parameters. SpeedOfSound reflects later SetSpeedOfSound calls;
// everything else is fixed for the life of the grid.
func (g *ObservationGrid) Dim() int              { return g.dim }
func (g *ObservationGrid) Resolution() float32   { return g.resolution }
func (g *ObservationGrid) MinLimits() Coord      { return g.minLimits }
func (g *ObservationGrid) MaxLimits() Coord      { return g.maxLimits }
func (g *ObservationGrid) SpeedOfSound() float32 { return g.speedOfSound }
func (g *ObservationGrid) ResultIsOnGPU() bool   { return g.resultOnGPU }

// SetSpeedOfSound updates the speed of sound. Values <= 0 are ignored and the
// previous value is kept. By default the rejection is silent and nil is
// returned; grids built WithStrictParams return ErrInvalidSpeedOfSound.
func (g *ObservationGrid) SetSpeedOfSound(v float32) error {
	if v > 0 {
		g.speedOfSound = v
		return nil
	}
	if g.strict {
		return fmt.Errorf("%w: got %g", ErrInvalidSpeedOfSound, v)
	}
	return nil
}
