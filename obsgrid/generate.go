package obsgrid

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the point count above which x-slabs are generated
// on separate goroutines.
const parallelThreshold = 1 << 16

// MaxPoints is the largest supported point count. Device kernels address
// points with a 32-bit int global id.
const MaxPoints = math.MaxInt32

// axisCount floors a scaled extent to a sample count. Zero, negative and NaN
// extents yield a single sample; extents above MaxPoints report false.
func axisCount(scaled float32) (int, bool) {
	if !(scaled >= 1) {
		return 1, true
	}
	f := math.Floor(float64(scaled))
	if f > MaxPoints {
		return 0, false
	}
	return int(f), true
}

// computeCounts derives per-axis sample counts from the bounds and resolution.
// It fails with ErrGridTooLarge when an axis or the total exceeds MaxPoints.
func computeCounts(minL, maxL Coord, resolution float32) (Counts, error) {
	diff := maxL.Sub(minL).Scale(resolution)
	var n Counts
	var ok [3]bool
	n.X, ok[0] = axisCount(diff.X)
	n.Y, ok[1] = axisCount(diff.Y)
	n.Z, ok[2] = axisCount(diff.Z)
	if !ok[0] || !ok[1] || !ok[2] {
		return Counts{}, fmt.Errorf("%w: scaled extent %+v", ErrGridTooLarge, diff)
	}
	// Each axis is at most MaxPoints, so the pairwise products fit in int64.
	xy := int64(n.X) * int64(n.Y)
	if xy > MaxPoints || xy*int64(n.Z) > MaxPoints {
		return Counts{}, fmt.Errorf("%w: %d x %d x %d points", ErrGridTooLarge, n.X, n.Y, n.Z)
	}
	return n, nil
}

// gridPoint returns origin + (i, j, k)*step. The explicit conversions keep
// the product rounded before the add so the result never depends on FMA.
func gridPoint(origin Coord, step float32, i, j, k int) Coord {
	return Coord{
		X: origin.X + float32(float32(i)*step),
		Y: origin.Y + float32(float32(j)*step),
		Z: origin.Z + float32(float32(k)*step),
	}
}

// fillSlab writes the points of x-indices [i0, i1) into points, z fastest.
func fillSlab(points []Coord, origin Coord, step float32, n Counts, i0, i1 int) {
	for i := i0; i < i1; i++ {
		for j := 0; j < n.Y; j++ {
			base := i*n.Y*n.Z + j*n.Z
			for k := 0; k < n.Z; k++ {
				points[base+k] = gridPoint(origin, step, i, j, k)
			}
		}
	}
}

// generatePoints builds the full row-major point list. Large grids are split
// into x-slabs across CPUs; every slab owns a disjoint index range, so the
// output is identical to a sequential walk.
func generatePoints(origin Coord, resolution float32, n Counts) []Coord {
	step := 1 / resolution
	points := make([]Coord, n.Product())
	workers := runtime.NumCPU()
	if len(points) < parallelThreshold || workers < 2 || n.X < 2 {
		fillSlab(points, origin, step, n, 0, n.X)
		return points
	}

	// At most workers slabs. Filling cannot fail; the group only joins them.
	slab := (n.X + workers - 1) / workers
	var g errgroup.Group
	for i0 := 0; i0 < n.X; i0 += slab {
		i0 := i0 // per-iteration copy; module targets go 1.21 loop semantics
		i1 := min(i0+slab, n.X)
		g.Go(func() error {
			fillSlab(points, origin, step, n, i0, i1)
			return nil
		})
	}
	_ = g.Wait()
	return points
}
