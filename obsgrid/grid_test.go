package obsgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHostGrid(t *testing.T, minL, maxL Coord, res float32) *ObservationGrid {
	t.Helper()
	g, err := New(3, minL, maxL, res, 343, false)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

func TestPointCounts(t *testing.T) {
	tests := []struct {
		name  string
		minL  Coord
		maxL  Coord
		res   float32
		want  Counts
		total int
	}{
		{
			name:  "unit cube at resolution 1",
			maxL:  Coord{1, 1, 1},
			res:   1,
			want:  Counts{1, 1, 1},
			total: 1,
		},
		{
			name:  "flat y axis is clamped to one",
			maxL:  Coord{2, 0, 1},
			res:   2,
			want:  Counts{4, 1, 2},
			total: 8,
		},
		{
			name:  "fractional extent is floored",
			minL:  Coord{-1, -1, 0},
			maxL:  Coord{1.3, 0.9, 0.49},
			res:   2,
			want:  Counts{4, 3, 1},
			total: 12,
		},
		{
			name:  "fully degenerate volume",
			minL:  Coord{5, 5, 5},
			maxL:  Coord{5, 5, 5},
			res:   10,
			want:  Counts{1, 1, 1},
			total: 1,
		},
		{
			name:  "inverted bounds clamp instead of going negative",
			minL:  Coord{1, 0, 0},
			maxL:  Coord{0, 1, 1},
			res:   4,
			want:  Counts{1, 4, 4},
			total: 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newHostGrid(t, tt.minL, tt.maxL, tt.res)

			first := g.PointCounts()
			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, g.PointCounts(), "counts must be stable across calls")
			assert.Equal(t, tt.total, g.TotalPointCount())
			assert.Equal(t, first.X*first.Y*first.Z, g.TotalPointCount())
			assert.Len(t, g.Points(), tt.total)
		})
	}
}

func TestDegenerateAxesYieldOnePoint(t *testing.T) {
	for axis := 0; axis < 3; axis++ {
		maxL := Coord{3, 3, 3}
		switch axis {
		case 0:
			maxL.X = 0
		case 1:
			maxL.Y = 0
		case 2:
			maxL.Z = 0
		}
		g := newHostGrid(t, Coord{}, maxL, 1)
		n := g.PointCounts()
		got := [3]int{n.X, n.Y, n.Z}
		for i, c := range got {
			if i == axis {
				assert.Equal(t, 1, c, "axis %d", axis)
			} else {
				assert.Equal(t, 3, c, "axis %d", i)
			}
		}
	}
}

func TestSinglePointGrid(t *testing.T) {
	g := newHostGrid(t, Coord{}, Coord{1, 1, 1}, 1)
	require.Len(t, g.Points(), 1)
	assert.Equal(t, Coord{0, 0, 0}, g.Points()[0])
}

func TestIndexFormula(t *testing.T) {
	minL := Coord{-1, 0.5, 2}
	g := newHostGrid(t, minL, Coord{1, 2, 3}, 4)
	n := g.PointCounts()
	require.Equal(t, Counts{8, 6, 4}, n)

	step := float32(1) / g.Resolution()
	for i := 0; i < n.X; i++ {
		for j := 0; j < n.Y; j++ {
			for k := 0; k < n.Z; k++ {
				idx := i*n.Y*n.Z + j*n.Z + k
				require.Equal(t, idx, g.Index(i, j, k))
				want := Coord{
					X: minL.X + float32(float32(i)*step),
					Y: minL.Y + float32(float32(j)*step),
					Z: minL.Z + float32(float32(k)*step),
				}
				require.Equal(t, want, g.Points()[idx], "cell (%d,%d,%d)", i, j, k)
				require.Equal(t, want, g.PointAt(i, j, k))
			}
		}
	}
}

func TestZIsFastestVaryingAxis(t *testing.T) {
	g := newHostGrid(t, Coord{}, Coord{2, 0, 1}, 2)
	want := []Coord{
		{0, 0, 0}, {0, 0, 0.5},
		{0.5, 0, 0}, {0.5, 0, 0.5},
		{1, 0, 0}, {1, 0, 0.5},
		{1.5, 0, 0}, {1.5, 0, 0.5},
	}
	assert.Equal(t, want, g.Points())
}

func TestParallelGenerationMatchesSequential(t *testing.T) {
	minL := Coord{-0.5, -0.25, 0}
	res := float32(20)
	n, err := computeCounts(minL, Coord{3.5, 2.75, 1.6}, res)
	require.NoError(t, err)
	require.Greater(t, n.Product(), parallelThreshold)

	got := generatePoints(minL, res, n)
	want := make([]Coord, n.Product())
	fillSlab(want, minL, 1/res, n, 0, n.X)
	assert.Equal(t, want, got)
}

func TestFlattenedPointsRoundTrip(t *testing.T) {
	g := newHostGrid(t, Coord{-1, -2, 0}, Coord{1, 0, 1.5}, 2)
	n := g.TotalPointCount()
	flat := g.FlattenedPoints()
	require.Len(t, flat, 3*n)

	for i, p := range g.Points() {
		assert.Equal(t, p.X, flat[i])
		assert.Equal(t, p.Y, flat[i+n])
		assert.Equal(t, p.Z, flat[i+2*n])
	}
}

func TestGridTooLarge(t *testing.T) {
	tests := []struct {
		name string
		maxL Coord
		res  float32
	}{
		{"scaled extent beyond int range", Coord{1, 1, 1}, 1e30},
		{"single axis above the point limit", Coord{3e9, 0, 0}, 1},
		{"axes fit but product overflows", Coord{1e5, 1e5, 1}, 1},
		{"three moderate axes overflow together", Coord{2048, 2048, 1024}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(3, Coord{}, tt.maxL, tt.res, 343, false)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, ErrGridTooLarge)
		})
	}
}

func TestComputeCountsAtLimit(t *testing.T) {
	// Largest float32 below 2^31; MaxPoints itself rounds up to 2^31.
	const largest = 1<<31 - 128
	n, err := computeCounts(Coord{}, Coord{largest, 0, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, Counts{largest, 1, 1}, n)
	assert.Equal(t, largest, n.Product())

	_, err = computeCounts(Coord{}, Coord{MaxPoints, 0, 0}, 1)
	assert.ErrorIs(t, err, ErrGridTooLarge)
}

func TestFlattenedPointsBuiltLazily(t *testing.T) {
	g := newHostGrid(t, Coord{}, Coord{2, 2, 2}, 2)
	require.Len(t, g.points, 64, "points are generated by New")
	assert.Nil(t, g.flat, "flattened planes must not be built by New")

	g.FlattenedPoints()
	assert.Len(t, g.flat, 3*64)
}

func TestFlattenedPointsIsCached(t *testing.T) {
	g := newHostGrid(t, Coord{}, Coord{2, 2, 2}, 2)
	points := g.Points()

	first := g.FlattenedPoints()
	second := g.FlattenedPoints()
	require.Len(t, second, len(first))
	assert.Same(t, &first[0], &second[0], "flattened planes must not be rebuilt")
	assert.Same(t, &points[0], &g.Points()[0], "points must not be regenerated")
}

func TestAreaSize(t *testing.T) {
	g := newHostGrid(t, Coord{-1, 0, 2}, Coord{3, 0.5, 2}, 1)
	assert.Equal(t, Coord{4, 0.5, 0}, g.AreaSize())
	assert.Equal(t, float32(4), g.AreaSizeX())
	assert.Equal(t, float32(0.5), g.AreaSizeY())
	assert.Equal(t, float32(0), g.AreaSizeZ())
}

func TestPositionAt(t *testing.T) {
	minL := Coord{-2, -1, 0}
	maxL := Coord{2, 1, 4}
	g := newHostGrid(t, minL, maxL, 1)
	const w, h = 100, 50

	tests := []struct {
		name string
		x, z int
		want Coord
	}{
		{"raster origin maps to max limits", 0, 0, maxL},
		{"x saturation reaches min x", w, 0, Coord{minL.X, maxL.Y, maxL.Z}},
		{"z saturation reaches min z", 0, h, Coord{maxL.X, maxL.Y, minL.Z}},
		{"far corner maps to min x and z", w, h, Coord{minL.X, maxL.Y, minL.Z}},
		{"midpoint", w / 2, h / 2, Coord{0, maxL.Y, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.PositionAt(tt.x, tt.z, w, h)
			assert.InDelta(t, tt.want.X, got.X, 1e-6)
			assert.Equal(t, maxL.Y, got.Y, "y is never interpolated")
			assert.InDelta(t, tt.want.Z, got.Z, 1e-6)
		})
	}
}

func TestAccessors(t *testing.T) {
	minL, maxL := Coord{0, 1, 2}, Coord{3, 4, 5}
	g, err := New(2, minL, maxL, 1.5, 1480, false)
	require.NoError(t, err)
	defer g.Close()

	assert.Equal(t, 2, g.Dim())
	assert.Equal(t, minL, g.MinLimits())
	assert.Equal(t, maxL, g.MaxLimits())
	assert.Equal(t, float32(1.5), g.Resolution())
	assert.Equal(t, float32(1480), g.SpeedOfSound())
	assert.False(t, g.ResultIsOnGPU())
}

func TestSetSpeedOfSound(t *testing.T) {
	tests := []struct {
		name string
		v    float32
		want float32
	}{
		{"positive value is applied", 1500, 1500},
		{"zero is ignored", 0, 343},
		{"negative is ignored", -10, 343},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newHostGrid(t, Coord{}, Coord{1, 1, 1}, 1)
			// Invalid values are dropped without an error in the default mode.
			assert.NoError(t, g.SetSpeedOfSound(tt.v))
			assert.Equal(t, tt.want, g.SpeedOfSound())
		})
	}
}

func TestSetSpeedOfSoundStrict(t *testing.T) {
	g, err := New(3, Coord{}, Coord{1, 1, 1}, 1, 343, false, WithStrictParams())
	require.NoError(t, err)
	defer g.Close()

	assert.ErrorIs(t, g.SetSpeedOfSound(-1), ErrInvalidSpeedOfSound)
	assert.ErrorIs(t, g.SetSpeedOfSound(0), ErrInvalidSpeedOfSound)
	assert.Equal(t, float32(343), g.SpeedOfSound())

	require.NoError(t, g.SetSpeedOfSound(1480))
	assert.Equal(t, float32(1480), g.SpeedOfSound())
}
