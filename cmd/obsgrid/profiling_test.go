package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Distortions81/huygens-grid/obsgrid"
)

func newTestGrid() (*obsgrid.ObservationGrid, error) {
	return obsgrid.New(3, obsgrid.Coord{}, obsgrid.Coord{X: 1, Y: 1, Z: 1}, 8, 343, false)
}

func TestBuildProfiledWritesProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.pprof")

	g, err := buildProfiled(path, newTestGrid)
	require.NoError(t, err)
	defer g.Close()
	assert.Equal(t, 512, g.TotalPointCount())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestBuildProfiledWithoutPath(t *testing.T) {
	calls := 0
	g, err := buildProfiled("", func() (*obsgrid.ObservationGrid, error) {
		calls++
		return newTestGrid()
	})
	require.NoError(t, err)
	defer g.Close()
	assert.Equal(t, 1, calls)
}

func TestBuildProfiledPropagatesBuildError(t *testing.T) {
	boom := errors.New("boom")
	path := filepath.Join(t.TempDir(), "build.pprof")

	g, err := buildProfiled(path, func() (*obsgrid.ObservationGrid, error) { return nil, boom })
	assert.Nil(t, g)
	assert.ErrorIs(t, err, boom)
}

func TestBuildProfiledBadPath(t *testing.T) {
	called := false
	_, err := buildProfiled(filepath.Join(t.TempDir(), "missing", "build.pprof"), func() (*obsgrid.ObservationGrid, error) {
		called = true
		return newTestGrid()
	})
	assert.Error(t, err)
	assert.False(t, called)
}
