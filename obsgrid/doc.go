// Package obsgrid models a rectangular, axis-aligned observation volume: a
// uniformly spaced 3D grid of sample points at which a field kernel evaluates
// one complex value per point.
//
// An ObservationGrid owns the point list, a struct-of-arrays copy of it for
// device transfer, and the result buffer, which lives either in host memory
// or in device memory depending on where the field computation runs. The type
// is not safe for concurrent mutation; see ObservationGrid for details.
package obsgrid
