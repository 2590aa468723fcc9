// Package volume implements the dense multi-dimensional scalar store consumed
// by the distance and watershed engines. A volume is addressed by
// (x, y, z, t) and holds double-precision values; storage is one flat plane
// per (z, t) pair so row and column scans touch contiguous memory.
package volume

import (
	"fmt"

	"roimorph/internal/models"
)

// Volume is a dense 5D array of float64 with a single channel per instance.
// Multi-channel data is handled by issuing one Volume per channel. A Volume is
// allocated once per computation, fully overwritten by the transform passes,
// and read-only afterwards; it is not safe for concurrent mutation.
type Volume struct {
	dims   models.Dims
	planes [][]float64 // indexed t*dims.Z+z, each dims.X*dims.Y long
}

// New allocates a zeroed volume of the given dimensions. Invalid dimensions
// are rejected; an allocation failure surfaces as a runtime panic from the
// allocator and is not retried or downsized here.
func New(dims models.Dims) (*Volume, error) {
	if err := dims.Validate(); err != nil {
		return nil, fmt.Errorf("allocating volume: %w", err)
	}
	planes := make([][]float64, dims.Z*dims.T)
	for i := range planes {
		planes[i] = make([]float64, dims.PlaneLen())
	}
	return &Volume{dims: dims, planes: planes}, nil
}

// Dims returns the volume extents.
func (v *Volume) Dims() models.Dims {
	return v.dims
}

// Plane returns the backing storage of one (z, t) plane, row-major. Callers
// scanning whole rows or columns should prefer it over Get/Set.
func (v *Volume) Plane(z, t int) []float64 {
	return v.planes[t*v.dims.Z+z]
}

// Get returns the value at (x, y, z, t).
func (v *Volume) Get(x, y, z, t int) float64 {
	return v.planes[t*v.dims.Z+z][y*v.dims.X+x]
}

// Set stores val at (x, y, z, t).
func (v *Volume) Set(x, y, z, t int, val float64) {
	v.planes[t*v.dims.Z+z][y*v.dims.X+x] = val
}
