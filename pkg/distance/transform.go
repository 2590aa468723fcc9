// Package distance implements the exact Euclidean distance transform over a
// set of foreground regions. For every voxel inside the union of the input
// regions it computes the physical distance to the nearest voxel outside that
// union, per time point, using a three-pass separable algorithm: a two-scan
// row pass, a lower-envelope column pass and, for volumes with more than one
// slice, a lower-envelope depth pass. Distances accumulate squared in double
// precision and are square-rooted in place at the end.
package distance

import (
	"context"
	"fmt"
	"math"

	"roimorph/internal/models"
	"roimorph/pkg/region"
	"roimorph/pkg/volume"
)

// Transform computes distance maps for one grid geometry. A Transform is
// stateless between calls; each Compute call owns its working volume
// exclusively, so distinct calls may run concurrently on distinct volumes.
type Transform struct {
	dims  models.Dims
	pixel models.PixelSize
}

// NewTransform validates the grid geometry and physical spacing. Any
// non-positive dimension, or a non-positive spacing on an axis with more than
// one voxel, is a precondition violation and rejects the whole call.
func NewTransform(dims models.Dims, pixel models.PixelSize) (*Transform, error) {
	if err := dims.Validate(); err != nil {
		return nil, fmt.Errorf("distance transform: %w", err)
	}
	if err := pixel.Validate(dims); err != nil {
		return nil, fmt.Errorf("distance transform: %w", err)
	}
	return &Transform{dims: dims, pixel: pixel.Normalized(dims)}, nil
}

// Dims returns the grid geometry the transform operates on.
func (tr *Transform) Dims() models.Dims {
	return tr.dims
}

// PixelSize returns the normalized physical spacing.
func (tr *Transform) PixelSize() models.PixelSize {
	return tr.pixel
}

// Compute returns a volume holding, per voxel, the physical distance to the
// nearest voxel outside the union of the given regions. Voxels never inside
// any region hold 0. An empty region list produces an all-zero volume, not an
// error. Cancellation of ctx is checked between time points and between the
// major passes; on cancellation ctx.Err() is returned and no partial volume.
func (tr *Transform) Compute(ctx context.Context, regions []region.Region) (*volume.Volume, error) {
	vol, err := volume.New(tr.dims)
	if err != nil {
		return nil, err
	}

	for t := 0; t < tr.dims.T; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr.stamp(vol, regions, t)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr.rowPass(vol, t)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr.columnPass(vol, t)

		if tr.dims.Z > 1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			tr.depthPass(vol, t)
		}

		tr.finalize(vol, t)
	}

	return vol, nil
}

// stamp writes the inside marker 1.0 at every voxel covered by a region mask
// for time point t. The plane starts zeroed, so voxels outside every region
// keep the background value.
func (tr *Transform) stamp(vol *volume.Volume, regions []region.Region, t int) {
	sx := tr.dims.X
	for z := 0; z < tr.dims.Z; z++ {
		plane := vol.Plane(z, t)
		for _, r := range regions {
			mask := r.Slice(z, t)
			if mask == nil {
				continue
			}
			mask.ForEach(func(x, y int) {
				if x < 0 || y < 0 || x >= sx || y >= tr.dims.Y {
					return
				}
				plane[y*sx+x] = 1.0
			})
		}
	}
}

// rowPass replaces every stamped voxel with its squared 1D distance to the
// nearest background position along its row. Two scans per row: the forward
// scan accumulates a running physical offset that resets at background, the
// backward scan keeps the minimum of both directions.
func (tr *Transform) rowPass(vol *volume.Volume, t int) {
	sx, sy := tr.dims.X, tr.dims.Y
	px := tr.pixel.X

	for z := 0; z < tr.dims.Z; z++ {
		plane := vol.Plane(z, t)
		for y := 0; y < sy; y++ {
			row := plane[y*sx : (y+1)*sx]

			v := 0.0
			for x := 0; x < sx; x++ {
				if row[x] != 0 {
					v += px
					row[x] = v * v
				} else {
					v = 0
				}
			}

			v = 0
			for x := sx - 1; x >= 0; x-- {
				if row[x] != 0 {
					v += px
					if d := v * v; d < row[x] {
						row[x] = d
					}
				} else {
					v = 0
				}
			}
		}
	}
}

// columnPass folds the Y axis into the squared distances with an exact 1D
// lower-envelope sweep per column: each cell takes the minimum over all rows
// of that row's value plus the squared physical Y offset. Both sweeps walk
// candidate rows outward from the cell and stop as soon as the offset alone
// can no longer undercut the current value; the parabola offsets grow
// monotonically, so nothing past the break point can win.
func (tr *Transform) columnPass(vol *volume.Volume, t int) {
	sx, sy := tr.dims.X, tr.dims.Y
	w2 := tr.pixel.Y * tr.pixel.Y
	src := make([]float64, sy)

	for z := 0; z < tr.dims.Z; z++ {
		plane := vol.Plane(z, t)
		for x := 0; x < sx; x++ {
			for y := 0; y < sy; y++ {
				src[y] = plane[y*sx+x]
			}

			// Forward sweep: candidates at or above the cell.
			for y := 1; y < sy; y++ {
				best := src[y]
				if best == 0 {
					continue
				}
				for j := y - 1; j >= 0; j-- {
					dy := float64(y - j)
					off := w2 * dy * dy
					if off >= best {
						break
					}
					if c := src[j] + off; c < best {
						best = c
					}
				}
				plane[y*sx+x] = best
			}

			// Backward sweep: candidates below the cell.
			for y := sy - 2; y >= 0; y-- {
				best := plane[y*sx+x]
				if best == 0 {
					continue
				}
				for j := y + 1; j < sy; j++ {
					dy := float64(j - y)
					off := w2 * dy * dy
					if off >= best {
						break
					}
					if c := src[j] + off; c < best {
						best = c
					}
				}
				plane[y*sx+x] = best
			}
		}
	}
}

// depthPass folds the Z axis the same way the column pass folds Y, reading
// one value per plane at a fixed (x, y). Only volumes with more than one
// slice reach it.
func (tr *Transform) depthPass(vol *volume.Volume, t int) {
	sx, sz := tr.dims.X, tr.dims.Z
	w2 := tr.pixel.Z * tr.pixel.Z
	src := make([]float64, sz)
	planes := make([][]float64, sz)
	for z := 0; z < sz; z++ {
		planes[z] = vol.Plane(z, t)
	}

	for y := 0; y < tr.dims.Y; y++ {
		for x := 0; x < sx; x++ {
			i := y*sx + x
			for z := 0; z < sz; z++ {
				src[z] = planes[z][i]
			}

			for z := 1; z < sz; z++ {
				best := src[z]
				if best == 0 {
					continue
				}
				for j := z - 1; j >= 0; j-- {
					dz := float64(z - j)
					off := w2 * dz * dz
					if off >= best {
						break
					}
					if c := src[j] + off; c < best {
						best = c
					}
				}
				planes[z][i] = best
			}

			for z := sz - 2; z >= 0; z-- {
				best := planes[z][i]
				if best == 0 {
					continue
				}
				for j := z + 1; j < sz; j++ {
					dz := float64(j - z)
					off := w2 * dz * dz
					if off >= best {
						break
					}
					if c := src[j] + off; c < best {
						best = c
					}
				}
				planes[z][i] = best
			}
		}
	}
}

// finalize converts the accumulated squared distances of time point t into
// true physical distances in place.
func (tr *Transform) finalize(vol *volume.Volume, t int) {
	for z := 0; z < tr.dims.Z; z++ {
		plane := vol.Plane(z, t)
		for i, v := range plane {
			if v != 0 {
				plane[i] = math.Sqrt(v)
			}
		}
	}
}
