package region

import (
	"image"
	"image/color"

	"roimorph/internal/models"
)

// GridRegion is a volumetric boolean mask over the full grid, including its
// time extent. It is the concrete Region used for engine outputs (one per
// basin, plus the ridge) and for mask-derived inputs. Ownership of an output
// GridRegion transfers to the caller.
type GridRegion struct {
	name string
	col  color.RGBA
	dims models.Dims
	bits []bool // indexed ((t*dims.Z+z)*dims.Y+y)*dims.X+x
}

// NewGridRegion allocates an empty region over the given grid.
func NewGridRegion(name string, dims models.Dims) *GridRegion {
	return &GridRegion{
		name: name,
		dims: dims,
		bits: make([]bool, dims.VoxelsPerFrame()*dims.T),
	}
}

// Name returns the region name.
func (g *GridRegion) Name() string {
	return g.name
}

// Color returns the display color.
func (g *GridRegion) Color() color.RGBA {
	return g.col
}

// SetColor assigns the display color.
func (g *GridRegion) SetColor(c color.RGBA) {
	g.col = c
}

// Dims returns the grid the region is defined over.
func (g *GridRegion) Dims() models.Dims {
	return g.dims
}

func (g *GridRegion) index(x, y, z, t int) int {
	return ((t*g.dims.Z+z)*g.dims.Y+y)*g.dims.X + x
}

// Contains reports membership of the voxel (x, y, z, t).
func (g *GridRegion) Contains(x, y, z, t int) bool {
	if x < 0 || y < 0 || z < 0 || t < 0 ||
		x >= g.dims.X || y >= g.dims.Y || z >= g.dims.Z || t >= g.dims.T {
		return false
	}
	return g.bits[g.index(x, y, z, t)]
}

// Mark adds the voxel (x, y, z, t) to the region. Out-of-grid voxels are
// ignored.
func (g *GridRegion) Mark(x, y, z, t int) {
	if x < 0 || y < 0 || z < 0 || t < 0 ||
		x >= g.dims.X || y >= g.dims.Y || z >= g.dims.Z || t >= g.dims.T {
		return
	}
	g.bits[g.index(x, y, z, t)] = true
}

// Voxels returns the total number of member voxels across all time points.
func (g *GridRegion) Voxels() int {
	n := 0
	for _, b := range g.bits {
		if b {
			n++
		}
	}
	return n
}

// Slice materializes the (z, t) plane of the region as a BitMask over the
// full image rectangle, or nil when the plane is empty.
func (g *GridRegion) Slice(z, t int) *BitMask {
	if z < 0 || t < 0 || z >= g.dims.Z || t >= g.dims.T {
		return nil
	}
	mask := NewBitMask(image.Rect(0, 0, g.dims.X, g.dims.Y))
	base := g.index(0, 0, z, t)
	any := false
	for i := 0; i < g.dims.PlaneLen(); i++ {
		if g.bits[base+i] {
			mask.Bits[i] = true
			any = true
		}
	}
	if !any {
		return nil
	}
	return mask
}
