// Package region provides boolean region-of-interest masks over a bounded
// voxel grid. It is the mask source consumed by the distance and watershed
// engines and the shape of the region sets they produce: every engine input
// and output is a named, colored membership predicate observed through
// per-slice boolean masks.
package region

import (
	"image"
	"image/color"
)

// Region is a named membership predicate over the voxel grid. The engines
// only ever observe a region through its per-slice masks and treat it as
// immutable for the duration of a computation.
type Region interface {
	// Name identifies the region to callers; the engines do not interpret it.
	Name() string

	// Color is the display color used when the region is rendered.
	Color() color.RGBA

	// Slice returns the boolean mask of the region restricted to one (z, t)
	// slice, or nil when the region has no voxels there.
	Slice(z, t int) *BitMask
}

// BitMask is a boolean membership mask over the bounding rectangle of one
// slice. Bits are stored row-major relative to Rect.Min.
type BitMask struct {
	Rect image.Rectangle
	Bits []bool
}

// NewBitMask allocates an empty mask covering rect.
func NewBitMask(rect image.Rectangle) *BitMask {
	return &BitMask{Rect: rect, Bits: make([]bool, rect.Dx()*rect.Dy())}
}

// At reports membership at the absolute coordinate (x, y). Coordinates
// outside the bounding rectangle are never members.
func (m *BitMask) At(x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return false
	}
	return m.Bits[(y-m.Rect.Min.Y)*m.Rect.Dx()+(x-m.Rect.Min.X)]
}

// Set stores membership v at the absolute coordinate (x, y). Coordinates
// outside the bounding rectangle are ignored.
func (m *BitMask) Set(x, y int, v bool) {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return
	}
	m.Bits[(y-m.Rect.Min.Y)*m.Rect.Dx()+(x-m.Rect.Min.X)] = v
}

// ForEach calls fn with the absolute coordinates of every member voxel, in
// row-major order.
func (m *BitMask) ForEach(fn func(x, y int)) {
	w := m.Rect.Dx()
	for i, b := range m.Bits {
		if b {
			fn(m.Rect.Min.X+i%w, m.Rect.Min.Y+i/w)
		}
	}
}

// Count returns the number of member voxels.
func (m *BitMask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}
