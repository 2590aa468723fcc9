// Package models holds the shared geometry types used across the ROI
// morphology engines: grid dimensions, physical pixel spacing and voxel
// coordinates.
package models

import "errors"

var (
	// ErrInvalidDimensions is returned when any grid dimension is zero or
	// negative.
	ErrInvalidDimensions = errors.New("models: image dimensions must be positive")

	// ErrInvalidPixelSize is returned when a physical pixel size is zero or
	// negative along an axis with more than one voxel.
	ErrInvalidPixelSize = errors.New("models: pixel size must be positive")
)

// Dims describes the extent of a 5D image grid in voxels. A single channel is
// carried per volume instance; C records the channel count of the source image
// for callers that issue one volume per channel.
type Dims struct {
	// X, Y, Z are the spatial extents.
	X, Y, Z int

	// C is the channel count of the source image.
	C int

	// T is the number of time points.
	T int
}

// Validate reports ErrInvalidDimensions when any extent is not positive.
func (d Dims) Validate() error {
	if d.X <= 0 || d.Y <= 0 || d.Z <= 0 || d.C <= 0 || d.T <= 0 {
		return ErrInvalidDimensions
	}
	return nil
}

// PlaneLen returns the number of voxels in one Z plane.
func (d Dims) PlaneLen() int {
	return d.X * d.Y
}

// VoxelsPerFrame returns the number of voxels in one time point.
func (d Dims) VoxelsPerFrame() int {
	return d.X * d.Y * d.Z
}

// PixelSize is the physical size of one voxel along each spatial axis, in
// physical units (typically micrometers). Distances produced by the engines
// are expressed in these units rather than in voxel counts.
type PixelSize struct {
	X, Y, Z float64
}

// Validate reports ErrInvalidPixelSize when a spacing is not positive. The
// spacing of an axis with extent 1 is irrelevant and not checked; Normalized
// forces it to unit spacing.
func (p PixelSize) Validate(d Dims) error {
	if d.X > 1 && p.X <= 0 {
		return ErrInvalidPixelSize
	}
	if d.Y > 1 && p.Y <= 0 {
		return ErrInvalidPixelSize
	}
	if d.Z > 1 && p.Z <= 0 {
		return ErrInvalidPixelSize
	}
	return nil
}

// Normalized returns p with every axis of extent 1 set to unit spacing.
func (p PixelSize) Normalized(d Dims) PixelSize {
	out := p
	if d.X == 1 {
		out.X = 1
	}
	if d.Y == 1 {
		out.Y = 1
	}
	if d.Z == 1 {
		out.Z = 1
	}
	return out
}

// Point is a voxel coordinate within one time point.
type Point struct {
	X, Y, Z int
}
