package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"

	"roimorph/internal/models"
	"roimorph/pkg/region"
	"roimorph/pkg/volume"
)

// loadMask reads a mask image from disk and thresholds it into a single-slice
// foreground grid. Pixels whose normalized gray value is at or above threshold
// count as foreground.
func loadMask(path string, threshold float64) ([]bool, models.Dims, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, models.Dims{}, fmt.Errorf("error opening mask image: %w", err)
	}
	gray := imaging.Grayscale(img)

	bounds := gray.Bounds()
	dims := models.Dims{
		X: bounds.Dx(),
		Y: bounds.Dy(),
		Z: 1,
		C: 1,
		T: 1,
	}

	bits := make([]bool, dims.X*dims.Y)
	for y := 0; y < dims.Y; y++ {
		for x := 0; x < dims.X; x++ {
			r, _, _, _ := gray.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if float64(r)/65535.0 >= threshold {
				bits[y*dims.X+x] = true
			}
		}
	}

	return bits, dims, nil
}

// saveDistanceImage writes the first plane of a distance volume as a 16-bit
// grayscale image, normalized so the largest distance maps to full white.
func saveDistanceImage(dist *volume.Volume, path string) error {
	dims := dist.Dims()
	plane := dist.Plane(0, 0)

	max := 0.0
	for _, v := range plane {
		if v > max {
			max = v
		}
	}

	img := image.NewGray16(image.Rect(0, 0, dims.X, dims.Y))
	if max > 0 {
		for y := 0; y < dims.Y; y++ {
			for x := 0; x < dims.X; x++ {
				v := plane[y*dims.X+x] / max
				img.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(v * 65535))})
			}
		}
	}

	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("error writing distance image: %w", err)
	}
	return nil
}

// saveLabelImage paints the first plane of each region in its display color
// over a black background and writes the result. Later regions win where
// regions overlap, so the ridge region should come last.
func saveLabelImage(regions []*region.GridRegion, dims models.Dims, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, dims.X, dims.Y))
	for _, r := range regions {
		mask := r.Slice(0, 0)
		if mask == nil {
			continue
		}
		col := r.Color()
		mask.ForEach(func(x, y int) {
			img.SetRGBA(x, y, col)
		})
	}

	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("error writing label image: %w", err)
	}
	return nil
}
