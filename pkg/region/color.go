package region

import (
	"image/color"
	"math/rand"
)

// RidgeWhite is the color of the watershed ridge region: pure white at full
// opacity, so ridge lines stand out against any basin palette.
var RidgeWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// BasinColor draws a pseudo-random, fully opaque display color whose channels
// sum to just under the full-white value of 765: a deficit of at most one
// channel width is drawn and split at random across R, G and B. Every color is
// bright, the hue varies with the split, and pure white stays reserved for the
// ridge. Seeding rng makes the palette reproducible across runs.
func BasinColor(rng *rand.Rand) color.RGBA {
	d := 1 + rng.Intn(255)
	r := rng.Intn(d + 1)
	g := rng.Intn(d - r + 1)
	b := d - r - g
	return color.RGBA{R: uint8(255 - r), G: uint8(255 - g), B: uint8(255 - b), A: 255}
}
