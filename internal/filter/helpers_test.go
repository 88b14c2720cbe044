package filter

import (
	"image"
	"image/color"
)

// Test helper functions shared across filter tests.

// filledImage creates an image filled with c.
func filledImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// absDiff returns |a-b| for uint8 channel values.
func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
