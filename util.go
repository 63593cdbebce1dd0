// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"image"
	"image/color"
	"image/draw"
)

// ZeroInv uses a binarized image as a mask over the original: pixels
// which are foreground in bin keep their value from orig, and the
// background becomes white. This keeps the grey levels of the dark
// parts of an image while clearing everything else.
func ZeroInv(bin, orig *image.Gray) (*image.Gray, error) {
	err := checkPair(bin, orig)
	if err != nil {
		return nil, err
	}
	b := bin.Bounds()
	newimg := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if bin.GrayAt(x, y).Y == foreground {
				newimg.SetGray(x, y, orig.GrayAt(x, y))
			} else {
				newimg.SetGray(x, y, color.Gray{255})
			}
		}
	}
	return newimg, nil
}

// Gray converts any image to grayscale, with bounds starting at 0, 0
func Gray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
