// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"fmt"
	"image"
)

// Histogram is the number of pixels of each value in an image. In a
// binarized image only bins 0 and 255 are used.
type Histogram [256]int

// CalcHistogram counts the pixels of each value in img
func CalcHistogram(img *image.Gray) Histogram {
	var h Histogram
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, v := range img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)] {
			h[v]++
		}
	}
	return h
}

// Total returns the number of pixels counted
func (h Histogram) Total() int {
	var n int
	for _, c := range h {
		n += c
	}
	return n
}

// ForegroundRatio returns the proportion of the binarized pixels
// which are foreground (255), between 0 and 1.
func (h Histogram) ForegroundRatio() (float64, error) {
	return h.ratio(255)
}

// BackgroundRatio returns the proportion of the binarized pixels
// which are background (0), between 0 and 1.
func (h Histogram) BackgroundRatio() (float64, error) {
	return h.ratio(0)
}

func (h Histogram) ratio(bin int) (float64, error) {
	n := h[0] + h[255]
	if n == 0 {
		return 0, fmt.Errorf("no binarized pixels to take a ratio of: %w", ErrEmptyImage)
	}
	return float64(h[bin]) / float64(n), nil
}
