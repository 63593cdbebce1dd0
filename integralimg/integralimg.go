// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// integralimg is a package for processing integral images, aka
// summed area tables. These are structures which precompute the
// sum of pixels to the left and above each pixel, which can make
// several common image processing operations much faster.
//
// Windows taken from an integral image behave as though the image
// were surrounded by a border of zero valued pixels: the parts of
// a window outside of the image contribute nothing to its sum, but
// still count towards its size.
package integralimg

import (
	"image"
	"math"
)

// I is the Integral Image. It has one more row and one more column
// than the image it was created from; the first row and column are
// always zero, so that I[y][x] is the sum of all pixels above and to
// the left of (x, y).
type I [][]uint64

// WithSq contains an Integral Image and its Square
type WithSq struct {
	Img I
	Sq  I
}

// Window is a part of an Integral Image
type Window struct {
	topleft     uint64
	topright    uint64
	bottomleft  uint64
	bottomright uint64
	size        int
}

func build(img *image.Gray, f func(uint64) uint64) I {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	backing := make([]uint64, (w+1)*(h+1))
	integral := make(I, h+1)
	for y := range integral {
		integral[y] = backing[y*(w+1) : (y+1)*(w+1)]
	}
	for y := 1; y <= h; y++ {
		var rowsum uint64
		for x := 1; x <= w; x++ {
			rowsum += f(uint64(img.GrayAt(b.Min.X+x-1, b.Min.Y+y-1).Y))
			integral[y][x] = integral[y-1][x] + rowsum
		}
	}
	return integral
}

// ToIntegralImg creates an integral image
func ToIntegralImg(img *image.Gray) I {
	return build(img, func(p uint64) uint64 { return p })
}

// ToSqIntegralImg creates an integral image of the square of all
// pixel values
func ToSqIntegralImg(img *image.Gray) I {
	return build(img, func(p uint64) uint64 { return p * p })
}

// ToAllIntegralImg creates a WithSq containing a regular and
// squared Integral Image
func ToAllIntegralImg(img *image.Gray) WithSq {
	var s WithSq
	s.Img = ToIntegralImg(img)
	s.Sq = ToSqIntegralImg(img)
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GetWindow gets the values of the corners of the size x size square
// centred on (x, y), plus its size, which can be used to quickly
// calculate the mean of the area. x and y are relative to the top
// left of the image.
func (i I) GetWindow(x, y, size int) Window {
	step := size / 2
	maxy := len(i) - 1
	maxx := len(i[0]) - 1

	minx := clamp(x-step, 0, maxx)
	miny := clamp(y-step, 0, maxy)
	endx := clamp(x+step+1, 0, maxx)
	endy := clamp(y+step+1, 0, maxy)

	return Window{i[miny][minx], i[miny][endx], i[endy][minx], i[endy][endx], size * size}
}

// Sum returns the sum of all pixels in a Window
func (w Window) Sum() uint64 {
	return w.bottomright + w.topleft - w.topright - w.bottomleft
}

// Size returns the total size of a Window, including any part of it
// which falls outside of the image
func (w Window) Size() int {
	return w.size
}

// MeanStdDevWindow calculates the mean and population standard
// deviation of a section of an Integral Image
func (i WithSq) MeanStdDevWindow(x, y, size int) (float64, float64) {
	sum := i.Img.GetWindow(x, y, size).Sum()
	sq := i.Sq.GetWindow(x, y, size).Sum()
	return MeanStdDev(sum, sq, size*size)
}

// MeanStdDev calculates the mean and population standard deviation
// of n samples from their sum and the sum of their squares. The
// variance numerator is worked out with integers, so the result
// depends only on the sums and not on the order the samples were
// added in.
func MeanStdDev(sum, sumsq uint64, n int) (float64, float64) {
	nn := uint64(n)
	mean := float64(sum) / float64(nn)
	variance := nn*sumsq - sum*sum
	return mean, math.Sqrt(float64(variance)) / float64(nn)
}
