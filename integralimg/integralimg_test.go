// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package integralimg

import (
	"fmt"
	"image"
	"math"
	"testing"
)

func grayFrom(rows [][]uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, r := range rows {
		for x, v := range r {
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}

func TestSum(t *testing.T) {
	img := grayFrom([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	integral := ToIntegralImg(img)

	cases := []struct {
		x, y, size int
		sum        uint64
	}{
		{1, 1, 1, 5},
		{1, 1, 3, 45},
		{0, 0, 3, 1 + 2 + 4 + 5},
		{2, 2, 3, 5 + 6 + 8 + 9},
		{0, 2, 3, 4 + 5 + 7 + 8},
		{1, 1, 5, 45},
		{0, 0, 9, 45},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%d_%d_%d", c.x, c.y, c.size), func(t *testing.T) {
			w := integral.GetWindow(c.x, c.y, c.size)
			if w.Sum() != c.sum {
				t.Errorf("Sum: expected %d, got %d", c.sum, w.Sum())
			}
			if w.Size() != c.size*c.size {
				t.Errorf("Size: expected %d, got %d", c.size*c.size, w.Size())
			}
		})
	}
}

func TestOffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(10, 20, 13, 22))
	for i := range img.Pix {
		img.Pix[i] = 2
	}
	integral := ToIntegralImg(img)
	if len(integral) != 3 || len(integral[0]) != 4 {
		t.Fatalf("unexpected integral dimensions %dx%d", len(integral[0]), len(integral))
	}
	if got := integral[2][3]; got != 12 {
		t.Errorf("expected total 12, got %d", got)
	}
}

func TestMeanStdDevWindow(t *testing.T) {
	img := grayFrom([][]uint8{
		{2, 4, 4},
		{4, 5, 5},
		{7, 9, 0},
	})
	integrals := ToAllIntegralImg(img)

	// the full image, 9 samples: mean 40/9
	m, dev := integrals.MeanStdDevWindow(1, 1, 3)
	if m != 40.0/9.0 {
		t.Errorf("mean: expected %f, got %f", 40.0/9.0, m)
	}
	var sq float64
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9, 0} {
		sq += (v - m) * (v - m)
	}
	if want := math.Sqrt(sq / 9); math.Abs(want-dev) > 1e-12 {
		t.Errorf("stddev: expected %f, got %f", want, dev)
	}

	// a corner window of 1 pixel is a constant
	m, dev = integrals.MeanStdDevWindow(2, 2, 1)
	if m != 0 || dev != 0 {
		t.Errorf("expected 0 and 0, got %f and %f", m, dev)
	}

	// a 1x1 image with a 3x3 window: 8 zeros and a 9
	one := grayFrom([][]uint8{{9}})
	m, dev = ToAllIntegralImg(one).MeanStdDevWindow(0, 0, 3)
	if m != 1 {
		t.Errorf("padded mean: expected 1, got %f", m)
	}
	if want := math.Sqrt(8.0); math.Abs(dev-want) > 1e-12 {
		t.Errorf("padded stddev: expected %f, got %f", want, dev)
	}
}
