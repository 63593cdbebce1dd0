// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// window computes statistics of the square neighbourhood around
// each pixel of a grayscale image, for use by local thresholding
// methods.
//
// A window of size n is the n x n square centred on a pixel. Parts
// of it which fall outside of the image are treated as pixels with
// a value of 0, so windows near the edge of an image have their
// statistics pulled towards 0. Edge pixels are not repeated or
// mirrored.
package window

import (
	"fmt"
	"image"
	"sort"

	"rescribe.xyz/thresh/integralimg"
)

// Need selects which parts of a Stats to calculate
type Need uint8

const (
	NeedMinMax Need = 1 << iota
	NeedMeanStdDev
	NeedMedian

	NeedAll = NeedMinMax | NeedMeanStdDev | NeedMedian
)

// Stats are the statistics of a single window. Every sample in the
// window is counted, including the zero padding outside the image.
type Stats struct {
	Min, Max uint8
	Mean     float64
	// StdDev is the population standard deviation
	StdDev float64
	// Median is the middle sample once sorted; windows always hold
	// an odd number of samples so there is exactly one.
	Median uint8
}

// Compute calculates all of the Stats for the window of the given
// size centred on (x, y), by visiting every sample in it. It is
// straightforward rather than fast; use an Engine to process a whole
// image.
func Compute(img *image.Gray, x, y, size int) (Stats, error) {
	err := checkArgs(img, size)
	if err != nil {
		return Stats{}, err
	}
	if !image.Pt(x, y).In(img.Bounds()) {
		return Stats{}, fmt.Errorf("point (%d, %d) outside of image %v: %w", x, y, img.Bounds(), ErrInvalidParameter)
	}

	step := size / 2
	b := img.Bounds()
	samples := make([]int, 0, size*size)
	var sum, sumsq uint64
	for wy := y - step; wy <= y+step; wy++ {
		for wx := x - step; wx <= x+step; wx++ {
			var v uint8
			if image.Pt(wx, wy).In(b) {
				v = img.GrayAt(wx, wy).Y
			}
			samples = append(samples, int(v))
			sum += uint64(v)
			sumsq += uint64(v) * uint64(v)
		}
	}
	sort.Ints(samples)

	var s Stats
	s.Min = uint8(samples[0])
	s.Max = uint8(samples[len(samples)-1])
	s.Median = uint8(samples[len(samples)/2])
	s.Mean, s.StdDev = integralimg.MeanStdDev(sum, sumsq, len(samples))
	return s, nil
}

// Engine calculates window statistics for every pixel of one image
// with one window size. Means and standard deviations come from
// integral images, the rest from a count of the values in each
// window; the results are identical to those of Compute.
//
// An Engine is not modified by Stats, so it can be shared between
// goroutines.
type Engine struct {
	img       *image.Gray
	size      int
	integrals integralimg.WithSq
}

// New creates an Engine for img with windows of the given size,
// which must be odd and at least 1.
func New(img *image.Gray, size int) (*Engine, error) {
	err := checkArgs(img, size)
	if err != nil {
		return nil, err
	}
	return &Engine{
		img:       img,
		size:      size,
		integrals: integralimg.ToAllIntegralImg(img),
	}, nil
}

// Stats calculates the statistics selected by need for the window
// centred on (x, y), which must be inside the image. Fields which
// were not needed are left as zero.
func (e *Engine) Stats(x, y int, need Need) Stats {
	var s Stats
	b := e.img.Bounds()

	if need&NeedMeanStdDev != 0 {
		s.Mean, s.StdDev = e.integrals.MeanStdDevWindow(x-b.Min.X, y-b.Min.Y, e.size)
	}

	if need&(NeedMinMax|NeedMedian) == 0 {
		return s
	}

	var counts [256]int
	step := e.size / 2
	area := image.Rect(x-step, y-step, x+step+1, y+step+1).Intersect(b)
	for wy := area.Min.Y; wy < area.Max.Y; wy++ {
		row := e.img.Pix[e.img.PixOffset(area.Min.X, wy):e.img.PixOffset(area.Max.X, wy)]
		for _, v := range row {
			counts[v]++
		}
	}
	n := e.size * e.size
	counts[0] += n - area.Dx()*area.Dy()

	if need&NeedMinMax != 0 {
		lo := 0
		for counts[lo] == 0 {
			lo++
		}
		hi := 255
		for counts[hi] == 0 {
			hi--
		}
		s.Min, s.Max = uint8(lo), uint8(hi)
	}

	if need&NeedMedian != 0 {
		seen := 0
		for v, c := range counts {
			seen += c
			if seen > n/2 {
				s.Median = uint8(v)
				break
			}
		}
	}

	return s
}

func checkArgs(img *image.Gray, size int) error {
	err := CheckImage(img)
	if err != nil {
		return err
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("no window statistics for a %dx%d image: %w", img.Bounds().Dx(), img.Bounds().Dy(), ErrEmptyImage)
	}
	return ValidSize(size)
}
