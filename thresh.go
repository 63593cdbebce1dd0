// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"

	"rescribe.xyz/thresh/window"
)

const (
	foreground = 255
	background = 0
)

// Method is a local thresholding method. Foreground decides whether
// a pixel with value p, whose window has the statistics s, is part of
// the foreground. Need reports which statistics Foreground uses, so
// that only those are calculated.
type Method interface {
	Name() string
	Need() window.Need
	Foreground(p uint8, s window.Stats) bool
	Validate() error
}

// Threshold binarizes img with a local thresholding method, using
// windows of size x size pixels. Foreground pixels are set to 255 and
// background pixels to 0 in a new image with the same bounds as img,
// which is returned along with its histogram.
func Threshold(img *image.Gray, size int, m Method) (*image.Gray, Histogram, error) {
	err := window.CheckImage(img)
	if err != nil {
		return nil, Histogram{}, err
	}
	out := image.NewGray(img.Bounds())
	err = ThresholdInto(out, img, size, m)
	if err != nil {
		return nil, Histogram{}, err
	}
	return out, CalcHistogram(out), nil
}

// ThresholdInto is like Threshold, but writes the result into dst,
// which must have the same bounds as src and must not share its
// pixels.
func ThresholdInto(dst, src *image.Gray, size int, m Method) error {
	err := checkPair(dst, src)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("no thresholding method given: %w", ErrInvalidParameter)
	}
	err = m.Validate()
	if err != nil {
		return fmt.Errorf("%s: %w", m.Name(), err)
	}

	e, err := window.New(src, size)
	if err != nil {
		return fmt.Errorf("%s: %w", m.Name(), err)
	}

	need := m.Need()
	b := src.Bounds()
	eachRow(b, func(y int) {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			v := uint8(background)
			if m.Foreground(src.Pix[si], e.Stats(x, y, need)) {
				v = foreground
			}
			dst.Pix[di] = v
			si++
			di++
		}
	})

	return nil
}

// Global binarizes img with a single threshold for every pixel:
// those darker than threshold become foreground (255), the rest
// background (0). threshold must be between 1 and 255.
func Global(img *image.Gray, threshold int) (*image.Gray, Histogram, error) {
	if threshold < 1 || threshold > 255 {
		return nil, Histogram{}, fmt.Errorf("global threshold %d must be between 1 and 255: %w", threshold, ErrInvalidParameter)
	}
	err := window.CheckImage(img)
	if err != nil {
		return nil, Histogram{}, err
	}

	b := img.Bounds()
	out := image.NewGray(b)
	eachRow(b, func(y int) {
		si := img.PixOffset(b.Min.X, y)
		di := out.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if int(img.Pix[si]) < threshold {
				out.Pix[di] = foreground
			}
			si++
			di++
		}
	})

	return out, CalcHistogram(out), nil
}

// below reports whether p is less than threshold once the threshold
// has been truncated towards zero. A NaN threshold is never above
// anything.
func below(p uint8, threshold float64) bool {
	return float64(p) < math.Trunc(threshold)
}

func checkPair(dst, src *image.Gray) error {
	err := window.CheckImage(src)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	err = window.CheckImage(dst)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if !dst.Bounds().Eq(src.Bounds()) {
		return fmt.Errorf("destination bounds %v differ from source bounds %v: %w", dst.Bounds(), src.Bounds(), ErrDimensionMismatch)
	}
	if dst == src || (len(dst.Pix) > 0 && len(src.Pix) > 0 && &dst.Pix[0] == &src.Pix[0]) {
		return fmt.Errorf("destination shares pixels with source: %w", ErrInvalidParameter)
	}
	return nil
}

// eachRow calls f for every row of b, spreading the rows across
// goroutines. Each goroutine gets a contiguous band of rows, so as
// long as f only writes to its own row no locking is needed.
func eachRow(b image.Rectangle, f func(y int)) {
	rows := b.Dy()
	if rows <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > rows {
		workers = rows
	}
	band := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for start := b.Min.Y; start < b.Max.Y; start += band {
		end := start + band
		if end > b.Max.Y {
			end = b.Max.Y
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for y := start; y < end; y++ {
				f(y)
			}
		}(start, end)
	}
	wg.Wait()
}
