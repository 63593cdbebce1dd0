// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package window

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidParameter is returned for window sizes, thresholds
	// or method parameters that cannot be used.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrEmptyImage is returned when an image has no pixels but
	// statistics or ratios of it are needed.
	ErrEmptyImage = errors.New("empty image")
	// ErrDimensionMismatch is returned when two images which must
	// have the same bounds do not, or when an image's pixel buffer
	// is too small for its bounds.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ValidSize checks that size can be used as a window size, which
// means it must be odd and positive.
func ValidSize(size int) error {
	if size <= 0 || size%2 == 0 {
		return fmt.Errorf("window size %d must be odd and at least 1: %w", size, ErrInvalidParameter)
	}
	return nil
}

// CheckImage checks that img is usable: not nil, with non-negative
// dimensions and a pixel buffer large enough for its bounds.
func CheckImage(img *image.Gray) error {
	if img == nil {
		return fmt.Errorf("nil image: %w", ErrInvalidParameter)
	}
	b := img.Bounds()
	if b.Dx() < 0 || b.Dy() < 0 {
		return fmt.Errorf("negative image dimensions %dx%d: %w", b.Dx(), b.Dy(), ErrInvalidParameter)
	}
	if b.Empty() {
		return nil
	}
	if img.Stride < b.Dx() || len(img.Pix) < (b.Dy()-1)*img.Stride+b.Dx() {
		return fmt.Errorf("pixel buffer of %d bytes with stride %d too small for %dx%d image: %w",
			len(img.Pix), img.Stride, b.Dx(), b.Dy(), ErrDimensionMismatch)
	}
	return nil
}
