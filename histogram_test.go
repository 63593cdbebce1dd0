// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func TestCalcHistogram(t *testing.T) {
	img := grayFrom([][]uint8{
		{0, 0, 255},
		{255, 255, 7},
	})
	h := CalcHistogram(img)
	if h[0] != 2 || h[255] != 3 || h[7] != 1 {
		t.Errorf("unexpected counts %d, %d, %d", h[0], h[255], h[7])
	}
	if h.Total() != 6 {
		t.Errorf("expected a total of 6, got %d", h.Total())
	}

	// only the part of the pixel buffer inside the bounds counts
	sub := img.SubImage(image.Rect(1, 0, 3, 1)).(*image.Gray)
	h = CalcHistogram(sub)
	if h[0] != 1 || h[255] != 1 || h.Total() != 2 {
		t.Errorf("unexpected counts for subimage %d, %d", h[0], h[255])
	}
}

func TestRatios(t *testing.T) {
	var h Histogram
	h[0] = 3
	h[255] = 1

	fg, err := h.ForegroundRatio()
	if err != nil || fg != 0.25 {
		t.Errorf("expected foreground ratio 0.25, got %f (%v)", fg, err)
	}
	bg, err := h.BackgroundRatio()
	if err != nil || bg != 0.75 {
		t.Errorf("expected background ratio 0.75, got %f (%v)", bg, err)
	}

	var empty Histogram
	_, err = empty.ForegroundRatio()
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
	_, err = empty.BackgroundRatio()
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
}

func TestHistogramGraph(t *testing.T) {
	_, hist, err := Global(randomGray(image.Rect(0, 0, 20, 20), 4), 128)
	if err != nil {
		t.Fatalf("Global failed: %v", err)
	}
	for name, h := range map[string]Histogram{"binary": hist, "original": CalcHistogram(randomGray(image.Rect(0, 0, 20, 20), 4))} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := HistogramGraph(h, "test "+name, &buf)
			if err != nil {
				t.Fatalf("HistogramGraph failed: %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("graph is not a valid png: %v", err)
			}
			if img.Bounds().Dx() != graphWidth || img.Bounds().Dy() != graphHeight {
				t.Errorf("unexpected graph size %v", img.Bounds())
			}
		})
	}
}
