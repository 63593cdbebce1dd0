// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"image"
	"math/rand"
)

// grayFrom creates an image from rows of pixel values
func grayFrom(rows [][]uint8) *image.Gray {
	w := 0
	if len(rows) > 0 {
		w = len(rows[0])
	}
	img := image.NewGray(image.Rect(0, 0, w, len(rows)))
	for y, r := range rows {
		copy(img.Pix[y*img.Stride:], r)
	}
	return img
}

// rowsFrom returns the pixel values of img as rows
func rowsFrom(img *image.Gray) [][]uint8 {
	b := img.Bounds()
	var rows [][]uint8
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := make([]uint8, b.Dx())
		copy(row, img.Pix[img.PixOffset(b.Min.X, y):])
		rows = append(rows, row)
	}
	return rows
}

func randomGray(r image.Rectangle, seed int64) *image.Gray {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewGray(r)
	for i := range img.Pix {
		img.Pix[i] = uint8(rnd.Intn(256))
	}
	return img
}

func constantGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func imgsequal(img1 *image.Gray, img2 *image.Gray) bool {
	b := img1.Bounds()
	if !b.Eq(img2.Bounds()) {
		return false
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img1.GrayAt(x, y) != img2.GrayAt(x, y) {
				return false
			}
		}
	}
	return true
}

// allMethods returns every local method with its default parameters
func allMethods() []Method {
	var m []Method
	for _, name := range MethodNames() {
		method, err := MethodByName(name, nil)
		if err != nil {
			panic(err)
		}
		m = append(m, method)
	}
	return m
}
