// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spakin/netpbm"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DecodeGray decodes an image in any supported format (netpbm, png,
// jpeg, gif, tiff or bmp) and converts it to grayscale. The format
// name is also returned.
func DecodeGray(r io.Reader) (*image.Gray, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("Could not decode image: %w", err)
	}
	return Gray(img), format, nil
}

// ReadGray reads the image file at path as grayscale
func ReadGray(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Could not open file %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := DecodeGray(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// EncodeImage encodes img in the given format, which is one of pgm,
// png, tif, tiff or bmp.
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "pgm":
		return netpbm.Encode(w, img, &netpbm.EncodeOptions{
			Format:   netpbm.PGM,
			MaxValue: 255,
		})
	case "png":
		return png.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("Can't encode images as %q: %w", format, ErrInvalidParameter)
}

// WriteImage saves img to path, in the format matching the path's
// extension.
func WriteImage(path string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("No extension to choose a format from in %s: %w", path, ErrInvalidParameter)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Could not create file %s: %w", path, err)
	}
	err = EncodeImage(f, img, format)
	if err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("Could not encode %s: %w", path, err)
	}
	return f.Close()
}
