// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package batch

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"rescribe.xyz/thresh"
)

// GlobalKey returns the key a globally thresholded image is saved to
func GlobalKey(name string, threshold int, ext string) string {
	return fmt.Sprintf("global-thresholding/%d-threshold/%s.%s", threshold, name, ext)
}

// WindowKey returns the key an image binarized with a local method
// is saved to
func WindowKey(name string, method string, size int, ext string) string {
	return fmt.Sprintf("%dx%d-window/%s_%s.%s", size, size, name, method, ext)
}

// HistogramKey returns the key the histogram graph of the image saved
// to key is saved to
func HistogramKey(key string) string {
	return key[:len(key)-len(filepath.Ext(key))] + "_histogram.png"
}

// OriginalHistogramKey returns the key the histogram graph of an input
// image is saved to
func OriginalHistogramKey(name string) string {
	return name + "_histogram.png"
}

// binarizeImage runs every binarization cfg asks for on one image,
// saving everything into dir to be uploaded. It returns a Run for
// each binarization, along with the histogram graph of the original
// image.
func binarizeImage(in input, cfg Config, dir string, logger *zerolog.Logger) ([]thresh.Run, []byte, []output, error) {
	img, err := thresh.ReadGray(in.path)
	if err != nil {
		return nil, nil, nil, err
	}

	var runs []thresh.Run
	var outs []output

	var orig bytes.Buffer
	err = thresh.HistogramGraph(thresh.CalcHistogram(img), in.name, &orig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("Error graphing histogram: %w", err)
	}
	o, err := saveBytes(dir, OriginalHistogramKey(in.name), orig.Bytes())
	if err != nil {
		return nil, nil, nil, err
	}
	outs = append(outs, o)

	for _, t := range cfg.GlobalThresholds {
		bin, hist, err := thresh.Global(img, t)
		if err != nil {
			return nil, nil, nil, err
		}
		r := thresh.Run{Image: in.name, Method: thresh.GlobalName, Threshold: t, Key: GlobalKey(in.name, t, cfg.OutExt)}
		o, err := saveResult(dir, bin, hist, &r, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		runs = append(runs, r)
		outs = append(outs, o...)
	}

	for _, size := range cfg.WindowSizes {
		for _, m := range cfg.Methods {
			bin, hist, err := thresh.Threshold(img, size, m)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%s with window size %d: %w", m.Name(), size, err)
			}
			r := thresh.Run{Image: in.name, Method: m.Name(), Window: size, Key: WindowKey(in.name, m.Name(), size, cfg.OutExt)}
			o, err := saveResult(dir, bin, hist, &r, logger)
			if err != nil {
				return nil, nil, nil, err
			}
			runs = append(runs, r)
			outs = append(outs, o...)
		}
	}

	return runs, orig.Bytes(), outs, nil
}

// saveResult fills in the ratios of r, and saves the binarized image
// and its histogram graph
func saveResult(dir string, bin *image.Gray, hist thresh.Histogram, r *thresh.Run, logger *zerolog.Logger) ([]output, error) {
	var err error
	r.Foreground, err = hist.ForegroundRatio()
	if err != nil {
		return nil, fmt.Errorf("Error finding ratio for %s: %w", r.Key, err)
	}
	r.Background, err = hist.BackgroundRatio()
	if err != nil {
		return nil, fmt.Errorf("Error finding ratio for %s: %w", r.Key, err)
	}
	logger.Info().
		Str("image", r.Image).
		Str("method", r.Method).
		Int("window", r.Window).
		Int("threshold", r.Threshold).
		Float64("foreground", r.Foreground).
		Float64("background", r.Background).
		Msg("Binarized")

	fn := localPath(dir, r.Key)
	err = os.MkdirAll(filepath.Dir(fn), 0700)
	if err != nil {
		return nil, err
	}
	err = thresh.WriteImage(fn, bin)
	if err != nil {
		return nil, fmt.Errorf("Error saving %s: %w", r.Key, err)
	}

	var buf bytes.Buffer
	err = thresh.HistogramGraph(hist, r.Key, &buf)
	if err != nil {
		return nil, fmt.Errorf("Error graphing histogram of %s: %w", r.Key, err)
	}
	o, err := saveBytes(dir, HistogramKey(r.Key), buf.Bytes())
	if err != nil {
		return nil, err
	}

	return []output{{key: r.Key, path: fn}, o}, nil
}

func saveBytes(dir string, key string, b []byte) (output, error) {
	fn := localPath(dir, key)
	err := os.MkdirAll(filepath.Dir(fn), 0700)
	if err != nil {
		return output{}, err
	}
	err = os.WriteFile(fn, b, 0600)
	if err != nil {
		return output{}, fmt.Errorf("Error saving %s: %w", key, err)
	}
	return output{key: key, path: fn}, nil
}

// localPath is where the file for key is kept before it is uploaded,
// separate from the downloaded images
func localPath(dir string, key string) string {
	return filepath.Join(dir, "out", filepath.FromSlash(key))
}
