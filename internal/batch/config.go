// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package batch

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"rescribe.xyz/thresh"
	"rescribe.xyz/thresh/window"
)

// Config describes a batch: every image is binarized with every
// global threshold, and with every method at every window size.
type Config struct {
	// Images are the names of the input images, without extension
	Images []string
	// Ext is the extension of the input images
	Ext string
	// OutExt is the extension, and so format, of binarized images
	OutExt           string
	WindowSizes      []int
	GlobalThresholds []int
	Methods          []thresh.Method
	InBucket         string
	OutBucket        string
	// TempDir is where files are kept while they're being worked
	// on; the system temporary directory is used if it's empty
	TempDir string
	// Report is whether to save a PDF report of the batch
	Report bool
}

// DefaultConfig returns a Config for the standard set of test images,
// window sizes and thresholds, using every method.
func DefaultConfig() Config {
	var methods []thresh.Method
	for _, n := range thresh.MethodNames() {
		m, _ := thresh.MethodByName(n, nil)
		methods = append(methods, m)
	}
	return Config{
		Images:           []string{"baboon", "fiducial", "monarch", "peppers", "retina", "sonnet", "wedge"},
		Ext:              "pgm",
		OutExt:           "pgm",
		WindowSizes:      []int{3, 9, 15, 33, 99},
		GlobalThresholds: []int{50, 128, 200},
		Methods:          methods,
		InBucket:         thresh.StorageIn,
		OutBucket:        thresh.StorageOut,
		Report:           true,
	}
}

// Validate checks that everything in the Config can be used, so
// that a batch doesn't fail part way through.
func (c Config) Validate() error {
	if len(c.Images) == 0 {
		return fmt.Errorf("No images given: %w", thresh.ErrInvalidParameter)
	}
	if c.Ext == "" || c.OutExt == "" {
		return fmt.Errorf("Input and output extensions must be set: %w", thresh.ErrInvalidParameter)
	}
	if c.InBucket == "" || c.OutBucket == "" {
		return fmt.Errorf("Input and output buckets must be set: %w", thresh.ErrInvalidParameter)
	}
	err := thresh.EncodeImage(io.Discard, image.NewGray(image.Rect(0, 0, 1, 1)), c.OutExt)
	if err != nil {
		return err
	}
	var errs []error
	for _, ws := range c.WindowSizes {
		errs = append(errs, window.ValidSize(ws))
	}
	for _, t := range c.GlobalThresholds {
		if t < 1 || t > 255 {
			errs = append(errs, fmt.Errorf("global threshold %d must be between 1 and 255: %w", t, thresh.ErrInvalidParameter))
		}
	}
	for _, m := range c.Methods {
		if err := m.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// ParseList splits a comma separated list, dropping empty items
func ParseList(s string) []string {
	var l []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			l = append(l, v)
		}
	}
	return l
}

// ParseInts parses a comma separated list of integers
func ParseInts(s string) ([]int, error) {
	var l []int
	for _, v := range ParseList(s) {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("Could not parse %q as a number: %w", v, thresh.ErrInvalidParameter)
		}
		l = append(l, i)
	}
	return l, nil
}

// ParseMethods looks up a list of methods by name. Each parameter in
// p is given to the methods which take it, and ignored by the others.
func ParseMethods(names []string, p thresh.Params) ([]thresh.Method, error) {
	var methods []thresh.Method
	for _, n := range names {
		mp := thresh.Params{}
		for _, k := range thresh.MethodParams(n) {
			if v, ok := p[k]; ok {
				mp[k] = v
			}
		}
		m, err := thresh.MethodByName(n, mp)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}
