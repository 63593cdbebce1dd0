// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package batch

import (
	"context"
	"errors"
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"rescribe.xyz/thresh"
)

// StrLog is a simple logger that saves to a string,
// so it can be printed out only when needed.
type StrLog struct {
	log string
}

func (t *StrLog) Write(p []byte) (n int, err error) {
	t.log += string(p)
	return len(p), nil
}

// setupConn returns an initialised LocalConn with a random image
// saved in the input bucket for each name
func setupConn(t *testing.T, slog *StrLog, names ...string) *thresh.LocalConn {
	zlog := zerolog.New(slog)
	conn := &thresh.LocalConn{Dir: t.TempDir(), Logger: &zlog}
	err := conn.Init()
	if err != nil {
		t.Fatalf("Could not initialise connection: %v", err)
	}

	err = os.MkdirAll(filepath.Join(conn.Dir, thresh.StorageIn), 0700)
	if err != nil {
		t.Fatalf("Could not create input bucket: %v", err)
	}
	r := rand.New(rand.NewSource(1))
	for _, n := range names {
		img := image.NewGray(image.Rect(0, 0, 24, 16))
		for i := range img.Pix {
			img.Pix[i] = uint8(r.Intn(256))
		}
		err = thresh.WriteImage(filepath.Join(conn.Dir, thresh.StorageIn, n+".pgm"), img)
		if err != nil {
			t.Fatalf("Could not save test image: %v", err)
		}
	}
	return conn
}

func testConfig(t *testing.T, images ...string) Config {
	methods, err := ParseMethods([]string{"bernsen", "sauvola-pietaksinen"}, nil)
	if err != nil {
		t.Fatalf("ParseMethods failed: %v", err)
	}
	return Config{
		Images:           images,
		Ext:              "pgm",
		OutExt:           "png",
		WindowSizes:      []int{3, 9},
		GlobalThresholds: []int{128},
		Methods:          methods,
		InBucket:         thresh.StorageIn,
		OutBucket:        thresh.StorageOut,
		TempDir:          t.TempDir(),
		Report:           true,
	}
}

func TestRun(t *testing.T) {
	var slog StrLog
	conn := setupConn(t, &slog, "page", "plate")
	cfg := testConfig(t, "page", "plate")

	runs, err := Run(context.Background(), conn, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v\nLog: %s", err, slog.log)
	}

	// one global threshold, and two methods at two window sizes
	if len(runs) != 2*(1+2*2) {
		t.Fatalf("expected %d runs, got %d", 2*(1+2*2), len(runs))
	}
	for _, r := range runs {
		if r.Foreground < 0 || r.Foreground > 1 || r.Foreground+r.Background < 0.999999 {
			t.Errorf("bad ratios for %s: %f and %f", r.Key, r.Foreground, r.Background)
		}
	}

	want := []string{
		"3x3-window/page_bernsen.png",
		"3x3-window/page_bernsen_histogram.png",
		"3x3-window/page_sauvola-pietaksinen.png",
		"3x3-window/page_sauvola-pietaksinen_histogram.png",
		"9x9-window/page_bernsen.png",
		"9x9-window/page_bernsen_histogram.png",
		"9x9-window/page_sauvola-pietaksinen.png",
		"9x9-window/page_sauvola-pietaksinen_histogram.png",
		"global-thresholding/128-threshold/page.png",
		"global-thresholding/128-threshold/page_histogram.png",
		"page_histogram.png",
		ReportKey,
	}
	for _, k := range append([]string(nil), want...) {
		if strings.Contains(k, "page") {
			want = append(want, strings.Replace(k, "page", "plate", 1))
		}
	}
	sort.Strings(want)

	got, err := conn.ListObjects(thresh.StorageOut, "")
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}
	sort.Strings(got)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("expected keys:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}

	img, err := thresh.ReadGray(filepath.Join(conn.Dir, thresh.StorageOut, "9x9-window", "plate_bernsen.png"))
	if err != nil {
		t.Fatalf("Could not read binarized image: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 24, 16) {
		t.Errorf("binarized image has the wrong size: %v", img.Bounds())
	}

	leftover, err := os.ReadDir(cfg.TempDir)
	if err != nil {
		t.Fatalf("Could not read temporary directory: %v", err)
	}
	if len(leftover) != 0 {
		t.Errorf("expected temporary files to be removed, found %d", len(leftover))
	}
}

func TestRunErrors(t *testing.T) {
	var slog StrLog
	conn := setupConn(t, &slog, "page")

	cfg := testConfig(t, "page", "missing")
	_, err := Run(context.Background(), conn, cfg)
	if err == nil {
		t.Errorf("expected an error for a missing image")
	}

	cfg = testConfig(t, "page")
	cfg.WindowSizes = []int{4}
	_, err = Run(context.Background(), conn, cfg)
	if !errors.Is(err, thresh.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for an even window size, got %v", err)
	}

	cfg = testConfig(t, "page")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, conn, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected a cancelled context to stop the batch, got %v", err)
	}
}

// TestRunStops checks that failed batches don't leave any stages
// running, or any files in the temporary directory
func TestRunStops(t *testing.T) {
	var slog StrLog
	conn := setupConn(t, &slog, "page")
	cfg := testConfig(t, "page", "missing", "page")
	cfg.Report = false

	before := runtime.NumGoroutine()
	for i := 0; i < 20; i++ {
		_, err := Run(context.Background(), conn, cfg)
		if err == nil {
			t.Fatalf("expected an error for a missing image")
		}
	}

	// goroutines which have called wg.Done may take a moment to exit
	after := runtime.NumGoroutine()
	for i := 0; i < 100 && after > before; i++ {
		time.Sleep(10 * time.Millisecond)
		after = runtime.NumGoroutine()
	}
	if after > before {
		t.Errorf("%d goroutines left running after failed batches", after-before)
	}

	leftover, err := os.ReadDir(cfg.TempDir)
	if err != nil {
		t.Fatalf("Could not read temporary directory: %v", err)
	}
	if len(leftover) != 0 {
		t.Errorf("expected temporary files to be removed, found %d", len(leftover))
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
		err  error
	}{
		{"default", func(c *Config) {}, nil},
		{"noimages", func(c *Config) { c.Images = nil }, thresh.ErrInvalidParameter},
		{"noext", func(c *Config) { c.Ext = "" }, thresh.ErrInvalidParameter},
		{"nobucket", func(c *Config) { c.OutBucket = "" }, thresh.ErrInvalidParameter},
		{"evenwindow", func(c *Config) { c.WindowSizes = []int{3, 8} }, thresh.ErrInvalidParameter},
		{"zerothreshold", func(c *Config) { c.GlobalThresholds = []int{0} }, thresh.ErrInvalidParameter},
		{"bigthreshold", func(c *Config) { c.GlobalThresholds = []int{256} }, thresh.ErrInvalidParameter},
		{"badmethod", func(c *Config) { c.Methods = []thresh.Method{thresh.Sauvola{K: 0.5}} }, thresh.ErrInvalidParameter},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mod(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, c.err) {
				t.Errorf("expected %v, got %v", c.err, err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	l := ParseList(" a, b,,c ")
	if strings.Join(l, "|") != "a|b|c" {
		t.Errorf("unexpected list %v", l)
	}

	i, err := ParseInts("3, 9,15")
	if err != nil || len(i) != 3 || i[0] != 3 || i[1] != 9 || i[2] != 15 {
		t.Errorf("unexpected ints %v: %v", i, err)
	}
	_, err = ParseInts("3,x")
	if !errors.Is(err, thresh.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}

	m, err := ParseMethods([]string{"niblack", "bernsen", "sauvola-pietaksinen"}, thresh.Params{"k": 0.3, "r": 100})
	if err != nil {
		t.Fatalf("ParseMethods failed: %v", err)
	}
	if m[0] != (thresh.Niblack{K: 0.3}) || m[1] != (thresh.Bernsen{}) || m[2] != (thresh.Sauvola{K: 0.3, R: 100}) {
		t.Errorf("parameters not given to the right methods: %+v", m)
	}
	_, err = ParseMethods([]string{"otsu"}, nil)
	if !errors.Is(err, thresh.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for an unknown method, got %v", err)
	}
}
