// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// threshbatch binarizes a set of images in many ways, saving the
// results along with histogram graphs and a PDF report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"rescribe.xyz/thresh"
	"rescribe.xyz/thresh/internal/batch"
)

const usage = `Usage: threshbatch [-s storage] [-d dir] [-w sizes] [-t thresholds] [-m methods] [-e ext] [-o ext] [-norep] [image...]

Binarizes each image with each global threshold, and with each local
method at each window size. Images are read from the input bucket as
name.ext, and results are saved to the output bucket as:

  global-thresholding/<threshold>-threshold/<name>.<ext>
  <size>x<size>-window/<name>_<method>.<ext>

each with a graph of its histogram, as well as a graph of the histogram
of each original image and a PDF report of the whole batch.

If no images are given the standard test set is used.

Defaults can also be set with these environment variables, which will
be read from a .env file in the current directory if there is one:
  THRESH_STORAGE     local or s3
  THRESH_DIR         directory for local storage
  THRESH_REGION      AWS region for s3 storage
  THRESH_IN_BUCKET   bucket to read images from
  THRESH_OUT_BUCKET  bucket to save results to
  THRESH_LOG_LEVEL   debug, info, warn or error
`

// BatchConn is what a storage connection needs to run a batch
type BatchConn interface {
	batch.Conn
	MinimalInit() error
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Error reading .env file:", err)
		os.Exit(1)
	}

	def := batch.DefaultConfig()

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	storage := flag.String("s", getenv("THRESH_STORAGE", "local"), "storage to use, local or s3")
	dir := flag.String("d", getenv("THRESH_DIR", ""), "directory to use for local storage (default is a temporary directory)")
	region := flag.String("region", getenv("THRESH_REGION", ""), "AWS region to use for s3 storage")
	inbucket := flag.String("in", getenv("THRESH_IN_BUCKET", def.InBucket), "bucket to read images from")
	outbucket := flag.String("out", getenv("THRESH_OUT_BUCKET", def.OutBucket), "bucket to save results to")
	sizes := flag.String("w", joinInts(def.WindowSizes), "comma separated window sizes for local methods")
	thresholds := flag.String("t", joinInts(def.GlobalThresholds), "comma separated global thresholds")
	methods := flag.String("m", strings.Join(thresh.MethodNames(), ","), "comma separated local methods")
	ext := flag.String("e", def.Ext, "extension of the input images")
	outext := flag.String("o", def.OutExt, "extension, and so format, of binarized images")
	tmpdir := flag.String("tmp", "", "directory to keep files in while working on them")
	norep := flag.Bool("norep", false, "don't save a PDF report")
	level := flag.String("v", getenv("THRESH_LOG_LEVEL", "info"), "log level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}
	logger := log.Logger.Level(lvl)

	cfg := def
	if flag.NArg() > 0 {
		cfg.Images = flag.Args()
	}
	cfg.Ext = *ext
	cfg.OutExt = *outext
	cfg.InBucket = *inbucket
	cfg.OutBucket = *outbucket
	cfg.TempDir = *tmpdir
	cfg.Report = !*norep
	cfg.WindowSizes, err = batch.ParseInts(*sizes)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid window sizes")
	}
	cfg.GlobalThresholds, err = batch.ParseInts(*thresholds)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid global thresholds")
	}
	cfg.Methods, err = batch.ParseMethods(batch.ParseList(*methods), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid methods")
	}

	var conn BatchConn
	switch *storage {
	case "local":
		conn = &thresh.LocalConn{Dir: *dir, Logger: &logger}
	case "s3":
		conn = &thresh.AwsConn{Region: *region, Logger: &logger}
	default:
		log.Fatal().Str("storage", *storage).Msg("Unknown storage type, use local or s3")
	}

	err = conn.MinimalInit()
	if err != nil {
		log.Fatal().Err(err).Msg("Error setting up connection")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runs, err := batch.Run(ctx, conn, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Batch failed")
	}

	sums, err := thresh.Summarise(runs)
	if err != nil {
		log.Fatal().Err(err).Msg("Error summarising batch")
	}
	for _, s := range sums {
		logger.Info().
			Str("method", s.Method).
			Int("runs", s.Runs).
			Float64("mean", s.Mean).
			Float64("min", s.Min).
			Float64("max", s.Max).
			Msg("Foreground ratios")
	}
}

func joinInts(l []int) string {
	var s []string
	for _, i := range l {
		s = append(s, fmt.Sprintf("%d", i))
	}
	return strings.Join(s, ",")
}
