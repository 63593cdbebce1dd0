// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// binarize binarizes a single image, with either a global threshold
// or one of the local thresholding methods.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"rescribe.xyz/thresh"
)

const usage = `Usage: binarize [-m method] [-w size] [-t threshold] [-k num] [-r num] [-p num] [-q num] [-g graph.png] [-z] inimg outimg

Binarizes an image, saving it in the format matching the extension of
outimg (pgm, png, tif or bmp). Foreground pixels are set to 255 and
background pixels to 0.

If -t is given the image is thresholded globally, otherwise a local
method is used. Local methods: ` + "%s" + `
`

// binarize thresholds img globally if global is set, otherwise with
// the named local method
func binarize(img *image.Gray, global *int, method string, wsize int, params thresh.Params) (*image.Gray, thresh.Histogram, error) {
	if global != nil {
		return thresh.Global(img, *global)
	}
	m, err := thresh.MethodByName(method, params)
	if err != nil {
		return nil, thresh.Histogram{}, err
	}
	return thresh.Threshold(img, wsize, m)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage, strings.Join(thresh.MethodNames(), ", "))
		flag.PrintDefaults()
	}
	method := flag.String("m", "sauvola-pietaksinen", "local thresholding method")
	wsize := flag.Int("w", 15, "window size for local methods (must be odd)")
	global := flag.Int("t", 0, "global threshold, between 1 and 255")
	k := flag.Float64("k", 0, "k parameter, for methods which take it")
	r := flag.Float64("r", 0, "r parameter, for methods which take it")
	p := flag.Float64("p", 0, "p parameter, for methods which take it")
	q := flag.Float64("q", 0, "q parameter, for methods which take it")
	graph := flag.String("g", "", "also save a graph of the histogram of the result here")
	zeroinv := flag.Bool("z", false, "keep the original pixels of the foreground, and make the background white")
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// only override the defaults of parameters which were given
	params := thresh.Params{}
	vals := map[string]float64{"k": *k, "r": *r, "p": *p, "q": *q}
	var globalset *int
	flag.Visit(func(f *flag.Flag) {
		if v, ok := vals[f.Name]; ok {
			params[f.Name] = v
		}
		if f.Name == "t" {
			globalset = global
		}
	})

	img, err := thresh.ReadGray(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("Could not read image")
	}

	result, hist, err := binarize(img, globalset, *method, *wsize, params)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not binarize image")
	}

	ratio, err := hist.ForegroundRatio()
	if err == nil {
		log.Info().Float64("foreground", ratio).Msg("Binarized")
	}

	if *zeroinv {
		result, err = thresh.ZeroInv(result, img)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not apply binarization to original")
		}
	}

	err = thresh.WriteImage(flag.Arg(1), result)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not save image")
	}

	if *graph == "" {
		return
	}
	f, err := os.Create(*graph)
	if err != nil {
		log.Fatal().Err(err).Str("file", *graph).Msg("Could not create file")
	}
	defer f.Close()
	err = thresh.HistogramGraph(hist, flag.Arg(1), f)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create graph")
	}
}
