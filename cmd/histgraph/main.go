// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// histgraph creates a graph of the histogram of an image.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"rescribe.xyz/thresh"
)

const usage = `Usage: histgraph [-t title] img graph.png

histgraph creates a graph showing how many pixels of each intensity
there are in an image, from 0 (black) to 255 (white).
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	title := flag.String("t", "", "title of the graph (default is the image file name)")
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		return
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	img, err := thresh.ReadGray(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("Could not read image")
	}
	if *title == "" {
		*title = filepath.Base(flag.Arg(0))
	}

	fn := flag.Arg(1)
	f, err := os.Create(fn)
	if err != nil {
		log.Fatal().Err(err).Str("file", fn).Msg("Error creating file")
	}
	defer f.Close()
	err = thresh.HistogramGraph(thresh.CalcHistogram(img), *title, f)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating graph")
	}
}
