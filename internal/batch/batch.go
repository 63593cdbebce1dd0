// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// batch is a package used by the threshbatch command, which runs
// every binarization of a batch over a set of images, using channels
// to download, binarize and upload concurrently. Note that it is
// considered an "internal" package, not intended for external use,
// and no guarantee is made of the stability of any interfaces
// provided.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"rescribe.xyz/thresh"
)

// ReportKey is the key the PDF report of a batch is saved to
const ReportKey = "report.pdf"

type Downloader interface {
	Download(bucket string, key string, fn string) error
	Log(v ...interface{})
}

type Uploader interface {
	Upload(bucket string, key string, path string) error
	Log(v ...interface{})
}

// Conn is a storage connection a batch can be run with, such as a
// thresh.LocalConn or thresh.AwsConn
type Conn interface {
	Init() error
	CreateBucket(name string) error
	ListObjects(bucket string, prefix string) ([]string, error)
	Download(bucket string, key string, fn string) error
	Upload(bucket string, key string, path string) error
	GetLogger() *zerolog.Logger
	Log(v ...interface{})
}

// input is a downloaded image waiting to be binarized
type input struct {
	name, path string
}

// output is a file waiting to be uploaded
type output struct {
	key, path string
}

// results collects what binarize has done, for the report
type results struct {
	runs []thresh.Run
	// graphs are the histogram graphs of each original image
	graphs []graph
}

type graph struct {
	image string
	png   []byte
}

// download reads image names from a channel and downloads them into
// dir, putting each successfully downloaded image into the process
// channel. If an error occurs it is sent to the errc channel and the
// function returns early.
func download(ctx context.Context, dl chan string, process chan input, conn Downloader, cfg Config, dir string, errc chan error) {
	for name := range dl {
		select {
		case <-ctx.Done():
			for range dl {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- ctx.Err()
			close(process)
			return
		default:
		}
		key := name + "." + cfg.Ext
		fn := filepath.Join(dir, key)
		conn.Log("Downloading", key)
		err := conn.Download(cfg.InBucket, key, fn)
		if err != nil {
			for range dl {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- fmt.Errorf("Error downloading %s: %w", key, err)
			close(process)
			return
		}
		process <- input{name: name, path: fn}
	}
	close(process)
}

// binarize reads downloaded images from a channel and binarizes each
// in every way the Config asks for, putting the resulting images and
// histogram graphs into the upload channel, and adding a Run for each
// binarized image to res. If an error occurs it is sent to the errc
// channel and the function returns early.
func binarize(ctx context.Context, process chan input, upc chan output, cfg Config, dir string, res *results, errc chan error, logger *zerolog.Logger) {
	for in := range process {
		select {
		case <-ctx.Done():
			for range process {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- ctx.Err()
			close(upc)
			return
		default:
		}
		r, g, outs, err := binarizeImage(in, cfg, dir, logger)
		if err != nil {
			for range process {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- fmt.Errorf("Error binarizing %s: %w", in.name, err)
			close(upc)
			return
		}
		_ = os.Remove(in.path)
		res.runs = append(res.runs, r...)
		res.graphs = append(res.graphs, graph{image: in.name, png: g})
		for _, o := range outs {
			upc <- o
		}
	}
	close(upc)
}

// up reads files from a channel and uploads them to bucket, removing
// the local copy of each file once it has been successfully uploaded.
// If an error occurs it is sent to the errc channel and the function
// returns early.
func up(ctx context.Context, c chan output, conn Uploader, bucket string, errc chan error) {
	for o := range c {
		select {
		case <-ctx.Done():
			for range c {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- ctx.Err()
			return
		default:
		}
		conn.Log("Uploading", o.key)
		err := conn.Upload(bucket, o.key, o.path)
		if err != nil {
			for range c {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- fmt.Errorf("Error uploading %s: %w", o.key, err)
			return
		}
		err = os.Remove(o.path)
		if err != nil {
			for range c {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- err
			return
		}
	}
}

// Run runs the batch described by cfg, downloading each image from
// cfg.InBucket and uploading the binarized images, histogram graphs
// and report to cfg.OutBucket. It returns a Run for each binarized
// image, in the order they were done. Run doesn't return until every
// stage of the batch has stopped, whether or not it succeeded.
func Run(ctx context.Context, conn Conn, cfg Config) ([]thresh.Run, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(cfg.TempDir, "threshbatch")
	if err != nil {
		return nil, fmt.Errorf("Error creating temporary directory: %w", err)
	}
	defer os.RemoveAll(dir)
	indir := filepath.Join(dir, "in")
	err = os.Mkdir(indir, 0700)
	if err != nil {
		return nil, fmt.Errorf("Error creating temporary directory: %w", err)
	}

	err = conn.CreateBucket(cfg.OutBucket)
	if err != nil {
		return nil, err
	}

	logger := conn.GetLogger()
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	start := time.Now()

	dl := make(chan string)
	process := make(chan input)
	upc := make(chan output)
	errc := make(chan error, 3)
	var res results

	// each stage drains its input after an error, so they all finish
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		download(ctx, dl, process, conn, cfg, indir, errc)
	}()
	go func() {
		defer wg.Done()
		binarize(ctx, process, upc, cfg, dir, &res, errc, logger)
	}()
	go func() {
		defer wg.Done()
		up(ctx, upc, conn, cfg.OutBucket, errc)
	}()
	go func() {
		defer wg.Done()
		for _, name := range cfg.Images {
			dl <- name
		}
		close(dl)
	}()
	wg.Wait()

	// the first stage to fail is the cause of any others failing
	select {
	case err = <-errc:
		return nil, err
	default:
	}

	logger.Info().
		Int("images", len(cfg.Images)).
		Int("runs", len(res.runs)).
		Dur("took", time.Since(start)).
		Msg("Batch complete")

	runs := res.runs
	if !cfg.Report {
		return runs, nil
	}

	fn := filepath.Join(dir, ReportKey)
	err = saveReport(res, fn)
	if err != nil {
		return runs, fmt.Errorf("Error saving report: %w", err)
	}
	conn.Log("Uploading", ReportKey)
	err = conn.Upload(cfg.OutBucket, ReportKey, fn)
	if err != nil {
		return runs, fmt.Errorf("Error uploading report: %w", err)
	}

	return runs, nil
}

// saveReport saves a PDF listing each run, followed by a summary of
// each method and the histogram of each original image
func saveReport(res results, fn string) error {
	sums, err := thresh.Summarise(res.runs)
	if err != nil {
		return err
	}
	var r thresh.Report
	err = r.Setup("Binarization report")
	if err != nil {
		return err
	}
	err = r.AddRuns(res.runs)
	if err != nil {
		return err
	}
	err = r.AddSummary(sums)
	if err != nil {
		return err
	}
	for _, g := range res.graphs {
		err = r.AddGraph(g.image, "Histogram of "+g.image, bytes.NewReader(g.png))
		if err != nil {
			return err
		}
	}
	return r.Save(fn)
}
