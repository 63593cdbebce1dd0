// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// lsbatch lists the input images and results of threshbatch.
package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"rescribe.xyz/thresh"
	"rescribe.xyz/thresh/internal/batch"
)

const usage = `Usage: lsbatch [-s storage] [-d dir] [-in bucket] [-out bucket]

Lists useful things related to threshbatch.

- Images waiting in the input bucket
- Number of results in each directory of the output bucket
- Whether a report has been saved
`

type Lister interface {
	MinimalInit() error
	ListObjects(bucket string, prefix string) ([]string, error)
}

type dirCount struct {
	dir string
	n   int
}

// listInputs sends the name of each object in bucket to c
func listInputs(conn Lister, bucket string, c chan string, errc chan error) {
	objs, err := conn.ListObjects(bucket, "")
	if err != nil {
		errc <- fmt.Errorf("Error listing %s: %w", bucket, err)
		close(c)
		return
	}
	sort.Strings(objs)
	for _, o := range objs {
		c <- o
	}
	close(c)
}

// countResults counts the objects in each directory of bucket, sending
// them in order to c. Histogram graphs aren't counted.
func countResults(conn Lister, bucket string, c chan dirCount, errc chan error) {
	objs, err := conn.ListObjects(bucket, "")
	if err != nil {
		errc <- fmt.Errorf("Error listing %s: %w", bucket, err)
		close(c)
		return
	}
	counts := make(map[string]int)
	for _, o := range objs {
		if strings.HasSuffix(o, "_histogram.png") || o == batch.ReportKey {
			continue
		}
		counts[path.Dir(o)]++
	}
	var dirs []string
	for d := range counts {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	for _, d := range dirs {
		c <- dirCount{dir: d, n: counts[d]}
	}
	close(c)
}

func main() {
	storage := flag.String("s", "local", "storage to use, local or s3")
	dir := flag.String("d", "", "directory to use for local storage (default is a temporary directory)")
	region := flag.String("region", "", "AWS region to use for s3 storage")
	inbucket := flag.String("in", thresh.StorageIn, "bucket images are read from")
	outbucket := flag.String("out", thresh.StorageOut, "bucket results are saved to")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	quiet := log.Logger.Level(zerolog.WarnLevel)

	var conn Lister
	switch *storage {
	case "local":
		conn = &thresh.LocalConn{Dir: *dir, Logger: &quiet}
	case "s3":
		conn = &thresh.AwsConn{Region: *region, Logger: &quiet}
	default:
		log.Fatal().Str("storage", *storage).Msg("Unknown storage type, use local or s3")
	}
	err := conn.MinimalInit()
	if err != nil {
		log.Fatal().Err(err).Msg("Error setting up connection")
	}

	inputs := make(chan string, 100)
	results := make(chan dirCount, 100)
	errc := make(chan error, 2)

	go listInputs(conn, *inbucket, inputs, errc)
	go countResults(conn, *outbucket, results, errc)

	fmt.Println("# Input images")
	for i := range inputs {
		fmt.Println(i)
	}

	fmt.Println("\n# Results")
	for r := range results {
		fmt.Printf("%-40s %d\n", r.dir, r.n)
	}

	report, err := conn.ListObjects(*outbucket, batch.ReportKey)
	if err == nil && len(report) > 0 {
		fmt.Println("\nReport saved as", batch.ReportKey)
	}

	close(errc)
	for err := range errc {
		log.Error().Err(err).Msg("Listing failed")
	}
}
