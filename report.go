// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
)

// GlobalName is the Method name recorded for global thresholding
const GlobalName = "global"

// Run records the result of binarizing one image one way
type Run struct {
	Image  string
	Method string
	// Window is the window size, or 0 for global thresholding
	Window int
	// Threshold is the global threshold, or 0 for local methods
	Threshold  int
	Foreground float64
	Background float64
	// Key is where the binarized image was saved
	Key string
}

// Summary describes the foreground ratios of all of the runs of one
// method
type Summary struct {
	Method                 string
	Runs                   int
	Mean, Median, Min, Max float64
}

// Summarise groups runs by method and summarises the foreground
// ratios of each group. Summaries are sorted by method name.
func Summarise(runs []Run) ([]Summary, error) {
	ratios := make(map[string]stats.Float64Data)
	for _, r := range runs {
		ratios[r.Method] = append(ratios[r.Method], r.Foreground)
	}

	var sums []Summary
	for method, data := range ratios {
		s := Summary{Method: method, Runs: len(data)}
		var err error
		if s.Mean, err = data.Mean(); err != nil {
			return sums, fmt.Errorf("Error finding mean for %s: %v", method, err)
		}
		if s.Median, err = data.Median(); err != nil {
			return sums, fmt.Errorf("Error finding median for %s: %v", method, err)
		}
		if s.Min, err = data.Min(); err != nil {
			return sums, fmt.Errorf("Error finding minimum for %s: %v", method, err)
		}
		if s.Max, err = data.Max(); err != nil {
			return sums, fmt.Errorf("Error finding maximum for %s: %v", method, err)
		}
		sums = append(sums, s)
	}
	sort.Slice(sums, func(i, j int) bool { return sums[i].Method < sums[j].Method })
	return sums, nil
}
