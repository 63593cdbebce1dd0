// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
)

const graphWidth = 1280
const graphHeight = 720
const xtickevery = 32

// HistogramGraph creates a graph of a histogram, as a PNG
func HistogramGraph(h Histogram, title string, w io.Writer) error {
	var xvalues, yvalues []float64
	maxcount := 1
	for v, c := range h {
		xvalues = append(xvalues, float64(v))
		yvalues = append(yvalues, float64(c))
		if c > maxcount {
			maxcount = c
		}
	}

	var ticks []chart.Tick
	for v := 0; v < len(h); v += xtickevery {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}
	// Make last tick the final value
	ticks = append(ticks, chart.Tick{Value: float64(len(h) - 1), Label: fmt.Sprintf("%d", len(h)-1)})

	mainSeries := chart.ContinuousSeries{
		Style: chart.Style{
			StrokeColor: chart.ColorBlack,
			FillColor:   chart.ColorAlternateGray,
		},
		XValues: xvalues,
		YValues: yvalues,
	}

	graph := chart.Chart{
		Title:  title,
		Width:  graphWidth,
		Height: graphHeight,
		XAxis: chart.XAxis{
			Name: "Pixel value",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: float64(len(h) - 1),
			},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Pixels",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: float64(maxcount),
			},
		},
		Series: []chart.Series{
			mainSeries,
		},
	}
	return graph.Render(chart.PNG, w)
}
