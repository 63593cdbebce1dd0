// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"bytes"
	"image"
	"testing"
)

var testRuns = []Run{
	{Image: "a", Method: GlobalName, Threshold: 128, Foreground: 0.2, Background: 0.8},
	{Image: "b", Method: GlobalName, Threshold: 128, Foreground: 0.4, Background: 0.6},
	{Image: "c", Method: GlobalName, Threshold: 128, Foreground: 0.9, Background: 0.1},
	{Image: "a", Method: "mean", Window: 3, Foreground: 0.5, Background: 0.5},
}

func TestSummarise(t *testing.T) {
	sums, err := Summarise(testRuns)
	if err != nil {
		t.Fatalf("Summarise failed: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	g := sums[0]
	if g.Method != GlobalName || g.Runs != 3 {
		t.Fatalf("unexpected first summary %+v", g)
	}
	if g.Median != 0.4 || g.Min != 0.2 || g.Max != 0.9 {
		t.Errorf("unexpected global summary %+v", g)
	}
	if d := g.Mean - 0.5; d > 1e-12 || d < -1e-12 {
		t.Errorf("expected mean 0.5, got %f", g.Mean)
	}
	if sums[1].Method != "mean" || sums[1].Runs != 1 || sums[1].Median != 0.5 {
		t.Errorf("unexpected second summary %+v", sums[1])
	}

	sums, err = Summarise(nil)
	if err != nil || len(sums) != 0 {
		t.Errorf("expected no summaries and no error for no runs, got %v, %v", sums, err)
	}
}

func TestReport(t *testing.T) {
	var p Report
	err := p.Setup("Test report")
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	// enough rows to need a second page
	var runs []Run
	for i := 0; i < 100; i++ {
		runs = append(runs, testRuns...)
	}
	err = p.AddRuns(runs)
	if err != nil {
		t.Fatalf("AddRuns failed: %v", err)
	}
	sums, err := Summarise(runs)
	if err != nil {
		t.Fatalf("Summarise failed: %v", err)
	}
	err = p.AddSummary(sums)
	if err != nil {
		t.Fatalf("AddSummary failed: %v", err)
	}

	var graph bytes.Buffer
	err = HistogramGraph(CalcHistogram(randomGray(image.Rect(0, 0, 10, 10), 1)), "graph", &graph)
	if err != nil {
		t.Fatalf("HistogramGraph failed: %v", err)
	}
	err = p.AddGraph("graph", "A histogram", &graph)
	if err != nil {
		t.Fatalf("AddGraph failed: %v", err)
	}

	var out bytes.Buffer
	err = p.Write(&out)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF")) {
		t.Errorf("output doesn't look like a PDF")
	}
}
