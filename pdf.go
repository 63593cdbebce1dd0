// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"fmt"
	"io"

	"github.com/nickjwhite/gofpdf"
)

const (
	rowHeight     = 14
	titleSize     = 16
	headSize      = 10
	bodySize      = 9
	pdfGraphWidth = 480
)

var runColumns = []struct {
	name  string
	width float64
}{
	{"Image", 110},
	{"Method", 140},
	{"Window", 50},
	{"Threshold", 60},
	{"Foreground", 70},
	{"Background", 70},
}

// Report is a PDF document summarising a batch of binarizations
type Report struct {
	fpdf *gofpdf.Fpdf
}

// Setup creates a new PDF with a title page heading
func (p *Report) Setup(title string) error {
	p.fpdf = gofpdf.New("P", "pt", "A4", "")
	p.fpdf.SetTitle(title, true)
	p.fpdf.AddPage()
	p.fpdf.SetFont("Helvetica", "B", titleSize)
	p.fpdf.CellFormat(0, titleSize*2, title, "", 1, "L", false, 0, "")
	return p.fpdf.Error()
}

func (p *Report) header() {
	p.fpdf.SetFont("Helvetica", "B", headSize)
	for _, c := range runColumns {
		p.fpdf.CellFormat(c.width, rowHeight, c.name, "B", 0, "L", false, 0, "")
	}
	p.fpdf.Ln(-1)
	p.fpdf.SetFont("Helvetica", "", bodySize)
}

// AddRuns adds a table with a row for each run
func (p *Report) AddRuns(runs []Run) error {
	_, pageh := p.fpdf.GetPageSize()
	_, _, _, bottom := p.fpdf.GetMargins()
	p.header()
	for _, r := range runs {
		if p.fpdf.GetY()+rowHeight > pageh-bottom {
			p.fpdf.AddPage()
			p.header()
		}
		window, threshold := "", ""
		if r.Window > 0 {
			window = fmt.Sprintf("%dx%d", r.Window, r.Window)
		}
		if r.Threshold > 0 {
			threshold = fmt.Sprintf("%d", r.Threshold)
		}
		cells := []string{
			r.Image,
			r.Method,
			window,
			threshold,
			fmt.Sprintf("%.4f", r.Foreground),
			fmt.Sprintf("%.4f", r.Background),
		}
		for i, c := range runColumns {
			p.fpdf.CellFormat(c.width, rowHeight, cells[i], "", 0, "L", false, 0, "")
		}
		p.fpdf.Ln(-1)
	}
	return p.fpdf.Error()
}

// AddSummary adds a table of the foreground ratios of each method
func (p *Report) AddSummary(sums []Summary) error {
	p.fpdf.AddPage()
	p.fpdf.SetFont("Helvetica", "B", headSize)
	for _, h := range []string{"Method", "Runs", "Mean", "Median", "Min", "Max"} {
		p.fpdf.CellFormat(80, rowHeight, h, "B", 0, "L", false, 0, "")
	}
	p.fpdf.Ln(-1)
	p.fpdf.SetFont("Helvetica", "", bodySize)
	for _, s := range sums {
		cells := []string{
			s.Method,
			fmt.Sprintf("%d", s.Runs),
			fmt.Sprintf("%.4f", s.Mean),
			fmt.Sprintf("%.4f", s.Median),
			fmt.Sprintf("%.4f", s.Min),
			fmt.Sprintf("%.4f", s.Max),
		}
		for _, c := range cells {
			p.fpdf.CellFormat(80, rowHeight, c, "", 0, "L", false, 0, "")
		}
		p.fpdf.Ln(-1)
	}
	return p.fpdf.Error()
}

// AddGraph adds a page with a PNG image, such as a histogram graph,
// and a caption
func (p *Report) AddGraph(name string, caption string, png io.Reader) error {
	p.fpdf.AddPage()
	p.fpdf.SetFont("Helvetica", "B", headSize)
	p.fpdf.CellFormat(0, rowHeight*2, caption, "", 1, "L", false, 0, "")
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.fpdf.RegisterImageOptionsReader(name, opts, png)
	p.fpdf.ImageOptions(name, p.fpdf.GetX(), p.fpdf.GetY(), pdfGraphWidth, 0, false, opts, 0, "")
	return p.fpdf.Error()
}

// Write writes the PDF to w
func (p *Report) Write(w io.Writer) error {
	return p.fpdf.Output(w)
}

// Save saves the PDF to the file at path
func (p *Report) Save(path string) error {
	return p.fpdf.OutputFileAndClose(path)
}
