// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"rescribe.xyz/thresh/window"
)

// Bernsen thresholds each pixel at the midpoint of the darkest and
// lightest values in its window, (min + max) / 2, rounded down.
type Bernsen struct{}

func (Bernsen) Name() string      { return "bernsen" }
func (Bernsen) Need() window.Need { return window.NeedMinMax }
func (Bernsen) Validate() error   { return nil }

func (Bernsen) Foreground(p uint8, s window.Stats) bool {
	return int(p) < (int(s.Min)+int(s.Max))/2
}

// Niblack implements Niblack's method, thresholding at
// mean + k * stddev of the window.
type Niblack struct {
	K float64
}

// NewNiblack returns a Niblack with the usual k of -0.2
func NewNiblack() Niblack {
	return Niblack{K: -0.2}
}

func (Niblack) Name() string      { return "niblack" }
func (Niblack) Need() window.Need { return window.NeedMeanStdDev }

func (n Niblack) Validate() error {
	return finite(map[string]float64{"k": n.K})
}

func (n Niblack) Foreground(p uint8, s window.Stats) bool {
	return below(p, s.Mean+n.K*s.StdDev)
}

// Sauvola implements the method from Sauvola and Pietikäinen's
// "Adaptive document image binarization" (2000), thresholding at
// mean * (1 + k * (stddev / r - 1)).
type Sauvola struct {
	K, R float64
}

// NewSauvola returns a Sauvola with k = 0.5 and r = 128
func NewSauvola() Sauvola {
	return Sauvola{K: 0.5, R: 128}
}

func (Sauvola) Name() string      { return "sauvola-pietaksinen" }
func (Sauvola) Need() window.Need { return window.NeedMeanStdDev }

func (v Sauvola) Validate() error {
	err := finite(map[string]float64{"k": v.K, "r": v.R})
	if err != nil {
		return err
	}
	if v.R == 0 {
		return fmt.Errorf("r must not be 0: %w", ErrInvalidParameter)
	}
	return nil
}

func (v Sauvola) Foreground(p uint8, s window.Stats) bool {
	return below(p, s.Mean*(1+v.K*(s.StdDev/v.R-1)))
}

// Phansalkar implements the method of Phansalkar, More and Sabale,
// a variant of Sauvola's which also lowers the threshold of dark
// windows: mean * (1 + p * exp(-q * mean) + k * (stddev / r - 1)).
type Phansalkar struct {
	K, R, P, Q float64
}

// NewPhansalkar returns a Phansalkar with k = 0.25, r = 0.5, p = 2
// and q = 10.
func NewPhansalkar() Phansalkar {
	return Phansalkar{K: 0.25, R: 0.5, P: 2, Q: 10}
}

func (Phansalkar) Name() string      { return "phansalskar-more-sabale" }
func (Phansalkar) Need() window.Need { return window.NeedMeanStdDev }

func (v Phansalkar) Validate() error {
	err := finite(map[string]float64{"k": v.K, "r": v.R, "p": v.P, "q": v.Q})
	if err != nil {
		return err
	}
	if v.R == 0 {
		return fmt.Errorf("r must not be 0: %w", ErrInvalidParameter)
	}
	return nil
}

func (v Phansalkar) Foreground(p uint8, s window.Stats) bool {
	return below(p, s.Mean*(1+v.P*math.Exp(-v.Q*s.Mean)+v.K*(s.StdDev/v.R-1)))
}

// Contrast marks a pixel as foreground when it is closer to the
// darkest value in its window than to the lightest.
type Contrast struct{}

func (Contrast) Name() string      { return "contrast" }
func (Contrast) Need() window.Need { return window.NeedMinMax }
func (Contrast) Validate() error   { return nil }

func (Contrast) Foreground(p uint8, s window.Stats) bool {
	return abs(int(p)-int(s.Min)) < abs(int(p)-int(s.Max))
}

// Mean thresholds each pixel at the mean of its window. The mean is
// not rounded.
type Mean struct{}

func (Mean) Name() string      { return "mean" }
func (Mean) Need() window.Need { return window.NeedMeanStdDev }
func (Mean) Validate() error   { return nil }

func (Mean) Foreground(p uint8, s window.Stats) bool {
	return float64(p) < s.Mean
}

// Median thresholds each pixel at the median of its window.
type Median struct{}

func (Median) Name() string      { return "median" }
func (Median) Need() window.Need { return window.NeedMedian }
func (Median) Validate() error   { return nil }

func (Median) Foreground(p uint8, s window.Stats) bool {
	return p < s.Median
}

// Params holds parameters for a method, by lower case name ("k",
// "r", "p" or "q"); any not given keep their defaults.
type Params map[string]float64

type methodMaker func(Params) (Method, error)

var methods = map[string]methodMaker{
	"bernsen": func(p Params) (Method, error) {
		return Bernsen{}, p.only()
	},
	"niblack": func(p Params) (Method, error) {
		m := NewNiblack()
		err := p.set(map[string]*float64{"k": &m.K})
		return m, err
	},
	"sauvola-pietaksinen": func(p Params) (Method, error) {
		m := NewSauvola()
		err := p.set(map[string]*float64{"k": &m.K, "r": &m.R})
		return m, err
	},
	"phansalskar-more-sabale": func(p Params) (Method, error) {
		m := NewPhansalkar()
		err := p.set(map[string]*float64{"k": &m.K, "r": &m.R, "p": &m.P, "q": &m.Q})
		return m, err
	},
	"contrast": func(p Params) (Method, error) {
		return Contrast{}, p.only()
	},
	"mean": func(p Params) (Method, error) {
		return Mean{}, p.only()
	},
	"median": func(p Params) (Method, error) {
		return Median{}, p.only()
	},
}

// methodOrder is the order methods are listed and run in
var methodOrder = []string{
	"bernsen",
	"niblack",
	"sauvola-pietaksinen",
	"phansalskar-more-sabale",
	"contrast",
	"mean",
	"median",
}

// MethodNames lists the names of all local thresholding methods
func MethodNames() []string {
	names := make([]string, len(methodOrder))
	copy(names, methodOrder)
	return names
}

// methodParams lists the parameters each method takes
var methodParams = map[string][]string{
	"niblack":                 {"k"},
	"sauvola-pietaksinen":     {"k", "r"},
	"phansalskar-more-sabale": {"k", "r", "p", "q"},
}

// MethodParams lists the names of the parameters taken by the method
// called name, which may be none.
func MethodParams(name string) []string {
	return append([]string(nil), methodParams[strings.ToLower(name)]...)
}

// MethodByName returns the local thresholding method called name,
// with its default parameters overridden by any in p. The method is
// validated before being returned.
func MethodByName(name string, p Params) (Method, error) {
	mk, ok := methods[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown method %q, choose from %s: %w", name, strings.Join(methodOrder, ", "), ErrInvalidParameter)
	}
	m, err := mk(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	err = m.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}

// set copies parameters into fields, complaining about any which
// the method doesn't have
func (p Params) set(fields map[string]*float64) error {
	for k, v := range p {
		f, ok := fields[k]
		if !ok {
			return fmt.Errorf("no parameter %q: %w", k, ErrInvalidParameter)
		}
		*f = v
	}
	return nil
}

func (p Params) only() error {
	return p.set(nil)
}

func finite(vals map[string]float64) error {
	var names []string
	for k := range vals {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if math.IsNaN(vals[k]) || math.IsInf(vals[k], 0) {
			return fmt.Errorf("%s must be a finite number, not %v: %w", k, vals[k], ErrInvalidParameter)
		}
	}
	return nil
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
