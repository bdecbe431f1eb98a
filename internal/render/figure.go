// Package render draws quote series figures.
package render

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrInvalidFigure is returned when a figure cannot be drawn.
var ErrInvalidFigure = errors.New("invalid figure")

// Kind is how a series is drawn.
type Kind int

const (
	// Points draws one marker per value.
	Points Kind = iota
	// Line connects consecutive values.
	Line
)

func (k Kind) String() string {
	switch k {
	case Points:
		return "points"
	case Line:
		return "line"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Style is the drawing style of a series.
type Style struct {
	Kind  Kind
	Color color.Color
}

// Preset styles for quote series.
var (
	Black   = color.RGBA{A: 255}
	Green   = color.RGBA{G: 128, A: 255}
	Red     = color.RGBA{R: 255, A: 255}
	Blue    = color.RGBA{B: 255, A: 255}
	Magenta = color.RGBA{R: 255, B: 255, A: 255}
)

// Series is one named sequence of y values aligned with Figure.X.
// NaN values are not drawn.
type Series struct {
	Name   string
	Values []float64
	Style  Style
}

// Figure is everything a renderer needs to draw one chart.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Series []Series
}

// Validate checks that every series is aligned with X.
func (f *Figure) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil figure", ErrInvalidFigure)
	}
	for _, s := range f.Series {
		if len(s.Values) != len(f.X) {
			return fmt.Errorf("%w: series %s has %d values, x axis has %d",
				ErrInvalidFigure, s.Name, len(s.Values), len(f.X))
		}
	}
	return nil
}

// SeriesByName returns the named series.
func (f *Figure) SeriesByName(name string) (Series, bool) {
	for _, s := range f.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}

// Copy returns a deep copy of the figure.
func (f *Figure) Copy() *Figure {
	out := &Figure{
		Title:  f.Title,
		XLabel: f.XLabel,
		YLabel: f.YLabel,
		X:      append([]float64(nil), f.X...),
		Series: make([]Series, len(f.Series)),
	}
	for i, s := range f.Series {
		out.Series[i] = Series{
			Name:   s.Name,
			Values: append([]float64(nil), s.Values...),
			Style:  s.Style,
		}
	}
	return out
}

// Renderer consumes a figure.
type Renderer interface {
	Render(fig *Figure) error
}
