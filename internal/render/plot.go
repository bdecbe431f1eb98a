package render

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default image size.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

var supportedFormats = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
	".svg": true, ".pdf": true, ".eps": true,
}

// PlotRenderer writes figures to an image file with gonum/plot.
// The format is chosen by the file extension.
type PlotRenderer struct {
	Path   string
	Width  vg.Length
	Height vg.Length
}

// NewPlotRenderer creates a renderer writing to path at the default size.
func NewPlotRenderer(path string) (*PlotRenderer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedFormats[ext] {
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}
	return &PlotRenderer{Path: path, Width: DefaultWidth, Height: DefaultHeight}, nil
}

// Render draws the figure and saves it.
func (r *PlotRenderer) Render(fig *Figure) error {
	if err := fig.Validate(); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel
	p.Add(plotter.NewGrid())

	for _, s := range fig.Series {
		pts := points(fig.X, s.Values)
		if len(pts) == 0 {
			continue
		}

		switch s.Style.Kind {
		case Points:
			sc, err := plotter.NewScatter(pts)
			if err != nil {
				return fmt.Errorf("series %s: %w", s.Name, err)
			}
			sc.GlyphStyle.Color = s.Style.Color
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			sc.GlyphStyle.Radius = vg.Points(1.5)
			p.Add(sc)
			p.Legend.Add(s.Name, sc)
		case Line:
			l, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("series %s: %w", s.Name, err)
			}
			l.LineStyle.Color = s.Style.Color
			l.LineStyle.Width = vg.Points(1)
			p.Add(l)
			p.Legend.Add(s.Name, l)
		default:
			return fmt.Errorf("%w: series %s has unknown kind %s", ErrInvalidFigure, s.Name, s.Style.Kind)
		}
	}
	p.Legend.Top = true

	width, height := r.Width, r.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	if err := p.Save(width, height, r.Path); err != nil {
		return fmt.Errorf("save plot %s: %w", r.Path, err)
	}
	return nil
}

// points pairs x and y, dropping entries where either is NaN.
func points(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(y))
	for i, v := range y {
		if math.IsNaN(v) || math.IsNaN(x[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: x[i], Y: v})
	}
	return pts
}

var _ Renderer = (*PlotRenderer)(nil)
