// Package engine is the default function plotting engine.
//
// Expressions are compiled with expr-lang/expr and sampled across the
// horizontal domain. The samples become gonum/plot line plotters: the curve
// is split wherever the function is undefined or infinite, so asymptotes do
// not draw vertical spikes. The finished plot is written to the surface as
// SVG through gonum's vgsvg canvas.
package engine

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/matzehuels/plotdown/pkg/errors"
	"github.com/matzehuels/plotdown/pkg/render"
	"github.com/matzehuels/plotdown/pkg/render/plot"
)

// DefaultSamples is the number of points sampled per series.
const DefaultSamples = 500

// lineWidth is the stroke width of plotted curves.
var lineWidth = vg.Points(2)

// Engine draws function plots with gonum/plot.
type Engine struct {
	Samples int
}

// New creates an engine with [DefaultSamples].
func New() *Engine {
	return &Engine{Samples: DefaultSamples}
}

// Draw renders cfg onto s as SVG. Canvas dimensions are taken as points.
func (e *Engine) Draw(s *render.Surface, cfg plot.Config) error {
	if !(cfg.XDomain[0] < cfg.XDomain[1]) {
		return errors.New(errors.ErrCodeExternalEngine, "empty horizontal domain %v", cfg.XDomain)
	}
	if !(cfg.YDomain[0] < cfg.YDomain[1]) {
		return errors.New(errors.ErrCodeExternalEngine, "empty vertical domain %v", cfg.YDomain)
	}

	p := gplot.New()
	p.X.Padding, p.Y.Padding = 0, 0
	if cfg.Grid {
		p.Add(plotter.NewGrid())
	}

	for _, series := range cfg.Series {
		fn, err := Compile(series.Expr)
		if err != nil {
			return err
		}
		lines, err := e.lines(fn, cfg.XDomain, parseColor(series.Color))
		if err != nil {
			return err
		}
		for _, l := range lines {
			p.Add(l)
		}
	}

	// Add widens the axes to the data range; pin them afterwards.
	p.X.Min, p.X.Max = cfg.XDomain[0], cfg.XDomain[1]
	p.Y.Min, p.Y.Max = cfg.YDomain[0], cfg.YDomain[1]

	c := vgsvg.New(vg.Length(cfg.Width), vg.Length(cfg.Height))
	p.Draw(draw.New(c))
	if _, err := c.WriteTo(s); err != nil {
		return errors.Wrap(errors.ErrCodeExternalEngine, err, "write plot")
	}
	return nil
}

// lines samples fn over domain and returns one line per continuous run.
func (e *Engine) lines(fn Func, domain [2]float64, col color.Color) ([]*plotter.Line, error) {
	n := e.Samples
	if n < 2 {
		n = DefaultSamples
	}
	step := (domain[1] - domain[0]) / float64(n-1)

	var runs []plotter.XYs
	var cur plotter.XYs
	flush := func() {
		if len(cur) >= 2 {
			runs = append(runs, cur)
		}
		cur = nil
	}

	for i := 0; i < n; i++ {
		x := domain[0] + float64(i)*step
		if i == n-1 {
			x = domain[1]
		}
		y, err := fn(x)
		if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
			flush()
			continue
		}
		cur = append(cur, plotter.XY{X: x, Y: y})
	}
	flush()

	lines := make([]*plotter.Line, 0, len(runs))
	for _, run := range runs {
		l, err := plotter.NewLine(run)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExternalEngine, err, "build line")
		}
		l.LineStyle.Color = col
		l.LineStyle.Width = lineWidth
		lines = append(lines, l)
	}
	return lines, nil
}

// parseColor accepts "#rrggbb" hex colors and falls back to black.
func parseColor(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.Black
	}
	return c
}
