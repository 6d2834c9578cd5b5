// Package plot adapts function-plot payloads to a plotting engine.
//
// The adapter owns the fixed presentation of every function plot: a
// 500×300 canvas with grid lines, a single line series in [SeriesColor],
// the payload's horizontal domain (default [-10, 10]) and a vertical domain
// fixed at [-10, 10]. The engine that turns a [Config] into pixels is a
// swappable capability behind [Engine]; the default implementation lives in
// the engine subpackage.
//
// Engine failures never escape [Adapter.Draw] as panics. They are reported
// to the diagnostic channel and the surface is left empty.
package plot

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotdown/pkg/errors"
	"github.com/matzehuels/plotdown/pkg/observability"
	"github.com/matzehuels/plotdown/pkg/payload"
	"github.com/matzehuels/plotdown/pkg/render"
)

// Fixed canvas and styling for function plots.
const (
	Width       = 500.0
	Height      = 300.0
	SeriesColor = "#1e88e5"
	SeriesType  = "linear"
	GraphType   = "polyline"
)

// YDomain is the vertical plot range. It is not configurable from payloads.
var YDomain = [2]float64{-10, 10}

// Config is everything an engine needs to draw one plot.
type Config struct {
	Width   float64
	Height  float64
	Grid    bool
	XDomain [2]float64
	YDomain [2]float64
	Series  []Series
}

// Series is one plotted expression.
type Series struct {
	Expr  string
	Color string
	// Type is the sampling mode, always "linear".
	Type string
	// Graph is the drawing mode, always "polyline" (a connected line).
	Graph string
}

// Engine draws a plot onto a surface.
type Engine interface {
	Draw(s *render.Surface, cfg Config) error
}

// EngineFunc adapts a function to [Engine].
type EngineFunc func(s *render.Surface, cfg Config) error

// Draw calls f(s, cfg).
func (f EngineFunc) Draw(s *render.Surface, cfg Config) error { return f(s, cfg) }

// Adapter hands validated function payloads to an [Engine].
type Adapter struct {
	Engine Engine
	Logger *log.Logger
}

// NewAdapter creates an adapter. A nil logger discards diagnostics.
func NewAdapter(e Engine, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Adapter{Engine: e, Logger: logger}
}

// ConfigFor builds the engine configuration for spec.
func ConfigFor(spec payload.FunctionPlot) Config {
	return Config{
		Width:   Width,
		Height:  Height,
		Grid:    true,
		XDomain: spec.XDomain(),
		YDomain: YDomain,
		Series: []Series{{
			Expr:  spec.Fn,
			Color: SeriesColor,
			Type:  SeriesType,
			Graph: GraphType,
		}},
	}
}

// Draw invokes the engine exactly once for spec. On failure the surface is
// emptied, the error is logged and reported through observability, and a
// coded EXTERNAL_ENGINE error is returned for the caller's bookkeeping.
func (a *Adapter) Draw(ctx context.Context, s *render.Surface, spec payload.FunctionPlot) (err error) {
	cfg := ConfigFor(spec)
	s.Reset()
	s.Width, s.Height = cfg.Width, cfg.Height

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeExternalEngine, "plotting engine panicked: %v", r)
		}
		if err != nil {
			if !errors.Is(err, errors.ErrCodeExternalEngine) {
				err = errors.Wrap(errors.ErrCodeExternalEngine, err, "plot %q", spec.Fn)
			}
			s.Reset()
			a.Logger.Warn("function plot failed", "fn", spec.Fn, "error", err)
			observability.Render().OnDiagnostic(ctx, "plot-function", err)
		}
		observability.Render().OnPlotDraw(ctx, time.Since(start), err)
	}()

	if a.Engine == nil {
		return errors.New(errors.ErrCodeExternalEngine, "no plotting engine configured")
	}
	a.Logger.Debug("drawing function plot", "config", cfg)
	if err := a.Engine.Draw(s, cfg); err != nil {
		return err
	}
	if s.Empty() {
		return errors.New(errors.ErrCodeExternalEngine, "plotting engine drew nothing")
	}
	return nil
}

// String describes the config for debug logging.
func (c Config) String() string {
	exprs := make([]string, len(c.Series))
	for i, s := range c.Series {
		exprs[i] = s.Expr
	}
	return fmt.Sprintf("%gx%g x=%v y=%v grid=%t series=%q", c.Width, c.Height, c.XDomain, c.YDomain, c.Grid, exprs)
}
