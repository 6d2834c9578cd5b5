// Package dispatch routes fenced blocks to their renderer.
//
// A block's language tag picks exactly one path, see [Classify]:
//
//	plot-function  → payload.ParseFunction → plot.Adapter → <figure class="plot plot-function">
//	plot-force     → payload.DecodeForces  → force.Draw   → <figure class="plot plot-force">
//	anything else  → <pre><code class="language-<tag>">
//
// Nothing inside a block escapes [Dispatcher.RenderBlock]. Payload errors,
// engine errors and panics become diagnostics: they are logged, reported to
// [observability.RenderHooks.OnDiagnostic] and returned in [Outcome.Err].
// A function plot that fails renders nothing; a force diagram whose payload
// is malformed renders with zero arrows.
package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotdown/pkg/errors"
	"github.com/matzehuels/plotdown/pkg/observability"
	"github.com/matzehuels/plotdown/pkg/payload"
	"github.com/matzehuels/plotdown/pkg/render"
	"github.com/matzehuels/plotdown/pkg/render/force"
	"github.com/matzehuels/plotdown/pkg/render/plot"
)

// Block is one fenced block as produced by the markdown engine.
type Block struct {
	// LanguageTag is the info string identifier, empty when absent.
	LanguageTag string
	// Content is the block text with the trailing newline stripped.
	Content string
}

// Kind classifies the block by its language tag.
func (b Block) Kind() Kind { return Classify(b.LanguageTag) }

// Outcome describes what rendering a block did.
type Outcome struct {
	Kind Kind
	// Arrows is the number of force arrows drawn.
	Arrows int
	// Empty is set when a diagram block produced no output.
	Empty bool
	// Err is the diagnostic for the block, if any. It is never fatal.
	Err error
}

// Dispatcher renders blocks.
type Dispatcher struct {
	Plot   *plot.Adapter
	Logger *log.Logger
}

// New creates a dispatcher. A nil logger discards diagnostics.
func New(adapter *plot.Adapter, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if adapter == nil {
		adapter = plot.NewAdapter(nil, logger)
	}
	return &Dispatcher{Plot: adapter, Logger: logger}
}

// RenderBlock writes the HTML for b to w. surfaceID names the drawing
// surface of a diagram and namespaces its element ids. The returned error
// is non-nil only when writing to w fails.
func (d *Dispatcher) RenderBlock(ctx context.Context, w io.Writer, b Block, surfaceID string) (Outcome, error) {
	kind := b.Kind()
	if !kind.Diagram() {
		start := time.Now()
		err := writeCode(w, b)
		observability.Render().OnBlockRender(ctx, kind.String(), time.Since(start), nil)
		return Outcome{Kind: kind}, err
	}

	s, out := d.renderDiagram(ctx, b, surfaceID)
	if out.Empty {
		return out, nil
	}
	return out, writeFigure(w, kind, s)
}

// RenderDiagram renders a diagram block onto its own surface. Plain blocks
// return an UNSUPPORTED error; a function plot that fails returns its
// diagnostic. Force diagrams always return a surface.
func (d *Dispatcher) RenderDiagram(ctx context.Context, b Block, surfaceID string) (*render.Surface, Kind, error) {
	kind := b.Kind()
	if !kind.Diagram() {
		return nil, kind, errors.New(errors.ErrCodeUnsupported, "block %q is not a diagram", b.LanguageTag)
	}
	s, out := d.renderDiagram(ctx, b, surfaceID)
	if out.Empty {
		return nil, kind, out.Err
	}
	return s, kind, nil
}

// renderDiagram draws b onto a fresh surface and recovers from panics in
// the diagram components.
func (d *Dispatcher) renderDiagram(ctx context.Context, b Block, surfaceID string) (s *render.Surface, out Outcome) {
	out.Kind = b.Kind()
	s = render.NewSurface(surfaceID, 0, 0)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out.Err = errors.New(errors.ErrCodeInternal, "%s renderer panicked: %v", out.Kind, r)
			d.diagnose(ctx, out.Kind, out.Err)
			s.Reset()
		}
		out.Empty = s.Empty()
		if out.Empty && out.Err == nil {
			out.Err = errors.New(errors.ErrCodeInternal, "%s renderer drew nothing", out.Kind)
		}
		observability.Render().OnBlockRender(ctx, out.Kind.String(), time.Since(start), out.Err)
	}()

	d.Logger.Debug("rendering block", "kind", out.Kind, "surface", surfaceID)

	switch out.Kind {
	case KindFunctionPlot:
		spec, err := payload.ParseFunction(b.Content)
		if err != nil {
			out.Err = err
			d.diagnose(ctx, out.Kind, err)
			return s, out
		}
		// The adapter reports its own diagnostics.
		out.Err = d.Plot.Draw(ctx, s, spec)

	case KindForceDiagram:
		forces, err := payload.DecodeForces(b.Content)
		if err != nil {
			out.Err = err
			d.diagnose(ctx, out.Kind, err)
		}
		scene := force.Draw(s, forces)
		out.Arrows = len(scene.Arrows)
	}
	return s, out
}

func (d *Dispatcher) diagnose(ctx context.Context, kind Kind, err error) {
	d.Logger.Warn("block rendered with diagnostic", "kind", kind, "error", err)
	observability.Render().OnDiagnostic(ctx, kind.String(), err)
}

func writeFigure(w io.Writer, kind Kind, s *render.Surface) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<figure class="plot %s" id="%s">`+"\n", kind, render.EscapeXML(s.ID))
	buf.Write(render.InlineSVG(s.Bytes()))
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString("</figure>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func writeCode(w io.Writer, b Block) error {
	var buf bytes.Buffer
	buf.WriteString("<pre><code")
	if b.LanguageTag != "" {
		fmt.Fprintf(&buf, ` class="language-%s"`, html.EscapeString(b.LanguageTag))
	}
	buf.WriteByte('>')
	if b.Content != "" {
		buf.WriteString(html.EscapeString(b.Content))
		buf.WriteByte('\n')
	}
	buf.WriteString("</code></pre>\n")
	_, err := w.Write(buf.Bytes())
	return err
}
