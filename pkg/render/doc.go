// Package render provides the drawing surface and format conversion shared
// by all diagram renderers.
//
// # Surfaces
//
// Every diagram draws onto its own [Surface]. A surface is created fresh for
// each render of a block and is never reused across renders, so a diagram is
// always rebuilt from scratch rather than patched:
//
//	s := render.NewSurface(id, 300, 300)
//	force.Render(s, forces)
//	html := render.InlineSVG(s.Bytes())
//
// The surface id namespaces element ids (markers, labels) inside the SVG so
// that several diagrams can share one HTML document.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). They back the export
// command, which writes each diagram as a standalone file.
//
//	pdf, err := render.ToPDF(ctx, s.Bytes())
//	png, err := render.ToPNG(ctx, s.Bytes(), 2.0)  // 2x scale
//
// Diagram renderers live in subpackages:
//   - [force]: static force diagrams built from projected vectors
//   - [plot]: function plots drawn by a pluggable plotting engine
//
// [force]: github.com/matzehuels/plotdown/pkg/render/force
// [plot]: github.com/matzehuels/plotdown/pkg/render/plot
package render
