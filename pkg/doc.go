// Package pkg provides the core libraries for plotdown.
//
// # Overview
//
// plotdown renders Markdown documents to HTML. Fenced code blocks tagged
// plot-function become function plots, blocks tagged plot-force become
// force diagrams, and every other block renders as escaped code. A block
// whose payload is malformed degrades to a diagnostic and never fails the
// document.
//
// # Architecture
//
// The data flow for one document:
//
//	Markdown source
//	       ↓
//	  [document/markdown] (parse, hand each fenced block to a handler)
//	       ↓
//	  [dispatch] (classify by tag, route to a renderer)
//	       ↓
//	  [render/plot] or [render/force] (draw onto a fresh [render] surface)
//	       ↓
//	  HTML fragment or standalone page
//
// [document] ties the steps together and memoizes at two levels through
// [cache]: whole documents keyed by a hash of their source, and diagram
// blocks keyed by tag, content and occurrence. Editing prose therefore
// replays every diagram instead of redrawing it.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/plotdown/pkg/cache"
//	    "github.com/matzehuels/plotdown/pkg/dispatch"
//	    "github.com/matzehuels/plotdown/pkg/document"
//	    "github.com/matzehuels/plotdown/pkg/document/markdown"
//	    "github.com/matzehuels/plotdown/pkg/render/plot"
//	    "github.com/matzehuels/plotdown/pkg/render/plot/engine"
//	)
//
//	d := dispatch.New(plot.NewAdapter(engine.New(), nil), nil)
//	r := document.NewRenderer(markdown.New(), d, cache.NewMemoryCache(0), nil, nil)
//	html, err := r.Render(ctx, source, document.Options{})
//
// # Main Packages
//
// [payload] - Decoding of fenced block payloads into function plot
// descriptions and force vectors.
//
// [geometry] - Projection of force vectors onto the diagram canvas.
//
// [render/plot/engine] - The plotting engine: expressions compiled with
// expr and drawn with gonum/plot.
//
// [config] - TOML and YAML configuration for the CLI.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for render and cache events.
//
// [render/plot/engine]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/render/plot/engine
// [document]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/document
// [cache]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/cache
// [payload]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/payload
// [geometry]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/geometry
// [config]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/observability
//
// [document/markdown]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/document/markdown
// [dispatch]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/dispatch
// [render]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/render
// [render/plot]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/render/plot
// [render/force]: https://pkg.go.dev/github.com/matzehuels/plotdown/pkg/render/force
package pkg
