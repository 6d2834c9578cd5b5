// Package document renders markdown documents with embedded diagrams.
//
// A [Renderer] hands the source to an [Engine] for structural parsing and
// receives every fenced block back through a [BlockHandler]. Blocks are
// rendered by a [dispatch.Dispatcher].
//
// # Memoization
//
// Rendering is memoized at two levels, both stored in a [cache.Cache]:
//
//  1. Document: keyed by the hash of the source and the wrapping options.
//     An unchanged document is returned without parsing.
//  2. Block: each diagram block is keyed by its tag, content and occurrence
//     index among identical blocks. Editing text outside a diagram re-parses
//     the document but replays the diagram, so the plotting engine is not
//     invoked again. Blocks that failed are memoized too.
//
// Surface ids are derived from the block key, so re-rendering identical
// text produces identical output.
//
// # Usage
//
//	r := document.NewRenderer(markdown.New(), dispatch.New(adapter, logger), cache.NewMemoryCache(0), nil, logger)
//	html, err := r.Render(ctx, source, document.Options{Standalone: true})
package document

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/plotdown/pkg/cache"
	"github.com/matzehuels/plotdown/pkg/dispatch"
	"github.com/matzehuels/plotdown/pkg/errors"
	"github.com/matzehuels/plotdown/pkg/observability"
)

// surfaceNamespace scopes the name-based UUIDs used as surface ids.
var surfaceNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/plotdown/surface"))

// Renderer renders documents with memoization.
//
// A Renderer holds no per-document state. Calls are synchronous; the memo
// cache must be safe for concurrent use if the renderer is shared.
type Renderer struct {
	Engine     Engine
	Dispatcher *dispatch.Dispatcher
	Cache      cache.Cache
	Keyer      cache.Keyer
	Logger     *log.Logger
}

// NewRenderer creates a renderer.
// If c is nil, a NullCache is used (memoization disabled).
// If keyer is nil, a DefaultKeyer is used.
// If d is nil, a dispatcher without a plotting engine is used.
func NewRenderer(engine Engine, d *dispatch.Dispatcher, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = discardLogger()
	}
	if d == nil {
		d = dispatch.New(nil, logger)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Renderer{
		Engine:     engine,
		Dispatcher: d,
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
	}
}

// Render renders source to HTML.
func (r *Renderer) Render(ctx context.Context, source []byte, opts Options) ([]byte, error) {
	res, err := r.RenderWithCacheInfo(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	return res.HTML, nil
}

// RenderWithCacheInfo renders source and reports statistics, diagnostics and
// memo hits. Block failures never fail the render; only a cancelled context,
// invalid options or an engine failure do.
func (r *Renderer) RenderWithCacheInfo(ctx context.Context, source []byte, opts Options) (_ *Result, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if r.Engine == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no markdown engine configured")
	}

	start := time.Now()
	observability.Render().OnDocumentStart(ctx, len(source))
	res := &Result{}
	defer func() {
		res.Stats.Duration = time.Since(start)
		observability.Render().OnDocumentComplete(ctx, res.Stats.Blocks, res.Stats.Duration, err)
	}()

	docKey := r.Keyer.DocumentKey(cache.Hash(source), opts.KeyOpts())
	if data, hit, cerr := r.Cache.Get(ctx, docKey); cerr == nil && hit {
		observability.Cache().OnCacheHit(ctx, "document")
		r.Logger.Debug("document memo hit", "bytes", len(data))
		res.HTML = data
		res.CacheInfo.DocumentHit = true
		return res, nil
	}
	observability.Cache().OnCacheMiss(ctx, "document")

	p := &pass{ctx: ctx, r: r, res: res, seen: make(map[blockIdentity]int)}
	body, err := r.Engine.Render(source, p)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeExternalEngine, err, "render markdown")
		}
		return nil, err
	}

	out := body
	if opts.Standalone {
		out = wrapPage(body, opts)
	}
	res.HTML = out

	if err := r.Cache.Set(ctx, docKey, out, cache.TTLDocument); err != nil {
		r.Logger.Warn("failed to memoize document", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "document", len(out))
	}

	r.Logger.Debug("rendered document",
		"blocks", res.Stats.Blocks,
		"block_hits", res.CacheInfo.BlockHits,
		"diagnostics", len(res.Diagnostics))
	return res, nil
}

// SurfaceID returns the deterministic surface id for a block key.
func SurfaceID(blockKey string) string {
	return "plot-" + uuid.NewSHA1(surfaceNamespace, []byte(blockKey)).String()
}

// =============================================================================
// Render Pass
// =============================================================================

type blockIdentity struct {
	tag     string
	content string
}

// pass is the block handler for a single render.
type pass struct {
	ctx   context.Context
	r     *Renderer
	res   *Result
	seen  map[blockIdentity]int
	index int
}

// HandleBlock renders b, replaying diagrams from the block memo.
func (p *pass) HandleBlock(w io.Writer, b dispatch.Block) error {
	index := p.index
	p.index++
	kind := b.Kind()
	p.res.Stats.count(kind)

	if !kind.Diagram() {
		_, err := p.r.Dispatcher.RenderBlock(p.ctx, w, b, "")
		return err
	}

	id := blockIdentity{b.LanguageTag, b.Content}
	occurrence := p.seen[id]
	p.seen[id]++

	key := p.r.Keyer.BlockKey(b.LanguageTag, b.Content, occurrence)
	if data, hit, err := p.r.Cache.Get(p.ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(p.ctx, "block")
		p.res.CacheInfo.BlockHits++
		_, err := w.Write(data)
		return err
	}
	observability.Cache().OnCacheMiss(p.ctx, "block")
	p.res.CacheInfo.BlockMisses++

	var buf bytes.Buffer
	out, err := p.r.Dispatcher.RenderBlock(p.ctx, &buf, b, SurfaceID(key))
	if err != nil {
		return err
	}
	if out.Err != nil {
		p.res.Diagnostics = append(p.res.Diagnostics, Diagnostic{Index: index, Kind: kind, Err: out.Err})
	}

	if err := p.r.Cache.Set(p.ctx, key, buf.Bytes(), cache.TTLBlock); err != nil {
		p.r.Logger.Warn("failed to memoize block", "kind", kind, "error", err)
	} else {
		observability.Cache().OnCacheSet(p.ctx, "block", buf.Len())
	}
	_, err = w.Write(buf.Bytes())
	return err
}
