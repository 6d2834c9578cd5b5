package document

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotdown/pkg/cache"
	"github.com/matzehuels/plotdown/pkg/dispatch"
	"github.com/matzehuels/plotdown/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultTitle is the page title of standalone documents.
	DefaultTitle = "plotdown"

	// MathJaxURL is the script loaded by standalone documents to typeset
	// the math spans produced by the markdown engine.
	MathJaxURL = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js"
)

// =============================================================================
// Options - Render Configuration
// =============================================================================

// Options controls how a document is wrapped. Fenced block rendering and
// the markdown extensions are fixed and not configurable.
type Options struct {
	// Standalone wraps the fragment in a complete HTML page.
	Standalone bool `json:"standalone,omitempty"`
	// Title is the page title of a standalone document.
	Title string `json:"title,omitempty"`
	// Stylesheet is an optional stylesheet URL linked from a standalone document.
	Stylesheet string `json:"stylesheet,omitempty"`
	// MathJax adds the MathJax script to a standalone document.
	MathJax bool `json:"mathjax,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if strings.ContainsAny(o.Stylesheet, "\"<>\n") {
		return errors.New(errors.ErrCodeInvalidInput, "invalid stylesheet URL %q", o.Stylesheet)
	}
	if o.Standalone && o.Title == "" {
		o.Title = DefaultTitle
	}
	o.validated = true
	return nil
}

// KeyOpts returns the cache key options for the document memo.
func (o *Options) KeyOpts() cache.DocumentKeyOpts {
	if !o.Standalone {
		return cache.DocumentKeyOpts{}
	}
	return cache.DocumentKeyOpts{
		Standalone: true,
		Title:      o.Title,
		Stylesheet: o.Stylesheet,
		MathJax:    o.MathJax,
	}
}

// =============================================================================
// Result - Render Output
// =============================================================================

// Result contains the output of one render.
type Result struct {
	// HTML is the rendered fragment or page.
	HTML []byte

	// Stats counts what was rendered. It is zero on a document memo hit.
	Stats Stats

	// Diagnostics lists blocks rendered with a recovered failure during this
	// call. Blocks replayed from the block memo report nothing.
	Diagnostics []Diagnostic

	// CacheInfo tracks memo hits.
	CacheInfo CacheInfo
}

// Stats contains render statistics.
type Stats struct {
	Blocks        int
	Plain         int
	FunctionPlots int
	ForceDiagrams int
	Duration      time.Duration
}

// CacheInfo tracks memo hits for one render.
type CacheInfo struct {
	DocumentHit bool // Whether the whole document came from the memo
	BlockHits   int  // Diagram blocks replayed from the memo
	BlockMisses int  // Diagram blocks rendered fresh
}

// Diagnostic is a recovered failure in one block.
type Diagnostic struct {
	// Index is the position of the block among all fenced blocks.
	Index int
	Kind  dispatch.Kind
	Err   error
}

func (s *Stats) count(k dispatch.Kind) {
	s.Blocks++
	switch k {
	case dispatch.KindFunctionPlot:
		s.FunctionPlots++
	case dispatch.KindForceDiagram:
		s.ForceDiagrams++
	default:
		s.Plain++
	}
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
