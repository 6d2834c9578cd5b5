// Package markdown is the goldmark implementation of [document.Engine].
//
// The engine configuration is fixed: GitHub Flavored Markdown (tables,
// autolinks, strikethrough, task lists) and MathJax math syntax, rendered as
// HTML spans for client-side typesetting. Fenced code blocks are not rendered
// by goldmark; each one is handed to the caller's [document.BlockHandler].
// Indented code blocks keep goldmark's default rendering.
package markdown

import (
	"bytes"
	"strings"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/matzehuels/plotdown/pkg/dispatch"
	"github.com/matzehuels/plotdown/pkg/document"
	"github.com/matzehuels/plotdown/pkg/errors"
)

// fencedPriority places the fenced block renderer ahead of goldmark's HTML
// renderer (priority 1000).
const fencedPriority = 100

// Engine renders markdown with goldmark.
type Engine struct{}

// New creates a markdown engine.
func New() *Engine {
	return &Engine{}
}

// Render converts source to an HTML fragment, calling h for every fenced
// code block in document order.
func (e *Engine) Render(source []byte, h document.BlockHandler) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extensions()...),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(&fencedRenderer{handler: h}, fencedPriority)),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeExternalEngine, err, "convert markdown")
	}
	return buf.Bytes(), nil
}

func extensions() []goldmark.Extender {
	return []goldmark.Extender{extension.GFM, mathjax.MathJax}
}

// fencedRenderer routes fenced code blocks to a block handler.
type fencedRenderer struct {
	handler document.BlockHandler
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *fencedRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *fencedRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	if err := r.handler.HandleBlock(w, blockOf(n, source)); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

// blockOf extracts the language tag and content of a fenced block. The tag
// is read back from the block's class annotation.
func blockOf(n *ast.FencedCodeBlock, source []byte) dispatch.Block {
	tag := dispatch.LanguageFromClass(classOf(n, source))

	var content strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		content.Write(seg.Value(source))
	}
	return dispatch.Block{
		LanguageTag: tag,
		Content:     strings.TrimSuffix(content.String(), "\n"),
	}
}

// classOf returns the class annotation of a fenced block: a class attribute
// set by an extension, or the "language-<info>" class goldmark's HTML
// renderer would emit.
func classOf(n *ast.FencedCodeBlock, source []byte) string {
	if v, ok := n.AttributeString("class"); ok {
		switch class := v.(type) {
		case []byte:
			return string(class)
		case string:
			return class
		}
	}
	if lang := n.Language(source); lang != nil {
		return "language-" + string(lang)
	}
	return ""
}

// =============================================================================
// Block Scanner
// =============================================================================

// Fenced is a fenced code block located in a document.
type Fenced struct {
	dispatch.Block
	// Index is the position among all fenced blocks, starting at 0.
	Index int
	// Line is the 1-based line of the first content line, or 0 for an
	// empty block.
	Line int
}

// Blocks parses source and returns its fenced code blocks in document order.
func Blocks(source []byte) []Fenced {
	md := goldmark.New(goldmark.WithExtensions(extensions()...))
	doc := md.Parser().Parse(text.NewReader(source))

	var blocks []Fenced
	ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		n, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		f := Fenced{Block: blockOf(n, source), Index: len(blocks)}
		if n.Lines().Len() > 0 {
			f.Line = bytes.Count(source[:n.Lines().At(0).Start], []byte("\n")) + 1
		}
		blocks = append(blocks, f)
		return ast.WalkSkipChildren, nil
	})
	return blocks
}
