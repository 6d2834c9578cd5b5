package markdown

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/matzehuels/plotdown/pkg/cache"
	"github.com/matzehuels/plotdown/pkg/dispatch"
	"github.com/matzehuels/plotdown/pkg/document"
	"github.com/matzehuels/plotdown/pkg/render"
	"github.com/matzehuels/plotdown/pkg/render/plot"
)

const sample = "# Motion\n\n" +
	"Kinetic energy is $E = mv^2/2$.\n\n" +
	"```plot-function\n{\"fn\":\"x^2\",\"domain\":[-5,5]}\n```\n\n" +
	"| a | b |\n|---|---|\n| 1 | 2 |\n\n" +
	"```plot-force\n[{\"name\":\"Gravity\",\"x\":0,\"y\":-10}]\n```\n\n" +
	"```python\nprint(\"<hi>\")\n```\n"

// recorder collects handled blocks and writes a marker for each.
type recorder struct {
	blocks []dispatch.Block
}

func (r *recorder) HandleBlock(w io.Writer, b dispatch.Block) error {
	r.blocks = append(r.blocks, b)
	fmt.Fprintf(w, "<!-- block %d -->\n", len(r.blocks))
	return nil
}

func TestRenderHandsFencedBlocksToHandler(t *testing.T) {
	rec := &recorder{}
	out, err := New().Render([]byte(sample), rec)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := []dispatch.Block{
		{LanguageTag: "plot-function", Content: `{"fn":"x^2","domain":[-5,5]}`},
		{LanguageTag: "plot-force", Content: `[{"name":"Gravity","x":0,"y":-10}]`},
		{LanguageTag: "python", Content: `print("<hi>")`},
	}
	if len(rec.blocks) != len(want) {
		t.Fatalf("handled %d blocks, want %d", len(rec.blocks), len(want))
	}
	for i := range want {
		if rec.blocks[i] != want[i] {
			t.Errorf("blocks[%d] = %+v, want %+v", i, rec.blocks[i], want[i])
		}
	}

	html := string(out)
	for _, s := range []string{
		"<h1>Motion</h1>",
		`class="math inline"`,
		"<table>",
		"<!-- block 1 -->",
		"<!-- block 3 -->",
	} {
		if !strings.Contains(html, s) {
			t.Errorf("output missing %q", s)
		}
	}
	if strings.Contains(html, "<pre>") {
		t.Error("fenced block rendered by goldmark")
	}
}

func TestRenderMultilineContent(t *testing.T) {
	rec := &recorder{}
	src := "```plot-force\n[\n  {\"name\":\"F\",\"x\":1,\"y\":1}\n]\n```\n"
	if _, err := New().Render([]byte(src), rec); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "[\n  {\"name\":\"F\",\"x\":1,\"y\":1}\n]"
	if len(rec.blocks) != 1 || rec.blocks[0].Content != want {
		t.Errorf("blocks = %+v, want content %q", rec.blocks, want)
	}
}

func TestRenderUntaggedBlock(t *testing.T) {
	rec := &recorder{}
	if _, err := New().Render([]byte("```\nplain\n```\n"), rec); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(rec.blocks) != 1 || rec.blocks[0].LanguageTag != "" || rec.blocks[0].Content != "plain" {
		t.Errorf("blocks = %+v", rec.blocks)
	}
}

func TestRenderHandlerError(t *testing.T) {
	h := document.BlockHandlerFunc(func(io.Writer, dispatch.Block) error { return io.ErrShortWrite })
	if _, err := New().Render([]byte("```go\nx\n```\n"), h); err == nil {
		t.Error("Render() error = nil, want error")
	}
}

func TestBlocks(t *testing.T) {
	blocks := Blocks([]byte(sample))
	if len(blocks) != 3 {
		t.Fatalf("len(Blocks) = %d, want 3", len(blocks))
	}

	tests := []struct {
		tag  string
		line int
	}{
		{"plot-function", 6},
		{"plot-force", 14},
		{"python", 18},
	}
	for i, tt := range tests {
		b := blocks[i]
		if b.Index != i || b.LanguageTag != tt.tag || b.Line != tt.line {
			t.Errorf("Blocks[%d] = {Index:%d Tag:%q Line:%d}, want {%d %q %d}", i, b.Index, b.LanguageTag, b.Line, i, tt.tag, tt.line)
		}
	}
}

func TestBlocksEmpty(t *testing.T) {
	if got := Blocks([]byte("just text\n")); len(got) != 0 {
		t.Errorf("Blocks() = %+v, want none", got)
	}
	got := Blocks([]byte("```plot-force\n```\n"))
	if len(got) != 1 || got[0].Content != "" || got[0].Line != 0 {
		t.Errorf("Blocks(empty fence) = %+v", got)
	}
}

// fakePlot draws a placeholder and counts invocations.
type fakePlot struct{ calls int }

func (f *fakePlot) Draw(s *render.Surface, cfg plot.Config) error {
	f.calls++
	fmt.Fprintf(s, `<svg class="fake" data-domain="%v"></svg>`, cfg.XDomain)
	return nil
}

// fencedNodes parses source and returns its fenced code block nodes.
func fencedNodes(source []byte) []*ast.FencedCodeBlock {
	doc := goldmark.New(goldmark.WithExtensions(extensions()...)).Parser().Parse(text.NewReader(source))
	var nodes []*ast.FencedCodeBlock
	ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if n, ok := node.(*ast.FencedCodeBlock); ok && entering {
			nodes = append(nodes, n)
		}
		return ast.WalkContinue, nil
	})
	return nodes
}

func TestBlockTagFromClass(t *testing.T) {
	source := []byte("```plot-force\n[]\n```\n\n```\nplain\n```\n\n```go title\nx\n```\n")
	nodes := fencedNodes(source)
	if len(nodes) != 3 {
		t.Fatalf("got %d fenced blocks, want 3", len(nodes))
	}

	tests := []struct {
		node      int
		class     string // attribute set before extraction; "" keeps the info string
		wantClass string
		wantTag   string
	}{
		{0, "", "language-plot-force", "plot-force"},
		{1, "", "", ""},
		{2, "", "language-go", "go"},
		{0, "highlight language-python", "highlight language-python", "python"},
		{1, "highlight", "highlight", ""},
	}
	for _, tt := range tests {
		n := nodes[tt.node]
		if tt.class != "" {
			n.SetAttributeString("class", []byte(tt.class))
		}
		if got := classOf(n, source); got != tt.wantClass {
			t.Errorf("classOf(block %d) = %q, want %q", tt.node, got, tt.wantClass)
		}
		if got := blockOf(n, source).LanguageTag; got != tt.wantTag {
			t.Errorf("blockOf(block %d).LanguageTag = %q, want %q", tt.node, got, tt.wantTag)
		}
	}
}

func TestDocumentRendering(t *testing.T) {
	p := &fakePlot{}
	d := dispatch.New(plot.NewAdapter(p, nil), nil)
	r := document.NewRenderer(New(), d, cache.NewMemoryCache(0), nil, nil)

	res, err := r.RenderWithCacheInfo(context.Background(), []byte(sample), document.Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := string(res.HTML)

	for _, s := range []string{
		`<figure class="plot plot-function"`,
		`data-domain="[-5 5]"`,
		`<figure class="plot plot-force"`,
		`>Gravity</text>`,
		`<pre><code class="language-python">print(&#34;&lt;hi&gt;&#34;)`,
	} {
		if !strings.Contains(html, s) {
			t.Errorf("output missing %q", s)
		}
	}
	if res.Stats.Blocks != 3 || res.Stats.FunctionPlots != 1 || res.Stats.ForceDiagrams != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}

	edited := strings.Replace(sample, "Kinetic", "Potential", 1)
	res, err = r.RenderWithCacheInfo(context.Background(), []byte(edited), document.Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if p.calls != 1 {
		t.Errorf("plot calls = %d, want 1", p.calls)
	}
	if res.CacheInfo.BlockHits != 2 {
		t.Errorf("BlockHits = %d, want 2", res.CacheInfo.BlockHits)
	}
}
