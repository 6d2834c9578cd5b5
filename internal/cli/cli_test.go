package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotdown/pkg/config"
	"github.com/matzehuels/plotdown/pkg/dispatch"
	"github.com/matzehuels/plotdown/pkg/document"
	"github.com/matzehuels/plotdown/pkg/document/markdown"
	"github.com/matzehuels/plotdown/pkg/errors"
)

const doc = "# Forces\n\n" +
	"```plot-force\n[{\"name\":\"Gravity\",\"x\":0,\"y\":-10}]\n```\n\n" +
	"```go\nfmt.Println(1)\n```\n\n" +
	"```plot-force\nnot json\n```\n\n" +
	"```plot-function\n{\"fn\":\"x^2\"}\n```\n"

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	captureStatus(t)
	return New(&bytes.Buffer{}, log.InfoLevel)
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "notes.md", "notes.html"},
		{"", "dir/notes.markdown", "dir/notes.html"},
		{"", "-", ""},
		{"-", "notes.md", ""},
		{"out.html", "notes.md", "out.html"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input); got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestExportBase(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "notes.md", "notes"},
		{"", "-", "diagram"},
		{"figs/fig.svg", "notes.md", "figs/fig"},
		{"figs/fig", "notes.md", "figs/fig"},
		{"fig.v2", "notes.md", "fig.v2"},
	}
	for _, tt := range tests {
		if got := exportBase(tt.output, tt.input); got != tt.want {
			t.Errorf("exportBase(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg, PNG,pdf", []string{"svg", "png", "pdf"}},
		{"svg,,", []string{"svg"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestReadSource(t *testing.T) {
	got, err := readSource("-", strings.NewReader("from stdin"))
	if err != nil || string(got) != "from stdin" {
		t.Errorf("readSource(-) = %q, %v", got, err)
	}

	_, err = readSource(filepath.Join(t.TempDir(), "missing.md"), nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("readSource(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadConfigLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plotdown.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI(t)
	c.configPath = path
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if c.Logger.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, want warn", c.Logger.GetLevel())
	}

	c = newTestCLI(t)
	c.configPath = path
	c.SetVerbose(true)
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("verbose level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	c := newTestCLI(t)
	c.configPath = filepath.Join(t.TempDir(), "nope.toml")
	if err := c.loadConfig(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("loadConfig() error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestDocumentOptionsFlagsOverrideConfig(t *testing.T) {
	c := newTestCLI(t)
	c.Config = config.Default()
	c.Config.Render.Title = "From config"
	c.Config.Render.Standalone = true

	cmd := c.renderCommand()
	if err := cmd.ParseFlags([]string{"--title", "From flag", "--mathjax=false"}); err != nil {
		t.Fatal(err)
	}
	var opts renderOpts
	opts.title = "From flag"
	opts.mathjax = false

	got := c.documentOptions(cmd, opts)
	if got.Title != "From flag" || got.MathJax || !got.Standalone {
		t.Errorf("documentOptions() = %+v", got)
	}
}

func TestRunRender(t *testing.T) {
	c := newTestCLI(t)
	input := writeDoc(t, doc)
	output := outputPath("", input)

	res, err := c.runRender(context.Background(), c.newRenderer(), input, output, c.Config.DocumentOptions())
	if err != nil {
		t.Fatalf("runRender() error = %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	html := string(data)
	for _, want := range []string{
		"<h1>Forces</h1>",
		`<figure class="plot plot-force"`,
		`<figure class="plot plot-function"`,
		`<pre><code class="language-go">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if res.Stats.Blocks != 4 || len(res.Diagnostics) != 1 {
		t.Errorf("Stats = %+v, Diagnostics = %d", res.Stats, len(res.Diagnostics))
	}

	// Exported diagrams carry the same surface ids as the rendered page.
	_, ids := diagramBlocks([]byte(doc))
	for _, id := range ids {
		if !strings.Contains(html, `id="`+id+`"`) {
			t.Errorf("output missing surface %q", id)
		}
	}
}

func TestRunWatchRejectsStdin(t *testing.T) {
	c := newTestCLI(t)
	err := c.runWatch(context.Background(), "-", "out.html", c.Config.DocumentOptions())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("runWatch(stdin) error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
	err = c.runWatch(context.Background(), "notes.md", "", c.Config.DocumentOptions())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("runWatch(stdout) error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

func TestRunWatchStopsOnCancel(t *testing.T) {
	c := newTestCLI(t)
	input := writeDoc(t, "hello\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The initial render fails on the cancelled context.
	if err := c.runWatch(ctx, input, outputPath("", input), c.Config.DocumentOptions()); err == nil {
		t.Error("runWatch() error = nil, want context error")
	}
}

func TestDiagramBlocks(t *testing.T) {
	diagrams, ids := diagramBlocks([]byte(doc))
	if len(diagrams) != 3 || len(ids) != 3 {
		t.Fatalf("diagramBlocks() = %d diagrams, %d ids, want 3", len(diagrams), len(ids))
	}
	for i, d := range diagrams {
		if d.number != i+1 {
			t.Errorf("diagrams[%d].number = %d, want %d", i, d.number, i+1)
		}
	}
	if ids[0] == ids[1] {
		t.Error("surface ids collide")
	}
}

func TestRunExportSVG(t *testing.T) {
	c := newTestCLI(t)
	input := writeDoc(t, doc)
	base := filepath.Join(filepath.Dir(input), "fig")

	err := c.runExport(context.Background(), input, exportOpts{output: base, formats: []string{"svg"}})
	if err != nil {
		t.Fatalf("runExport() error = %v", err)
	}

	// Diagram 2 has a malformed payload and still exports with zero arrows.
	for _, n := range []string{"1", "2", "3"} {
		data, err := os.ReadFile(base + "-" + n + ".svg")
		if err != nil {
			t.Errorf("diagram %s not exported: %v", n, err)
			continue
		}
		if !bytes.Contains(data, []byte("<svg")) {
			t.Errorf("diagram %s is not SVG", n)
		}
	}
}

func TestRunExportOnly(t *testing.T) {
	c := newTestCLI(t)
	input := writeDoc(t, doc)
	base := filepath.Join(filepath.Dir(input), "only")

	if err := c.runExport(context.Background(), input, exportOpts{output: base, formats: []string{"svg"}, only: 3}); err != nil {
		t.Fatalf("runExport() error = %v", err)
	}
	if _, err := os.Stat(base + "-3.svg"); err != nil {
		t.Errorf("diagram 3 not exported: %v", err)
	}
	if _, err := os.Stat(base + "-1.svg"); !os.IsNotExist(err) {
		t.Error("diagram 1 exported, want only diagram 3")
	}

	err := c.runExport(context.Background(), input, exportOpts{output: base, formats: []string{"svg"}, only: 9})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("runExport(only=9) error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

func TestDiagramNumber(t *testing.T) {
	blocks := markdown.Blocks([]byte(doc))
	tests := []struct {
		index, want int
	}{
		{0, 1},
		{1, 0},
		{2, 2},
		{3, 3},
		{7, 0},
	}
	for _, tt := range tests {
		if got := diagramNumber(blocks, tt.index); got != tt.want {
			t.Errorf("diagramNumber(%d) = %d, want %d", tt.index, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		content, want string
	}{
		{"short", "short"},
		{"first\nsecond", "first …"},
		{strings.Repeat("x", 50), strings.Repeat("x", 39) + "…"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := preview(tt.content); got != tt.want {
			t.Errorf("preview(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestBlockListModel(t *testing.T) {
	m := NewBlockListModel(markdown.Blocks([]byte(doc)))
	key := func(s string) tea.KeyMsg {
		switch s {
		case "down":
			return tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			return tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			return tea.KeyMsg{Type: tea.KeyEnter}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	update := func(m BlockListModel, k string) (BlockListModel, tea.Cmd) {
		next, cmd := m.Update(key(k))
		return next.(BlockListModel), cmd
	}

	m, _ = update(m, "up")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up at top, want 0", m.Cursor)
	}
	m, _ = update(m, "down")
	if m.Cursor != 1 {
		t.Fatalf("Cursor = %d, want 1", m.Cursor)
	}

	// Block 1 is plain code: enter does nothing.
	m, cmd := update(m, "enter")
	if m.Selected != nil || cmd != nil {
		t.Error("enter on a plain block selected it")
	}

	m, _ = update(m, "j")
	m, cmd = update(m, "enter")
	if m.Selected == nil || m.Selected.Index != 2 {
		t.Errorf("Selected = %+v, want block 2", m.Selected)
	}
	if cmd == nil {
		t.Error("enter on a diagram should quit")
	}

	if view := m.View(); !strings.Contains(view, "plot-force") || !strings.Contains(view, "[3/4]") {
		t.Errorf("View() missing content:\n%s", view)
	}
}

func TestBlockListModelScrolls(t *testing.T) {
	m := NewBlockListModel(markdown.Blocks([]byte(doc)))
	m.Height = 2
	for i := 0; i < 3; i++ {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(BlockListModel)
	}
	if m.Cursor != 3 || m.Offset != 2 {
		t.Errorf("Cursor, Offset = %d, %d, want 3, 2", m.Cursor, m.Offset)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Height: 10})
	if next.(BlockListModel).Height != 5 {
		t.Errorf("Height = %d, want minimum 5", next.(BlockListModel).Height)
	}
}

func TestRootCommand(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()

	want := []string{"render", "export", "blocks", "config", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestWatchRendererReusesMemo(t *testing.T) {
	c := newTestCLI(t)
	input := writeDoc(t, doc)
	output := outputPath("", input)
	r := c.newRenderer()

	first, err := c.runRender(context.Background(), r, input, output, c.Config.DocumentOptions())
	if err != nil {
		t.Fatalf("runRender() error = %v", err)
	}
	if err := os.WriteFile(input, []byte("Edited intro.\n\n"+doc), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := c.runRender(context.Background(), r, input, output, c.Config.DocumentOptions())
	if err != nil {
		t.Fatalf("runRender() error = %v", err)
	}

	if first.CacheInfo.BlockHits != 0 {
		t.Errorf("first BlockHits = %d, want 0", first.CacheInfo.BlockHits)
	}
	if second.CacheInfo.BlockHits != 3 || second.CacheInfo.BlockMisses != 0 {
		t.Errorf("second CacheInfo = %+v, want 3 hits and no misses", second.CacheInfo)
	}
}

// closeRecorder is an output whose Write and Close can fail.
type closeRecorder struct {
	bytes.Buffer
	writeErr, closeErr error
	closed             bool
}

func (w *closeRecorder) Write(p []byte) (int, error) {
	if w.writeErr != nil {
		return 0, w.writeErr
	}
	return w.Buffer.Write(p)
}

func (w *closeRecorder) Close() error {
	w.closed = true
	return w.closeErr
}

func TestWriteAndClose(t *testing.T) {
	tests := []struct {
		name     string
		writeErr error
		closeErr error
		wantErr  bool
	}{
		{"ok", nil, nil, false},
		{"close fails", nil, stderrors.New("disk full"), true},
		{"write fails", stderrors.New("broken pipe"), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &closeRecorder{writeErr: tt.writeErr, closeErr: tt.closeErr}
			err := writeAndClose(w, []byte("<p>hi</p>"))
			if (err != nil) != tt.wantErr {
				t.Errorf("writeAndClose() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInternal) {
				t.Errorf("writeAndClose() error = %v, want %v", err, errors.ErrCodeInternal)
			}
			if !w.closed {
				t.Error("output was not closed")
			}
		})
	}
}

func TestPrintDiagnosticsSeverity(t *testing.T) {
	buf := captureStatus(t)
	printDiagnostics([]document.Diagnostic{
		{Index: 0, Kind: dispatch.KindForceDiagram, Err: errors.New(errors.ErrCodePayloadDecode, "payload is not valid JSON")},
		{Index: 2, Kind: dispatch.KindFunctionPlot, Err: errors.New(errors.ErrCodeExternalEngine, "empty expression")},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], iconWarning) || !strings.Contains(lines[0], "block 1 (plot-force)") {
		t.Errorf("payload failure line = %q, want a warning for block 1", lines[0])
	}
	if !strings.HasPrefix(lines[1], iconError) || !strings.Contains(lines[1], "block 3 (plot-function)") {
		t.Errorf("engine failure line = %q, want an error for block 3", lines[1])
	}
}
