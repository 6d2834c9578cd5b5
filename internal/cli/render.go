package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotdown/pkg/document"
	"github.com/matzehuels/plotdown/pkg/errors"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file; "-" for stdout
	standalone bool   // wrap the fragment in a full HTML page
	title      string // page title for standalone output
	stylesheet string // stylesheet URL for standalone output
	mathjax    bool   // load MathJax in standalone output
	watch      bool   // re-render whenever the input file changes
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a Markdown document to HTML",
		Long: `Render a Markdown document to HTML.

Fenced blocks tagged plot-function or plot-force become inline SVG diagrams.
A block whose payload is malformed is reported as a warning and omitted; it
never fails the render.

The output file defaults to the input name with an .html extension. Use "-"
as the input to read stdin (output then goes to stdout) and "-o -" to write
to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docOpts := c.documentOptions(cmd, opts)
			output := outputPath(opts.output, args[0])
			if opts.watch {
				return c.runWatch(cmd.Context(), args[0], output, docOpts)
			}
			_, err := c.runRender(cmd.Context(), c.newRenderer(), args[0], output, docOpts)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file ("-" for stdout)`)
	cmd.Flags().BoolVarP(&opts.standalone, "standalone", "s", false, "write a complete HTML page")
	cmd.Flags().StringVar(&opts.title, "title", "", "page title (standalone)")
	cmd.Flags().StringVar(&opts.stylesheet, "stylesheet", "", "stylesheet URL (standalone)")
	cmd.Flags().BoolVar(&opts.mathjax, "mathjax", true, "load MathJax for math (standalone)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the input changes")

	return cmd
}

// documentOptions merges the config file's render section with any flags
// set explicitly on cmd.
func (c *CLI) documentOptions(cmd *cobra.Command, opts renderOpts) document.Options {
	docOpts := c.Config.DocumentOptions()
	flags := cmd.Flags()
	if flags.Changed("standalone") {
		docOpts.Standalone = opts.standalone
	}
	if flags.Changed("title") {
		docOpts.Title = opts.title
	}
	if flags.Changed("stylesheet") {
		docOpts.Stylesheet = opts.stylesheet
	}
	if flags.Changed("mathjax") {
		docOpts.MathJax = opts.mathjax
	}
	return docOpts
}

// outputPath resolves the output file. An empty result means stdout.
func outputPath(output, input string) string {
	switch {
	case output == stdinPath:
		return ""
	case output != "":
		return output
	case input == stdinPath:
		return ""
	default:
		return strings.TrimSuffix(input, filepath.Ext(input)) + ".html"
	}
}

// runRender renders input once and writes the result to output.
func (c *CLI) runRender(ctx context.Context, r *document.Renderer, input, output string, opts document.Options) (*document.Result, error) {
	p := newProgress(c.Logger)

	src, err := readSource(input, os.Stdin)
	if err != nil {
		return nil, err
	}

	res, err := r.RenderWithCacheInfo(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	out, err := openOutput(output)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "create output")
	}
	if err := writeAndClose(out, res.HTML); err != nil {
		return nil, err
	}

	p.done("Rendered " + displayName(input))
	printStats(res.Stats, res.CacheInfo)
	printDiagnostics(res.Diagnostics)
	if output != "" {
		printFile(output)
	}
	return res, nil
}

// writeAndClose writes data to out and closes it, reporting a failed close.
func writeAndClose(out io.WriteCloser, data []byte) error {
	if _, err := out.Write(data); err != nil {
		out.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write output")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close output")
	}
	return nil
}

// runWatch renders input, then re-renders on every change until ctx is done.
// The renderer and its memo persist across renders, so unchanged diagrams
// are replayed instead of redrawn.
func (c *CLI) runWatch(ctx context.Context, input, output string, opts document.Options) error {
	if input == stdinPath {
		return errors.New(errors.ErrCodeInvalidInput, "--watch needs an input file, not stdin")
	}
	if output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--watch needs an output file, not stdout")
	}
	target, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", input)
	}

	r := c.newRenderer()
	if _, err := c.runRender(ctx, r, input, output, opts); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "start file watcher")
	}
	defer w.Close()
	// Watch the directory: editors often save by replacing the file.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", input)
	}
	printInfo("Watching %s (ctrl+c to stop)", input)

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("file watcher error", "error", err)

		case <-fire:
			fire = nil
			if _, err := c.runRender(ctx, r, input, output, opts); err != nil {
				printError("%s", errors.UserMessage(err))
			}
		}
	}
}

// displayName names an input for status lines.
func displayName(input string) string {
	if input == stdinPath {
		return "stdin"
	}
	return input
}
