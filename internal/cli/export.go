package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/plotdown/pkg/dispatch"
	"github.com/matzehuels/plotdown/pkg/document"
	"github.com/matzehuels/plotdown/pkg/document/markdown"
	"github.com/matzehuels/plotdown/pkg/errors"
	"github.com/matzehuels/plotdown/pkg/render"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output  string   // base path for exported files
	formats []string // svg, png, pdf
	scale   float64  // PNG scale factor
	only    int      // export only the n-th diagram (1-based); 0 for all
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the diagrams of a document to SVG, PNG or PDF",
		Long: `Export every plot-function and plot-force block of a document as a
standalone image named <base>-<n>.<format>, where n counts diagrams from 1.

PNG and PDF export require rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = c.Config.Export.Formats
			if formatsStr != "" {
				opts.formats = parseFormats(formatsStr)
			}
			if !cmd.Flags().Changed("scale") {
				opts.scale = c.Config.Export.Scale
			}
			if err := errors.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "base path for output files (default: input name)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")
	cmd.Flags().IntVarP(&opts.only, "number", "n", 0, "export only diagram n")

	return cmd
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{errors.FormatSVG}
	}
	parts := strings.Split(s, ",")
	formats := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}

// exportBase derives the base output path. A known format extension on
// output is stripped.
func exportBase(output, input string) string {
	if output == "" {
		if input == stdinPath {
			return "diagram"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if errors.ValidateFormats([]string{strings.TrimPrefix(ext, ".")}) == nil && ext != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// diagram is one diagram block selected for export.
type diagram struct {
	number int // 1-based among diagram blocks
	block  markdown.Fenced
	svg    []byte
}

// diagramBlocks returns the diagram blocks of source, numbered from 1,
// paired with their surface ids.
func diagramBlocks(source []byte) ([]diagram, []string) {
	keyer := memoKeyer()
	seen := make(map[dispatch.Block]int)

	var diagrams []diagram
	var ids []string
	for _, f := range markdown.Blocks(source) {
		if !f.Kind().Diagram() {
			continue
		}
		occurrence := seen[f.Block]
		seen[f.Block]++
		diagrams = append(diagrams, diagram{number: len(diagrams) + 1, block: f})
		ids = append(ids, document.SurfaceID(keyer.BlockKey(f.LanguageTag, f.Content, occurrence)))
	}
	return diagrams, ids
}

// runExport renders the selected diagrams and writes one file per format.
func (c *CLI) runExport(ctx context.Context, input string, opts exportOpts) error {
	base := exportBase(opts.output, input)
	if err := errors.ValidateBaseName(base); err != nil {
		return err
	}

	src, err := readSource(input, os.Stdin)
	if err != nil {
		return err
	}

	all, ids := diagramBlocks(src)
	if opts.only < 0 || opts.only > len(all) {
		return errors.New(errors.ErrCodeInvalidInput, "diagram %d does not exist (document has %d)", opts.only, len(all))
	}

	d := c.newDispatcher()
	var diagrams []diagram
	for i, dg := range all {
		if opts.only != 0 && dg.number != opts.only {
			continue
		}
		s, _, err := d.RenderDiagram(ctx, dg.block.Block, ids[i])
		if err != nil {
			printWarning("diagram %d (line %d): %s", dg.number, dg.block.Line, errors.UserMessage(err))
			continue
		}
		dg.svg = append([]byte(nil), s.Bytes()...)
		diagrams = append(diagrams, dg)
	}
	if len(diagrams) == 0 {
		printInfo("No diagrams to export in %s", displayName(input))
		return nil
	}

	p := newProgress(c.Logger)
	var spinner *Spinner
	if needsConverter(opts.formats) {
		spinner = newSpinnerWithContext(ctx, "Converting diagrams...")
		spinner.Start()
	}

	paths, err := c.writeDiagrams(ctx, base, diagrams, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	p.done(fmt.Sprintf("Exported %d diagrams", len(diagrams)))
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// writeDiagrams converts and writes every diagram in every format
// concurrently. The returned paths are in diagram, then format order.
func (c *CLI) writeDiagrams(ctx context.Context, base string, diagrams []diagram, opts exportOpts) ([]string, error) {
	paths := make([]string, len(diagrams)*len(opts.formats))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, dg := range diagrams {
		for j, format := range opts.formats {
			path := fmt.Sprintf("%s-%d.%s", base, dg.number, format)
			slot := i*len(opts.formats) + j
			g.Go(func() error {
				data, err := render.Convert(ctx, dg.svg, format, opts.scale)
				if err != nil {
					return fmt.Errorf("diagram %d %s: %w", dg.number, format, err)
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
				}
				c.Logger.Debug("wrote diagram", "path", path, "bytes", len(data))
				paths[slot] = path
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f != errors.FormatSVG {
			return true
		}
	}
	return false
}
