package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/plotdown/pkg/dispatch"
	"github.com/matzehuels/plotdown/pkg/document/markdown"
	"github.com/matzehuels/plotdown/pkg/errors"
)

// previewWidth bounds the content preview column.
const previewWidth = 40

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// blocksCommand creates the blocks command.
func (c *CLI) blocksCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "blocks [file]",
		Short: "Browse the fenced blocks of a document",
		Long: `Browse the fenced blocks of a document.

In a terminal this opens an interactive list; pressing enter on a diagram
exports it as SVG next to the input. With --list, or when stdout is not a
terminal, the blocks are printed as a table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0], os.Stdin)
			if err != nil {
				return err
			}
			blocks := markdown.Blocks(src)
			if len(blocks) == 0 {
				printInfo("No fenced blocks in %s", displayName(args[0]))
				return nil
			}

			if list || !term.IsTerminal(int(os.Stdout.Fd())) || args[0] == stdinPath {
				fmt.Println(blockTable(blocks, -1, 0, len(blocks)).Render())
				return nil
			}
			return c.runBlockBrowser(cmd.Context(), args[0], blocks)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "print a table instead of the interactive list")

	return cmd
}

// runBlockBrowser shows the interactive list and exports the selection.
func (c *CLI) runBlockBrowser(ctx context.Context, input string, blocks []markdown.Fenced) error {
	final, err := tea.NewProgram(NewBlockListModel(blocks), tea.WithContext(ctx)).Run()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "block browser")
	}
	m, ok := final.(BlockListModel)
	if !ok || m.Selected == nil {
		return nil
	}

	number := diagramNumber(blocks, m.Selected.Index)
	return c.runExport(ctx, input, exportOpts{
		formats: []string{errors.FormatSVG},
		only:    number,
	})
}

// diagramNumber converts a block index to its 1-based number among diagram
// blocks, or 0 if the block is not a diagram.
func diagramNumber(blocks []markdown.Fenced, index int) int {
	n := 0
	for _, b := range blocks {
		if b.Kind().Diagram() {
			n++
		}
		if b.Index == index {
			if !b.Kind().Diagram() {
				return 0
			}
			return n
		}
	}
	return 0
}

// =============================================================================
// BlockListModel - Interactive block selection
// =============================================================================

// BlockListModel is the bubbletea model for browsing fenced blocks.
type BlockListModel struct {
	Blocks   []markdown.Fenced
	Cursor   int
	Selected *markdown.Fenced
	Height   int
	Offset   int
}

// NewBlockListModel creates a new block list model.
func NewBlockListModel(blocks []markdown.Fenced) BlockListModel {
	return BlockListModel{
		Blocks: blocks,
		Height: 15,
	}
}

func (m BlockListModel) Init() tea.Cmd {
	return nil
}

func (m BlockListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Blocks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Blocks) == 0 {
				return m, nil
			}
			b := m.Blocks[m.Cursor]
			if !b.Kind().Diagram() {
				return m, nil
			}
			m.Selected = &b
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BlockListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Fenced Blocks"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ export diagram as SVG  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Blocks) {
		end = len(m.Blocks)
	}
	b.WriteString(blockTable(m.Blocks, m.Cursor, m.Offset, end).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Blocks))))

	return b.String()
}

// blockTable renders blocks[offset:end] with the row at cursor highlighted.
// A negative cursor highlights nothing.
func blockTable(blocks []markdown.Fenced, cursor, offset, end int) *table.Table {
	rows := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		f := blocks[i]
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		tag := f.LanguageTag
		if tag == "" {
			tag = "—"
		}
		line := "—"
		if f.Line > 0 {
			line = fmt.Sprint(f.Line)
		}
		rows = append(rows, []string{marker, fmt.Sprint(f.Index + 1), line, f.Kind().String(), tag, preview(f.Content)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Line", "Kind", "Tag", "Content").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := offset + row
			if idx >= len(blocks) {
				return lipgloss.NewStyle()
			}
			style := lipgloss.NewStyle()
			if blocks[idx].Kind() != dispatch.KindPlain {
				style = style.Foreground(colorGreen)
			} else {
				style = style.Foreground(colorDim)
			}
			if idx == cursor {
				style = style.Bold(true)
			}
			return style
		})
}

// preview returns the first line of content, truncated to previewWidth.
func preview(content string) string {
	first, _, more := strings.Cut(content, "\n")
	r := []rune(first)
	if len(r) > previewWidth {
		return string(r[:previewWidth-1]) + "…"
	}
	if more {
		return first + " …"
	}
	return first
}
