package document

import (
	"io"

	"github.com/matzehuels/plotdown/pkg/dispatch"
)

// Engine parses markup and renders it to HTML. Every fenced block is handed
// to the handler instead of the engine's own code block rendering.
type Engine interface {
	Render(source []byte, h BlockHandler) ([]byte, error)
}

// BlockHandler renders one fenced block into w.
type BlockHandler interface {
	HandleBlock(w io.Writer, b dispatch.Block) error
}

// BlockHandlerFunc adapts a function to [BlockHandler].
type BlockHandlerFunc func(w io.Writer, b dispatch.Block) error

// HandleBlock calls f(w, b).
func (f BlockHandlerFunc) HandleBlock(w io.Writer, b dispatch.Block) error { return f(w, b) }
