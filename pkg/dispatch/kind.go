package dispatch

import "regexp"

// Kind is the rendering path of a fenced block.
type Kind int

const (
	// KindPlain renders the block as verbatim code.
	KindPlain Kind = iota
	// KindFunctionPlot renders a plot-function payload through the plot adapter.
	KindFunctionPlot
	// KindForceDiagram renders a plot-force payload as a vector diagram.
	KindForceDiagram
)

// Language tags that select a diagram.
const (
	TagFunctionPlot = "plot-function"
	TagForceDiagram = "plot-force"
)

// String returns the language tag for diagram kinds and "plain" otherwise.
func (k Kind) String() string {
	switch k {
	case KindFunctionPlot:
		return TagFunctionPlot
	case KindForceDiagram:
		return TagForceDiagram
	default:
		return "plain"
	}
}

// Diagram reports whether k produces a diagram.
func (k Kind) Diagram() bool {
	return k == KindFunctionPlot || k == KindForceDiagram
}

// Classify maps a language tag to its kind. Matching is exact and
// case-sensitive; unknown and empty tags are plain.
func Classify(tag string) Kind {
	switch tag {
	case TagFunctionPlot:
		return KindFunctionPlot
	case TagForceDiagram:
		return KindForceDiagram
	default:
		return KindPlain
	}
}

var languageClass = regexp.MustCompile(`(?:^|\s)language-(\S+)`)

// LanguageFromClass extracts the identifier from the first
// "language-<identifier>" token of an HTML class attribute. It returns ""
// when there is no such token.
func LanguageFromClass(class string) string {
	m := languageClass.FindStringSubmatch(class)
	if m == nil {
		return ""
	}
	return m[1]
}
