package document

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/plotdown/pkg/buildinfo"
)

// pageStyle keeps diagrams inside the text column.
const pageStyle = `figure.plot { margin: 1em 0; }
figure.plot svg { max-width: 100%; height: auto; }`

// wrapPage wraps a rendered fragment in a complete HTML page.
func wrapPage(body []byte, opts Options) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<meta name=\"generator\" content=\"%s\">\n", html.EscapeString(buildinfo.Generator()))
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(opts.Title))
	if opts.Stylesheet != "" {
		fmt.Fprintf(&buf, "<link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(opts.Stylesheet))
	}
	fmt.Fprintf(&buf, "<style>\n%s\n</style>\n", pageStyle)
	if opts.MathJax {
		fmt.Fprintf(&buf, "<script id=\"MathJax-script\" async src=\"%s\"></script>\n", MathJaxURL)
	}
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body)
	if n := len(body); n > 0 && body[n-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}
