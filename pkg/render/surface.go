package render

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// Surface is the drawing target owned by a single diagram for one render.
type Surface struct {
	ID     string
	Width  float64
	Height float64
	buf    bytes.Buffer
}

// NewSurface creates an empty surface.
func NewSurface(id string, width, height float64) *Surface {
	return &Surface{ID: id, Width: width, Height: height}
}

// Write appends drawing output. It implements io.Writer.
func (s *Surface) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

// Bytes returns everything drawn so far.
func (s *Surface) Bytes() []byte { return s.buf.Bytes() }

// Len returns the number of bytes drawn.
func (s *Surface) Len() int { return s.buf.Len() }

// Empty reports whether nothing has been drawn.
func (s *Surface) Empty() bool { return s.buf.Len() == 0 }

// Reset discards everything drawn.
func (s *Surface) Reset() { s.buf.Reset() }

// InlineSVG strips any XML prolog or comments before the <svg> element so
// the markup can be embedded in HTML. Data without an <svg> element is
// returned unchanged.
func InlineSVG(data []byte) []byte {
	if i := bytes.Index(data, []byte("<svg")); i > 0 {
		return data[i:]
	}
	return data
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Num formats a coordinate with the shortest exact representation.
func Num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
