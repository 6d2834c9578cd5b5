package force

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/plotdown/pkg/payload"
	"github.com/matzehuels/plotdown/pkg/render"
)

const (
	guideColor   = "#b0bec5"
	objectFill   = "#cfd8dc"
	objectStroke = "#455a64"
	arrowWidth   = 2
	labelSize    = 12
)

// Render decodes text as a force payload, builds the scene and draws it onto
// s. It returns the scene. Malformed payloads produce a scene without arrows.
func Render(s *render.Surface, text string) Scene {
	return Draw(s, payload.ParseForces(text))
}

// Draw builds the scene for forces and replaces the contents of s with it.
func Draw(s *render.Surface, forces []payload.ForceVector) Scene {
	scene := Build(forces)
	s.Reset()
	s.Width, s.Height = scene.Size, scene.Size
	s.Write(scene.SVG(s.ID))
	return scene
}

// MarkerID returns the arrowhead marker id for the arrow at index.
func MarkerID(surfaceID string, index int) string {
	return fmt.Sprintf("%s-arrow-%d", surfaceID, index)
}

// SVG serializes the scene. id namespaces marker and group ids.
func (sc Scene) SVG(id string) []byte {
	var buf bytes.Buffer
	size := render.Num(sc.Size)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="force-diagram" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		size, size, size, size)

	sc.renderDefs(&buf, id)
	for _, g := range sc.Guides {
		fmt.Fprintf(&buf, `  <line class="guide" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-dasharray="4 4"/>`+"\n",
			render.Num(g.X1), render.Num(g.Y1), render.Num(g.X2), render.Num(g.Y2), guideColor)
	}
	o := sc.Object
	fmt.Fprintf(&buf, `  <rect class="object" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"/>`+"\n",
		render.Num(o.X), render.Num(o.Y), render.Num(o.W), render.Num(o.H), objectFill, objectStroke)
	for _, a := range sc.Arrows {
		renderArrow(&buf, id, a)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (sc Scene) renderDefs(buf *bytes.Buffer, id string) {
	if len(sc.Arrows) == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	for _, a := range sc.Arrows {
		if !a.Head {
			continue
		}
		fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">`,
			render.EscapeXML(MarkerID(id, a.Index)))
		fmt.Fprintf(buf, `<path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n", render.EscapeXML(a.Color))
	}
	buf.WriteString("  </defs>\n")
}

func renderArrow(buf *bytes.Buffer, id string, a Arrow) {
	color := render.EscapeXML(a.Color)
	fmt.Fprintf(buf, `  <g class="force" id="%s-force-%d">`+"\n", render.EscapeXML(id), a.Index)

	fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%d"`,
		render.Num(a.OriginX), render.Num(a.OriginY), render.Num(a.EndX), render.Num(a.EndY), color, arrowWidth)
	if a.Head {
		fmt.Fprintf(buf, ` marker-end="url(#%s)"`, render.EscapeXML(MarkerID(id, a.Index)))
	}
	buf.WriteString("/>\n")

	fmt.Fprintf(buf, `    <text x="%s" y="%s" fill="%s" font-size="%d" font-family="sans-serif">%s</text>`+"\n",
		render.Num(a.LabelX), render.Num(a.LabelY), color, labelSize, render.EscapeXML(a.Label))
	buf.WriteString("  </g>\n")
}
