package force

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/plotdown/pkg/payload"
	"github.com/matzehuels/plotdown/pkg/render"
)

func TestBuildEmpty(t *testing.T) {
	s := Build(nil)

	if s.Size != 300 {
		t.Errorf("Size = %v, want 300", s.Size)
	}
	if len(s.Guides) != 2 {
		t.Errorf("len(Guides) = %d, want 2", len(s.Guides))
	}
	want := Rect{X: 130, Y: 130, W: 40, H: 40}
	if s.Object != want {
		t.Errorf("Object = %+v, want %+v", s.Object, want)
	}
	if len(s.Arrows) != 0 {
		t.Errorf("len(Arrows) = %d, want 0", len(s.Arrows))
	}
}

func TestBuildGuidesCentered(t *testing.T) {
	s := Build(nil)
	h, v := s.Guides[0], s.Guides[1]
	if h.Y1 != 150 || h.Y2 != 150 || h.X1 != 0 || h.X2 != 300 {
		t.Errorf("horizontal guide = %+v", h)
	}
	if v.X1 != 150 || v.X2 != 150 || v.Y1 != 0 || v.Y2 != 300 {
		t.Errorf("vertical guide = %+v", v)
	}
}

func TestBuildArrows(t *testing.T) {
	s := Build([]payload.ForceVector{
		{Name: "Gravity", X: 0, Y: -10},
		{Name: "Normal", X: 0, Y: 10, Color: "blue"},
	})

	if len(s.Arrows) != 2 {
		t.Fatalf("len(Arrows) = %d, want 2", len(s.Arrows))
	}

	g := s.Arrows[0]
	if g.Index != 0 || g.Label != "Gravity" || g.Color != payload.DefaultForceColor {
		t.Errorf("Arrows[0] = %+v", g)
	}
	if g.EndX != 150 || g.EndY != 350 {
		t.Errorf("Gravity end = (%v, %v), want (150, 350)", g.EndX, g.EndY)
	}
	if g.LabelX != 160 || g.LabelY != 370 {
		t.Errorf("Gravity label = (%v, %v), want (160, 370)", g.LabelX, g.LabelY)
	}

	n := s.Arrows[1]
	if n.Index != 1 || n.Color != "blue" || n.EndY != -50 {
		t.Errorf("Arrows[1] = %+v", n)
	}
}

func TestBuildZeroVectorHasNoHead(t *testing.T) {
	s := Build([]payload.ForceVector{{Name: "Rest"}})
	if len(s.Arrows) != 1 {
		t.Fatalf("len(Arrows) = %d, want 1", len(s.Arrows))
	}
	if s.Arrows[0].Head {
		t.Error("zero-length arrow should not carry an arrowhead")
	}

	svg := string(s.SVG("z"))
	if strings.Contains(svg, "<marker") {
		t.Error("zero-length arrow should not emit a marker")
	}
	if !strings.Contains(svg, ">Rest</text>") {
		t.Error("zero-length arrow should keep its label")
	}
}

func TestSVGOrderAndMarkers(t *testing.T) {
	s := Build([]payload.ForceVector{
		{Name: "A", X: 1, Y: 0, Color: "red"},
		{Name: "B", X: 0, Y: 1, Color: "green"},
	})
	svg := string(s.SVG("d1"))

	guide := strings.Index(svg, `class="guide"`)
	object := strings.Index(svg, `class="object"`)
	first := strings.Index(svg, `id="d1-force-0"`)
	second := strings.Index(svg, `id="d1-force-1"`)
	if guide < 0 || object < 0 || first < 0 || second < 0 {
		t.Fatalf("missing elements in SVG:\n%s", svg)
	}
	if !(guide < object && object < first && first < second) {
		t.Errorf("draw order wrong: guide=%d object=%d force0=%d force1=%d", guide, object, first, second)
	}

	for _, want := range []string{
		`<marker id="d1-arrow-0"`,
		`<marker id="d1-arrow-1"`,
		`fill="red"/></marker>`,
		`fill="green"/></marker>`,
		`marker-end="url(#d1-arrow-0)"`,
		`marker-end="url(#d1-arrow-1)"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestSVGEscapesLabels(t *testing.T) {
	s := Build([]payload.ForceVector{{Name: "F<net> & \"drag\"", X: 1, Color: `red" onload="x`}})
	svg := string(s.SVG("e"))
	if strings.Contains(svg, "<net>") || strings.Contains(svg, `onload="x"`) {
		t.Errorf("SVG not escaped:\n%s", svg)
	}
}

func TestRenderMalformedPayload(t *testing.T) {
	for _, text := range []string{"not json", `{"name": "a", "x": 1, "y": 1}`} {
		s := render.NewSurface("m", 0, 0)
		scene := Render(s, text)

		if len(scene.Arrows) != 0 {
			t.Errorf("Render(%q) arrows = %d, want 0", text, len(scene.Arrows))
		}
		out := string(s.Bytes())
		if strings.Count(out, `class="guide"`) != 2 || !strings.Contains(out, `class="object"`) {
			t.Errorf("Render(%q) should still draw guides and object:\n%s", text, out)
		}
		if strings.Contains(out, `class="force"`) {
			t.Errorf("Render(%q) drew a force arrow", text)
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	text := `[{"name":"Gravity","x":0,"y":-10},{"name":"Push","x":4,"y":0}]`

	a := render.NewSurface("same", 0, 0)
	b := render.NewSurface("same", 0, 0)
	Render(a, text)
	Render(b, text)
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("rendering the same payload twice should give identical output")
	}
}

func TestRenderReplacesPreviousDrawing(t *testing.T) {
	s := render.NewSurface("r", 0, 0)
	Render(s, `[{"name":"Old","x":1,"y":1}]`)
	Render(s, `[]`)

	if strings.Contains(string(s.Bytes()), "Old") {
		t.Error("stale arrow survived a re-render")
	}
	if s.Width != 300 || s.Height != 300 {
		t.Errorf("surface size = %vx%v, want 300x300", s.Width, s.Height)
	}
}
