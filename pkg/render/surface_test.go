package render

import (
	"fmt"
	"testing"
)

func TestSurface(t *testing.T) {
	s := NewSurface("abc", 300, 200)
	if !s.Empty() {
		t.Error("new surface should be empty")
	}

	fmt.Fprint(s, "<svg/>")
	if s.Len() != 6 || string(s.Bytes()) != "<svg/>" {
		t.Errorf("Bytes() = %q, want %q", s.Bytes(), "<svg/>")
	}

	s.Reset()
	if !s.Empty() {
		t.Error("Reset() should empty the surface")
	}
	if s.ID != "abc" || s.Width != 300 || s.Height != 200 {
		t.Errorf("surface metadata changed: %+v", s)
	}
}

func TestInlineSVG(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"prolog stripped", "<?xml version=\"1.0\"?>\n<!-- gen -->\n<svg width=\"1\"></svg>", "<svg width=\"1\"></svg>"},
		{"already inline", "<svg></svg>", "<svg></svg>"},
		{"no svg", "plain", "plain"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(InlineSVG([]byte(tt.in))); got != tt.want {
				t.Errorf("InlineSVG(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`F<sub>"g"</sub> & co`); got != "F&lt;sub&gt;&#34;g&#34;&lt;/sub&gt; &amp; co" {
		t.Errorf("EscapeXML() = %q", got)
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{
		150:   "150",
		-20:   "-20",
		12.5:  "12.5",
		0.125: "0.125",
	}
	for in, want := range tests {
		if got := Num(in); got != want {
			t.Errorf("Num(%v) = %q, want %q", in, got, want)
		}
	}
}
