// Package geometry projects force vectors from model space onto the drawing
// surface of a force diagram.
//
// Model space has its vertical axis pointing up; the drawing surface has it
// pointing down, so the vertical component is subtracted. Every vector in a
// diagram starts at the same origin and shares one scale.
package geometry

import (
	"math"

	"github.com/matzehuels/plotdown/pkg/payload"
)

// Scale is the number of drawing units per model unit.
const Scale = 20.0

// Label offsets from the arrow tip, chosen by the sign of each component so
// the label never sits on the arrowhead.
const (
	LabelOffsetRight = 10.0
	LabelOffsetLeft  = -20.0
	LabelOffsetUp    = -10.0
	LabelOffsetDown  = 20.0
)

// Projection is a force vector placed on the drawing surface.
type Projection struct {
	OriginX, OriginY float64
	EndX, EndY       float64
	LabelX, LabelY   float64
}

// Project places v on a surface whose origin is (center, center).
func Project(v payload.ForceVector, center, scale float64) Projection {
	p := Projection{
		OriginX: center,
		OriginY: center,
		EndX:    center + v.X*scale,
		EndY:    center - v.Y*scale,
	}

	dx := LabelOffsetRight
	if v.X < 0 {
		dx = LabelOffsetLeft
	}
	dy := LabelOffsetUp
	if v.Y < 0 {
		dy = LabelOffsetDown
	}
	p.LabelX = p.EndX + dx
	p.LabelY = p.EndY + dy
	return p
}

// Length returns the arrow length in drawing units.
func (p Projection) Length() float64 {
	return math.Hypot(p.EndX-p.OriginX, p.EndY-p.OriginY)
}

// Degenerate reports whether the arrow has zero length.
func (p Projection) Degenerate() bool {
	return p.EndX == p.OriginX && p.EndY == p.OriginY
}
