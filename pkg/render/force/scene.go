package force

import (
	"github.com/matzehuels/plotdown/pkg/geometry"
	"github.com/matzehuels/plotdown/pkg/payload"
)

// Scene dimensions in drawing units.
const (
	Size       = 300.0
	Center     = Size / 2
	ObjectSize = 40.0
)

// Scene is a fully built force diagram.
type Scene struct {
	Size   float64
	Guides []Line
	Object Rect
	Arrows []Arrow
}

// Line is a straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Arrow is one projected force.
type Arrow struct {
	Index int
	Label string
	Color string
	geometry.Projection
	// Head is false for zero-length arrows, which have no direction.
	Head bool
}

// Build constructs the scene for forces. The scene shares no state with
// any previous scene.
func Build(forces []payload.ForceVector) Scene {
	s := Scene{
		Size: Size,
		Guides: []Line{
			{X1: 0, Y1: Center, X2: Size, Y2: Center},
			{X1: Center, Y1: 0, X2: Center, Y2: Size},
		},
		Object: Rect{
			X: Center - ObjectSize/2,
			Y: Center - ObjectSize/2,
			W: ObjectSize,
			H: ObjectSize,
		},
		Arrows: make([]Arrow, 0, len(forces)),
	}

	for i, f := range forces {
		p := geometry.Project(f, Center, geometry.Scale)
		s.Arrows = append(s.Arrows, Arrow{
			Index:      i,
			Label:      f.Name,
			Color:      f.StrokeColor(),
			Projection: p,
			Head:       !p.Degenerate(),
		})
	}
	return s
}
