// Package force renders static force diagrams as SVG.
//
// # Scene
//
// A diagram is a fixed 300×300 square. [Build] turns a force list into a
// [Scene] in three layers, drawn in this order:
//
//  1. Guides: a horizontal and a vertical dashed axis through the center
//  2. Object: a 40×40 square centered on the origin, the body the forces act on
//  3. Arrows: one arrow and label per force, in payload order, so later
//     forces draw over earlier ones
//
// Arrow endpoints and label positions come from [geometry.Project] with the
// origin at the center and [geometry.Scale] drawing units per model unit.
// Endpoints are not clipped; the SVG viewport clips anything outside it.
//
// # Markers
//
// Each arrow gets its own arrowhead marker because each force may have its
// own color. Marker ids are "<surface id>-arrow-<index>", so several
// diagrams can be inlined into one HTML page.
//
// # Failure
//
// [Render] never fails. A payload that does not decode yields a scene with
// guides and object but no arrows.
//
// [geometry.Project]: github.com/matzehuels/plotdown/pkg/geometry.Project
// [geometry.Scale]: github.com/matzehuels/plotdown/pkg/geometry.Scale
package force
