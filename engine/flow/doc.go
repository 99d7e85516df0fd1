/*
Package flow computes the space available for text on a line, given the
shapes text has to flow into and the shapes it has to flow around.

Boundaries and exclusions are Shapes: rectangles, circles, ellipses, polygons
or paths. For a band [y…y+h) of a line, Constraints intersects every boundary
with the band, keeping the extent available over the full height of the band,
and subtracts every exclusion, taking away the extent it occupies anywhere in
the band. The result is a sorted list of horizontal segments.

	boundary := flow.Circle(200, 200, 150)
	hole := flow.Exclusion{Shape: flow.Circle(200, 200, 50)}
	lc := flow.Constraints([]flow.Shape{boundary}, []flow.Exclusion{hole}, 195, 20)
	// lc.Segments holds two segments, left and right of the hole

Rectangles, circles and ellipses are intersected in closed form. Polygons and
paths are intersected by scanline edge crossing with the non-zero winding
rule; paths are flattened to polygons with github.com/gogpu/gg.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package flow

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textflow.flow'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.flow")
}
