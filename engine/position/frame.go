package position

import (
	"github.com/gogpu/gg"
)

// Frame maps between physical coordinates and the logical coordinates of a
// writing mode. Area is the physical flow area; modes with a mirrored axis
// mirror it around the area's center, so that logical coordinates stay within
// the area's range.
type Frame struct {
	Mode WritingMode
	Area gg.Rect
}

// Logical returns the matrix mapping physical coordinates (x, y) to logical
// ones (u, v). Flow shapes are transformed with it before computing line
// constraints.
func (f Frame) Logical() gg.Matrix {
	switch f.Mode {
	case VerticalLR:
		return gg.Matrix{A: 0, B: 1, C: 0, D: 1, E: 0, F: 0}
	case VerticalRL, SidewaysRL:
		return gg.Matrix{A: 0, B: 1, C: 0, D: -1, E: 0, F: f.Area.Min.X + f.Area.Max.X}
	case SidewaysLR:
		return gg.Matrix{A: 0, B: -1, C: f.Area.Min.Y + f.Area.Max.Y, D: 1, E: 0, F: 0}
	}
	return gg.Identity()
}

// Point maps a logical point to physical coordinates.
func (f Frame) Point(u, v float64) gg.Point {
	switch f.Mode {
	case VerticalLR:
		return gg.Pt(v, u)
	case VerticalRL, SidewaysRL:
		return gg.Pt(f.Area.Min.X+f.Area.Max.X-v, u)
	case SidewaysLR:
		return gg.Pt(v, f.Area.Min.Y+f.Area.Max.Y-u)
	}
	return gg.Pt(u, v)
}

// Box maps a logical box, given by its origin and its extents along the
// inline and block axis, to a physical rectangle.
func (f Frame) Box(u, v, du, dv float64) gg.Rect {
	return gg.NewRect(f.Point(u, v), f.Point(u+du, v+dv))
}

// AscentFacesBlockStart is true if the ascent of sideways or horizontal
// glyphs points towards the start of the block axis. Glyphs rotated
// clockwise in vertical-lr have their ascent facing the block end.
func (f Frame) AscentFacesBlockStart() bool {
	return f.Mode != VerticalLR
}
