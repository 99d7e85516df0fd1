package flow

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/gogpu/gg"
	"github.com/npillmayer/textflow/core"
)

// Kind is the kind of a shape.
type Kind uint8

// Kinds of shapes.
const (
	RectShape Kind = iota
	CircleShape
	EllipseShape
	PolygonShape
	PathShape
)

func (k Kind) String() string {
	switch k {
	case CircleShape:
		return "circle"
	case EllipseShape:
		return "ellipse"
	case PolygonShape:
		return "polygon"
	case PathShape:
		return "path"
	}
	return "rectangle"
}

// Point is a point in layout coordinates, y growing downwards.
type Point = gg.Point

// FlattenTolerance is the maximum distance in px between a path's curves and
// the polygons they are flattened to.
const FlattenTolerance = 0.25

// Shape is a boundary or exclusion shape. Which fields are relevant depends
// on Kind: X, Y, W, H for rectangles, CX, CY, RX, RY for circles and ellipses
// (RX = RY for circles), Points for polygons and Path for paths.
// Polygons are implicitly closed.
type Shape struct {
	Kind           Kind
	X, Y, W, H     float64
	CX, CY, RX, RY float64
	Points         []Point
	Path           *gg.Path
	flat           [][]Point // flattened sub-paths
}

// Rectangle creates a rectangle shape with top left corner (x, y).
func Rectangle(x, y, w, h float64) Shape {
	return Shape{Kind: RectShape, X: x, Y: y, W: w, H: h}
}

// Circle creates a circle shape.
func Circle(cx, cy, r float64) Shape {
	return Shape{Kind: CircleShape, CX: cx, CY: cy, RX: r, RY: r}
}

// Ellipse creates an axis-aligned ellipse shape.
func Ellipse(cx, cy, rx, ry float64) Shape {
	return Shape{Kind: EllipseShape, CX: cx, CY: cy, RX: rx, RY: ry}
}

// Polygon creates a polygon shape from its vertices.
func Polygon(pts ...Point) Shape {
	return Shape{Kind: PolygonShape, Points: pts}
}

// Path creates a shape from a vector path. The path is flattened once,
// sub-path by sub-path. Open sub-paths are treated as closed.
func Path(p *gg.Path) Shape {
	return Shape{Kind: PathShape, Path: p, flat: flatten(p, FlattenTolerance)}
}

func (s Shape) String() string {
	switch s.Kind {
	case CircleShape:
		return fmt.Sprintf("circle(%.2f,%.2f r=%.2f)", s.CX, s.CY, s.RX)
	case EllipseShape:
		return fmt.Sprintf("ellipse(%.2f,%.2f rx=%.2f ry=%.2f)", s.CX, s.CY, s.RX, s.RY)
	case PolygonShape:
		return fmt.Sprintf("polygon(%d points)", len(s.Points))
	case PathShape:
		return fmt.Sprintf("path(%d sub-paths)", len(s.polygons()))
	}
	return fmt.Sprintf("rect(%.2f,%.2f %.2fx%.2f)", s.X, s.Y, s.W, s.H)
}

// polygons returns the outline of polygon and path shapes.
func (s Shape) polygons() [][]Point {
	switch s.Kind {
	case PolygonShape:
		return [][]Point{s.Points}
	case PathShape:
		if s.flat == nil && s.Path != nil {
			return flatten(s.Path, FlattenTolerance)
		}
		return s.flat
	}
	return nil
}

// BoundingBox returns the bounding box of a shape.
func (s Shape) BoundingBox() gg.Rect {
	switch s.Kind {
	case CircleShape, EllipseShape:
		return gg.Rect{
			Min: gg.Pt(s.CX-s.RX, s.CY-s.RY),
			Max: gg.Pt(s.CX+s.RX, s.CY+s.RY),
		}
	case PolygonShape, PathShape:
		r := gg.Rect{
			Min: gg.Pt(math.Inf(1), math.Inf(1)),
			Max: gg.Pt(math.Inf(-1), math.Inf(-1)),
		}
		for _, poly := range s.polygons() {
			for _, p := range poly {
				r.Min.X, r.Min.Y = math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)
				r.Max.X, r.Max.Y = math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)
			}
		}
		if r.Min.X > r.Max.X {
			return gg.Rect{}
		}
		return r
	}
	return gg.NewRect(gg.Pt(s.X, s.Y), gg.Pt(s.X+s.W, s.Y+s.H))
}

// Transform maps a shape to another coordinate system. Only matrices which
// map axes to axes are supported: scaling, mirroring, swapping x and y, and
// translation. Writing modes with vertical lines use this to transpose
// shapes into line-relative coordinates.
func (s Shape) Transform(m gg.Matrix) Shape {
	switch s.Kind {
	case CircleShape, EllipseShape:
		c := m.TransformPoint(gg.Pt(s.CX, s.CY))
		rx := math.Abs(m.A)*s.RX + math.Abs(m.B)*s.RY
		ry := math.Abs(m.D)*s.RX + math.Abs(m.E)*s.RY
		t := Ellipse(c.X, c.Y, rx, ry)
		if s.Kind == CircleShape && rx == ry {
			t.Kind = CircleShape
		}
		return t
	case PolygonShape:
		pts := make([]Point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = m.TransformPoint(p)
		}
		return Polygon(pts...)
	case PathShape:
		if s.Path == nil {
			return s
		}
		return Path(s.Path.Transform(m))
	}
	r := gg.NewRect(m.TransformPoint(gg.Pt(s.X, s.Y)), m.TransformPoint(gg.Pt(s.X+s.W, s.Y+s.H)))
	return Rectangle(r.Min.X, r.Min.Y, r.Max.X-r.Min.X, r.Max.Y-r.Min.Y)
}

// Bounds returns the union of the bounding boxes of shapes. For no shapes the
// empty rectangle at the origin is returned.
func Bounds(shapes []Shape) gg.Rect {
	if len(shapes) == 0 {
		return gg.Rect{}
	}
	r := shapes[0].BoundingBox()
	for _, s := range shapes[1:] {
		b := s.BoundingBox()
		r.Min.X, r.Min.Y = math.Min(r.Min.X, b.Min.X), math.Min(r.Min.Y, b.Min.Y)
		r.Max.X, r.Max.Y = math.Max(r.Max.X, b.Max.X), math.Max(r.Max.Y, b.Max.Y)
	}
	return r
}

// flatten converts every sub-path of p to a polygon. gg flattens a path
// into a single point sequence, so sub-paths are rebuilt and flattened one
// at a time.
func flatten(p *gg.Path, tolerance float64) [][]Point {
	if p == nil {
		return nil
	}
	var polys [][]Point
	var sub *gg.Path
	flush := func() {
		if sub != nil {
			if pts := sub.Flatten(tolerance); len(pts) >= 3 {
				polys = append(polys, pts)
			}
		}
		sub = nil
	}
	begin := func(at Point) {
		if sub == nil {
			sub = gg.NewPath()
			sub.MoveTo(at.X, at.Y)
		}
	}
	var last Point
	p.Iterate(func(verb gg.PathVerb, c []float64) {
		switch verb {
		case gg.MoveTo:
			flush()
			last = gg.Pt(c[0], c[1])
			begin(last)
		case gg.LineTo:
			begin(last)
			sub.LineTo(c[0], c[1])
			last = gg.Pt(c[0], c[1])
		case gg.QuadTo:
			begin(last)
			sub.QuadraticTo(c[0], c[1], c[2], c[3])
			last = gg.Pt(c[2], c[3])
		case gg.CubicTo:
			begin(last)
			sub.CubicTo(c[0], c[1], c[2], c[3], c[4], c[5])
			last = gg.Pt(c[4], c[5])
		case gg.Close:
			if sub != nil {
				sub.Close()
			}
		}
	})
	flush()
	return polys
}

// ParsePath creates a path from SVG-like path data. Supported commands are
// M, L, H, V, Q, C and Z, in absolute (upper case) and relative (lower case)
// form. Coordinates may be separated by whitespace or commas; arguments
// for more than one segment may follow a single command letter.
//
//	p, err := flow.ParsePath("M 0 0 L 100 0 Q 150 50 100 100 Z")
//
// Malformed path data results in an error of kind core.InvalidText.
func ParsePath(data string) (*gg.Path, error) {
	toks, err := tokenizePath(data)
	if err != nil {
		return nil, err
	}
	p := gg.NewPath()
	var cur, start Point
	var cmd rune
	argc := map[rune]int{'M': 2, 'L': 2, 'H': 1, 'V': 1, 'Q': 4, 'C': 6, 'Z': 0}
	for i := 0; i < len(toks); {
		if toks[i].cmd != 0 {
			cmd = toks[i].cmd
			i++
		} else if cmd == 0 {
			return nil, core.LayoutError(core.InvalidText, nil, "path data must start with a command")
		}
		upper := unicode.ToUpper(cmd)
		n, ok := argc[upper]
		if !ok {
			return nil, core.LayoutError(core.InvalidText, nil, "unsupported path command %q", cmd)
		}
		if i+n > len(toks) {
			return nil, core.LayoutError(core.InvalidText, nil, "path command %q lacks arguments", cmd)
		}
		args := make([]float64, n)
		for k := 0; k < n; k++ {
			if toks[i+k].cmd != 0 {
				return nil, core.LayoutError(core.InvalidText, nil, "path command %q lacks arguments", cmd)
			}
			args[k] = toks[i+k].num
		}
		i += n
		rel := cmd != upper
		pt := func(k int) Point {
			if rel {
				return gg.Pt(cur.X+args[k], cur.Y+args[k+1])
			}
			return gg.Pt(args[k], args[k+1])
		}
		switch upper {
		case 'M':
			cur = pt(0)
			start = cur
			p.MoveTo(cur.X, cur.Y)
			if rel { // subsequent pairs are relative line-to
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L':
			cur = pt(0)
			p.LineTo(cur.X, cur.Y)
		case 'H':
			x := args[0]
			if rel {
				x += cur.X
			}
			cur = gg.Pt(x, cur.Y)
			p.LineTo(cur.X, cur.Y)
		case 'V':
			y := args[0]
			if rel {
				y += cur.Y
			}
			cur = gg.Pt(cur.X, y)
			p.LineTo(cur.X, cur.Y)
		case 'Q':
			c, to := pt(0), pt(2)
			p.QuadraticTo(c.X, c.Y, to.X, to.Y)
			cur = to
		case 'C':
			c1, c2, to := pt(0), pt(2), pt(4)
			p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, to.X, to.Y)
			cur = to
		case 'Z':
			p.Close()
			cur = start
			if i < len(toks) && toks[i].cmd == 0 {
				return nil, core.LayoutError(core.InvalidText, nil, "unexpected number after close-path")
			}
		}
	}
	return p, nil
}

type pathToken struct {
	cmd rune // 0 for numbers
	num float64
}

func tokenizePath(data string) ([]pathToken, error) {
	var toks []pathToken
	s := data
	for len(s) > 0 {
		c := s[0]
		switch {
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
			s = s[1:]
		case strings.IndexByte("MmLlHhVvQqCcZz", c) >= 0:
			toks = append(toks, pathToken{cmd: rune(c)})
			s = s[1:]
		default:
			n := numberPrefix(s)
			if n == 0 {
				return nil, core.LayoutError(core.InvalidText, nil, "invalid path data at %q", s)
			}
			f, err := strconv.ParseFloat(s[:n], 64)
			if err != nil {
				return nil, core.LayoutError(core.InvalidText, err, "invalid number in path data")
			}
			toks = append(toks, pathToken{num: f})
			s = s[n:]
		}
	}
	return toks, nil
}

// numberPrefix returns the length of the floating point number at the start
// of s.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && s[j] >= '0' && s[j] <= '9' {
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	return i
}
