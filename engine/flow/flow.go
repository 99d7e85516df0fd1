package flow

import (
	"fmt"
	"math"
	"sort"
)

// epsilon is the smallest segment width considered non-empty. Polygon bands
// are sampled this far inside the band's edges.
const epsilon = 1e-6

// Segment is a horizontal interval [X0…X1) available for text on a line.
// Priority is the index of the boundary the segment stems from; lower values
// are filled first.
type Segment struct {
	X0, X1   float64
	Priority int
}

// Width returns the width of a segment.
func (s Segment) Width() float64 {
	return s.X1 - s.X0
}

func (s Segment) String() string {
	return fmt.Sprintf("[%.2f…%.2f)#%d", s.X0, s.X1, s.Priority)
}

// LineConstraints are the segments available for a line occupying the band
// [Y…Y+Height). Segments are sorted by X0 and do not overlap.
type LineConstraints struct {
	Y, Height float64
	Segments  []Segment
}

// IsEmpty is true if no space is available on the line.
func (lc LineConstraints) IsEmpty() bool {
	return len(lc.Segments) == 0
}

// Widths returns the widths of the segments, in order.
func (lc LineConstraints) Widths() []float64 {
	w := make([]float64, len(lc.Segments))
	for i, s := range lc.Segments {
		w[i] = s.Width()
	}
	return w
}

// Exclusion is a shape text has to flow around, keeping a margin.
type Exclusion struct {
	Shape  Shape
	Margin float64
}

// Constraints computes the segments available for a line in the band
// [y…y+lineHeight). A boundary contributes the horizontal extent it covers
// over the full height of the band, i.e. its narrowest extent within the
// band; boundaries not covering the band contribute nothing. Exclusions,
// grown by their margin, take away the horizontal extent they occupy
// anywhere within the band, i.e. their widest extent.
//
// Constraints is a pure function. Without boundaries the result holds no
// segments.
func Constraints(boundaries []Shape, exclusions []Exclusion, y, lineHeight float64) LineConstraints {
	lc := LineConstraints{Y: y, Height: lineHeight}
	y0, y1 := y, y+math.Max(lineHeight, 0)
	var segs []Segment
	for prio, b := range boundaries {
		for _, iv := range boundaryExtent(b, y0, y1) {
			segs = append(segs, Segment{X0: iv.x0, X1: iv.x1, Priority: prio})
		}
	}
	segs = mergeSegments(segs)
	var taken []interval
	for _, ex := range exclusions {
		taken = append(taken, exclusionExtent(ex, y0, y1)...)
	}
	taken = union(taken)
	for _, iv := range taken {
		segs = subtract(segs, iv)
	}
	lc.Segments = segs
	tracer().Debugf("flow: band [%.2f…%.2f) has segments %v", y0, y1, segs)
	return lc
}

// interval is a horizontal interval [x0…x1).
type interval struct {
	x0, x1 float64
}

func (iv interval) empty() bool {
	return iv.x1-iv.x0 <= epsilon
}

// boundaryExtent returns the intervals a boundary shape covers throughout the
// band [y0…y1).
func boundaryExtent(s Shape, y0, y1 float64) []interval {
	switch s.Kind {
	case RectShape:
		if s.W <= 0 || y0 < s.Y-epsilon || y1 > s.Y+s.H+epsilon {
			return nil
		}
		return []interval{{s.X, s.X + s.W}}
	case CircleShape, EllipseShape:
		d := math.Max(math.Abs(y0-s.CY), math.Abs(y1-s.CY))
		if half := halfChord(s.RX, s.RY, d); half > 0 {
			return []interval{{s.CX - half, s.CX + half}}
		}
		return nil
	case PolygonShape, PathShape:
		polys := s.polygons()
		var ivs []interval
		for i, sy := range bandSamples(y0, y1) {
			at := scanline(polys, sy)
			if i == 0 {
				ivs = at
			} else {
				ivs = intersect(ivs, at)
			}
			if len(ivs) == 0 {
				return nil
			}
		}
		return ivs
	}
	return nil
}

// exclusionExtent returns the intervals an exclusion, grown by its margin,
// occupies anywhere within the band [y0…y1).
func exclusionExtent(ex Exclusion, y0, y1 float64) []interval {
	s, m := ex.Shape, math.Max(ex.Margin, 0)
	switch s.Kind {
	case RectShape:
		if y1 <= s.Y-m || y0 >= s.Y+s.H+m {
			return nil
		}
		return []interval{{s.X - m, s.X + s.W + m}}
	case CircleShape, EllipseShape:
		d := 0.0 // distance of the band's nearest point to the center line
		if s.CY < y0 {
			d = y0 - s.CY
		} else if s.CY > y1 {
			d = s.CY - y1
		}
		if half := halfChord(s.RX+m, s.RY+m, d); half > 0 {
			return []interval{{s.CX - half, s.CX + half}}
		}
		return nil
	case PolygonShape, PathShape:
		polys := s.polygons()
		top, bot := y0-m, y1+m
		samples := bandSamples(top, bot)
		for _, poly := range polys { // vertices may poke into the band between samples
			for _, p := range poly {
				if p.Y > top && p.Y < bot {
					samples = append(samples, p.Y)
				}
			}
		}
		var ivs []interval
		for _, sy := range samples {
			ivs = append(ivs, scanline(polys, sy)...)
		}
		for i := range ivs {
			ivs[i].x0 -= m
			ivs[i].x1 += m
		}
		return union(ivs)
	}
	return nil
}

// halfChord returns half the width of an ellipse with radii rx, ry at
// vertical distance d from its center, or 0.
func halfChord(rx, ry, d float64) float64 {
	if rx <= 0 || ry <= 0 || d >= ry {
		return 0
	}
	q := d / ry
	return rx * math.Sqrt(1-q*q)
}

// bandSamples returns the scanlines a band is sampled at: top, middle and
// bottom, each kept slightly inside the band.
func bandSamples(y0, y1 float64) []float64 {
	if y1-y0 <= 2*epsilon {
		return []float64{(y0 + y1) / 2}
	}
	return []float64{y0 + epsilon, (y0 + y1) / 2, y1 - epsilon}
}

type crossing struct {
	x   float64
	dir int
}

// scanline intersects the horizontal line at y with closed polygons and
// returns the intervals inside them, using the non-zero winding rule.
// Horizontal edges are skipped; edges are treated as half-open in y.
func scanline(polys [][]Point, y float64) []interval {
	var xs []crossing
	for _, poly := range polys {
		n := len(poly)
		if n < 3 {
			continue
		}
		for i := 0; i < n; i++ {
			p, q := poly[i], poly[(i+1)%n]
			if p.Y == q.Y {
				continue
			}
			dir := 1
			if p.Y > q.Y {
				p, q, dir = q, p, -1
			}
			if y < p.Y || y >= q.Y {
				continue
			}
			x := p.X + (y-p.Y)*(q.X-p.X)/(q.Y-p.Y)
			xs = append(xs, crossing{x: x, dir: dir})
		}
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i].x < xs[j].x })
	var ivs []interval
	winding, start := 0, 0.0
	for _, c := range xs {
		before := winding
		winding += c.dir
		if before == 0 && winding != 0 {
			start = c.x
		} else if before != 0 && winding == 0 {
			if iv := (interval{start, c.x}); !iv.empty() {
				ivs = append(ivs, iv)
			}
		}
	}
	return ivs
}

// intersect intersects two sorted lists of disjoint intervals.
func intersect(a, b []interval) []interval {
	var out []interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		iv := interval{math.Max(a[i].x0, b[j].x0), math.Min(a[i].x1, b[j].x1)}
		if !iv.empty() {
			out = append(out, iv)
		}
		if a[i].x1 < b[j].x1 {
			i++
		} else {
			j++
		}
	}
	return out
}

// union sorts intervals and merges overlapping ones.
func union(ivs []interval) []interval {
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].x0 < ivs[j].x0 })
	out := []interval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if iv.x0 <= last.x1 {
			last.x1 = math.Max(last.x1, iv.x1)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// mergeSegments sorts segments and merges overlapping ones, keeping the
// lowest priority of the merged segments. Empty segments are dropped.
func mergeSegments(segs []Segment) []Segment {
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].X0 < segs[j].X0 })
	var out []Segment
	for _, s := range segs {
		if s.Width() <= epsilon {
			continue
		}
		if n := len(out); n > 0 && s.X0 < out[n-1].X1 {
			last := &out[n-1]
			last.X1 = math.Max(last.X1, s.X1)
			if s.Priority < last.Priority {
				last.Priority = s.Priority
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// subtract takes away an interval from every segment, splitting segments
// where necessary.
func subtract(segs []Segment, iv interval) []Segment {
	var out []Segment
	for _, s := range segs {
		if iv.x1 <= s.X0 || iv.x0 >= s.X1 { // disjoint
			out = append(out, s)
			continue
		}
		if left := (Segment{X0: s.X0, X1: iv.x0, Priority: s.Priority}); left.Width() > epsilon {
			out = append(out, left)
		}
		if right := (Segment{X0: iv.x1, X1: s.X1, Priority: s.Priority}); right.Width() > epsilon {
			out = append(out, right)
		}
	}
	return out
}
