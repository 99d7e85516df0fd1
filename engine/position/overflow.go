package position

import (
	"math"

	"github.com/gogpu/gg"
)

// OverflowInfo reports how content relates to the flow area.
type OverflowInfo struct {
	Mode         Overflow
	Overflows    bool    // some content lies outside the clip area
	Extent       gg.Rect // scroll extent: the clip area united with the content bounds
	Clipped      int     // number of items dropped
	Continuation int     // for Break: byte offset to continue layout at; -1 otherwise
}

// HandleOverflow applies an overflow mode to a layout, given the clip area,
// usually the bounds of the flow area.
//
// Visible, Scroll and Auto keep every item and report the overflow and the
// scroll extent. Hidden drops items lying completely outside the clip area.
// Break drops the first line which does not fit and all lines after it, and
// reports the byte offset where layout should continue, e.g. in the next
// column or page.
func (l *Layout) HandleOverflow(mode Overflow, clip gg.Rect) {
	info := OverflowInfo{Mode: mode, Extent: clip, Continuation: -1}
	for _, line := range l.Lines {
		if line.Overflow {
			info.Overflows = true
		}
	}
	if len(l.Items) > 0 {
		info.Extent = clip.Union(l.Bounds)
		if !within(clip, l.Bounds) {
			info.Overflows = true
		}
	}
	switch mode {
	case Hidden:
		info.Clipped = l.clip(clip)
	case Break:
		info.Clipped, info.Continuation = l.cut(clip)
	}
	l.Bounds = bounds(l.Items)
	l.Overflow = info
	if info.Overflows {
		tracer().Debugf("position: overflow %s, %d items clipped, continue at %d",
			mode, info.Clipped, info.Continuation)
	}
}

// clip drops items which do not intersect the clip area.
func (l *Layout) clip(area gg.Rect) int {
	kept := make([]Item, 0, len(l.Items))
	for k := range l.Lines {
		line := &l.Lines[k]
		first := len(kept)
		for _, it := range l.Items[line.First:line.Last] {
			if intersects(area, it.Box) {
				kept = append(kept, it)
			}
		}
		line.First, line.Last = first, len(kept)
	}
	dropped := len(l.Items) - len(kept)
	l.Items = kept
	return dropped
}

// cut drops the first line not fitting the clip area and every line after
// it. It returns the number of items dropped and the smallest byte offset of
// their text.
func (l *Layout) cut(area gg.Rect) (int, int) {
	for k, line := range l.Lines {
		if !line.Overflow && within(area, line.Box) {
			continue
		}
		dropped := l.Items[line.First:]
		cont := math.MaxInt32
		for _, it := range dropped {
			if !it.Span.IsEmpty() && it.Span.Start < cont {
				cont = it.Span.Start
			}
		}
		if cont == math.MaxInt32 {
			cont = -1
		}
		l.Items = l.Items[:line.First]
		l.Lines = l.Lines[:k]
		return len(dropped), cont
	}
	return 0, -1
}

const tolerance = 1e-6

func within(outer, inner gg.Rect) bool {
	return inner.Min.X >= outer.Min.X-tolerance && inner.Min.Y >= outer.Min.Y-tolerance &&
		inner.Max.X <= outer.Max.X+tolerance && inner.Max.Y <= outer.Max.Y+tolerance
}

func intersects(a, b gg.Rect) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X && a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
}
