package position

import (
	"github.com/gogpu/gg"
)

// Caret returns the caret for a logical byte offset of the paragraph text:
// a zero-width rectangle (zero-height in vertical modes) spanning the line
// the offset lives on. Offsets within a cluster are interpolated across the
// cluster's glyph. Offsets consumed without an item (skipped whitespace)
// yield the caret in front of the next item.
//
// Caret reports false for offsets outside the text and for offsets whose
// items have been clipped.
func Caret(l *Layout, offset int) (gg.Rect, bool) {
	if l == nil || offset < 0 || offset > l.TextLength {
		return gg.Rect{}, false
	}
	var next *Item
	for i := range l.Items {
		it := &l.Items[i]
		if it.Kind == HyphenItem || it.Span.IsEmpty() {
			continue
		}
		if it.Span.Contains(offset) {
			frac := float64(offset-it.Span.Start) / float64(it.Span.Len())
			return l.caretAt(it, frac), true
		}
		if it.Span.Start > offset && (next == nil || it.Span.Start < next.Span.Start) {
			next = it
		}
	}
	for i := range l.Items {
		if it := &l.Items[i]; it.Kind != HyphenItem && !it.Span.IsEmpty() && it.Span.End == offset {
			return l.caretAt(it, 1), true
		}
	}
	if next != nil {
		return l.caretAt(next, 0), true
	}
	return gg.Rect{}, false
}

// caretAt returns the caret at fraction frac of an item's advance, counted
// from its logical start edge.
func (l *Layout) caretAt(it *Item, frac float64) gg.Rect {
	line := l.Lines[it.LineIndex]
	u := it.U + frac*it.Advance
	if it.Level%2 == 1 {
		u = it.U + (1-frac)*it.Advance
	}
	return l.Frame.Box(u, line.V, 0, line.Height)
}

// Selection returns the highlight rectangles for the logical byte range
// [start…end), one per item touched by the range, in item order.
func Selection(l *Layout, start, end int) []gg.Rect {
	if l == nil || end <= start {
		return nil
	}
	var rects []gg.Rect
	for i := range l.Items {
		it := &l.Items[i]
		if it.Span.IsEmpty() || it.Span.End <= start || it.Span.Start >= end {
			continue
		}
		n := float64(it.Span.Len())
		f0 := float64(max(start, it.Span.Start)-it.Span.Start) / n
		f1 := float64(min(end, it.Span.End)-it.Span.Start) / n
		u0, u1 := it.U+f0*it.Advance, it.U+f1*it.Advance
		if it.Level%2 == 1 {
			u0, u1 = it.U+(1-f1)*it.Advance, it.U+(1-f0)*it.Advance
		}
		line := l.Lines[it.LineIndex]
		rects = append(rects, l.Frame.Box(u0, line.V, u1-u0, line.Height))
	}
	return rects
}
