package position

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textflow/engine/flow"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/justify"
	"github.com/npillmayer/textflow/engine/linebreak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var area = gg.NewRect(gg.Pt(0, 0), gg.Pt(100, 300))

// glyphs creates one glyph of advance 10 and size 10 per code-point of
// text, at embedding level 0 if not told otherwise.
func glyphs(text string, levels ...uint8) []glyphing.ShapedGlyph {
	var gs []glyphing.ShapedGlyph
	i := 0
	for pos, r := range text {
		g := glyphing.ShapedGlyph{
			GID:       1,
			XAdvance:  10,
			Span:      glyphing.Span{Start: pos, End: pos + len(string(r))},
			CodePoint: r,
			Class:     glyphing.ClassOf(r),
			Size:      10,
		}
		g.IsWhitespace = g.Class == glyphing.Space
		g.BreakAfter = g.IsWhitespace
		if i < len(levels) {
			g.Level = levels[i]
		}
		gs = append(gs, g)
		i++
	}
	return gs
}

func oneLine(gs []glyphing.ShapedGlyph, last bool) linebreak.Line {
	return linebreak.Line{
		Segments: []linebreak.SegmentGlyphs{{Index: 0, Glyphs: gs, Width: glyphing.Width(gs, false)}},
		End:      len(gs),
		IsLast:   last,
	}
}

func band(y float64) flow.LineConstraints {
	return flow.LineConstraints{Y: y, Height: 20, Segments: []flow.Segment{{X0: 0, X1: 100}}}
}

func place(opts Options, line linebreak.Line) *Layout {
	if opts.Frame.Area == (gg.Rect{}) {
		opts.Frame.Area = area
	}
	opts.LineHeight = 20
	opts.FontSize = 10
	for _, g := range line.Glyphs() {
		if g.Span.End > opts.TextLength {
			opts.TextLength = g.Span.End
		}
	}
	p := New(opts)
	lc := band(0)
	p.Place(line, lc, lc.Segments, false)
	return p.Layout()
}

// us returns the inline positions of items, indexed by logical span start.
func us(l *Layout) map[int]float64 {
	m := make(map[int]float64)
	for _, it := range l.Items {
		m[it.Span.Start] = it.U
	}
	return m
}

func TestAlignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	tests := []struct {
		align Align
		dir   glyphing.Direction
		first float64
	}{
		{Start, glyphing.LeftToRight, 0},
		{End, glyphing.LeftToRight, 80},
		{Left, glyphing.RightToLeft, 0},
		{Right, glyphing.LeftToRight, 80},
		{Center, glyphing.LeftToRight, 40},
		{Start, glyphing.RightToLeft, 80},
		{End, glyphing.RightToLeft, 0},
		{Justify, glyphing.RightToLeft, 80},
	}
	for _, tt := range tests {
		l := place(Options{Align: tt.align, Direction: tt.dir}, oneLine(glyphs("ab"), true))
		require.Len(t, l.Items, 2)
		assert.Equal(t, tt.first, l.Items[0].U, "%s/%s", tt.align, tt.dir)
		assert.Equal(t, tt.first+10, l.Items[1].U, "%s/%s", tt.align, tt.dir)
	}
}

func TestHangingWhitespace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	l := place(Options{Align: Right}, oneLine(glyphs("ab "), true))
	u := us(l)
	assert.Equal(t, 80.0, u[0])
	assert.Equal(t, 100.0, u[2], "whitespace hangs beyond the segment")
	//
	l = place(Options{Align: Start, Direction: glyphing.RightToLeft},
		oneLine(glyphs("\u05d0\u05d1 ", 1, 1, 1), true))
	u = us(l)
	assert.Equal(t, 90.0, u[0], "first logical glyph at the right")
	assert.Equal(t, 80.0, u[2])
	assert.Equal(t, 70.0, u[4], "whitespace hangs to the left")
	assert.Equal(t, 4, l.Items[0].Span.Start, "items are in visual order")
}

func TestBidiReorder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	l := place(Options{}, oneLine(glyphs("ab\u05d0\u05d1c", 0, 0, 1, 1, 0), true))
	u := us(l)
	assert.Equal(t, 0.0, u[0])
	assert.Equal(t, 10.0, u[1])
	assert.Equal(t, 30.0, u[2], "aleph right of bet")
	assert.Equal(t, 20.0, u[4])
	assert.Equal(t, 40.0, u[6])
	for i, it := range l.Items {
		assert.Equal(t, i, it.VisualIndex)
	}
}

func TestTrailingWhitespaceLevel(t *testing.T) {
	l := place(Options{}, oneLine(glyphs("a\u05d0 ", 0, 1, 1), true))
	require.Len(t, l.Items, 3)
	assert.Equal(t, uint8(0), l.Items[2].Level, "trailing whitespace gets the paragraph level")
	assert.Equal(t, 20.0, l.Items[2].U)
}

func TestHyphenLevel(t *testing.T) {
	gs := glyphs("\u05d0\u05d1", 1, 1)
	gs = append(gs, glyphing.ShapedGlyph{XAdvance: 5, Source: glyphing.Hyphen, Span: glyphing.Span{Start: 4, End: 4}})
	l := place(Options{Direction: glyphing.RightToLeft}, oneLine(gs, false))
	require.Len(t, l.Items, 3)
	assert.Equal(t, HyphenItem, l.Items[0].Kind, "hyphen ends the line at the left")
	assert.Equal(t, uint8(1), l.Items[0].Level)
	assert.Equal(t, 75.0, l.Items[0].U)
}

func TestJustify(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	opts := Options{Align: Justify, Justify: justify.InterWord}
	l := place(opts, oneLine(glyphs("ab cd"), false))
	u := us(l)
	assert.Equal(t, 80.0, u[3], "slack goes to the space")
	assert.Equal(t, 90.0, u[4])
	l = place(opts, oneLine(glyphs("ab cd"), true))
	assert.Equal(t, 40.0, us(l)[4], "last line is not justified")
	opts.Align = JustifyAll
	l = place(opts, oneLine(glyphs("ab cd"), true))
	assert.Equal(t, 90.0, us(l)[4])
	//
	opts = Options{Align: Justify, Justify: justify.Distribute}
	l = place(opts, oneLine(glyphs("abcd"), false))
	assert.InDelta(t, 12.0, us(l)[0], 1e-9, "leading edge gets a share")
	assert.InDelta(t, 100.0, l.Items[3].U+l.Items[3].Advance, 1e-9)
}

func TestBaselineAndBoxes(t *testing.T) {
	l := place(Options{}, oneLine(glyphs("a"), true))
	require.Len(t, l.Lines, 1)
	line := l.Lines[0]
	assert.Equal(t, 13.0, line.Baseline, "half-leading 5 plus ascent 8")
	it := l.Items[0]
	assert.Equal(t, gg.Pt(0, 13), gg.Pt(it.X, it.Y))
	assert.Equal(t, gg.NewRect(gg.Pt(0, 5), gg.Pt(10, 15)), it.Box)
	assert.Equal(t, gg.NewRect(gg.Pt(0, 0), gg.Pt(100, 20)), line.Box)
	assert.Equal(t, glyphing.Span{Start: 0, End: 1}, line.Span)
	assert.Equal(t, it.Box, l.Bounds)
}

func TestVerticalAlign(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	obj := glyphing.ShapedGlyph{XAdvance: 30, YAdvance: 20, Source: glyphing.Object,
		CodePoint: 0xfffc, Span: glyphing.Span{Start: 1, End: 4}}
	tests := []struct {
		va  VerticalAlign
		top float64
	}{
		{Baseline, -7},
		{Top, 0},
		{Bottom, 0},
		{Middle, 0.5},
		{TextTop, 5},
		{TextBottom, -5},
		{Sub, -5},
		{Super, -10.3},
	}
	for _, tt := range tests {
		gs := append(glyphs("a"), obj)
		l := place(Options{VerticalAlign: tt.va}, oneLine(gs, true))
		require.Len(t, l.Items, 2)
		assert.Equal(t, ObjectItem, l.Items[1].Kind)
		assert.InDelta(t, tt.top, l.Items[1].Box.Min.Y, 1e-9, "%s", tt.va)
		assert.InDelta(t, 20.0, l.Items[1].Box.Height(), 1e-9)
	}
}

func TestFillOrder(t *testing.T) {
	segs := []flow.Segment{{X0: 0, X1: 10}, {X0: 20, X1: 30}, {X0: 40, X1: 50, Priority: 1}}
	ltr := FillOrder(segs, glyphing.LeftToRight)
	assert.Equal(t, []float64{0, 20, 40}, []float64{ltr[0].X0, ltr[1].X0, ltr[2].X0})
	rtl := FillOrder(segs, glyphing.RightToLeft)
	assert.Equal(t, []float64{20, 0, 40}, []float64{rtl[0].X0, rtl[1].X0, rtl[2].X0})
	assert.Equal(t, 0.0, segs[0].X0, "input is unchanged")
}

func TestMultipleSegments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	gs := glyphs("ab cd")
	line := linebreak.Line{Segments: []linebreak.SegmentGlyphs{
		{Index: 0, Glyphs: gs[:3]},
		{Index: 1, Glyphs: gs[3:]},
	}, IsLast: true}
	segs := []flow.Segment{{X0: 0, X1: 30}, {X0: 60, X1: 100}}
	p := New(Options{Frame: Frame{Area: area}, LineHeight: 20, FontSize: 10})
	p.Place(line, flow.LineConstraints{Height: 20, Segments: segs}, segs, false)
	l := p.Layout()
	u := us(l)
	assert.Equal(t, 0.0, u[0])
	assert.Equal(t, 60.0, u[3])
	assert.Equal(t, 4, l.Items[4].VisualIndex)
	assert.Equal(t, gg.NewRect(gg.Pt(0, 0), gg.Pt(100, 20)), l.Lines[0].Box)
}
