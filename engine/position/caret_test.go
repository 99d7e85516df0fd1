package position

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/justify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caretX(t *testing.T, l *Layout, offset int) float64 {
	r, ok := Caret(l, offset)
	require.True(t, ok, "caret at %d", offset)
	assert.Equal(t, 0.0, r.Width())
	assert.Equal(t, 20.0, r.Height())
	return r.Min.X
}

func TestCaret(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	l := place(Options{}, oneLine(glyphs("ab"), true))
	assert.Equal(t, 0.0, caretX(t, l, 0))
	assert.Equal(t, 10.0, caretX(t, l, 1))
	assert.Equal(t, 20.0, caretX(t, l, 2), "end of text")
	_, ok := Caret(l, 3)
	assert.False(t, ok)
	_, ok = Caret(l, -1)
	assert.False(t, ok)
	//
	l = place(Options{Direction: glyphing.RightToLeft}, oneLine(glyphs("\u05d0\u05d1", 1, 1), true))
	assert.Equal(t, 100.0, caretX(t, l, 0), "right edge of aleph")
	assert.Equal(t, 90.0, caretX(t, l, 2))
	assert.Equal(t, 80.0, caretX(t, l, 4))
}

func TestCaretInLigature(t *testing.T) {
	lig := glyphing.ShapedGlyph{GID: 7, XAdvance: 20, Size: 10, CodePoint: 'f',
		Span: glyphing.Span{Start: 0, End: 2}}
	l := place(Options{}, oneLine([]glyphing.ShapedGlyph{lig}, true))
	assert.Equal(t, 10.0, caretX(t, l, 1), "interpolated within the cluster")
}

func TestCaretSkippedWhitespace(t *testing.T) {
	gs := glyphs(" ab")[1:]
	l := place(Options{}, oneLine(gs, true))
	assert.Equal(t, 0.0, caretX(t, l, 0), "in front of the next item")
}

func TestCaretVertical(t *testing.T) {
	gs := glyphs("ab")
	ResolveOrientation(gs, OrientationOptions{Mode: VerticalRL, Orientation: Upright})
	l := place(Options{Frame: Frame{Mode: VerticalRL}}, oneLine(gs, true))
	r, ok := Caret(l, 1)
	require.True(t, ok)
	assert.Equal(t, gg.NewRect(gg.Pt(80, 10), gg.Pt(100, 10)), r)
}

func TestSelection(t *testing.T) {
	l := place(Options{}, oneLine(glyphs("abc"), true))
	rs := Selection(l, 1, 3)
	require.Len(t, rs, 2)
	assert.Equal(t, gg.NewRect(gg.Pt(10, 0), gg.Pt(20, 20)), rs[0])
	assert.Equal(t, gg.NewRect(gg.Pt(20, 0), gg.Pt(30, 20)), rs[1])
	assert.Empty(t, Selection(l, 2, 2))
}

// threeLines lays out three lines "ab" at y = 0, 20, 40, the last one
// flagged as lying outside the flow area.
func threeLines() *Layout {
	p := New(Options{Frame: Frame{Area: area}, LineHeight: 20, FontSize: 10, TextLength: 6})
	for k := 0; k < 3; k++ {
		gs := glyphs("ab")
		for i := range gs {
			gs[i].Span.Start += 2 * k
			gs[i].Span.End += 2 * k
		}
		lc := band(float64(20 * k))
		p.Place(oneLine(gs, k == 2), lc, lc.Segments, k == 2)
	}
	return p.Layout()
}

var clipArea = gg.NewRect(gg.Pt(0, 0), gg.Pt(100, 40))

func TestOverflowVisible(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	for _, mode := range []Overflow{Visible, Scroll, Auto} {
		l := threeLines()
		l.HandleOverflow(mode, clipArea)
		assert.Len(t, l.Items, 6)
		assert.True(t, l.Overflow.Overflows)
		assert.Equal(t, 55.0, l.Overflow.Extent.Max.Y)
		assert.Equal(t, -1, l.Overflow.Continuation)
		assert.Equal(t, mode, l.Overflow.Mode)
	}
	l := place(Options{}, oneLine(glyphs("ab"), true))
	l.HandleOverflow(Visible, gg.NewRect(gg.Pt(0, 0), gg.Pt(100, 20)))
	assert.False(t, l.Overflow.Overflows)
}

func TestOverflowHidden(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	l := threeLines()
	l.HandleOverflow(Hidden, clipArea)
	assert.Len(t, l.Items, 4)
	assert.Equal(t, 2, l.Overflow.Clipped)
	require.Len(t, l.Lines, 3)
	assert.Equal(t, 4, l.Lines[2].First)
	assert.Equal(t, 4, l.Lines[2].Last)
	assert.Equal(t, 35.0, l.Bounds.Max.Y)
}

func TestOverflowBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	l := threeLines()
	l.HandleOverflow(Break, clipArea)
	assert.Len(t, l.Items, 4)
	assert.Len(t, l.Lines, 2)
	assert.Equal(t, 4, l.Overflow.Continuation)
	assert.Equal(t, 2, l.Overflow.Clipped)
	//
	l = threeLines()
	l.HandleOverflow(Break, area)
	assert.Len(t, l.Lines, 2, "flagged lines break even within the clip area")
	l = place(Options{}, oneLine(glyphs("ab"), true))
	l.HandleOverflow(Break, area)
	assert.Len(t, l.Items, 2)
	assert.Equal(t, -1, l.Overflow.Continuation)
}

func TestParseOptions(t *testing.T) {
	wm, err := ParseWritingMode("Vertical-RL")
	require.NoError(t, err)
	assert.Equal(t, VerticalRL, wm)
	_, err = ParseWritingMode("diagonal")
	assert.Equal(t, core.InvalidText, core.KindOf(err))
	a, err := ParseTextAlign("justify-all")
	require.NoError(t, err)
	assert.Equal(t, JustifyAll, a)
	va, err := ParseVerticalAlign("text-bottom")
	require.NoError(t, err)
	assert.Equal(t, TextBottom, va)
	o, err := ParseOverflow("break")
	require.NoError(t, err)
	assert.Equal(t, Break, o)
	to, err := ParseTextOrientation("sideways")
	require.NoError(t, err)
	assert.Equal(t, Sideways, to)
	jm, err := ParseJustifyContent("inter-character")
	require.NoError(t, err)
	assert.Equal(t, justify.InterCharacter, jm)
	//
	for in, n := range map[string]int{"": 0, "none": 0, "digits": 2, "digits 3": 3, "DIGITS 4": 4} {
		got, err := ParseTextCombineUpright(in)
		require.NoError(t, err, in)
		assert.Equal(t, n, got, in)
	}
	for _, in := range []string{"all", "digits 9", "digits x", "digits 2 3"} {
		_, err := ParseTextCombineUpright(in)
		assert.Equal(t, core.InvalidText, core.KindOf(err), in)
	}
}
