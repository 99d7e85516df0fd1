package linebreak

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/hyphenation"
	"github.com/npillmayer/textflow/core/parameters"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/inline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var testStyle = &glyphing.Style{Size: 10}

// glyphsFor creates one glyph per code-point with a fixed advance (zero for
// combining marks), flagged with the break opportunities of the text.
func glyphsFor(t *testing.T, text string, adv float64) ([]glyphing.ShapedGlyph, *inline.Content) {
	c, err := inline.Analyze([]inline.Item{inline.Text(text, testStyle)})
	require.NoError(t, err)
	var glyphs []glyphing.ShapedGlyph
	for pos := range text {
		glyphs = append(glyphs, glyphing.ShapedGlyph{GID: 1, XAdvance: adv, Cluster: pos})
	}
	glyphing.Annotate(glyphs, text, 0, testStyle)
	for i := range glyphs {
		if glyphs[i].Class == glyphing.Combining {
			glyphs[i].XAdvance = 0
		}
	}
	MarkBreaks(glyphs, func(pos int) (bool, bool) {
		b, ok := c.BreakAt(pos)
		return ok, b.Mandatory
	})
	return glyphs, c
}

func fakeHyphen(style *glyphing.Style, at int) (glyphing.ShapedGlyph, error) {
	return glyphing.ShapedGlyph{
		GID:       2,
		XAdvance:  6,
		Span:      glyphing.Span{Start: at, End: at},
		CodePoint: '-',
		Source:    glyphing.Hyphen,
		Style:     style,
	}, nil
}

func textOf(text string, glyphs []glyphing.ShapedGlyph) string {
	s := ""
	for _, g := range glyphs {
		if g.Source == glyphing.Hyphen {
			s += "-"
			continue
		}
		s += text[g.Span.Start:g.Span.End]
	}
	return s
}

func allLines(b *Breaker, segments []float64) []Line {
	var lines []Line
	for {
		line, ok := b.Next(segments)
		if !ok {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestGreedyLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.linebreak")
	defer teardown()
	//
	text := "Hello World foo"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	lines := allLines(b, []float64{60})
	require.Len(t, lines, 3)
	assert.Equal(t, "Hello ", textOf(text, lines[0].Glyphs()))
	assert.Equal(t, 50.0, lines[0].Segments[0].Width, "trailing whitespace hangs")
	assert.Equal(t, "World ", textOf(text, lines[1].Glyphs()))
	assert.Equal(t, "foo", textOf(text, lines[2].Glyphs()))
	assert.True(t, lines[2].IsLast)
	assert.False(t, lines[0].IsLast)
	assert.True(t, b.Done())
}

func TestOneLine(t *testing.T) {
	text := "Hello World"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	lines := allLines(b, []float64{1000})
	require.Len(t, lines, 1)
	assert.Len(t, lines[0].Glyphs(), 11)
	assert.Equal(t, 110.0, lines[0].Segments[0].Width)
}

func TestHangingWhitespace(t *testing.T) {
	text := "ab   cd"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	lines := allLines(b, []float64{20})
	require.Len(t, lines, 2)
	assert.Equal(t, "ab   ", textOf(text, lines[0].Glyphs()))
	assert.Equal(t, "cd", textOf(text, lines[1].Glyphs()))
	assert.False(t, lines[0].Forced)
}

func TestMandatoryBreak(t *testing.T) {
	text := "ab\ncd"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	lines := allLines(b, []float64{1000})
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Mandatory)
	assert.Equal(t, 3, lines[0].End)
	assert.Equal(t, 20.0, lines[0].Segments[0].Width)
	assert.Equal(t, "cd", textOf(text, lines[1].Glyphs()))
}

func TestForcedBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.linebreak")
	defer teardown()
	//
	text := "abcdefghij"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	lines := allLines(b, []float64{35})
	require.Len(t, lines, 4)
	for _, l := range lines[:3] {
		assert.True(t, l.Forced)
		assert.Len(t, l.Glyphs(), 3)
	}
	assert.Equal(t, "j", textOf(text, lines[3].Glyphs()))
}

func TestForcedBreakKeepsGraphemes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.linebreak")
	defer teardown()
	//
	text := "ae\u0301b"
	glyphs, c := glyphsFor(t, text, 10)
	glyphs[2].XAdvance = 10 // a combining mark which does not fit
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	lines := allLines(b, []float64{15})
	require.Len(t, lines, 3)
	assert.Equal(t, "a", textOf(text, lines[0].Glyphs()))
	assert.Equal(t, "e\u0301", textOf(text, lines[1].Glyphs()))
	for _, l := range lines {
		pos := glyphs[l.Start].Span.Start
		assert.True(t, c.IsBoundary(pos), "line starts inside grapheme at %d", pos)
	}
}

func TestZeroWidthAdvances(t *testing.T) {
	text := "abc"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	line, ok := b.Next(nil)
	require.True(t, ok)
	assert.Equal(t, 1, line.End, "cursor advances by at least one glyph")
	line, ok = b.Next([]float64{0, 0})
	require.True(t, ok)
	assert.Equal(t, 2, line.End)
}

func TestHyphenation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.linebreak")
	defer teardown()
	//
	text := "supercalifragilisticexpialidocious"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{
		Hyphenator:      hyphenation.NewRegistry(parameters.NewTypesettingRegisters()),
		DefaultLanguage: language.English,
		Hyphen:          fakeHyphen,
		IsBoundary:      c.IsBoundary,
	})
	line, ok := b.Next([]float64{100})
	require.True(t, ok)
	assert.True(t, line.Hyphenated)
	assert.False(t, line.Forced)
	lg := line.Glyphs()
	require.Len(t, lg, 9)
	assert.Equal(t, "supercal-", textOf(text, lg))
	last := lg[len(lg)-1]
	assert.Equal(t, glyphing.Hyphen, last.Source)
	assert.True(t, last.Span.IsEmpty())
	assert.Equal(t, 8, last.Span.Start)
	assert.Equal(t, 86.0, line.Segments[0].Width)
	//
	rest := allLines(b, []float64{100})
	covered := 8
	for _, l := range rest {
		for _, s := range l.Segments {
			assert.LessOrEqual(t, s.Width, 100.0)
		}
		for _, g := range l.Glyphs() {
			if g.Source == glyphing.Hyphen {
				assert.True(t, g.Span.IsEmpty())
				continue
			}
			assert.Equal(t, covered, g.Span.Start, "glyphs cover the text without gaps")
			covered = g.Span.End
		}
	}
	assert.Equal(t, len(text), covered)
}

type failingHyphenator struct{}

func (failingHyphenator) Hyphenate(string, language.Tag) ([]int, error) {
	return nil, core.LayoutError(core.HyphenationError, nil, "no dictionary")
}

func TestHyphenationFailureDegrades(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.linebreak")
	defer teardown()
	//
	text := "supercalifragilisticexpialidocious"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{
		Hyphenator: failingHyphenator{},
		Hyphen:     fakeHyphen,
		IsBoundary: c.IsBoundary,
	})
	line, ok := b.Next([]float64{100})
	require.True(t, ok)
	assert.True(t, line.Forced)
	assert.False(t, line.Hyphenated)
	assert.Len(t, line.Glyphs(), 10)
}

func TestSoftHyphen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.linebreak")
	defer teardown()
	//
	text := "hy\u00ADphen"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{Hyphen: fakeHyphen, IsBoundary: c.IsBoundary})
	lines := allLines(b, []float64{45})
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Hyphenated)
	lg := lines[0].Glyphs()
	require.Len(t, lg, 4)
	assert.Equal(t, glyphing.Hyphen, lg[3].Source)
	assert.Equal(t, 26.0, lines[0].Segments[0].Width)
	assert.Equal(t, "phen", textOf(text, lines[1].Glyphs()))
}

func TestMultipleSegments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.linebreak")
	defer teardown()
	//
	text := "aa bb cc"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	line, ok := b.Next([]float64{25, 25})
	require.True(t, ok)
	require.Len(t, line.Segments, 2)
	assert.Equal(t, "aa ", textOf(text, line.Segments[0].Glyphs))
	assert.Equal(t, "bb ", textOf(text, line.Segments[1].Glyphs))
	assert.Equal(t, 1, line.Segments[1].Index)
	line, _ = b.Next([]float64{25, 25})
	assert.Equal(t, "cc", textOf(text, line.Glyphs()))
}

func TestWordFitsNoRemainingSegment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.linebreak")
	defer teardown()
	//
	text := "aa bbb"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	line, ok := b.Next([]float64{25, 15})
	require.True(t, ok)
	assert.Equal(t, 3, line.End, "the line ends, although a later line might have room")
	require.Len(t, line.Segments, 1)
	assert.False(t, line.IsLast)
}

func TestWordSkipsNarrowSegment(t *testing.T) {
	text := "abc"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	line, ok := b.Next([]float64{10, 40})
	require.True(t, ok)
	require.Len(t, line.Segments, 2)
	assert.Empty(t, line.Segments[0].Glyphs)
	assert.Equal(t, "abc", textOf(text, line.Segments[1].Glyphs))
	assert.True(t, line.IsLast)
}

func TestBrokenWordContinuesInNextSegment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.linebreak")
	defer teardown()
	//
	text := "abcdef gh"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	line, ok := b.Next([]float64{35, 35})
	require.True(t, ok)
	assert.True(t, line.Forced)
	require.Len(t, line.Segments, 2)
	assert.Equal(t, "abc", textOf(text, line.Segments[0].Glyphs))
	assert.Equal(t, "def ", textOf(text, line.Segments[1].Glyphs))
	assert.Equal(t, 30.0, line.Segments[1].Width)
	line, _ = b.Next([]float64{35, 35})
	assert.Equal(t, "gh", textOf(text, line.Glyphs()))
	assert.True(t, line.IsLast)
	//
	text = "hy\u00ADphen"
	glyphs, c = glyphsFor(t, text, 10)
	b = New(glyphs, text, Options{Hyphen: fakeHyphen, IsBoundary: c.IsBoundary})
	lines := allLines(b, []float64{45, 45})
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Segments, 2)
	assert.True(t, lines[0].Hyphenated)
	assert.Equal(t, "hy-", textOf(text, lines[0].Segments[0].Glyphs))
	assert.Equal(t, "phen", textOf(text, lines[0].Segments[1].Glyphs))
}

func TestHyphenatedWordContinuesInNextSegment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.linebreak")
	defer teardown()
	//
	text := "supercalifragilisticexpialidocious"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{
		Hyphenator:      hyphenation.NewRegistry(parameters.NewTypesettingRegisters()),
		DefaultLanguage: language.English,
		Hyphen:          fakeHyphen,
		IsBoundary:      c.IsBoundary,
	})
	line, ok := b.Next([]float64{100, 100})
	require.True(t, ok)
	require.Len(t, line.Segments, 2)
	assert.Equal(t, "supercal-", textOf(text, line.Segments[0].Glyphs))
	second := line.Segments[1].Glyphs
	require.NotEmpty(t, second, "the word goes on in the second segment")
	assert.Equal(t, 8, second[0].Span.Start)
	assert.LessOrEqual(t, line.Segments[1].Width, 100.0)
	assert.Greater(t, line.End, 8)
}

func TestFragmentNeedsRoom(t *testing.T) {
	text := "abc"
	glyphs, c := glyphsFor(t, text, 10)
	b := New(glyphs, text, Options{IsBoundary: c.IsBoundary})
	line, ok := b.Next([]float64{15, 5})
	require.True(t, ok)
	assert.Equal(t, 1, line.End)
	require.Len(t, line.Segments, 1)
	assert.True(t, line.Forced)
}
