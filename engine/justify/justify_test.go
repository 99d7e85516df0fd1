package justify

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glyphsOf(text string, adv float64) []glyphing.ShapedGlyph {
	var glyphs []glyphing.ShapedGlyph
	for pos := range text {
		glyphs = append(glyphs, glyphing.ShapedGlyph{XAdvance: adv, Cluster: pos})
	}
	glyphing.Annotate(glyphs, text, 0, nil)
	for i := range glyphs {
		if glyphs[i].Class == glyphing.Combining {
			glyphs[i].XAdvance = 0
		}
	}
	return glyphs
}

func TestClosedForm(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	texts := []string{"Hello World", "a b c d e f", "justify me ", "ne\u0301e plus ultra", "x"}
	targets := []float64{113.3, 200, 1000.0 / 3}
	for _, mode := range []Mode{InterWord, InterCharacter, Distribute} {
		for _, text := range texts {
			for _, target := range targets {
				glyphs := glyphsOf(text, 7.5)
				before := glyphing.Width(glyphs[:contentEnd(glyphs)], false)
				r := Segment(glyphs, target, false, Options{Mode: mode})
				if r.Mode == None {
					assert.Equal(t, "x", text, "%s did not justify %q", mode, text)
					continue
				}
				after := glyphing.Width(r.Glyphs[:contentEnd(r.Glyphs)], false)
				assert.InDelta(t, target-before, after-before+r.Lead, 1e-3, "%s %q", mode, text)
				assert.InDelta(t, target, after+r.Lead, 1e-3)
			}
		}
	}
}

func TestInterWord(t *testing.T) {
	glyphs := glyphsOf("ab cd ef  ", 10)
	r := Segment(glyphs, 100, false, Options{Mode: InterWord})
	require.Equal(t, InterWord, r.Mode)
	assert.Equal(t, 20.0, r.Added)
	assert.Equal(t, 20.0, r.Glyphs[2].XAdvance)
	assert.Equal(t, 20.0, r.Glyphs[5].XAdvance)
	assert.Equal(t, 10.0, r.Glyphs[8].XAdvance, "hanging whitespace takes no slack")
	assert.Equal(t, 10.0, glyphs[2].XAdvance, "input is not modified")
}

func TestInterCharacterSkipsCombiningMarks(t *testing.T) {
	glyphs := glyphsOf("ae\u0301b", 10)
	r := Segment(glyphs, 40, false, Options{Mode: InterCharacter})
	require.Equal(t, InterCharacter, r.Mode)
	assert.Equal(t, 20.0, r.Glyphs[0].XAdvance)
	assert.Equal(t, 10.0, r.Glyphs[1].XAdvance, "base followed by a combining mark")
	assert.Equal(t, 0.0, r.Glyphs[2].XAdvance, "combining marks never take slack")
	assert.Equal(t, 10.0, r.Glyphs[3].XAdvance, "last glyph")
}

func TestInterCharacterFallsBack(t *testing.T) {
	glyphs := []glyphing.ShapedGlyph{
		{XAdvance: 10, Class: glyphing.Other, BreakAfter: true},
		{XAdvance: 10, Class: glyphing.Letter, JustifyPriority: 2},
	}
	r := Segment(glyphs, 30, false, Options{Mode: InterCharacter})
	assert.Equal(t, InterWord, r.Mode)
	assert.Equal(t, 20.0, r.Glyphs[0].XAdvance)
}

func TestDistribute(t *testing.T) {
	glyphs := glyphsOf("abc", 10)
	r := Segment(glyphs, 50, false, Options{Mode: Distribute})
	require.Equal(t, Distribute, r.Mode)
	assert.Equal(t, 5.0, r.Lead)
	for _, g := range r.Glyphs {
		assert.Equal(t, 15.0, g.XAdvance)
	}
}

func TestLastLine(t *testing.T) {
	glyphs := glyphsOf("ab cd", 10)
	r := Segment(glyphs, 100, true, Options{Mode: InterWord})
	assert.Equal(t, None, r.Mode)
	r = Segment(glyphs, 100, true, Options{Mode: InterWord, JustifyLastLine: true})
	assert.Equal(t, InterWord, r.Mode)
	r = Segment(glyphs, 30, false, Options{Mode: InterWord})
	assert.Equal(t, None, r.Mode, "overfull segments are left alone")
}

func TestVertical(t *testing.T) {
	glyphs := []glyphing.ShapedGlyph{
		{YAdvance: 10, Class: glyphing.Ideographic, JustifyPriority: 2, Span: glyphing.Span{Start: 0, End: 3}},
		{VAdvance: 12, HasVertical: true, Class: glyphing.Ideographic, JustifyPriority: 2, Span: glyphing.Span{Start: 3, End: 6}},
		{YAdvance: 10, Class: glyphing.Ideographic, JustifyPriority: 2, Span: glyphing.Span{Start: 6, End: 9}},
	}
	r := Segment(glyphs, 42, false, Options{Mode: InterCharacter, Vertical: true})
	assert.Equal(t, 15.0, r.Glyphs[0].YAdvance)
	assert.Equal(t, 17.0, r.Glyphs[1].VAdvance)
}
