package monospace

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/textflow/core/font"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
)

type msshape struct {
	em      float64
	context *uax11.Context
}

var setupGraphemes sync.Once

// Shaper creates a shaper for monospace typesetting.
// A cell width em may be given which will then be used for shaping text.
// If it is zero, cells are 0.6 × the font size of the shaping parameters wide.
// If context is nil, uax11.LatinContext is used.
func Shaper(em float64, context *uax11.Context) glyphing.Shaper {
	sh := &msshape{
		em:      em,
		context: context,
	}
	if context == nil {
		sh.context = uax11.LatinContext
	}
	setupGraphemes.Do(grapheme.SetupGraphemeClasses)
	return sh
}

// Shape creates a glyph sequence from a text. face may be nil; if present,
// it is used to look up glyph indices.
func (ms *msshape) Shape(text string, face font.Face, p glyphing.Params) ([]glyphing.ShapedGlyph, error) {
	if text == "" {
		return nil, nil
	}
	em := ms.em
	if em == 0 {
		em = 0.6 * p.Size
	}
	onGraphemes := grapheme.NewBreaker(1)
	graphemeSplitter := segment.NewSegmenter(onGraphemes)
	graphemeSplitter.Init(strings.NewReader(text))
	glyphs := make([]glyphing.ShapedGlyph, 0, len(text))
	pos := 0
	for graphemeSplitter.Next() {
		grphm := graphemeSplitter.Bytes()
		codepoint, _ := utf8.DecodeRune(grphm)
		w := 0
		if !font.IsIgnorable(codepoint) {
			w = uax11.Width(grphm, ms.context)
		}
		g := glyphing.ShapedGlyph{
			XAdvance: float64(w) * em,
			YAdvance: em,
			Cluster:  pos,
		}
		if face != nil {
			g.GID = face.GlyphIndex(codepoint)
		}
		glyphs = append(glyphs, g)
		pos += len(grphm)
	}
	tracer().Debugf("monospace: shaped %d bytes into %d glyphs", len(text), len(glyphs))
	return glyphs, nil
}
