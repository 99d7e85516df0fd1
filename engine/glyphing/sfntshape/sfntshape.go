/*
Package sfntshape implements a basic shaper on top of the font.Face capability.

Every code-point is mapped to a single glyph by the font's character map.
Advances are taken from the horizontal metrics, and pair kerning from the
font's 'kern' table is applied. There is no glyph substitution and no
positioning by OpenType layout features. Combining marks are centered over
their base glyph.

This is sufficient for simple scripts (Latin, Greek, Cyrillic, Hebrew without
points, CJK) and serves as a dependency-light default backend.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sfntshape

import (
	"unicode"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/font"
	"github.com/npillmayer/textflow/engine/glyphing"
)

// tracer traces with key 'textflow.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.glyphs")
}

// Shaper is a basic cmap/hmtx/kern shaper. The zero value is ready to use.
type Shaper struct {
	NoKerning bool
}

var _ glyphing.Shaper = Shaper{}

// Shape maps each code-point of text to a glyph of face.
func (sh Shaper) Shape(text string, face font.Face, p glyphing.Params) ([]glyphing.ShapedGlyph, error) {
	if face == nil {
		return nil, core.LayoutError(core.ShapingError, nil, "sfnt shaper needs a font face")
	}
	glyphs := make([]glyphing.ShapedGlyph, 0, len(text))
	base := -1 // index of last non-mark glyph
	for pos, r := range text {
		g := glyphing.ShapedGlyph{
			GID:     face.GlyphIndex(r),
			Cluster: pos,
		}
		if font.IsIgnorable(r) {
			glyphs = append(glyphs, g)
			continue
		}
		adv := face.Advance(g.GID, p.Size)
		if unicode.In(r, unicode.Mn, unicode.Me) && base >= 0 {
			b := glyphs[base]
			g.XOffset = -b.XAdvance + (b.XAdvance-adv)/2
			glyphs = append(glyphs, g)
			continue
		}
		g.XAdvance = adv
		if base >= 0 && !sh.NoKerning {
			glyphs[base].XAdvance += face.Kern(glyphs[base].GID, g.GID, p.Size)
		}
		base = len(glyphs)
		glyphs = append(glyphs, g)
	}
	tracer().Debugf("sfnt: shaped %q into %d glyphs", text, len(glyphs))
	return glyphs, nil
}
