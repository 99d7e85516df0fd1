/*
Package gotext converts text to sequences of glyphs with the HarfBuzz port of
github.com/go-text/typesetting.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gotext

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	gtlang "github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/font"
	"github.com/npillmayer/textflow/engine/glyphing"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

// tracer traces with key 'textflow.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.glyphs")
}

// Shaper shapes text with go-text's HarfBuzz shaper. It is safe for
// concurrent use: parsed fonts are shared, go-text faces and shapers
// are not.
type Shaper struct {
	fonts      sync.Map // font.Face → *gtfont.Font
	shaperPool sync.Pool
}

var _ glyphing.Shaper = &Shaper{}

// New creates a go-text shaper.
func New() *Shaper {
	return &Shaper{
		shaperPool: sync.Pool{
			New: func() interface{} {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// gotextFont returns the go-text font for a face. Faces loaded by
// font.GoTextLoader carry one already, others are parsed from their binary.
func (sh *Shaper) gotextFont(face font.Face) (*gtfont.Font, error) {
	if gtf, ok := face.(font.GoTextFont); ok {
		return gtf.GoTextFont(), nil
	}
	if f, ok := sh.fonts.Load(face); ok {
		return f.(*gtfont.Font), nil
	}
	var parsed *gtfont.Face
	if face.Index() == 0 {
		f, err := gtfont.ParseTTF(bytes.NewReader(face.Binary()))
		if err != nil {
			return nil, core.LayoutError(core.ShapingError, err, "go-text cannot parse font %s", face.Name())
		}
		parsed = f
	} else {
		ff, err := gtfont.ParseTTC(bytes.NewReader(face.Binary()))
		if err != nil || face.Index() >= len(ff) {
			return nil, core.LayoutError(core.ShapingError, err, "go-text cannot parse font %s", face.Name())
		}
		parsed = ff[face.Index()]
	}
	f, _ := sh.fonts.LoadOrStore(face, parsed.Font)
	return f.(*gtfont.Font), nil
}

// Shape shapes text with a face.
func (sh *Shaper) Shape(text string, face font.Face, params glyphing.Params) ([]glyphing.ShapedGlyph, error) {
	if face == nil {
		return nil, core.LayoutError(core.ShapingError, nil, "go-text shaper needs a font face")
	}
	if text == "" {
		return nil, nil
	}
	f, err := sh.gotextFont(face)
	if err != nil {
		return nil, err
	}
	runes := []rune(text)
	byteOffsets := make([]int, 0, len(runes)+1)
	for pos := range text {
		byteOffsets = append(byteOffsets, pos)
	}
	byteOffsets = append(byteOffsets, len(text))
	lang := gtlang.NewLanguage("en")
	if params.Language != language.Und {
		lang = gtlang.NewLanguage(params.Language.String())
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: mapDirection(params.Direction),
		Face:      gtfont.NewFace(f),
		Size:      fixed.Int26_6(params.Size*64 + 0.5),
		Script:    detectScript(runes),
		Language:  lang,
	}
	hbShaper := sh.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hbShaper.Shape(input)
	sh.shaperPool.Put(hbShaper)
	glyphs := make([]glyphing.ShapedGlyph, len(output.Glyphs))
	vertical := params.Direction.IsVertical()
	for i, g := range output.Glyphs {
		sg := &glyphs[i]
		sg.GID = font.GlyphIndex(g.GlyphID)
		sg.Cluster = byteOffsets[clampIndex(g.TextIndex(), len(runes))]
		sg.XOffset = float64(g.XOffset) / 64
		sg.YOffset = float64(g.YOffset) / 64
		if vertical {
			sg.YAdvance = float64(g.Advance) / 64
		} else {
			sg.XAdvance = float64(g.Advance) / 64
		}
	}
	tracer().Debugf("go-text: shaped %d runes into %d glyphs", len(runes), len(glyphs))
	return glyphing.ToLogical(glyphs), nil
}

func mapDirection(d glyphing.Direction) di.Direction {
	switch d {
	case glyphing.RightToLeft:
		return di.DirectionRTL
	case glyphing.TopToBottom:
		return di.DirectionTTB
	case glyphing.BottomToTop:
		return di.DirectionBTT
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first character with a
// specific script.
func detectScript(runes []rune) gtlang.Script {
	for _, r := range runes {
		s := gtlang.LookupScript(r)
		if s != gtlang.Common && s != gtlang.Inherited {
			return s
		}
	}
	return gtlang.Latin
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
