/*
Package harfbuzz converts text to sequences of glyphs, using the Go port of
HarfBuzz from github.com/benoitkugler/textlayout.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"sync"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/font"
	"github.com/npillmayer/textflow/engine/glyphing"
	"golang.org/x/text/language"
)

// tracer traces with key 'textflow.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.glyphs")
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	h := binary.BigEndian.Uint32(b)
	return hblang.Script(h)
}

// Direction4HB translates a direction to a HarfBuzz direction.
func Direction4HB(d glyphing.Direction) hb.Direction {
	switch d {
	case glyphing.LeftToRight:
		return hb.LeftToRight
	case glyphing.RightToLeft:
		return hb.RightToLeft
	case glyphing.TopToBottom:
		return hb.TopToBottom
	case glyphing.BottomToTop:
		return hb.BottomToTop
	}
	return hb.LeftToRight
}

// Feature4HB makes a HarfBuzz truetype tag from a 4-letter feature tag.
// Shorter tags are padded with spaces.
func Feature4HB(t string) hbtt.Tag {
	b := []byte("    ")
	copy(b, t)
	return hbtt.Tag(binary.BigEndian.Uint32(b))
}

// FeatureRange4HB converts a feature range struct to a HarbBuzz Feature switch.
// runeIndex maps byte positions of the text to rune positions.
func FeatureRange4HB(frng glyphing.FeatureRange, runeIndex func(int) int) hb.Feature {
	f := hb.Feature{
		Tag:   Feature4HB(frng.Feature),
		Start: runeIndex(frng.Start),
		End:   int(^uint(0) >> 1),
	}
	if frng.End > 0 {
		f.End = runeIndex(frng.End)
	}
	if frng.On {
		if frng.Arg > 0 {
			f.Value = uint32(frng.Arg)
		} else {
			f.Value = 1
		}
	}
	return f
}

// --- Shape -----------------------------------------------------------------

// Shaper calls the HarfBuzz shaper. Fonts are parsed from the binary of a face
// on first use and cached for the lifetime of the shaper.
type Shaper struct {
	fonts sync.Map // font.Face → hb.Face
}

var _ glyphing.Shaper = &Shaper{}

// New creates a HarfBuzz shaper.
func New() *Shaper {
	return &Shaper{}
}

func (sh *Shaper) parsed(face font.Face) (hb.Face, error) {
	if f, ok := sh.fonts.Load(face); ok {
		return f.(hb.Face), nil
	}
	if face.Index() != 0 {
		return nil, core.LayoutError(core.NotImplemented, nil,
			"HarfBuzz backend cannot select font #%d of a collection", face.Index())
	}
	parsed, err := hbtt.Parse(bytes.NewReader(face.Binary()), true)
	if err != nil {
		return nil, core.LayoutError(core.ShapingError, err, "HarfBuzz cannot parse font %s", face.Name())
	}
	var hbFace hb.Face = parsed
	f, _ := sh.fonts.LoadOrStore(face, hbFace)
	return f.(hb.Face), nil
}

// Shape shapes text, turning its Unicode characters to positioned glyphs. It
// will select a shape plan based on params, including the selected face, and
// the properties of the input text.
//
// If `params.Features` is not empty, it will be used to control the
// features applied during shaping. If two features have the same tag but
// overlapping ranges the value of the feature with the higher index takes
// precedence.
func (sh *Shaper) Shape(text string, face font.Face, params glyphing.Params) ([]glyphing.ShapedGlyph, error) {
	if face == nil {
		return nil, core.LayoutError(core.ShapingError, nil, "HarfBuzz shaper needs a font face")
	}
	if text == "" {
		return nil, nil
	}
	hbFace, err := sh.parsed(face)
	if err != nil {
		return nil, err
	}
	hbFont := hb.NewFont(hbFace)
	hbFont.XScale = int32(params.Size*64 + 0.5) // positions in 26.6 pixels
	hbFont.YScale = hbFont.XScale
	hbFont.Ptem = float32(params.Size * 0.75)
	//
	runes := []rune(text)
	byteOffsets := make([]int, 0, len(runes)+1)
	for pos := range text {
		byteOffsets = append(byteOffsets, pos)
	}
	byteOffsets = append(byteOffsets, len(text))
	runeIndex := func(bytepos int) int {
		for i, o := range byteOffsets {
			if o >= bytepos {
				return i
			}
		}
		return len(runes)
	}
	var features []hb.Feature
	for _, feat := range params.Features {
		features = append(features, FeatureRange4HB(feat, runeIndex))
	}
	hbBuf := hb.NewBuffer()
	hbBuf.Props = Props4HB(params, runes)
	hbBuf.AddRunes(runes, 0, len(runes))
	hbBuf.Shape(hbFont, features)
	glyphs := make([]glyphing.ShapedGlyph, len(hbBuf.Info))
	for i, ginfo := range hbBuf.Info {
		gpos := hbBuf.Pos[i]
		g := &glyphs[i]
		g.Cluster = byteOffsets[ginfo.Cluster]
		g.GID = font.GlyphIndex(ginfo.Glyph)
		g.XAdvance = float64(gpos.XAdvance) / 64
		g.YAdvance = float64(gpos.YAdvance) / 64
		g.XOffset = float64(gpos.XOffset) / 64
		g.YOffset = float64(gpos.YOffset) / 64
	}
	tracer().Debugf("HarfBuzz: shaped %d runes into %d glyphs", len(runes), len(glyphs))
	return glyphing.ToLogical(glyphs), nil
}

// Props4HB converts glyphing parameters to HarfBuzz segment properties.
// Script and language left open by params are derived from the text and
// the locale.
func Props4HB(params glyphing.Params, text []rune) hb.SegmentProperties {
	props := hb.SegmentProperties{
		Language:  hblang.DefaultLanguage(),
		Script:    hblang.Common,
		Direction: Direction4HB(params.Direction),
	}
	if params.Language != language.Und {
		props.Language = Lang4HB(params.Language)
	}
	var none language.Script
	if params.Script != none {
		props.Script = Script4HB(params.Script)
		return props
	}
	for _, r := range text {
		if scr := hblang.LookupScript(r); scr.IsRealScript() {
			props.Script = scr
			break
		}
	}
	return props
}
