package position

import (
	"unicode"

	"github.com/npillmayer/textflow/engine/bidirun"
	"github.com/npillmayer/textflow/engine/glyphing"
	"golang.org/x/text/language"
)

// OrientationOptions control ResolveOrientation.
type OrientationOptions struct {
	Mode          WritingMode
	Orientation   TextOrientation
	CombineDigits int // text-combine-upright: combine up to n digits, 0 for none
}

// ResolveOrientation sets the orientation of glyphs for a writing mode and
// makes sure upright glyphs carry vertical metrics. Metrics missing from
// the font are synthesized: the vertical advance is the em size (or the
// horizontal advance for glyphs without size) and the glyph is centered on
// the inline axis.
//
// In horizontal-tb every glyph is set horizontally and nothing else changes.
func ResolveOrientation(glyphs []glyphing.ShapedGlyph, opts OrientationOptions) {
	if !opts.Mode.IsVertical() {
		for i := range glyphs {
			glyphs[i].Orientation = glyphing.Horizontal
		}
		return
	}
	for i := range glyphs {
		g := &glyphs[i]
		switch {
		case opts.Mode.IsSideways() || opts.Orientation == Sideways:
			g.Orientation = glyphing.Sideways
		case opts.Orientation == Upright || g.Source == glyphing.Object:
			g.Orientation = glyphing.Upright
		case isVerticalNative(g.CodePoint):
			g.Orientation = glyphing.Upright
		default:
			g.Orientation = glyphing.Sideways
		}
		if g.Orientation == glyphing.Upright {
			verticalMetrics(g)
		}
	}
	if opts.CombineDigits > 0 && !opts.Mode.IsSideways() {
		combineDigits(glyphs, opts.CombineDigits)
	}
}

// verticalMetrics takes vertical metrics from a glyph's face or synthesizes
// them.
func verticalMetrics(g *glyphing.ShapedGlyph) {
	if g.HasVertical {
		return
	}
	if g.Source == glyphing.Object {
		g.VAdvance = g.YAdvance
		g.VOriginX = g.XAdvance / 2
		g.HasVertical = true
		return
	}
	size := sizeOf(*g)
	if g.Face != nil {
		if adv, ok := g.Face.VerticalAdvance(g.GID, size); ok {
			g.VAdvance = adv
			g.VOriginX = g.XAdvance / 2
			g.VOriginY = g.Face.Metrics(size).Ascent
			g.HasVertical = true
			return
		}
	}
	g.VAdvance = size
	if size <= 0 {
		g.VAdvance = g.XAdvance
	}
	if g.Class == glyphing.Combining || g.Class == glyphing.Control {
		g.VAdvance = 0
	}
	g.VOriginX = g.XAdvance / 2
	asc, _, _ := metricsOf(*g, size)
	g.VOriginY = asc
	g.HasVertical = true
}

// combineDigits marks maximal runs of at most n ASCII digits as combined
// upright (tate-chu-yoko). The first glyph of a group carries the group's
// vertical advance of one em.
func combineDigits(glyphs []glyphing.ShapedGlyph, n int) {
	isDigit := func(i int) bool {
		g := glyphs[i]
		return g.Source == glyphing.Char && g.CodePoint >= '0' && g.CodePoint <= '9'
	}
	for i := 0; i < len(glyphs); {
		if !isDigit(i) {
			i++
			continue
		}
		j := i
		for j < len(glyphs) && isDigit(j) {
			j++
		}
		if j-i <= n {
			em := sizeOf(glyphs[i])
			if em <= 0 {
				em = glyphs[i].XAdvance
			}
			for k := i; k < j; k++ {
				glyphs[k].Orientation = glyphing.Combined
				glyphs[k].HasVertical = true
				glyphs[k].VAdvance = 0
			}
			glyphs[i].VAdvance = em
		}
		i = j
	}
}

var verticalScripts = []language.Script{
	language.MustParseScript("Hani"),
	language.MustParseScript("Hira"),
	language.MustParseScript("Kana"),
	language.MustParseScript("Hang"),
	language.MustParseScript("Bopo"),
	language.MustParseScript("Yiii"),
}

// verticalForms are common-script code-points which stand upright in
// vertical text: CJK symbols and punctuation, radicals, enclosed and
// compatibility characters, vertical forms, and full-width forms.
var verticalForms = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2e80, Hi: 0x2fdf, Stride: 1},
		{Lo: 0x3000, Hi: 0x303f, Stride: 1},
		{Lo: 0x3200, Hi: 0x33ff, Stride: 1},
		{Lo: 0xfe10, Hi: 0xfe1f, Stride: 1},
		{Lo: 0xfe30, Hi: 0xfe4f, Stride: 1},
		{Lo: 0xff01, Hi: 0xff60, Stride: 1},
		{Lo: 0xffe0, Hi: 0xffe6, Stride: 1},
	},
}

// isVerticalNative is true for code-points set upright in mixed orientation.
func isVerticalNative(r rune) bool {
	if unicode.Is(verticalForms, r) {
		return true
	}
	scr := bidirun.ScriptOf(r)
	for _, s := range verticalScripts {
		if scr == s {
			return true
		}
	}
	return false
}
