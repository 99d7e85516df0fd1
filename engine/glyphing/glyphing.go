/*
Package glyphing defines shaped glyphs and the shaping capability.

Shaping converts a sequence of code-points into glyphs of a font. Shaping is
done by exchangeable backends, all of them implementing the Shaper interface:

	monospace   every grapheme occupies one (or two) cells of equal width
	sfntshape   one glyph per code-point, advances and kerning from the font's tables
	harfbuzz    full OpenType shaping with github.com/benoitkugler/textlayout
	gotext      full OpenType shaping with github.com/go-text/typesetting

Backends produce glyphs in logical order, i.e. in the order of the input
text, regardless of text direction. Glyphs carry the byte offset of their
cluster within the shaped text; Annotate turns these into logical byte spans
and classifies glyphs for line breaking and justification.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphing

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textflow/core/font"
	"golang.org/x/text/language"
)

// tracer traces with key 'textflow.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.glyphs")
}

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in.
const (
	LeftToRight Direction = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

func (d Direction) String() string {
	switch d {
	case RightToLeft:
		return "rtl"
	case TopToBottom:
		return "ttb"
	case BottomToTop:
		return "btt"
	}
	return "ltr"
}

// IsVertical is true for top-to-bottom and bottom-to-top.
func (d Direction) IsVertical() bool {
	return d == TopToBottom || d == BottomToTop
}

// Style holds the properties of a run of text relevant for shaping.
// Styles are immutable once handed to the layout engine and are compared by
// pointer identity.
type Style struct {
	Font          font.Ref
	Size          float64        // font size in px
	Language      language.Tag   // language.Und lets the engine infer the language
	Features      []FeatureRange // OpenType features to switch on or off
	LetterSpacing float64        // extra space after each glyph, in px
}

func (s *Style) String() string {
	if s == nil {
		return "<no style>"
	}
	return fmt.Sprintf("%s@%.1fpx", s.Font, s.Size)
}

// FeatureRange tells a shaper to turn a certain OpenType feature on or off for a
// range of the shaped text.
type FeatureRange struct {
	Feature    string // 4-letter feature tag, e.g. "liga"
	Arg        int    // optional argument for this feature
	On         bool   // turn it on or off?
	Start, End int    // byte positions of the range, End = 0 denotes 'to the end'
}

// Source tells where a glyph originates from.
type Source uint8

// Glyphs are either shaped from characters of the text, are synthesized
// hyphens, or stand in for inline objects.
const (
	Char Source = iota
	Hyphen
	Object
)

func (s Source) String() string {
	switch s {
	case Hyphen:
		return "Hyphen"
	case Object:
		return "Object"
	}
	return "Char"
}

// Orientation is the orientation of a glyph in vertical writing modes.
type Orientation uint8

// Horizontal is used for horizontal writing modes. In vertical modes glyphs
// are either set upright, rotated sideways, or combined upright (tate-chu-yoko).
const (
	Horizontal Orientation = iota
	Upright
	Sideways
	Combined
)

func (o Orientation) String() string {
	switch o {
	case Upright:
		return "upright"
	case Sideways:
		return "sideways"
	case Combined:
		return "combined"
	}
	return "horizontal"
}

// Span is a range of bytes [Start…End) of the logical paragraph text.
type Span struct {
	Start, End int
}

// Len returns the number of bytes of a span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty is true for zero-length spans.
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Contains checks if a byte position is part of s.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// ShapedGlyph is a glyph as produced by shaping, enriched with everything later
// pipeline stages need to know about it. Dimensions are in pixels.
type ShapedGlyph struct {
	GID                font.GlyphIndex
	XAdvance, YAdvance float64
	XOffset, YOffset   float64
	// vertical metrics, set for vertical writing modes
	VAdvance           float64
	VOriginX, VOriginY float64
	HasVertical        bool
	Span               Span // logical byte span within the paragraph text
	Cluster            int  // byte position of the glyph's cluster; local to the shaped text for backends
	CodePoint          rune // first code-point of the cluster
	Source             Source
	IsWhitespace       bool
	BreakAfter         bool // a line break opportunity follows this glyph
	MandatoryBreak     bool // a line break is required after this glyph
	Class              Class
	JustifyPriority    int // 0: never receives slack, 1: inter-word, 2: inter-character
	Orientation        Orientation
	Level              uint8 // bidi embedding level
	Face               font.Face
	Size               float64
	Style              *Style
	ContentIndex       int // index of the inline content item this glyph stems from
}

func (g ShapedGlyph) String() string {
	return fmt.Sprintf("(GID=%d %q adv=%.2f span=[%d,%d) %s)", g.GID, g.CodePoint,
		g.XAdvance, g.Span.Start, g.Span.End, g.Source)
}

// Advance returns the glyph's advance along the inline axis.
func (g ShapedGlyph) Advance(vertical bool) float64 {
	if vertical && g.Orientation != Sideways {
		if g.HasVertical {
			return g.VAdvance
		}
		return g.YAdvance
	}
	return g.XAdvance
}

// Params collects shaping parameters.
type Params struct {
	Size      float64         // font size in px
	Direction Direction       // writing direction
	Script    language.Script // 4-letter ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
	Features  []FeatureRange  // OpenType features to apply
}

// A Shaper creates a sequence of glyphs from a text, using a given face.
//
// Resulting glyphs are in logical order, carry glyph index, advances and
// offsets, and the byte position of their cluster within text (field
// Cluster). All other fields are left to the caller; see Annotate.
// Shapers must be safe for concurrent use.
type Shaper interface {
	Shape(text string, face font.Face, params Params) ([]ShapedGlyph, error)
}

// ShaperFunc adapts a function to the Shaper interface.
type ShaperFunc func(text string, face font.Face, params Params) ([]ShapedGlyph, error)

// Shape calls f.
func (f ShaperFunc) Shape(text string, face font.Face, params Params) ([]ShapedGlyph, error) {
	return f(text, face, params)
}

// Reverse reverses a slice of glyphs in place.
func Reverse(glyphs []ShapedGlyph) {
	for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
		glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
	}
}

// ToLogical puts glyphs of a shaper's output into logical order. Shaping
// libraries report right-to-left glyphs in visual order, with decreasing
// clusters.
func ToLogical(glyphs []ShapedGlyph) []ShapedGlyph {
	if n := len(glyphs); n > 1 && glyphs[0].Cluster > glyphs[n-1].Cluster {
		Reverse(glyphs)
	}
	return glyphs
}

// Width sums up the advances of a sequence of glyphs along the inline axis.
func Width(glyphs []ShapedGlyph, vertical bool) float64 {
	w := 0.0
	for _, g := range glyphs {
		w += g.Advance(vertical)
	}
	return w
}
