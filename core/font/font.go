package font

import (
	"fmt"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Ref is an abstract font descriptor: family, style and weight.
// Refs are immutable values and may be used as map keys.
type Ref struct {
	Family string
	Style  xfont.Style
	Weight xfont.Weight
}

// Regular returns a reference to the regular variant of a font family.
func Regular(family string) Ref {
	return Ref{Family: family, Style: xfont.StyleNormal, Weight: xfont.WeightNormal}
}

func (r Ref) String() string {
	return NormalizeFontname(r.Family, r.Style, r.Weight)
}

// GlyphIndex is the index of a glyph within a font. Index 0 is '.notdef'.
type GlyphIndex uint16

// Metrics are a face's vertical font metrics, scaled to a font size and
// measured in pixels. Ascent and Descent are both positive.
type Metrics struct {
	Ascent, Descent, LineGap float64
	XHeight                  float64
	HasVertical              bool // face carries vertical metrics (vhea/vmtx)
}

// Height returns the height of the font's em-box plus line gap.
func (m Metrics) Height() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// Face is a parsed font, i.e. what a Loader produces from font bytes.
// Faces report glyph coverage and metrics; shaping itself is done by a
// separate shaping backend.
//
// Implementations must be safe for concurrent use.
type Face interface {
	Name() string
	Binary() []byte // raw font data, for shapers which parse fonts on their own
	Index() int     // index of the face within a font collection
	HasGlyph(r rune) bool
	GlyphIndex(r rune) GlyphIndex
	Advance(gid GlyphIndex, size float64) float64
	VerticalAdvance(gid GlyphIndex, size float64) (float64, bool)
	Kern(left, right GlyphIndex, size float64) float64
	Metrics(size float64) Metrics
}

// Loader loads and parses font data. index selects a font within a font
// collection and is 0 for single fonts.
type Loader interface {
	Load(data []byte, index int) (Face, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(data []byte, index int) (Face, error)

// Load calls f(data, index).
func (f LoaderFunc) Load(data []byte, index int) (Face, error) {
	return f(data, index)
}

// Covers returns true if face has glyphs for every rune of s, not counting
// control characters and default-ignorables.
func Covers(face Face, s string) bool {
	if face == nil {
		return false
	}
	for _, r := range s {
		if IsIgnorable(r) {
			continue
		}
		if !face.HasGlyph(r) {
			return false
		}
	}
	return true
}

// IsIgnorable returns true for code-points which never need a glyph of their own.
func IsIgnorable(r rune) bool {
	switch {
	case r < 0x20, r == 0x7f:
		return true
	case r == 0x00ad, r == 0x200b, r == 0x200c, r == 0x200d, r == 0x2060, r == 0xfeff:
		return true
	case r >= 0x200e && r <= 0x200f, r >= 0x202a && r <= 0x202e, r >= 0x2066 && r <= 0x2069:
		return true
	case r == 0x2028, r == 0x2029, r == 0xfffc:
		return true
	}
	return false
}

// --- Fallback font ---------------------------------------------------------

// FallbackFace returns a face to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFace() Face {
	fallbackFontLoading.Do(func() {
		fallbackFace = mustLoadPackaged("Go Sans", goregular.TTF)
	})
	return fallbackFace
}

// MonospaceFallbackFace returns Go Mono, which is always present.
func MonospaceFallbackFace() Face {
	monoFontLoading.Do(func() {
		monoFace = mustLoadPackaged("Go Mono", gomono.TTF)
	})
	return monoFace
}

var fallbackFontLoading, monoFontLoading sync.Once

var fallbackFace, monoFace Face

func mustLoadPackaged(name string, data []byte) Face {
	f, err := SFNTLoader{}.Load(data, 0)
	if err != nil {
		panic(fmt.Sprintf("cannot load packaged font %s", name)) // this cannot happen
	}
	tracer().Debugf("loaded packaged font %s", f.Name())
	return f
}
