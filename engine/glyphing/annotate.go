package glyphing

import (
	"unicode"
	"unicode/utf8"
)

// Class is a coarse character class of a glyph, as far as line breaking and
// justification are concerned.
type Class uint8

// Glyph classes.
const (
	Letter Class = iota
	Space
	Punctuation
	Digit
	Combining
	Ideographic
	ObjectClass
	Control
	Other
)

var classNames = [...]string{"Letter", "Space", "Punctuation", "Digit", "Combining",
	"Ideographic", "Object", "Control", "Other"}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "?"
}

// ClassOf classifies a code-point.
func ClassOf(r rune) Class {
	switch {
	case r == 0xfffc:
		return ObjectClass
	case r == '\t' || unicode.Is(unicode.Zs, r):
		return Space
	case r < 0x20 || r == 0x7f || r == 0x2028 || r == 0x2029 || unicode.Is(unicode.Cf, r):
		return Control
	case unicode.In(r, unicode.Mn, unicode.Me):
		return Combining
	case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul):
		return Ideographic
	case unicode.IsLetter(r):
		return Letter
	case unicode.IsDigit(r):
		return Digit
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return Punctuation
	}
	return Other
}

// JustifyPriorityOf returns the justification priority of a glyph class:
// 0 for glyphs never receiving slack, 1 for inter-word opportunities and 2
// for inter-character opportunities.
func JustifyPriorityOf(c Class) int {
	switch c {
	case Space:
		return 1
	case Letter, Digit, Punctuation, Ideographic, ObjectClass, Other:
		return 2
	}
	return 0
}

// Annotate completes glyphs produced by a shaping backend. text is the text
// given to the shaper, offset its byte position within the paragraph.
//
// Glyphs must be in logical order. Annotate converts glyph clusters to
// paragraph positions and assigns logical byte spans: the first glyph of a
// cluster spans the cluster's bytes, further glyphs of the same cluster get
// an empty span at the cluster's end. Code-point, class, whitespace flag and
// justification priority are derived from the cluster's first code-point.
// Soft hyphens are given zero advance.
func Annotate(glyphs []ShapedGlyph, text string, offset int, style *Style) {
	for i := 0; i < len(glyphs); {
		c := glyphs[i].Cluster
		j := i + 1
		for j < len(glyphs) && glyphs[j].Cluster == c {
			j++
		}
		end := len(text)
		if j < len(glyphs) && glyphs[j].Cluster > c {
			end = glyphs[j].Cluster
		}
		r, _ := utf8.DecodeRuneInString(text[clamp(c, len(text)):])
		for k := i; k < j; k++ {
			g := &glyphs[k]
			if k == i {
				g.Span = Span{offset + c, offset + end}
			} else {
				g.Span = Span{offset + end, offset + end}
			}
			g.Cluster = offset + c
			g.CodePoint = r
			g.Class = ClassOf(r)
			g.IsWhitespace = g.Class == Space
			g.JustifyPriority = JustifyPriorityOf(g.Class)
			if k > i && g.Class != Combining {
				g.JustifyPriority = 0 // only the cluster's first glyph takes slack
			}
			if r == 0x00ad {
				g.XAdvance, g.YAdvance = 0, 0
			}
			if style != nil {
				g.Style = style
				g.Size = style.Size
				if style.LetterSpacing != 0 && k == j-1 && g.Class != Combining && g.Class != Control {
					g.XAdvance += style.LetterSpacing
				}
			}
		}
		i = j
	}
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}
