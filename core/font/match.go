package font

import (
	"path"
	"strings"

	xfont "golang.org/x/image/font"
)

// NormalizeFontname creates a canonical key from a family name, style and weight,
// e.g. "Clarendon", italic, bold => "clarendon-italic-bold".
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	switch style {
	case xfont.StyleItalic, xfont.StyleOblique:
		fname += "-italic"
	}
	switch weight {
	case xfont.WeightLight, xfont.WeightExtraLight, xfont.WeightThin:
		fname += "-light"
	case xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightSemiBold, xfont.WeightBlack:
		fname += "-bold"
	}
	return fname
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") || strings.Contains(fontfilename, "oblique") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}

// GuessFamily derives a family name from a font's file name, stripping
// style and weight indicators: "fonts/GentiumPlus-R.ttf" => "gentiumplus".
func GuessFamily(fontfilename string) string {
	base := path.Base(fontfilename)
	base = strings.ToLower(base[:len(base)-len(path.Ext(base))])
	if i := strings.Index(base, "-"); i > 0 {
		base = base[:i]
	}
	for _, suffix := range []string{" bold", " italic", " oblique", " light", " regular"} {
		for strings.Contains(base, suffix) {
			base = strings.Replace(base, suffix, "", 1)
		}
	}
	return strings.TrimSpace(base)
}

// Matches returns true if a font's filename contains pattern and indicators
// for a given style and weight.
func Matches(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) bool {
	basename := path.Base(fontfilename)
	basename = basename[:len(basename)-len(path.Ext(basename))]
	basename = strings.ToLower(basename)
	if !strings.Contains(basename, strings.ToLower(pattern)) {
		return false
	}
	s, w := GuessStyleAndWeight(basename)
	return s == style && w == weight
}

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

const (
	NoConfidence      MatchConfidence = 0
	LowConfidence     MatchConfidence = 2
	HighConfidence    MatchConfidence = 3
	PerfectConfidence MatchConfidence = 4
)

// MatchStyle rates how well a font style serves a requested style.
func MatchStyle(have, want xfont.Style) MatchConfidence {
	if have == want {
		return PerfectConfidence
	}
	switch want {
	case xfont.StyleItalic, xfont.StyleOblique:
		if have == xfont.StyleItalic || have == xfont.StyleOblique {
			return HighConfidence
		}
		return LowConfidence
	}
	return NoConfidence
}

// MatchWeight rates how well a font weight serves a requested weight.
// Weights follow golang.org/x/image/font, i.e. WeightNormal = 0 ≙ CSS 400.
func MatchWeight(have, want xfont.Weight) MatchConfidence {
	d := int(have) - int(want)
	if d < 0 {
		d = -d
	}
	switch d {
	case 0:
		return PerfectConfidence
	case 1:
		return HighConfidence
	case 2, 3:
		return LowConfidence
	}
	return NoConfidence
}

// MatchRef rates a candidate font against a requested font reference.
// A family mismatch always yields NoConfidence.
func MatchRef(candidate, want Ref) MatchConfidence {
	cf := strings.ToLower(strings.TrimSpace(candidate.Family))
	wf := strings.ToLower(strings.TrimSpace(want.Family))
	if cf != wf && !strings.HasPrefix(cf, wf+" ") {
		return NoConfidence
	}
	s := MatchStyle(candidate.Style, want.Style)
	w := MatchWeight(candidate.Weight, want.Weight)
	if s == NoConfidence && w == NoConfidence {
		return LowConfidence // still the right family
	}
	c := (s + w) / 2
	if cf != wf { // sub-family, e.g. "Go Mono" for "Go"
		c--
	}
	if c < LowConfidence {
		c = LowConfidence
	}
	return c
}
