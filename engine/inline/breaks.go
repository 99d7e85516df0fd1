package inline

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/uax"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax14"
	"github.com/rivo/uniseg"
)

// GraphemeBoundaries returns the byte positions of all grapheme cluster
// boundaries of s, including 0 and len(s).
func GraphemeBoundaries(s string) []int {
	bounds := []int{0}
	if s == "" {
		return bounds
	}
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		_, to := g.Positions()
		bounds = append(bounds, to)
	}
	return bounds
}

// UAX14Breaks returns the positions of line break opportunities of s as
// found by the UAX #14 line breaking algorithm. Position len(s) is never
// included.
func UAX14Breaks(s string) []int {
	if s == "" {
		return nil
	}
	seg := segment.NewSegmenter(uax14.NewLineWrap())
	seg.Init(strings.NewReader(s))
	var breaks []int
	pos := 0
	for seg.Next() {
		pos += len(seg.Text())
		p1, _ := seg.Penalties()
		if p1 < uax.InfinitePenalty && pos > 0 && pos < len(s) {
			breaks = append(breaks, pos)
		}
	}
	return breaks
}

// isMandatoryBreak is true for characters after which a line must end.
func isMandatoryBreak(s string, pos int, r rune) bool {
	switch r {
	case '\n', '\v', '\f', 0x85, LineSeparator, 0x2029:
		return true
	case '\r':
		return pos+1 >= len(s) || s[pos+1] != '\n'
	}
	return false
}

// isBreakingSpace is true for spaces a line may be broken after.
// No-break spaces are excluded.
func isBreakingSpace(r rune) bool {
	if r == 0x00a0 || r == 0x2007 || r == 0x202f {
		return false
	}
	return glyphing.ClassOf(r) == glyphing.Space
}

func (c *Content) findBreaks() []Break {
	text := c.Text
	opps := make(map[int]bool) // position → mandatory
	add := func(pos int, mandatory bool) {
		opps[pos] = opps[pos] || mandatory
	}
	for _, pos := range UAX14Breaks(text) {
		add(pos, false)
	}
	for pos, r := range text {
		next := pos + utf8.RuneLen(r)
		if next >= len(text) {
			break
		}
		switch {
		case isMandatoryBreak(text, pos, r):
			add(next, true)
		case r == 0x00ad:
			add(next, false)
		case r == ObjectReplacement:
			if obj, ok := c.ObjectAt(pos); ok && obj.Kind == SpaceItem {
				add(next, false)
			}
		case isBreakingSpace(r):
			if following, _ := utf8.DecodeRuneInString(text[next:]); !isBreakingSpace(following) {
				add(next, false)
			}
		}
	}
	var breaks []Break
	for pos, mandatory := range opps {
		if !c.IsBoundary(pos) {
			tracer().Debugf("inline: dropping break opportunity inside grapheme at %d", pos)
			continue
		}
		breaks = append(breaks, Break{Position: pos, Mandatory: mandatory})
	}
	sort.Slice(breaks, func(i, j int) bool { return breaks[i].Position < breaks[j].Position })
	return breaks
}
