/*
Package justify distributes the slack of a line among its glyphs.

Slack is the difference between the width available for a line segment and
the width of its glyphs, not counting whitespace hanging at the end. It is
distributed in closed form: every receiving glyph gets an equal share, so
that the justified glyphs exactly fill the target width.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package justify

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textflow/engine/glyphing"
)

// tracer traces with key 'textflow.layout'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.layout")
}

// Mode is a justification mode.
type Mode uint8

// Justification modes. InterWord puts slack after whitespace and other
// break opportunities, InterCharacter after every justifiable glyph,
// Distribute additionally in front of the first glyph.
const (
	None Mode = iota
	InterWord
	InterCharacter
	Distribute
)

func (m Mode) String() string {
	switch m {
	case InterWord:
		return "inter-word"
	case InterCharacter:
		return "inter-character"
	case Distribute:
		return "distribute"
	}
	return "none"
}

// Options control justification.
type Options struct {
	Mode            Mode
	JustifyLastLine bool // justify the last line of a paragraph, too
	Vertical        bool // distribute along vertical advances
}

// Result is a justified sequence of glyphs. Lead is the space in front of the
// first glyph. Added is the slack distributed, including Lead.
type Result struct {
	Glyphs []glyphing.ShapedGlyph
	Lead   float64
	Added  float64
	Mode   Mode // mode applied, None if the glyphs are unchanged
}

func (r Result) String() string {
	return fmt.Sprintf("justified(%s, +%.3f, lead=%.3f)", r.Mode, r.Added, r.Lead)
}

// Segment justifies the glyphs of a line segment to the target width.
// The glyphs are not modified; the result holds a copy with adjusted
// advances. Segments of a paragraph's last line, overfull segments and
// segments without suitable glyphs are left unchanged.
//
// Combining marks never receive slack, neither does whitespace hanging at
// the end of the segment.
func Segment(glyphs []glyphing.ShapedGlyph, target float64, last bool, opts Options) Result {
	r := Result{Glyphs: glyphs}
	if opts.Mode == None || (last && !opts.JustifyLastLine) {
		return r
	}
	end := contentEnd(glyphs)
	slack := target - glyphing.Width(glyphs[:end], opts.Vertical)
	if end == 0 || slack <= 0 {
		return r
	}
	mode := opts.Mode
	var receivers []int
	switch mode {
	case Distribute:
		receivers = distributeReceivers(glyphs[:end])
	case InterCharacter:
		if receivers = characterReceivers(glyphs[:end]); len(receivers) == 0 {
			mode = InterWord
			receivers = wordReceivers(glyphs[:end])
		}
	default:
		receivers = wordReceivers(glyphs[:end])
	}
	if len(receivers) == 0 {
		tracer().Debugf("justify: no glyph to take slack %.3f in %s mode", slack, opts.Mode)
		return r
	}
	gaps := len(receivers)
	if mode == Distribute {
		gaps++ // leading edge
	}
	share := slack / float64(gaps)
	r.Glyphs = make([]glyphing.ShapedGlyph, len(glyphs))
	copy(r.Glyphs, glyphs)
	for _, i := range receivers {
		widen(&r.Glyphs[i], share, opts.Vertical)
	}
	if mode == Distribute {
		r.Lead = share
	}
	r.Added = slack
	r.Mode = mode
	return r
}

// contentEnd returns the number of glyphs not counting hanging whitespace and
// control glyphs at the end.
func contentEnd(glyphs []glyphing.ShapedGlyph) int {
	end := len(glyphs)
	for end > 0 {
		g := glyphs[end-1]
		if !g.IsWhitespace && g.Class != glyphing.Control {
			break
		}
		end--
	}
	return end
}

// wordReceivers are whitespace glyphs and glyphs followed by a break
// opportunity, except the last glyph.
func wordReceivers(glyphs []glyphing.ShapedGlyph) []int {
	var r []int
	for i, g := range glyphs[:len(glyphs)-1] {
		if g.Class == glyphing.Combining {
			continue
		}
		if g.IsWhitespace || g.BreakAfter {
			r = append(r, i)
		}
	}
	return r
}

// characterReceivers are justifiable glyphs which are not followed by a
// combining mark, except the last glyph.
func characterReceivers(glyphs []glyphing.ShapedGlyph) []int {
	var r []int
	for i, g := range glyphs[:len(glyphs)-1] {
		next := glyphs[i+1]
		if g.JustifyPriority == 0 || g.Class == glyphing.Combining {
			continue
		}
		if next.Class == glyphing.Combining || (next.Source == glyphing.Char && next.Span.IsEmpty()) {
			continue
		}
		r = append(r, i)
	}
	return r
}

// distributeReceivers are all glyphs except combining marks.
func distributeReceivers(glyphs []glyphing.ShapedGlyph) []int {
	var r []int
	for i, g := range glyphs {
		if g.Class != glyphing.Combining {
			r = append(r, i)
		}
	}
	return r
}

func widen(g *glyphing.ShapedGlyph, d float64, vertical bool) {
	if vertical && g.Orientation != glyphing.Sideways {
		if g.HasVertical {
			g.VAdvance += d
		} else {
			g.YAdvance += d
		}
		return
	}
	g.XAdvance += d
}
