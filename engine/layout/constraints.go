package layout

import (
	"strconv"
	"strings"

	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/dimen"
	"github.com/npillmayer/textflow/engine/flow"
	"github.com/npillmayer/textflow/engine/justify"
	"github.com/npillmayer/textflow/engine/position"
	"golang.org/x/text/language"
)

// Constraints tell the engine where and how to lay out a paragraph.
//
// Text flows into the shapes in Boundaries, around the shapes in
// Exclusions. Without boundaries, a rectangle of Width × Height at the
// origin is used; a Height ≤ 0 leaves the paragraph unbounded along the
// block axis in horizontal-tb, vertical-lr and sideways-lr modes.
// In vertical modes, lines run along the physical height.
//
// Use NewConstraints for a value with defaults set.
type Constraints struct {
	Width, Height       float64
	Boundaries          []flow.Shape
	Exclusions          []flow.Exclusion
	ExclusionMargin     float64 // added to the margin of every exclusion
	WritingMode         position.WritingMode
	TextOrientation     position.TextOrientation
	TextAlign           position.Align
	JustifyContent      justify.Mode
	LineHeight          float64 // 0 derives the line height from the font size
	VerticalAlign       position.VerticalAlign
	Overflow            position.Overflow
	TextCombineUpright  int // maximum number of digits to combine; 0 switches it off
	Hyphenation         bool
	HyphenationLanguage language.Tag // overrides the language of the text, if not Und
}

// NewConstraints creates constraints for a rectangle of w × h with default
// options: horizontal-tb, mixed orientation, start alignment, inter-word
// justification, baseline alignment and visible overflow.
func NewConstraints(w, h float64) *Constraints {
	return &Constraints{
		Width:          w,
		Height:         h,
		JustifyContent: justify.InterWord,
	}
}

// Set sets an option by its name, as used in style sheets and
// configuration files, e.g.
//
//	c.Set("writing_mode", "vertical-rl")
//	c.Set("line_height", "18pt")
//
// Lengths may carry a CSS unit and default to px. Unknown option names and
// invalid values are rejected with an error of kind core.InvalidText.
func (c *Constraints) Set(name, value string) error {
	var err error
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	switch key {
	case "width":
		c.Width, err = length(key, value)
	case "height":
		c.Height, err = length(key, value)
	case "writing_mode":
		c.WritingMode, err = position.ParseWritingMode(value)
	case "text_orientation":
		c.TextOrientation, err = position.ParseTextOrientation(value)
	case "text_align":
		c.TextAlign, err = position.ParseTextAlign(value)
	case "justify_content":
		c.JustifyContent, err = position.ParseJustifyContent(value)
	case "line_height":
		c.LineHeight, err = length(key, value)
	case "vertical_align":
		c.VerticalAlign, err = position.ParseVerticalAlign(value)
	case "overflow":
		c.Overflow, err = position.ParseOverflow(value)
	case "text_combine_upright":
		c.TextCombineUpright, err = position.ParseTextCombineUpright(value)
	case "exclusion_margin":
		c.ExclusionMargin, err = length(key, value)
	case "hyphenation":
		var on bool
		if on, err = strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return core.LayoutError(core.InvalidText, err, "option hyphenation: not a flag: %q", value)
		}
		c.Hyphenation = on
	case "hyphenation_language":
		value = strings.TrimSpace(value)
		if value == "" {
			c.HyphenationLanguage = language.Und
			return nil
		}
		var tag language.Tag
		if tag, err = language.Parse(value); err != nil {
			return core.LayoutError(core.InvalidText, err, "option hyphenation_language: %q", value)
		}
		c.HyphenationLanguage = tag
	default:
		return core.LayoutError(core.InvalidText, nil, "unknown layout option %q", name)
	}
	return err
}

func length(option, value string) (float64, error) {
	l, pcnt, err := dimen.ParseLength(value)
	if err != nil {
		return 0, core.LayoutError(core.InvalidText, err, "option %s: %q", option, value)
	}
	if pcnt || l < 0 {
		return 0, core.LayoutError(core.InvalidText, nil, "option %s: %q is not an absolute length", option, value)
	}
	return l, nil
}

// exclusions returns the exclusions with the global margin applied.
func (c *Constraints) exclusions() []flow.Exclusion {
	if c.ExclusionMargin == 0 {
		return c.Exclusions
	}
	excl := make([]flow.Exclusion, len(c.Exclusions))
	for i, ex := range c.Exclusions {
		excl[i] = flow.Exclusion{Shape: ex.Shape, Margin: ex.Margin + c.ExclusionMargin}
	}
	return excl
}
