package position

import (
	"strconv"
	"strings"

	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/engine/justify"
)

// WritingMode is the CSS writing mode of a paragraph.
type WritingMode uint8

// Writing modes. Vertical modes run lines top to bottom, except sideways-lr,
// which runs them bottom to top.
const (
	HorizontalTB WritingMode = iota
	VerticalRL
	VerticalLR
	SidewaysRL
	SidewaysLR
)

var writingModeNames = [...]string{"horizontal-tb", "vertical-rl", "vertical-lr", "sideways-rl", "sideways-lr"}

func (m WritingMode) String() string {
	if int(m) < len(writingModeNames) {
		return writingModeNames[m]
	}
	return "<unknown writing mode>"
}

// IsVertical is true for all modes but horizontal-tb.
func (m WritingMode) IsVertical() bool {
	return m != HorizontalTB
}

// IsSideways is true for sideways-rl and sideways-lr, which set every glyph
// sideways.
func (m WritingMode) IsSideways() bool {
	return m == SidewaysRL || m == SidewaysLR
}

// TextOrientation is the orientation of glyphs in vertical writing modes.
type TextOrientation uint8

// Mixed sets glyphs of vertical scripts upright and all others sideways.
const (
	Mixed TextOrientation = iota
	Upright
	Sideways
)

var orientationNames = [...]string{"mixed", "upright", "sideways"}

func (o TextOrientation) String() string {
	if int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return "<unknown orientation>"
}

// Align is the alignment of text along the inline axis.
type Align uint8

// Start and End are logical and depend on the base direction of a paragraph.
const (
	Start Align = iota
	End
	Left
	Right
	Center
	Justify
	JustifyAll
)

var alignNames = [...]string{"start", "end", "left", "right", "center", "justify", "justify-all"}

func (a Align) String() string {
	if int(a) < len(alignNames) {
		return alignNames[a]
	}
	return "<unknown alignment>"
}

// VerticalAlign positions inline objects relative to the baseline of a line.
type VerticalAlign uint8

// Vertical alignments of inline objects.
const (
	Baseline VerticalAlign = iota
	Top
	Middle
	Bottom
	TextTop
	TextBottom
	Sub
	Super
)

var valignNames = [...]string{"baseline", "top", "middle", "bottom", "text-top", "text-bottom", "sub", "super"}

func (va VerticalAlign) String() string {
	if int(va) < len(valignNames) {
		return valignNames[va]
	}
	return "<unknown vertical-align>"
}

// Overflow tells what to do with content not fitting the flow area.
type Overflow uint8

// Overflow modes. Break stops layout at the first line which does not fit.
const (
	Visible Overflow = iota
	Hidden
	Scroll
	Auto
	Break
)

var overflowNames = [...]string{"visible", "hidden", "scroll", "auto", "break"}

func (o Overflow) String() string {
	if int(o) < len(overflowNames) {
		return overflowNames[o]
	}
	return "<unknown overflow>"
}

// --- Parsing ---------------------------------------------------------------

func parseEnum(option, value string, names []string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for i, name := range names {
		if v == name {
			return i, nil
		}
	}
	return 0, core.LayoutError(core.InvalidText, nil, "unknown %s value %q", option, value)
}

// ParseWritingMode parses a CSS writing-mode value. Unknown values are
// reported as InvalidText errors, as are unknown values for the other Parse
// functions.
func ParseWritingMode(s string) (WritingMode, error) {
	i, err := parseEnum("writing_mode", s, writingModeNames[:])
	return WritingMode(i), err
}

// ParseTextOrientation parses a CSS text-orientation value.
func ParseTextOrientation(s string) (TextOrientation, error) {
	i, err := parseEnum("text_orientation", s, orientationNames[:])
	return TextOrientation(i), err
}

// ParseTextAlign parses a CSS text-align value.
func ParseTextAlign(s string) (Align, error) {
	i, err := parseEnum("text_align", s, alignNames[:])
	return Align(i), err
}

// ParseVerticalAlign parses a CSS vertical-align keyword.
func ParseVerticalAlign(s string) (VerticalAlign, error) {
	i, err := parseEnum("vertical_align", s, valignNames[:])
	return VerticalAlign(i), err
}

// ParseOverflow parses an overflow mode.
func ParseOverflow(s string) (Overflow, error) {
	i, err := parseEnum("overflow", s, overflowNames[:])
	return Overflow(i), err
}

// ParseJustifyContent parses a justification mode.
func ParseJustifyContent(s string) (justify.Mode, error) {
	names := []string{"none", "inter-word", "inter-character", "distribute"}
	i, err := parseEnum("justify_content", s, names)
	return justify.Mode(i), err
}

// MaxCombinedDigits is the largest number of digits text-combine-upright
// may set into a single upright cell.
const MaxCombinedDigits = 4

// ParseTextCombineUpright parses "none", "digits" or "digits <n>" and
// returns the maximum number of digits to combine, 0 for "none".
func ParseTextCombineUpright(s string) (int, error) {
	fields := strings.Fields(strings.ToLower(s))
	switch {
	case len(fields) == 0 || (len(fields) == 1 && fields[0] == "none"):
		return 0, nil
	case fields[0] != "digits" || len(fields) > 2:
		break
	case len(fields) == 1:
		return 2, nil
	default:
		if n, err := strconv.Atoi(fields[1]); err == nil && n >= 2 && n <= MaxCombinedDigits {
			return n, nil
		}
	}
	return 0, core.LayoutError(core.InvalidText, nil, "unknown text_combine_upright value %q", s)
}
