package bidirun

import (
	"github.com/benoitkugler/textlayout/fribidi"
	"github.com/npillmayer/textflow/engine/glyphing"
)

// classify returns the fribidi character types and bracket types of runes.
// Only neutrals may be brackets.
func classify(runes []rune) ([]fribidi.CharType, []fribidi.BracketType) {
	types := make([]fribidi.CharType, len(runes))
	brackets := make([]fribidi.BracketType, len(runes))
	for i, r := range runes {
		types[i] = fribidi.GetBidiType(r)
		if types[i] == fribidi.ON {
			brackets[i] = fribidi.GetBracket(r)
		}
	}
	return types, brackets
}

// parType translates options into a fribidi paragraph type. ON asks fribidi
// to find the direction from the first strong character.
func parType(opts Options) fribidi.ParType {
	if !opts.ForceDirection {
		return fribidi.ON
	}
	if opts.Direction == glyphing.RightToLeft {
		return fribidi.RTL
	}
	return fribidi.LTR
}

func direction(par fribidi.ParType) glyphing.Direction {
	if par.IsStrong() && par.IsRtl() {
		return glyphing.RightToLeft
	}
	return glyphing.LeftToRight
}

// BaseDirection finds the direction of a paragraph from its first strong
// character, ignoring isolated content. Text without strong characters is
// left-to-right.
func BaseDirection(text string) glyphing.Direction {
	_, dir := Levels(text, Options{})
	return dir
}

// Levels resolves the embedding levels of the runes of text (rules P2 to
// I2 and L1 of UAX #9, with the paragraph treated as a single line).
// Explicit formatting characters get the level of the character before
// them, so they do not influence reordering.
func Levels(text string, opts Options) ([]uint8, glyphing.Direction) {
	runes := []rune(text)
	par := parType(opts)
	if len(runes) == 0 {
		return nil, direction(par)
	}
	types, brackets := classify(runes)
	lv, _ := fribidi.GetParEmbeddingLevels(types, brackets, &par)
	levels := make([]uint8, len(lv))
	for i, l := range lv {
		levels[i] = uint8(l)
	}
	return levels, direction(par)
}

// ReorderIndices applies rule L2 of the bidi algorithm to a sequence of
// resolved levels: from the highest level down to the lowest odd level,
// every maximal sequence at that level or higher is reversed. It returns
// the logical index for every visual position.
//
// Levels are expected to be final, i.e. trailing whitespace has already
// been reset to the paragraph level.
func ReorderIndices(levels []uint8) []int {
	order := make([]int, len(levels))
	for i := range order {
		order[i] = i
	}
	if len(levels) == 0 {
		return order
	}
	lv := make([]fribidi.Level, len(levels))
	types := make([]fribidi.CharType, len(levels))
	for i, l := range levels {
		lv[i] = fribidi.Level(l)
		types[i] = fribidi.ON // keeps ReorderLine from resetting any levels
	}
	fribidi.ReorderLine(0, types, len(levels), 0, fribidi.LTR, lv, nil, order)
	return order
}
