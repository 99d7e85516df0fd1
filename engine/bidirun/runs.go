package bidirun

import (
	"unicode/utf8"

	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/engine/glyphing"
	"golang.org/x/text/language"
)

// StyledRun is a run of text with a single style, as supplied by clients.
// Start is the byte position of the run within the paragraph text.
type StyledRun struct {
	Text         string
	Style        *glyphing.Style
	Start        int
	ContentIndex int // index of the inline content item the run stems from
}

// End returns the byte position after the run.
func (r StyledRun) End() int {
	return r.Start + len(r.Text)
}

// VisualRun is a run of text with a single style and a single embedding
// level. Visual runs are produced in visual order, but their text is in
// logical order and Start is the run's logical byte position.
type VisualRun struct {
	Text         string
	Style        *glyphing.Style
	Start        int
	Level        uint8
	Script       language.Script
	Language     language.Tag
	RunIndex     int // index of the styled run this run is a part of
	ContentIndex int
}

// End returns the logical byte position after the run.
func (r VisualRun) End() int {
	return r.Start + len(r.Text)
}

// IsRTL is true for runs at odd embedding levels.
func (r VisualRun) IsRTL() bool {
	return r.Level%2 == 1
}

// Direction returns the horizontal direction of the run.
func (r VisualRun) Direction() glyphing.Direction {
	if r.IsRTL() {
		return glyphing.RightToLeft
	}
	return glyphing.LeftToRight
}

// Options control bidi resolution.
type Options struct {
	ForceDirection  bool              // use Direction instead of detecting it
	Direction       glyphing.Direction // paragraph direction, if forced
	Language        language.Tag      // forces the language of every run, if not Und
	DefaultLanguage language.Tag      // used if neither style nor script tell a language
}

// Result is the outcome of bidi resolution.
type Result struct {
	Runs      []VisualRun        // in visual order
	Direction glyphing.Direction // paragraph base direction
	Levels    []uint8            // embedding level per byte of the text
}

// LevelAt returns the embedding level of the character at byte position pos.
func (res Result) LevelAt(pos int) uint8 {
	if pos < 0 || pos >= len(res.Levels) {
		if res.Direction == glyphing.RightToLeft {
			return 1
		}
		return 0
	}
	return res.Levels[pos]
}

// Resolve runs the bidi algorithm over a paragraph and returns its visual
// runs. runs must tile text, i.e. follow each other without gaps, starting at
// position 0. If runs is empty, text is treated as a single run without style.
//
// Every byte of text is covered by exactly one visual run.
func Resolve(runs []StyledRun, text string, opts Options) (Result, error) {
	res := Result{Direction: glyphing.LeftToRight}
	if opts.ForceDirection {
		res.Direction = opts.Direction
	}
	if text == "" {
		return res, nil
	}
	if !utf8.ValidString(text) {
		return res, core.LayoutError(core.InvalidText, nil, "paragraph text is not valid UTF-8")
	}
	if len(runs) == 0 {
		runs = []StyledRun{{Text: text}}
	}
	if err := checkTiling(runs, text); err != nil {
		return res, err
	}
	levels, dir := Levels(text, opts)
	res.Direction = dir
	res.Levels = make([]uint8, len(text))
	k := 0
	for pos := range text {
		_, size := utf8.DecodeRuneInString(text[pos:])
		for b := pos; b < pos+size; b++ {
			res.Levels[b] = levels[k]
		}
		k++
	}
	logical := split(runs, text, res.Levels)
	runLevels := make([]uint8, len(logical))
	for i, r := range logical {
		runLevels[i] = r.Level
		detectScriptAndLanguage(&logical[i], opts)
	}
	order := ReorderIndices(runLevels)
	res.Runs = make([]VisualRun, len(logical))
	for v, l := range order {
		res.Runs[v] = logical[l]
	}
	tracer().Debugf("bidi: %d styled runs → %d visual runs, paragraph is %s",
		len(runs), len(res.Runs), res.Direction)
	return res, nil
}

func checkTiling(runs []StyledRun, text string) error {
	pos := 0
	for i, r := range runs {
		if r.Start != pos || r.End() > len(text) || text[r.Start:r.End()] != r.Text {
			return core.LayoutError(core.BidiError, nil,
				"styled run #%d [%d…%d) does not continue paragraph text at %d", i, r.Start, r.End(), pos)
		}
		pos = r.End()
	}
	if pos != len(text) {
		return core.LayoutError(core.BidiError, nil, "styled runs cover %d of %d bytes", pos, len(text))
	}
	return nil
}

// split partitions the text into maximal runs of equal level, split further
// at style run boundaries. Result is in logical order.
func split(runs []StyledRun, text string, levels []uint8) []VisualRun {
	var vruns []VisualRun
	for i, r := range runs {
		if r.Text == "" {
			continue
		}
		start := r.Start
		for pos := r.Start; pos <= r.End(); pos++ {
			if pos < r.End() && levels[pos] == levels[start] {
				continue
			}
			vruns = append(vruns, VisualRun{
				Text:         text[start:pos],
				Style:        r.Style,
				Start:        start,
				Level:        levels[start],
				RunIndex:     i,
				ContentIndex: r.ContentIndex,
			})
			start = pos
		}
	}
	return vruns
}
