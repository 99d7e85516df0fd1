package linebreak

import (
	"fmt"
	"unicode"

	"github.com/npillmayer/textflow/core/hyphenation"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/rivo/uniseg"
	"golang.org/x/text/language"
)

// tolerance for width comparisons, in px
const tolerance = 1e-9

// HyphenFunc creates a synthetic hyphen glyph for a style, to be placed at
// logical position at.
type HyphenFunc func(style *glyphing.Style, at int) (glyphing.ShapedGlyph, error)

// Options configure a Breaker.
type Options struct {
	Hyphenator      hyphenation.Hyphenator // nil switches hyphenation off
	Language        language.Tag           // forced hyphenation language, or Und
	DefaultLanguage language.Tag           // for glyphs without a style language
	Hyphen          HyphenFunc             // required for hyphenation and soft hyphens
	IsBoundary      func(pos int) bool     // grapheme boundary test; nil accepts every position
	Vertical        bool                   // measure vertical advances
}

// SegmentGlyphs are the glyphs set into one segment of a line, in logical
// order. Width excludes hanging whitespace at the end.
type SegmentGlyphs struct {
	Index  int
	Glyphs []glyphing.ShapedGlyph
	Width  float64
}

// Line is a line produced by the breaker. Start and End delimit the glyphs
// of the paragraph consumed by the line, including skipped leading
// whitespace.
type Line struct {
	Segments   []SegmentGlyphs
	Start, End int
	Hyphenated bool // a segment ends with a synthetic hyphen
	Forced     bool // a segment is broken without a break opportunity
	Mandatory  bool // ends at a mandatory break
	IsLast     bool
}

// Glyphs returns all glyphs of a line, segment after segment.
func (l Line) Glyphs() []glyphing.ShapedGlyph {
	var glyphs []glyphing.ShapedGlyph
	for _, s := range l.Segments {
		glyphs = append(glyphs, s.Glyphs...)
	}
	return glyphs
}

func (l Line) String() string {
	return fmt.Sprintf("line[%d…%d) segs=%d hyph=%v forced=%v", l.Start, l.End,
		len(l.Segments), l.Hyphenated, l.Forced)
}

// Breaker is a greedy first-fit line breaker over a paragraph of glyphs.
// Glyphs have to be in logical order and carry break flags (see MarkBreaks).
// A Breaker is not safe for concurrent use.
type Breaker struct {
	glyphs []glyphing.ShapedGlyph
	text   string // paragraph text
	opts   Options
	cursor int
}

// New creates a breaker for the glyphs of a paragraph with text.
func New(glyphs []glyphing.ShapedGlyph, text string, opts Options) *Breaker {
	if opts.IsBoundary == nil {
		opts.IsBoundary = func(int) bool { return true }
	}
	return &Breaker{glyphs: glyphs, text: text, opts: opts}
}

// Cursor returns the index of the next glyph to be set.
func (b *Breaker) Cursor() int {
	return b.cursor
}

// Done is true if all glyphs have been set.
func (b *Breaker) Done() bool {
	return b.cursor >= len(b.glyphs)
}

// MarkBreaks sets the break flags of glyphs in logical order. isBreak
// reports whether a break opportunity exists at a logical position and
// whether it is mandatory. A glyph is flagged if the glyph following it
// starts at a break opportunity.
func MarkBreaks(glyphs []glyphing.ShapedGlyph, isBreak func(pos int) (ok, mandatory bool)) {
	for i := 0; i+1 < len(glyphs); i++ {
		next := glyphs[i+1]
		if next.Span.IsEmpty() {
			continue
		}
		if ok, mandatory := isBreak(next.Span.Start); ok {
			glyphs[i].BreakAfter = true
			glyphs[i].MandatoryBreak = mandatory
		}
	}
}

// Next sets the next line into segments of the given widths. Segments are
// filled in order; a segment is closed at its last break opportunity, at a
// hyphen or at a forced break, and setting continues with the next segment.
// A word which fits none of the remaining segments ends the line, even if
// later lines would offer room for it. If no segments are given, the line is
// set into a single segment of zero width, which forces a break after the
// first glyph.
//
// Next returns false if all glyphs have been set.
func (b *Breaker) Next(segments []float64) (Line, bool) {
	n := len(b.glyphs)
	if b.cursor >= n {
		return Line{}, false
	}
	if len(segments) == 0 {
		segments = []float64{0}
	}
	line := Line{Start: b.cursor}
	pos := b.cursor
	hasContent, midWord := false, false
	for j, width := range segments {
		pos = b.skipWhitespace(pos)
		if pos >= n {
			break
		}
		r := b.fill(pos, width)
		switch r.kind {
		case filledAll, brokeAtOpportunity, mandatoryBreak:
			line.add(j, b.glyphs[pos:r.end], r.hyphen, r.width)
			midWord = false
			line.Mandatory = r.kind == mandatoryBreak
			hasContent = hasContent || r.end > pos
			pos = r.end
		case overflow:
			if b.fitsLater(pos, segments[j+1:]) {
				line.add(j, nil, nil, 0)
				continue
			}
			if hasContent && !midWord {
				tracer().Debugf("linebreak: word at %d fits no remaining segment", pos)
				b.finish(&line, pos)
				return line, true
			}
			end, hyphen := b.hyphenate(pos, r.overflowAt, width)
			forced := end == pos
			if forced {
				end = b.force(pos, r.overflowAt)
			}
			w := glyphing.Width(b.glyphs[pos:end], b.opts.Vertical)
			if hyphen != nil {
				w += hyphen.Advance(b.opts.Vertical)
			}
			if hasContent && w > width+tolerance { // no room for a fragment
				b.finish(&line, pos)
				return line, true
			}
			line.Forced = line.Forced || forced
			line.add(j, b.glyphs[pos:end], hyphen, w)
			hasContent, midWord = true, true
			pos = end
			continue // the rest of the word goes to the next segment
		}
		if r.kind != brokeAtOpportunity {
			break
		}
	}
	if pos == b.cursor { // nothing set, e.g. a zero-width segment
		end := b.force(pos, pos)
		line.add(0, b.glyphs[pos:end], nil, glyphing.Width(b.glyphs[pos:end], b.opts.Vertical))
		line.Forced = true
		pos = end
	}
	b.finish(&line, pos)
	return line, true
}

// finish closes a line ending at glyph position pos and advances the cursor.
func (b *Breaker) finish(line *Line, pos int) {
	b.cursor = pos
	line.End = pos
	line.IsLast = pos >= len(b.glyphs)
	tracer().Debugf("linebreak: %v", line)
}

func (l *Line) add(index int, glyphs []glyphing.ShapedGlyph, hyphen *glyphing.ShapedGlyph, width float64) {
	seg := SegmentGlyphs{Index: index, Width: width}
	if hyphen != nil {
		seg.Glyphs = append(glyphs[:len(glyphs):len(glyphs)], *hyphen)
		l.Hyphenated = true
	} else {
		seg.Glyphs = glyphs
	}
	l.Segments = append(l.Segments, seg)
}

func (b *Breaker) skipWhitespace(pos int) int {
	for pos < len(b.glyphs) && b.glyphs[pos].IsWhitespace && !b.glyphs[pos].MandatoryBreak {
		pos++
	}
	return pos
}

// boundary is true if a line may start with glyph i.
func (b *Breaker) boundary(i int) bool {
	if i <= 0 || i >= len(b.glyphs) {
		return true
	}
	g := b.glyphs[i]
	if g.Source == glyphing.Char && g.Span.IsEmpty() { // further glyph of a cluster
		return false
	}
	return b.opts.IsBoundary(g.Span.Start)
}

type fillKind uint8

const (
	filledAll fillKind = iota
	brokeAtOpportunity
	mandatoryBreak
	overflow
)

type fillResult struct {
	kind       fillKind
	end        int
	width      float64
	hyphen     *glyphing.ShapedGlyph
	overflowAt int
}

// fill sets glyphs from start into a segment of width w.
func (b *Breaker) fill(start int, w float64) fillResult {
	n := len(b.glyphs)
	width, pending := 0.0, 0.0
	opp := fillResult{kind: overflow}
	for i := start; i < n; i++ {
		g := &b.glyphs[i]
		adv := g.Advance(b.opts.Vertical)
		if g.IsWhitespace || g.MandatoryBreak || g.Class == glyphing.Control {
			pending += adv
		} else {
			if width+pending+adv > w+tolerance {
				if opp.end > start {
					opp.kind = brokeAtOpportunity
					return opp
				}
				return fillResult{kind: overflow, overflowAt: i, end: start}
			}
			width += pending + adv
			pending = 0
		}
		if g.MandatoryBreak {
			return fillResult{kind: mandatoryBreak, end: i + 1, width: width}
		}
		if g.BreakAfter && i+1 < n && b.boundary(i+1) {
			if g.CodePoint == 0x00ad { // soft hyphen
				if h, ok := b.hyphenGlyph(g.Style, g.Span.End); ok && width+h.Advance(b.opts.Vertical) <= w+tolerance {
					opp = fillResult{end: i + 1, width: width + h.Advance(b.opts.Vertical), hyphen: &h}
				}
				continue
			}
			opp = fillResult{end: i + 1, width: width}
		}
	}
	return fillResult{kind: filledAll, end: n, width: width}
}

// fitsLater checks if the word starting at glyph start fits into one of the
// given segments.
func (b *Breaker) fitsLater(start int, segments []float64) bool {
	if len(segments) == 0 {
		return false
	}
	width := 0.0
	for i := start; i < len(b.glyphs); i++ {
		g := b.glyphs[i]
		if g.IsWhitespace || g.MandatoryBreak {
			break
		}
		width += g.Advance(b.opts.Vertical)
		if g.BreakAfter {
			break
		}
	}
	for _, w := range segments {
		if width <= w+tolerance {
			return true
		}
	}
	return false
}

// force finds the position for a break without break opportunity, in front
// of glyph at. The break is moved to the nearest grapheme boundary, keeping
// at least one glyph on the line.
func (b *Breaker) force(start, at int) int {
	k := at
	for k > start && !b.boundary(k) {
		k--
	}
	if k > start {
		return k
	}
	k = start + 1
	for k < len(b.glyphs) && !b.boundary(k) {
		k++
	}
	return k
}

func (b *Breaker) hyphenGlyph(style *glyphing.Style, at int) (glyphing.ShapedGlyph, bool) {
	if b.opts.Hyphen == nil {
		return glyphing.ShapedGlyph{}, false
	}
	h, err := b.opts.Hyphen(style, at)
	if err != nil {
		tracer().Infof("linebreak: cannot create hyphen glyph: %v", err)
		return glyphing.ShapedGlyph{}, false
	}
	return h, true
}

// hyphenate tries to break the word around glyph over, which starts a line
// segment at glyph start and does not fit width w. It returns the end of the
// line's glyphs and the hyphen glyph to append, or start if hyphenation is
// not possible. Failures of the hyphenator are traced and not propagated.
//
// The hyphenator is given the complete word, even if part of it has already
// been set on previous lines.
func (b *Breaker) hyphenate(start, over int, w float64) (int, *glyphing.ShapedGlyph) {
	if b.opts.Hyphenator == nil || b.opts.Hyphen == nil {
		return start, nil
	}
	ws, we, ok := b.wordAround(start, over)
	if !ok {
		return start, nil
	}
	from, to := b.glyphs[ws].Span.Start, b.glyphs[we-1].Span.End
	word := b.text[from:to]
	lang := b.language(b.glyphs[ws].Style)
	points, err := b.opts.Hyphenator.Hyphenate(word, lang)
	if err != nil {
		tracer().Infof("linebreak: hyphenation of %q failed: %v", word, err)
		return start, nil
	}
	tracer().Debugf("linebreak: hyphenation points for %q: %v", word, points)
	first := ws
	if start > first {
		first = start
	}
	for i := len(points) - 1; i >= 0; i-- {
		at := from + points[i]
		k := first + 1
		for k < we && (b.glyphs[k].Span.Start != at || b.glyphs[k].Span.IsEmpty()) {
			k++
		}
		if k >= we || !b.boundary(k) {
			continue
		}
		h, ok := b.hyphenGlyph(b.glyphs[k-1].Style, at)
		if !ok {
			return start, nil
		}
		prefix := glyphing.Width(b.glyphs[start:k], b.opts.Vertical)
		if prefix+h.Advance(b.opts.Vertical) <= w+tolerance {
			return k, &h
		}
	}
	return start, nil
}

// wordAround finds the glyphs [ws…we) of the word containing glyph over.
// The unbreakable stretch around over may reach back before start, up to the
// previous break opportunity; word bounds within it are found by Unicode
// word segmentation of the stretch's text.
func (b *Breaker) wordAround(start, over int) (int, int, bool) {
	lo := start
	for lo > 0 {
		prev := b.glyphs[lo-1]
		if prev.IsWhitespace || prev.BreakAfter || prev.Source != glyphing.Char {
			break
		}
		lo--
	}
	end := over
	for end < len(b.glyphs) && !b.glyphs[end].IsWhitespace {
		end++
		if b.glyphs[end-1].BreakAfter {
			break
		}
	}
	for end > lo && b.glyphs[end-1].Source != glyphing.Char {
		end--
	}
	if end <= over || b.glyphs[lo].Source != glyphing.Char {
		return 0, 0, false
	}
	offset := b.glyphs[lo].Span.Start
	stretch := b.text[offset:b.glyphs[end-1].Span.End]
	target := b.glyphs[over].Span.Start - offset
	from, state := 0, -1
	for rest := stretch; rest != ""; {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		to := from + len(word)
		if target >= from && target < to {
			if !isWord(word) {
				return 0, 0, false
			}
			ws, we := lo, end
			for ws < end && b.glyphs[ws].Span.Start < offset+from {
				ws++
			}
			for we > ws && b.glyphs[we-1].Span.End > offset+to {
				we--
			}
			return ws, we, we > ws
		}
		from = to
	}
	return 0, 0, false
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// language determines the hyphenation language for a style.
func (b *Breaker) language(style *glyphing.Style) language.Tag {
	if b.opts.Language != language.Und {
		return b.opts.Language
	}
	if style != nil && style.Language != language.Und {
		return style.Language
	}
	if b.opts.DefaultLanguage != language.Und {
		return b.opts.DefaultLanguage
	}
	return language.English
}
