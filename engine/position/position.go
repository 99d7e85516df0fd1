package position

import (
	"fmt"
	"math"
	"sort"

	"github.com/gogpu/gg"
	"github.com/npillmayer/textflow/core/font"
	"github.com/npillmayer/textflow/engine/bidirun"
	"github.com/npillmayer/textflow/engine/flow"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/justify"
	"github.com/npillmayer/textflow/engine/linebreak"
)

// Kind is the kind of a positioned item.
type Kind uint8

// Items are glyphs, synthetic hyphens or inline objects.
const (
	GlyphItem Kind = iota
	HyphenItem
	ObjectItem
)

func (k Kind) String() string {
	switch k {
	case HyphenItem:
		return "hyphen"
	case ObjectItem:
		return "object"
	}
	return "glyph"
}

// Item is a positioned glyph or object. X and Y are the physical origin to
// draw a glyph at (for sideways glyphs the origin to rotate around); Box is
// the physical bounding box of the item. U and Advance locate the item along
// the logical inline axis.
type Item struct {
	Kind         Kind
	GID          font.GlyphIndex
	Face         font.Face
	Size         float64
	CodePoint    rune
	X, Y         float64
	Box          gg.Rect
	U, Advance   float64
	Span         glyphing.Span // logical byte span; empty for hyphens
	ContentIndex int
	VisualIndex  int // position of the item in the visual order of its line
	LineIndex    int
	Level        uint8
	Orientation  glyphing.Orientation
	Ref          interface{} // client data of the content item
}

func (it Item) String() string {
	return fmt.Sprintf("%s(%q @(%.2f,%.2f) span=[%d,%d) line=%d vis=%d)", it.Kind, it.CodePoint,
		it.X, it.Y, it.Span.Start, it.Span.End, it.LineIndex, it.VisualIndex)
}

// LineInfo describes a positioned line. V, Height and Baseline are logical
// positions along the block axis; First and Last delimit the line's items.
type LineInfo struct {
	Index      int
	V, Height  float64
	Baseline   float64
	Box        gg.Rect        // physical
	Segments   []flow.Segment // in fill order
	First      int
	Last       int
	Span       glyphing.Span
	Hyphenated bool
	Forced     bool
	IsLast     bool
	Overflow   bool // the line lies outside the flow area
}

// Layout is the result of positioning a paragraph. A Layout is read-only once
// it has been handed out.
type Layout struct {
	Items      []Item
	Lines      []LineInfo
	Bounds     gg.Rect // union of the boxes of all items
	Direction  glyphing.Direction
	Frame      Frame
	TextLength int // length of the paragraph text in bytes
	Overflow   OverflowInfo
}

// Options configure a Positioner.
type Options struct {
	Frame         Frame
	Direction     glyphing.Direction // base direction of the paragraph
	Align         Align
	Justify       justify.Mode // used for Justify and JustifyAll
	VerticalAlign VerticalAlign
	LineHeight    float64
	FontSize      float64 // size of the strut for lines without text
	TextLength    int
}

// Positioner places lines of glyphs. It is not safe for concurrent use.
type Positioner struct {
	opts   Options
	layout *Layout
}

// New creates a positioner for a paragraph.
func New(opts Options) *Positioner {
	if opts.FontSize <= 0 {
		opts.FontSize = 16
	}
	return &Positioner{
		opts: opts,
		layout: &Layout{
			Direction:  opts.Direction,
			Frame:      opts.Frame,
			TextLength: opts.TextLength,
			Overflow:   OverflowInfo{Continuation: -1},
		},
	}
}

func (p *Positioner) rtl() bool {
	return p.opts.Direction == glyphing.RightToLeft
}

func (p *Positioner) vertical() bool {
	return p.opts.Frame.Mode.IsVertical()
}

// FillOrder returns the segments of a line in the order they are to be
// filled: by priority of the boundary they stem from, then along the base
// direction of the paragraph.
func FillOrder(segs []flow.Segment, dir glyphing.Direction) []flow.Segment {
	ordered := append([]flow.Segment(nil), segs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		if dir == glyphing.RightToLeft {
			return ordered[i].X0 > ordered[j].X0
		}
		return ordered[i].X0 < ordered[j].X0
	})
	return ordered
}

// lineMetrics are the block-axis metrics of a line.
type lineMetrics struct {
	asc, desc, xheight float64
	halfLeading        float64
}

// Place positions a line produced by the line breaker. lc are the line's
// constraints and segs its segments in fill order, i.e. the segments whose
// widths were handed to the breaker. overflow flags lines lying outside the
// flow area.
func (p *Positioner) Place(line linebreak.Line, lc flow.LineConstraints, segs []flow.Segment, overflow bool) {
	height := lc.Height
	if height <= 0 {
		height = p.opts.LineHeight
	}
	info := LineInfo{
		Index:      len(p.layout.Lines),
		V:          lc.Y,
		Height:     height,
		Segments:   segs,
		First:      len(p.layout.Items),
		Span:       glyphing.Span{Start: math.MaxInt32, End: -1},
		Hyphenated: line.Hyphenated,
		Forced:     line.Forced,
		IsLast:     line.IsLast,
		Overflow:   overflow,
	}
	lm := p.metrics(line, height)
	if p.opts.Frame.AscentFacesBlockStart() {
		info.Baseline = info.V + lm.halfLeading + lm.asc
	} else {
		info.Baseline = info.V + lm.halfLeading + lm.desc
	}
	lastSeg := -1
	for k, sg := range line.Segments {
		if len(sg.Glyphs) > 0 {
			lastSeg = k
		}
	}
	visual := 0
	for k, sg := range line.Segments {
		if sg.Index < 0 || sg.Index >= len(segs) || len(sg.Glyphs) == 0 {
			continue
		}
		exempt := (line.IsLast || line.Mandatory) && k == lastSeg
		visual = p.placeSegment(sg.Glyphs, segs[sg.Index], exempt, &info, lm, visual)
	}
	info.Last = len(p.layout.Items)
	if info.Span.End < 0 {
		info.Span = glyphing.Span{}
	}
	u0, u1 := 0.0, 0.0
	for i, s := range segs {
		if i == 0 || s.X0 < u0 {
			u0 = s.X0
		}
		if i == 0 || s.X1 > u1 {
			u1 = s.X1
		}
	}
	info.Box = p.opts.Frame.Box(u0, info.V, u1-u0, info.Height)
	tracer().Debugf("position: line %d at v=%.2f with %d items", info.Index, info.V, info.Last-info.First)
	p.layout.Lines = append(p.layout.Lines, info)
}

// placeSegment justifies, reorders and places the glyphs of a segment. It
// returns the next visual index.
func (p *Positioner) placeSegment(glyphs []glyphing.ShapedGlyph, seg flow.Segment, exempt bool,
	info *LineInfo, lm lineMetrics, visual int) int {
	//
	vertical := p.vertical()
	mode := justify.None
	if p.opts.Align == Justify || p.opts.Align == JustifyAll {
		mode = p.opts.Justify
	}
	res := justify.Segment(glyphs, seg.Width(), exempt, justify.Options{
		Mode:            mode,
		JustifyLastLine: p.opts.Align == JustifyAll,
		Vertical:        vertical,
	})
	glyphs = append([]glyphing.ShapedGlyph(nil), res.Glyphs...)
	end := contentEnd(glyphs)
	p.resetLevels(glyphs, end)
	levels := make([]uint8, len(glyphs))
	for i, g := range glyphs {
		levels[i] = g.Level
	}
	order := bidirun.ReorderIndices(levels)
	content := glyphing.Width(glyphs[:end], vertical) + res.Lead
	hang := glyphing.Width(glyphs[end:], vertical)
	pen := seg.X0 + p.alignOffset(seg.Width()-content)
	if p.rtl() {
		pen -= hang
	} else {
		pen += res.Lead
	}
	for v := 0; v < len(order); v++ {
		g := glyphs[order[v]]
		if vertical && g.Orientation == glyphing.Combined {
			w := v
			for w < len(order) && glyphs[order[w]].Orientation == glyphing.Combined {
				w++
			}
			group := make([]glyphing.ShapedGlyph, 0, w-v)
			for _, li := range order[v:w] {
				group = append(group, glyphs[li])
			}
			pen = p.placeCombined(group, pen, info, visual)
			visual += w - v
			v = w - 1
			continue
		}
		adv := g.Advance(vertical)
		p.emit(g, pen, adv, info, lm, visual)
		pen += adv
		visual++
	}
	return visual
}

// contentEnd returns the index after the last glyph which does not hang at
// the end of a segment.
func contentEnd(glyphs []glyphing.ShapedGlyph) int {
	end := len(glyphs)
	for end > 0 {
		g := glyphs[end-1]
		if !g.IsWhitespace && !g.MandatoryBreak && g.Class != glyphing.Control {
			break
		}
		end--
	}
	return end
}

// resetLevels resets trailing whitespace to the paragraph level (rule L1)
// and gives synthetic hyphens the level of the glyph they follow.
func (p *Positioner) resetLevels(glyphs []glyphing.ShapedGlyph, end int) {
	para := uint8(0)
	if p.rtl() {
		para = 1
	}
	for i := range glyphs {
		switch {
		case i >= end:
			glyphs[i].Level = para
		case glyphs[i].Source == glyphing.Hyphen:
			glyphs[i].Level = para
			if i > 0 {
				glyphs[i].Level = glyphs[i-1].Level
			}
		}
	}
}

// physicalAlign resolves logical alignments to physical ones.
func (p *Positioner) physicalAlign() Align {
	switch p.opts.Align {
	case Start, Justify, JustifyAll:
		if p.rtl() {
			return Right
		}
		return Left
	case End:
		if p.rtl() {
			return Left
		}
		return Right
	}
	return p.opts.Align
}

// alignOffset returns the offset of a segment's content along the inline
// axis. Overfull content is anchored at the start edge.
func (p *Positioner) alignOffset(slack float64) float64 {
	if slack < 0 {
		if p.rtl() {
			return slack
		}
		return 0
	}
	switch p.physicalAlign() {
	case Right:
		return slack
	case Center:
		return slack / 2
	}
	return 0
}

// emit appends an item for glyph g at logical inline position u.
func (p *Positioner) emit(g glyphing.ShapedGlyph, u, adv float64, info *LineInfo, lm lineMetrics, visual int) {
	f := p.opts.Frame
	it := newItem(g, u, adv, info.Index, visual)
	switch {
	case p.vertical() && g.Orientation != glyphing.Sideways:
		w := g.XAdvance
		center := info.V + info.Height/2
		it.Box = f.Box(u, center-w/2, adv, w)
		it.X, it.Y = it.Box.Min.X, it.Box.Min.Y
		if g.Source != glyphing.Object {
			it.X += g.XOffset
			it.Y += g.VOriginY - g.YOffset
		}
	case g.Source == glyphing.Object:
		h := g.YAdvance
		rise := p.objectRise(g, h, lm)
		v0 := info.Baseline - rise
		if !f.AscentFacesBlockStart() {
			v0 = info.Baseline + rise - h
		}
		it.Box = f.Box(u, v0, adv, h)
		it.X, it.Y = it.Box.Min.X, it.Box.Min.Y
	default:
		asc, desc, _ := metricsOf(g, p.opts.FontSize)
		sign := 1.0
		v0 := info.Baseline - asc
		if !f.AscentFacesBlockStart() {
			sign = -1.0
			v0 = info.Baseline - desc
		}
		it.Box = f.Box(u, v0, adv, asc+desc)
		o := f.Point(u+g.XOffset, info.Baseline-sign*g.YOffset)
		it.X, it.Y = o.X, o.Y
	}
	p.add(it, info)
}

// placeCombined sets a group of combined glyphs horizontally into a single
// upright cell, centered on the line. It returns the pen position after
// the cell.
func (p *Positioner) placeCombined(group []glyphing.ShapedGlyph, u float64, info *LineInfo, visual int) float64 {
	f := p.opts.Frame
	cell := 0.0
	w := 0.0
	for _, g := range group {
		cell += g.VAdvance
		w += g.XAdvance
	}
	center := f.Point(u, info.V+info.Height/2)
	x := center.X - w/2
	for i, g := range group {
		asc, desc, _ := metricsOf(g, p.opts.FontSize)
		it := newItem(g, u, 0, info.Index, visual+i)
		if i == 0 {
			it.Advance = cell
		}
		top := center.Y + (cell-asc-desc)/2
		it.Box = gg.NewRect(gg.Pt(x, top), gg.Pt(x+g.XAdvance, top+asc+desc))
		it.X, it.Y = x+g.XOffset, top+asc-g.YOffset
		p.add(it, info)
		x += g.XAdvance
	}
	return u + cell
}

func newItem(g glyphing.ShapedGlyph, u, adv float64, line, visual int) Item {
	kind := GlyphItem
	switch g.Source {
	case glyphing.Hyphen:
		kind = HyphenItem
	case glyphing.Object:
		kind = ObjectItem
	}
	return Item{
		Kind:         kind,
		GID:          g.GID,
		Face:         g.Face,
		Size:         sizeOf(g),
		CodePoint:    g.CodePoint,
		U:            u,
		Advance:      adv,
		Span:         g.Span,
		ContentIndex: g.ContentIndex,
		VisualIndex:  visual,
		LineIndex:    line,
		Level:        g.Level,
		Orientation:  g.Orientation,
	}
}

func (p *Positioner) add(it Item, info *LineInfo) {
	if !it.Span.IsEmpty() {
		if it.Span.Start < info.Span.Start {
			info.Span.Start = it.Span.Start
		}
		if it.Span.End > info.Span.End {
			info.Span.End = it.Span.End
		}
	}
	p.layout.Items = append(p.layout.Items, it)
}

// objectRise returns the distance from the baseline to the top of an object
// of height h, measured in the direction of the ascent.
func (p *Positioner) objectRise(g glyphing.ShapedGlyph, h float64, lm lineMetrics) float64 {
	em := sizeOf(g)
	if em <= 0 {
		em = p.opts.FontSize
	}
	switch p.opts.VerticalAlign {
	case Top:
		return lm.asc + lm.halfLeading
	case Bottom:
		return h - lm.desc - lm.halfLeading
	case Middle:
		return lm.xheight/2 + h/2
	case TextTop:
		return lm.asc
	case TextBottom:
		return h - lm.desc
	case Sub:
		return h - 0.2*em
	case Super:
		return h + 0.33*em
	}
	return h
}

// metrics finds the largest ascent and descent of the text glyphs of a line.
// Lines without text get the metrics of a strut of the default font size.
func (p *Positioner) metrics(line linebreak.Line, height float64) lineMetrics {
	var lm lineMetrics
	found := false
	for _, s := range line.Segments {
		for _, g := range s.Glyphs {
			if g.Source == glyphing.Object {
				continue
			}
			asc, desc, xh := metricsOf(g, p.opts.FontSize)
			lm.asc = math.Max(lm.asc, asc)
			lm.desc = math.Max(lm.desc, desc)
			lm.xheight = math.Max(lm.xheight, xh)
			found = true
		}
	}
	if !found {
		lm.asc, lm.desc, lm.xheight = strut(p.opts.FontSize)
	}
	lm.halfLeading = (height - lm.asc - lm.desc) / 2
	return lm
}

// Layout finishes positioning and returns the layout.
func (p *Positioner) Layout() *Layout {
	l := p.layout
	l.Bounds = bounds(l.Items)
	return l
}

func bounds(items []Item) gg.Rect {
	var r gg.Rect
	for i, it := range items {
		if i == 0 {
			r = it.Box
			continue
		}
		r = r.Union(it.Box)
	}
	return r
}

// sizeOf returns the font size of a glyph.
func sizeOf(g glyphing.ShapedGlyph) float64 {
	if g.Size > 0 {
		return g.Size
	}
	if g.Style != nil {
		return g.Style.Size
	}
	return 0
}

// metricsOf returns ascent, descent and x-height of a glyph's face, or the
// metrics of a strut if the glyph has no face. Glyphs without size are
// measured at size fallback.
func metricsOf(g glyphing.ShapedGlyph, fallback float64) (asc, desc, xheight float64) {
	size := sizeOf(g)
	if size <= 0 {
		size = fallback
	}
	if g.Face == nil {
		return strut(size)
	}
	m := g.Face.Metrics(size)
	xheight = m.XHeight
	if xheight <= 0 {
		xheight = size / 2
	}
	return m.Ascent, m.Descent, xheight
}

func strut(size float64) (asc, desc, xheight float64) {
	return 0.8 * size, 0.2 * size, 0.5 * size
}
