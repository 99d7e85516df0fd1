package layout

import (
	"math"
	"sort"

	"github.com/gogpu/gg"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/hyphenation"
	"github.com/npillmayer/textflow/core/parameters"
	"github.com/npillmayer/textflow/engine/bidirun"
	"github.com/npillmayer/textflow/engine/flow"
	"github.com/npillmayer/textflow/engine/fontmgr"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/glyphing/sfntshape"
	"github.com/npillmayer/textflow/engine/inline"
	"github.com/npillmayer/textflow/engine/layoutcache"
	"github.com/npillmayer/textflow/engine/linebreak"
	"github.com/npillmayer/textflow/engine/position"
	"golang.org/x/text/language"
)

// UnifiedLayout is the result of laying out a paragraph: positioned items,
// lines, bounds and overflow information.
type UnifiedLayout = position.Layout

// Engine lays out paragraphs. Create engines with New.
type Engine struct {
	fonts      *fontmgr.Manager
	shaper     glyphing.Shaper
	hyphenator hyphenation.Hyphenator
	cache      *layoutcache.Cache
	cacheSet   bool
	regs       *parameters.TypesettingRegisters
	sizer      ObjectSizer
	arena      *Arena
}

// Option configures an Engine.
type Option func(*Engine)

// WithFontManager sets the font manager. Defaults to a manager for the
// packaged Go fonts.
func WithFontManager(m *fontmgr.Manager) Option {
	return func(e *Engine) { e.fonts = m }
}

// WithShaper sets the shaping backend. Defaults to the sfnt shaper.
func WithShaper(sh glyphing.Shaper) Option {
	return func(e *Engine) { e.shaper = sh }
}

// WithHyphenator sets the hyphenator. Defaults to a registry of the packaged
// hyphenation patterns.
func WithHyphenator(h hyphenation.Hyphenator) Option {
	return func(e *Engine) { e.hyphenator = h }
}

// WithCache sets the layout cache, which may be shared between engines
// configured alike. A nil cache switches caching off.
func WithCache(c *layoutcache.Cache) Option {
	return func(e *Engine) { e.cache, e.cacheSet = c, true }
}

// WithRegisters sets the typesetting registers used for defaults. They
// default to the registers of the font manager.
func WithRegisters(regs *parameters.TypesettingRegisters) Option {
	return func(e *Engine) { e.regs = regs }
}

// WithObjectSizer sets a callback for objects of unknown size.
func WithObjectSizer(sizer ObjectSizer) Option {
	return func(e *Engine) { e.sizer = sizer }
}

// New creates a layout engine.
func New(opts ...Option) *Engine {
	e := &Engine{arena: NewArena()}
	for _, opt := range opts {
		opt(e)
	}
	if e.regs == nil {
		if e.fonts != nil {
			e.regs = e.fonts.Registers()
		} else {
			e.regs = parameters.NewTypesettingRegisters()
		}
	}
	if e.fonts == nil {
		e.fonts = fontmgr.New(nil, nil, e.regs)
	}
	if e.shaper == nil {
		e.shaper = sfntshape.Shaper{}
	}
	if e.hyphenator == nil {
		e.hyphenator = hyphenation.NewRegistry(e.regs)
	}
	if !e.cacheSet {
		e.cache = layoutcache.New(layoutcache.DefaultCapacity)
	}
	return e
}

// Cache returns the engine's layout cache, or nil.
func (e *Engine) Cache() *layoutcache.Cache {
	return e.cache
}

// Arena returns the arena holding the calculation contexts of running
// layout passes.
func (e *Engine) Arena() *Arena {
	return e.arena
}

// FontManager returns the engine's font manager.
func (e *Engine) FontManager() *fontmgr.Manager {
	return e.fonts
}

// Layout lays out a paragraph of inline content. Layouts are looked up in
// and stored to the engine's cache. The returned layout is shared and must
// not be modified.
//
// Any failure, e.g. a font which cannot be found or a run which cannot be
// shaped, fails the whole layout; partial layouts are never returned and
// failures are not cached.
func (e *Engine) Layout(items []inline.Item, c *Constraints) (*UnifiedLayout, error) {
	if c == nil {
		return nil, core.LayoutError(core.InvalidText, nil, "layout needs constraints")
	}
	cacheable := e.cache != nil && !e.needsSizing(items)
	var key layoutcache.Key
	if cacheable {
		regs := []*parameters.TypesettingRegisters{e.regs}
		if fr := e.fonts.Registers(); fr != e.regs {
			regs = append(regs, fr)
		}
		key = cacheKey(items, c, regs...)
		if l, ok := e.cache.Get(key); ok {
			tracer().Debugf("layout: cache hit for %v", key)
			return l, nil
		}
	}
	l, err := e.layout(items, c)
	if err != nil {
		tracer().Errorf("layout: %v", err)
		return nil, err
	}
	if cacheable {
		e.cache.Put(key, l)
	}
	return l, nil
}

// needsSizing is true if an object has to be sized by the object sizer.
// Such layouts depend on the callback and are not cached.
func (e *Engine) needsSizing(items []inline.Item) bool {
	for _, item := range items {
		if item.Kind != inline.TextItem && item.Kind != inline.LineBreakItem &&
			(item.Width < 0 || item.Height < 0) {
			return true
		}
	}
	return false
}

func (e *Engine) layout(items []inline.Item, c *Constraints) (*UnifiedLayout, error) {
	fa, err := newFlowArea(c)
	if err != nil {
		return nil, err
	}
	content, err := inline.Analyze(items)
	if err != nil {
		return nil, err
	}
	res, err := bidirun.Resolve(content.Runs, content.Text, bidirun.Options{
		DefaultLanguage: e.language(),
	})
	if err != nil {
		if core.KindOf(err) == core.NoKind {
			err = core.LayoutError(core.BidiError, err, "cannot resolve paragraph direction")
		}
		return nil, err
	}
	gen := e.arena.Begin()
	defer e.arena.End(gen)
	glyphs, err := e.shape(items, content, res, gen, fa.right-fa.left)
	if err != nil {
		return nil, err
	}
	linebreak.MarkBreaks(glyphs, func(pos int) (bool, bool) {
		b, ok := content.BreakAt(pos)
		return ok, b.Mandatory
	})
	orient := position.OrientationOptions{
		Mode:          c.WritingMode,
		Orientation:   c.TextOrientation,
		CombineDigits: c.TextCombineUpright,
	}
	position.ResolveOrientation(glyphs, orient)
	size := e.fontSize(glyphs)
	lh := c.LineHeight
	if lh <= 0 {
		lh = size * e.regs.F(parameters.P_LINEHEIGHTFACTOR)
	}
	if lh <= 0 {
		lh = size
	}
	p := position.New(position.Options{
		Frame:         fa.frame,
		Direction:     res.Direction,
		Align:         c.TextAlign,
		Justify:       c.JustifyContent,
		VerticalAlign: c.VerticalAlign,
		LineHeight:    lh,
		FontSize:      size,
		TextLength:    len(content.Text),
	})
	hyphenator := e.hyphenator
	if !c.Hyphenation {
		hyphenator = nil
	}
	b := linebreak.New(glyphs, content.Text, linebreak.Options{
		Hyphenator:      hyphenator,
		Language:        c.HyphenationLanguage,
		DefaultLanguage: e.language(),
		Hyphen: func(style *glyphing.Style, at int) (glyphing.ShapedGlyph, error) {
			g, err := e.fonts.HyphenGlyph(style, at)
			if err != nil {
				return g, err
			}
			hyphen := []glyphing.ShapedGlyph{g}
			position.ResolveOrientation(hyphen, orient)
			return hyphen[0], nil
		},
		IsBoundary: content.IsBoundary,
		Vertical:   c.WritingMode.IsVertical(),
	})
	fa.flowLines(b, p, res.Direction, lh)
	l := p.Layout()
	for i := range l.Items {
		if ci := l.Items[i].ContentIndex; ci >= 0 && ci < len(items) {
			l.Items[i].Ref = items[ci].Ref
		}
	}
	l.HandleOverflow(c.Overflow, fa.frame.Area)
	tracer().Infof("layout: %d glyphs set into %d lines, bounds %v", len(glyphs), len(l.Lines), l.Bounds)
	return l, nil
}

// shape shapes the visual runs of a paragraph and returns the glyphs in
// logical order. Objects and line breaks are not shaped but get a glyph
// of their own.
func (e *Engine) shape(items []inline.Item, content *inline.Content, res bidirun.Result, gen uint32,
	inlineSize float64) ([]glyphing.ShapedGlyph, error) {
	//
	type piece struct {
		start  int
		glyphs []glyphing.ShapedGlyph
	}
	pieces := make([]piece, 0, len(res.Runs))
	n := 0
	for _, run := range res.Runs {
		var glyphs []glyphing.ShapedGlyph
		switch items[run.ContentIndex].Kind {
		case inline.TextItem:
			var err error
			if glyphs, err = e.fonts.ShapeRun(run, e.shaper); err != nil {
				return nil, err
			}
			if run.IsRTL() {
				glyphing.Reverse(glyphs)
			}
		case inline.LineBreakItem:
			glyphs = []glyphing.ShapedGlyph{e.lineSeparator(run)}
		default:
			obj, ok := content.ObjectAt(run.Start)
			if !ok {
				return nil, core.LayoutError(core.InvalidText, nil, "no object at position %d", run.Start)
			}
			g, err := e.objectGlyph(obj, run, gen, inlineSize)
			if err != nil {
				return nil, err
			}
			glyphs = []glyphing.ShapedGlyph{g}
		}
		pieces = append(pieces, piece{start: run.Start, glyphs: glyphs})
		n += len(glyphs)
	}
	sort.SliceStable(pieces, func(i, j int) bool { return pieces[i].start < pieces[j].start })
	glyphs := make([]glyphing.ShapedGlyph, 0, n)
	for _, p := range pieces {
		glyphs = append(glyphs, p.glyphs...)
	}
	tracer().Debugf("layout: shaped %d runs into %d glyphs", len(res.Runs), len(glyphs))
	return glyphs, nil
}

func (e *Engine) style(s *glyphing.Style) *glyphing.Style {
	if s == nil {
		return e.fonts.DefaultStyle()
	}
	return s
}

func (e *Engine) lineSeparator(run bidirun.VisualRun) glyphing.ShapedGlyph {
	style := e.style(run.Style)
	return glyphing.ShapedGlyph{
		Span:         glyphing.Span{Start: run.Start, End: run.End()},
		Cluster:      run.Start,
		CodePoint:    inline.LineSeparator,
		Source:       glyphing.Char,
		IsWhitespace: true,
		Class:        glyphing.Control,
		Level:        run.Level,
		Size:         style.Size,
		Style:        style,
		ContentIndex: run.ContentIndex,
	}
}

// objectGlyph creates the glyph standing in for an inline object. Objects
// of unknown size are sized by the object sizer.
func (e *Engine) objectGlyph(obj *inline.Object, run bidirun.VisualRun, gen uint32,
	inlineSize float64) (glyphing.ShapedGlyph, error) {
	//
	w, h := obj.Width, obj.Height
	if w < 0 || h < 0 {
		if e.sizer == nil {
			return glyphing.ShapedGlyph{}, core.LayoutError(core.InvalidText, nil,
				"content item #%d has unknown size", obj.ContentIndex)
		}
		calc := CalcContext{
			ContentIndex: obj.ContentIndex,
			Kind:         obj.Kind,
			Width:        w,
			Height:       h,
			Style:        obj.Style,
			Ref:          obj.Ref,
			InlineSize:   inlineSize,
		}
		handle := e.arena.Add(gen, calc)
		sw, sh, err := e.sizer(handle, calc)
		if err != nil {
			return glyphing.ShapedGlyph{}, core.LayoutError(core.ShapingError, err,
				"cannot size content item #%d", obj.ContentIndex)
		}
		if w < 0 {
			w = math.Max(sw, 0)
		}
		if h < 0 {
			h = math.Max(sh, 0)
		}
	}
	style := e.style(obj.Style)
	g := glyphing.ShapedGlyph{
		XAdvance:        w,
		YAdvance:        h,
		Span:            glyphing.Span{Start: run.Start, End: run.End()},
		Cluster:         run.Start,
		CodePoint:       inline.ObjectReplacement,
		Source:          glyphing.Object,
		Class:           glyphing.ObjectClass,
		JustifyPriority: glyphing.JustifyPriorityOf(glyphing.ObjectClass),
		Level:           run.Level,
		Size:            style.Size,
		Style:           style,
		ContentIndex:    obj.ContentIndex,
	}
	if obj.Kind == inline.SpaceItem {
		g.Class = glyphing.Space
		g.IsWhitespace = true
		g.JustifyPriority = glyphing.JustifyPriorityOf(glyphing.Space)
		if g.YAdvance <= 0 {
			g.YAdvance = w // advance in vertical modes
		}
	}
	return g, nil
}

// fontSize returns the largest font size of the text of a paragraph.
func (e *Engine) fontSize(glyphs []glyphing.ShapedGlyph) float64 {
	size := 0.0
	for _, g := range glyphs {
		if g.Source != glyphing.Object {
			size = math.Max(size, g.Size)
		}
	}
	if size <= 0 {
		size = e.fonts.DefaultStyle().Size
	}
	return size
}

func (e *Engine) language() language.Tag {
	tag, err := language.Parse(e.regs.S(parameters.P_LANGUAGE))
	if err != nil {
		return language.English
	}
	return tag
}

// --- Flow area -------------------------------------------------------------

// flowArea holds boundaries and exclusions in logical coordinates: u along
// the inline axis, v along the block axis.
type flowArea struct {
	frame       position.Frame
	boundaries  []flow.Shape
	exclusions  []flow.Exclusion
	left, right float64 // extent along u
	top, bottom float64 // extent along v
}

func newFlowArea(c *Constraints) (flowArea, error) {
	mode := c.WritingMode
	fa := flowArea{frame: position.Frame{Mode: mode}}
	if len(c.Boundaries) > 0 {
		fa.frame.Area = flow.Bounds(c.Boundaries)
		m := fa.frame.Logical()
		for _, s := range c.Boundaries {
			fa.boundaries = append(fa.boundaries, s.Transform(m))
		}
		lb := flow.Bounds(fa.boundaries)
		fa.left, fa.right, fa.top, fa.bottom = lb.Min.X, lb.Max.X, lb.Min.Y, lb.Max.Y
	} else {
		inlineSize, blockSize := c.Width, c.Height
		if mode.IsVertical() {
			inlineSize, blockSize = c.Height, c.Width
		}
		if inlineSize <= 0 {
			return fa, core.LayoutError(core.InvalidText, nil, "no room for text along the inline axis in %s", mode)
		}
		if blockSize <= 0 {
			if mode == position.VerticalRL || mode == position.SidewaysRL {
				return fa, core.LayoutError(core.InvalidText, nil, "%s needs a width", mode)
			}
			blockSize = math.Inf(1)
		}
		fa.frame.Area = gg.Rect{Max: gg.Pt(inlineSize, blockSize)}
		if mode.IsVertical() {
			fa.frame.Area = gg.Rect{Max: gg.Pt(blockSize, inlineSize)}
		}
		fa.boundaries = []flow.Shape{flow.Rectangle(0, 0, inlineSize, blockSize)}
		fa.left, fa.right, fa.top, fa.bottom = 0, inlineSize, 0, blockSize
	}
	m := fa.frame.Logical()
	for _, ex := range c.exclusions() {
		fa.exclusions = append(fa.exclusions, flow.Exclusion{Shape: ex.Shape.Transform(m), Margin: ex.Margin})
	}
	return fa, nil
}

// flowLines breaks a paragraph into lines, line band by line band from the
// top of the flow area. Bands without room for text are skipped. Lines
// not fitting into the flow area are set below it, into the segments of
// the last band with room, and flagged as overflowing.
func (fa flowArea) flowLines(b *linebreak.Breaker, p *position.Positioner, dir glyphing.Direction, lh float64) {
	const epsilon = 1e-6
	v := fa.top
	var last []flow.Segment
	for !b.Done() {
		overflow := v+lh > fa.bottom+epsilon
		var lc flow.LineConstraints
		if overflow {
			lc = flow.LineConstraints{Y: v, Height: lh, Segments: last}
			if len(last) == 0 {
				lc.Segments = []flow.Segment{{X0: fa.left, X1: fa.right}}
			}
		} else {
			lc = flow.Constraints(fa.boundaries, fa.exclusions, v, lh)
			if lc.IsEmpty() {
				v += lh
				continue
			}
			last = lc.Segments
		}
		segs := position.FillOrder(lc.Segments, dir)
		widths := make([]float64, len(segs))
		for i, s := range segs {
			widths[i] = s.Width()
		}
		line, ok := b.Next(widths)
		if !ok {
			break
		}
		p.Place(line, lc, segs, overflow)
		v += lh
	}
}
