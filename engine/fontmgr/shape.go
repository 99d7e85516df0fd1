package fontmgr

import (
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/font"
	"github.com/npillmayer/textflow/core/parameters"
	"github.com/npillmayer/textflow/engine/bidirun"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/rivo/uniseg"
	"golang.org/x/text/language"
)

// DefaultStyle returns the style used for runs without a style of their own.
// It follows the font family and size registers.
func (m *Manager) DefaultStyle() *glyphing.Style {
	ref, size := m.DefaultRef(), m.regs.F(parameters.P_FONTSIZE)
	m.styleMx.Lock()
	defer m.styleMx.Unlock()
	if s := m.defaultStyle; s == nil || s.Font != ref || s.Size != size {
		m.defaultStyle = &glyphing.Style{Font: ref, Size: size}
	}
	return m.defaultStyle
}

// segment is a part of a run to be shaped with a single face.
type segment struct {
	start, end int // byte positions within the run's text
	script     language.Script
	face       font.Face
}

// ShapeRun shapes a visual run with a shaping backend. Glyphs of the result
// are fully annotated (see glyphing.Annotate) and carry the run's level and
// content index. Glyphs of right-to-left runs are returned in visual order.
//
// Errors of the font manager or the backend abort the run.
func (m *Manager) ShapeRun(run bidirun.VisualRun, backend glyphing.Shaper) ([]glyphing.ShapedGlyph, error) {
	if run.Text == "" {
		return nil, nil
	}
	style := run.Style
	if style == nil {
		style = m.DefaultStyle()
	}
	chain, err := m.FallbackChain(style.Font, run.Text)
	if err != nil {
		return nil, err
	}
	segments := segmentRun(run.Text)
	var pieces []segment
	for _, seg := range segments {
		pieces = append(pieces, assignFaces(run.Text, seg, chain)...)
	}
	var glyphs []glyphing.ShapedGlyph
	for _, p := range pieces {
		text := run.Text[p.start:p.end]
		params := glyphing.Params{
			Size:      style.Size,
			Direction: run.Direction(),
			Language:  run.Language,
			Features:  localFeatures(style.Features, run.Start+p.start, len(text)),
		}
		if !isCommonScript(p.script) {
			params.Script = p.script // otherwise left to the backend
		}
		shaped, err := backend.Shape(text, p.face, params)
		if err != nil {
			if core.KindOf(err) == core.NoKind {
				err = core.LayoutError(core.ShapingError, err, "cannot shape run at %d", run.Start+p.start)
			}
			tracer().Errorf("font manager: %v", err)
			return nil, err
		}
		glyphing.Annotate(shaped, text, run.Start+p.start, style)
		for i := range shaped {
			shaped[i].Face = p.face
			shaped[i].Size = style.Size
			shaped[i].Level = run.Level
			shaped[i].ContentIndex = run.ContentIndex
		}
		glyphs = append(glyphs, shaped...)
	}
	if run.IsRTL() {
		glyphing.Reverse(glyphs)
	}
	tracer().Debugf("font manager: shaped run %q into %d glyphs, %d pieces", run.Text, len(glyphs), len(pieces))
	return glyphs, nil
}

// segmentRun groups the characters of a run into segments likely to share a
// font: characters of the same script, together with whitespace and other
// common characters adjacent to them.
func segmentRun(text string) []segment {
	var segs []segment
	cur := segment{}
	for pos, r := range text {
		scr := bidirun.ScriptOf(r)
		switch {
		case pos == 0:
			cur.script = scr
		case isCommonScript(scr) || scr == cur.script:
		case isCommonScript(cur.script):
			cur.script = scr
		default:
			cur.end = pos
			segs = append(segs, cur)
			cur = segment{start: pos, script: scr}
		}
	}
	cur.end = len(text)
	return append(segs, cur)
}

func isCommonScript(scr language.Script) bool {
	s := scr.String()
	return s == "Zyyy" || s == "Zinh" || s == "Zzzz"
}

// assignFaces selects the first face of the chain covering the whole
// segment. If no face does, faces are selected per grapheme cluster, and
// neighbouring clusters with the same face are merged.
func assignFaces(text string, seg segment, chain *Chain) []segment {
	order := chain.Order(seg.script)
	part := text[seg.start:seg.end]
	for _, face := range order {
		if font.Covers(face, part) {
			seg.face = face
			return []segment{seg}
		}
	}
	tracer().Debugf("font manager: no single font covers %q, selecting per cluster", part)
	var pieces []segment
	g := uniseg.NewGraphemes(part)
	for g.Next() {
		from, to := g.Positions()
		face := chain.Primary()
		for _, f := range order {
			if font.Covers(f, part[from:to]) {
				face = f
				break
			}
		}
		if n := len(pieces); n > 0 && pieces[n-1].face == face {
			pieces[n-1].end = seg.start + to
			continue
		}
		pieces = append(pieces, segment{
			start:  seg.start + from,
			end:    seg.start + to,
			script: seg.script,
			face:   face,
		})
	}
	return pieces
}

// localFeatures converts feature ranges, given in paragraph byte positions,
// to positions relative to a shaped piece of text at offset with length n.
// Ranges with Start = End = 0 apply everywhere.
func localFeatures(features []glyphing.FeatureRange, offset, n int) []glyphing.FeatureRange {
	var local []glyphing.FeatureRange
	for _, f := range features {
		if f.Start == 0 && f.End == 0 {
			local = append(local, f)
			continue
		}
		start, end := f.Start-offset, n
		if f.End > 0 {
			end = f.End - offset
		}
		if start < 0 {
			start = 0
		}
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		f.Start, f.End = start, end
		if end == n {
			f.End = 0
		}
		local = append(local, f)
	}
	return local
}

// HyphenGlyph creates a synthetic hyphen glyph for a style, to be inserted at
// logical position at. Glyph index and advance are taken from the style's
// primary face, independent of the shaping backend. The glyph has an empty
// logical span.
func (m *Manager) HyphenGlyph(style *glyphing.Style, at int) (glyphing.ShapedGlyph, error) {
	if style == nil {
		style = m.DefaultStyle()
	}
	face, err := m.Resolve(style.Font)
	if err != nil {
		return glyphing.ShapedGlyph{}, err
	}
	hyphen := rune(m.regs.N(parameters.P_HYPHENCHAR))
	if !face.HasGlyph(hyphen) {
		for _, alt := range []rune{'-', 0x2010, 0x2011} {
			if face.HasGlyph(alt) {
				hyphen = alt
				break
			}
		}
	}
	gid := face.GlyphIndex(hyphen)
	return glyphing.ShapedGlyph{
		GID:             gid,
		XAdvance:        face.Advance(gid, style.Size),
		YAdvance:        style.Size,
		Span:            glyphing.Span{Start: at, End: at},
		Cluster:         at,
		CodePoint:       hyphen,
		Source:          glyphing.Hyphen,
		Class:           glyphing.Punctuation,
		JustifyPriority: 0,
		Face:            face,
		Size:            style.Size,
		Style:           style,
	}, nil
}
