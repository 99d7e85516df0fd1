package layout

import (
	"fmt"

	"github.com/npillmayer/textflow/core/parameters"
	"github.com/npillmayer/textflow/engine/flow"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/inline"
	"github.com/npillmayer/textflow/engine/layoutcache"
)

// cacheKey hashes everything a layout depends on. Styles are hashed by
// value, paths by identity. Client refs are hashed by their printed value,
// which for pointers is their address. Typesetting registers are hashed with their
// current values, as layout reads defaults from them.
func cacheKey(items []inline.Item, c *Constraints, regs ...*parameters.TypesettingRegisters) layoutcache.Key {
	h := layoutcache.NewHasher().Int(len(items))
	for _, item := range items {
		h.Int(int(item.Kind)).String(item.Text).Float(item.Width).Float(item.Height)
		hashStyle(h, item.Style)
		if item.Ref != nil {
			h.String(fmt.Sprintf("%T %v", item.Ref, item.Ref))
		} else {
			h.Bool(false)
		}
	}
	h.Float(c.Width).Float(c.Height)
	h.Int(len(c.Boundaries))
	for _, s := range c.Boundaries {
		hashShape(h, s)
	}
	h.Int(len(c.Exclusions))
	for _, ex := range c.Exclusions {
		hashShape(h, ex.Shape)
		h.Float(ex.Margin)
	}
	h.Float(c.ExclusionMargin).
		Int(int(c.WritingMode)).
		Int(int(c.TextOrientation)).
		Int(int(c.TextAlign)).
		Int(int(c.JustifyContent)).
		Float(c.LineHeight).
		Int(int(c.VerticalAlign)).
		Int(int(c.Overflow)).
		Int(c.TextCombineUpright).
		Bool(c.Hyphenation).
		String(c.HyphenationLanguage.String())
	for _, r := range regs {
		hashRegisters(h, r)
	}
	return h.Sum()
}

func hashRegisters(h *layoutcache.Hasher, regs *parameters.TypesettingRegisters) {
	if regs == nil {
		h.Bool(false)
		return
	}
	h.Bool(true)
	for p := parameters.P_LANGUAGE; p < parameters.P_STOPPER; p++ {
		h.String(fmt.Sprint(regs.Get(p)))
	}
}

func hashStyle(h *layoutcache.Hasher, s *glyphing.Style) {
	if s == nil {
		h.Bool(false)
		return
	}
	h.Bool(true).
		String(s.Font.String()).
		Float(s.Size).
		String(s.Language.String()).
		Float(s.LetterSpacing).
		Int(len(s.Features))
	for _, f := range s.Features {
		h.String(f.Feature).Int(f.Arg).Bool(f.On).Int(f.Start).Int(f.End)
	}
}

func hashShape(h *layoutcache.Hasher, s flow.Shape) {
	h.Int(int(s.Kind))
	switch s.Kind {
	case flow.CircleShape, flow.EllipseShape:
		h.Float(s.CX).Float(s.CY).Float(s.RX).Float(s.RY)
	case flow.PolygonShape:
		h.Int(len(s.Points))
		for _, p := range s.Points {
			h.Float(p.X).Float(p.Y)
		}
	case flow.PathShape:
		h.String(fmt.Sprintf("%p", s.Path))
	default:
		h.Float(s.X).Float(s.Y).Float(s.W).Float(s.H)
	}
}
