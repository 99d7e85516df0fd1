package fontcatalog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/font"
)

// System is a catalog of the fonts installed on the host system. Fonts are
// enumerated once, on first use; family, style and weight are guessed from
// file names. Coverage queries parse fonts lazily and remember the result.
type System struct {
	loader   font.Loader
	lister   func() []string
	once     sync.Once
	mx       sync.Mutex
	handles  []Handle
	parsed   map[string]font.Face // parsed fonts for coverage, by handle ID
	unusable map[string]bool      // fonts which failed to parse
}

var _ Catalog = &System{}

// NewSystem creates a catalog of system fonts. If loader is nil, fonts are
// parsed with font.SFNTLoader.
func NewSystem(loader font.Loader) *System {
	return newSystem(loader, findfont.List)
}

func newSystem(loader font.Loader, lister func() []string) *System {
	if loader == nil {
		loader = font.SFNTLoader{}
	}
	return &System{
		loader:   loader,
		lister:   lister,
		parsed:   make(map[string]font.Face),
		unusable: make(map[string]bool),
	}
}

func (s *System) enumerate() {
	s.once.Do(func() {
		for _, p := range s.lister() {
			switch strings.ToLower(filepath.Ext(p)) {
			case ".ttf", ".otf", ".ttc", ".otc":
			default:
				continue
			}
			style, weight := font.GuessStyleAndWeight(p)
			s.handles = append(s.handles, Handle{
				ID:   "sys:" + p,
				Ref:  font.Ref{Family: font.GuessFamily(p), Style: style, Weight: weight},
				Path: p,
			})
		}
		tracer().Infof("font catalog: found %d system fonts", len(s.handles))
	})
}

// Match returns system fonts of the requested family. A family is matched
// either against the guessed family name or against the font file name.
func (s *System) Match(ref font.Ref) ([]Handle, error) {
	s.enumerate()
	var hh []Handle
	pattern := strings.ToLower(strings.ReplaceAll(ref.Family, " ", ""))
	for _, h := range s.handles {
		if font.MatchRef(h.Ref, ref) > font.NoConfidence {
			hh = append(hh, h)
			continue
		}
		base := strings.ToLower(strings.ReplaceAll(filepath.Base(h.Path), " ", ""))
		if pattern != "" && strings.HasPrefix(base, pattern) {
			hh = append(hh, h)
		}
	}
	if len(hh) == 0 {
		// findfont knows about platform specific naming conventions
		if p, err := findfont.Find(ref.Family); err == nil && p != "" {
			style, weight := font.GuessStyleAndWeight(p)
			hh = append(hh, Handle{
				ID:   "sys:" + p,
				Ref:  font.Ref{Family: ref.Family, Style: style, Weight: weight},
				Path: p,
			})
		}
	}
	if len(hh) == 0 {
		return nil, core.LayoutError(core.FontNotFound, nil, "no system font matching %s", ref)
	}
	return rankByRef(hh, ref), nil
}

// Covering parses candidate fonts as needed. Fonts failing to parse are
// remembered and skipped from then on.
func (s *System) Covering(sample string, like font.Ref) ([]Handle, error) {
	s.enumerate()
	var hh []Handle
	for _, h := range s.handles {
		face := s.parse(h)
		if face != nil && font.Covers(face, sample) {
			hh = append(hh, h)
		}
	}
	return rankByRef(hh, like), nil
}

func (s *System) parse(h Handle) font.Face {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.unusable[h.ID] {
		return nil
	}
	if face, ok := s.parsed[h.ID]; ok {
		return face
	}
	data, err := os.ReadFile(h.Path)
	var face font.Face
	if err == nil {
		face, err = s.loader.Load(data, h.Index)
	}
	if err != nil {
		tracer().Debugf("font catalog: cannot parse %s: %v", h.Path, err)
		s.unusable[h.ID] = true
		return nil
	}
	s.parsed[h.ID] = face
	return face
}

func (s *System) Open(h Handle) ([]byte, error) {
	if !strings.HasPrefix(h.ID, "sys:") || h.Path == "" {
		return nil, core.LayoutError(core.FontNotFound, nil, "handle %s does not denote a system font", h.ID)
	}
	data, err := os.ReadFile(h.Path)
	if err != nil {
		return nil, core.LayoutError(core.FontNotFound, err, "cannot read system font %s", h.Path)
	}
	return data, nil
}
