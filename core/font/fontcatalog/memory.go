package fontcatalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Memory is a catalog of fonts held in memory. It is safe for concurrent use.
// Coverage is answered by faces parsed at registration time.
type Memory struct {
	mx      sync.RWMutex
	loader  font.Loader
	entries []memEntry
}

type memEntry struct {
	handle Handle
	data   []byte
	face   font.Face
}

var _ Catalog = &Memory{}

// NewMemory creates an empty in-memory catalog. If loader is nil, fonts are
// parsed with font.SFNTLoader.
func NewMemory(loader font.Loader) *Memory {
	if loader == nil {
		loader = font.SFNTLoader{}
	}
	return &Memory{loader: loader}
}

// NewGoFonts returns a memory catalog holding the Go font family (Go, Go Mono).
func NewGoFonts() *Memory {
	m := NewMemory(nil)
	for _, f := range []struct {
		ref  font.Ref
		data []byte
	}{
		{font.Regular("Go"), goregular.TTF},
		{font.Ref{Family: "Go", Style: xfont.StyleNormal, Weight: xfont.WeightBold}, gobold.TTF},
		{font.Ref{Family: "Go", Style: xfont.StyleItalic, Weight: xfont.WeightNormal}, goitalic.TTF},
		{font.Ref{Family: "Go", Style: xfont.StyleItalic, Weight: xfont.WeightBold}, gobolditalic.TTF},
		{font.Regular("Go Mono"), gomono.TTF},
	} {
		if _, err := m.Add(f.ref, f.data, 0); err != nil {
			panic(fmt.Sprintf("cannot register packaged Go font: %v", err)) // cannot happen
		}
	}
	return m
}

// Add registers font data under a font reference. The data is parsed once to
// check that it is a valid font and to answer coverage queries.
func (m *Memory) Add(ref font.Ref, data []byte, index int) (Handle, error) {
	face, err := m.loader.Load(data, index)
	if err != nil {
		return Handle{}, core.WrapError(err, core.EINVALID, "cannot register font %s", ref)
	}
	h := Handle{
		ID:    "mem:" + ref.String(),
		Ref:   ref,
		Index: index,
	}
	m.mx.Lock()
	defer m.mx.Unlock()
	for i, e := range m.entries {
		if e.handle.ID == h.ID { // re-registration replaces
			m.entries[i] = memEntry{handle: h, data: data, face: face}
			return h, nil
		}
	}
	m.entries = append(m.entries, memEntry{handle: h, data: data, face: face})
	tracer().Debugf("font catalog: registered %s", h.ID)
	return h, nil
}

// AddFace registers an already parsed face. Open will return the face's binary.
func (m *Memory) AddFace(ref font.Ref, face font.Face) Handle {
	h := Handle{ID: "mem:" + ref.String(), Ref: ref, Index: face.Index()}
	m.mx.Lock()
	defer m.mx.Unlock()
	m.entries = append(m.entries, memEntry{handle: h, data: face.Binary(), face: face})
	return h
}

// Face returns the face parsed at registration time.
func (m *Memory) Face(h Handle) (font.Face, bool) {
	m.mx.RLock()
	defer m.mx.RUnlock()
	for _, e := range m.entries {
		if e.handle.ID == h.ID {
			return e.face, true
		}
	}
	return nil, false
}

func (m *Memory) Match(ref font.Ref) ([]Handle, error) {
	m.mx.RLock()
	defer m.mx.RUnlock()
	var hh []Handle
	for _, e := range m.entries {
		if font.MatchRef(e.handle.Ref, ref) > font.NoConfidence {
			hh = append(hh, e.handle)
		}
	}
	if len(hh) == 0 {
		return nil, core.LayoutError(core.FontNotFound, nil, "no font matching %s", ref)
	}
	return rankByRef(hh, ref), nil
}

func (m *Memory) Covering(sample string, like font.Ref) ([]Handle, error) {
	m.mx.RLock()
	defer m.mx.RUnlock()
	var hh []Handle
	for _, e := range m.entries {
		if font.Covers(e.face, sample) {
			hh = append(hh, e.handle)
		}
	}
	return rankByRef(hh, like), nil
}

func (m *Memory) Open(h Handle) ([]byte, error) {
	m.mx.RLock()
	defer m.mx.RUnlock()
	for _, e := range m.entries {
		if e.handle.ID == h.ID {
			return e.data, nil
		}
	}
	if !strings.HasPrefix(h.ID, "mem:") {
		return nil, core.LayoutError(core.FontNotFound, nil, "handle %s does not belong to a memory catalog", h.ID)
	}
	return nil, core.LayoutError(core.FontNotFound, nil, "font %s not registered", h.ID)
}
