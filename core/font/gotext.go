package font

import (
	"bytes"
	"fmt"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
)

// GoTextLoader loads fonts with github.com/go-text/typesetting.
// Faces produced by this loader carry the go-text face, which the go-text
// shaping backend will use without re-parsing the font.
type GoTextLoader struct{}

var _ Loader = GoTextLoader{}

// Load parses font data with go-text/typesetting.
func (GoTextLoader) Load(data []byte, index int) (Face, error) {
	var face *gtfont.Face
	if index == 0 {
		f, err := gtfont.ParseTTF(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		face = f
	} else {
		faces, err := gtfont.ParseTTC(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= len(faces) {
			return nil, fmt.Errorf("font collection has %d fonts, cannot select #%d", len(faces), index)
		}
		face = faces[index]
	}
	return &gotextFace{
		binary: data,
		index:  index,
		face:   face,
		upem:   float64(face.Upem()),
		name:   fmt.Sprintf("go-text font #%d (%d bytes)", index, len(data)),
	}, nil
}

// GoTextFont is implemented by faces which wrap a go-text font.
// The font is read-only and may be shared; shapers create a go-text face
// from it for every shaping call.
type GoTextFont interface {
	GoTextFont() *gtfont.Font
}

// gotextFace serializes access to the go-text face, which is not safe
// for concurrent use.
type gotextFace struct {
	sync.Mutex
	binary []byte
	index  int
	name   string
	face   *gtfont.Face
	upem   float64
}

var _ Face = &gotextFace{}
var _ GoTextFont = &gotextFace{}

func (f *gotextFace) GoTextFont() *gtfont.Font {
	return f.face.Font
}

func (f *gotextFace) Name() string {
	return f.name
}

func (f *gotextFace) Binary() []byte {
	return f.binary
}

func (f *gotextFace) Index() int {
	return f.index
}

func (f *gotextFace) HasGlyph(r rune) bool {
	f.Lock()
	defer f.Unlock()
	_, ok := f.face.NominalGlyph(r)
	return ok
}

func (f *gotextFace) GlyphIndex(r rune) GlyphIndex {
	f.Lock()
	defer f.Unlock()
	gid, ok := f.face.NominalGlyph(r)
	if !ok {
		return 0
	}
	return GlyphIndex(gid)
}

func (f *gotextFace) Advance(gid GlyphIndex, size float64) float64 {
	f.Lock()
	defer f.Unlock()
	return float64(f.face.HorizontalAdvance(gtfont.GID(gid))) * size / f.upem
}

func (f *gotextFace) VerticalAdvance(gid GlyphIndex, size float64) (float64, bool) {
	return 0, false
}

// Kern returns 0; go-text applies kerning during shaping.
func (f *gotextFace) Kern(left, right GlyphIndex, size float64) float64 {
	return 0
}

func (f *gotextFace) Metrics(size float64) Metrics {
	f.Lock()
	defer f.Unlock()
	ext, ok := f.face.FontHExtents()
	if !ok {
		return Metrics{Ascent: 0.8 * size, Descent: 0.2 * size}
	}
	scale := size / f.upem
	m := Metrics{
		Ascent:  float64(ext.Ascender) * scale,
		Descent: -float64(ext.Descender) * scale,
		LineGap: float64(ext.LineGap) * scale,
	}
	if m.LineGap < 0 {
		m.LineGap = 0
	}
	return m
}
