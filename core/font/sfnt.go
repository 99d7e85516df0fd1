package font

import (
	"errors"
	"fmt"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// SFNTLoader loads TrueType and OpenType fonts and collections with
// golang.org/x/image/font/sfnt. It is the default font loader.
type SFNTLoader struct{}

var _ Loader = SFNTLoader{}

// Load parses font data. For collections (*.ttc, *.otc) index selects the
// font within the collection.
func (SFNTLoader) Load(data []byte, index int) (Face, error) {
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= coll.NumFonts() {
		return nil, fmt.Errorf("font collection has %d fonts, cannot select #%d", coll.NumFonts(), index)
	}
	f, err := coll.Font(index)
	if err != nil {
		return nil, err
	}
	face := &sfntFace{
		binary:   data,
		index:    index,
		sfnt:     f,
		upem:     float64(f.UnitsPerEm()),
		advances: make(map[GlyphIndex]float64),
	}
	if face.name, err = f.Name(&face.buf, sfnt.NameIDFull); err != nil {
		face.name, _ = f.Name(&face.buf, sfnt.NameIDFamily)
	}
	tracer().Debugf("sfnt loader parsed font %q (%d units/em)", face.name, int(face.upem))
	return face, nil
}

// sfntFace wraps an sfnt.Font. sfnt.Buffer is not safe for concurrent use,
// therefore all access to the font is serialized.
type sfntFace struct {
	sync.Mutex
	binary   []byte
	index    int
	name     string
	sfnt     *sfnt.Font
	buf      sfnt.Buffer
	upem     float64
	advances map[GlyphIndex]float64 // advances in font units
}

var _ Face = &sfntFace{}

func (f *sfntFace) Name() string {
	return f.name
}

func (f *sfntFace) Binary() []byte {
	return f.binary
}

func (f *sfntFace) Index() int {
	return f.index
}

func (f *sfntFace) HasGlyph(r rune) bool {
	return f.GlyphIndex(r) != 0
}

func (f *sfntFace) GlyphIndex(r rune) GlyphIndex {
	f.Lock()
	defer f.Unlock()
	gid, err := f.sfnt.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0
	}
	return GlyphIndex(gid)
}

// unitsPPEM is a ppem value which makes sfnt report metrics in font units.
func (f *sfntFace) unitsPPEM() fixed.Int26_6 {
	return fixed.Int26_6(f.sfnt.UnitsPerEm())
}

func (f *sfntFace) Advance(gid GlyphIndex, size float64) float64 {
	f.Lock()
	defer f.Unlock()
	units, ok := f.advances[gid]
	if !ok {
		adv, err := f.sfnt.GlyphAdvance(&f.buf, sfnt.GlyphIndex(gid), f.unitsPPEM(), xfont.HintingNone)
		if err != nil {
			tracer().Errorf("no advance for glyph %d in %s: %v", gid, f.name, err)
			adv = 0
		}
		units = float64(adv)
		f.advances[gid] = units
	}
	return units * size / f.upem
}

// VerticalAdvance always reports false, as sfnt does not expose vertical metrics.
func (f *sfntFace) VerticalAdvance(gid GlyphIndex, size float64) (float64, bool) {
	return 0, false
}

func (f *sfntFace) Kern(left, right GlyphIndex, size float64) float64 {
	f.Lock()
	defer f.Unlock()
	k, err := f.sfnt.Kern(&f.buf, sfnt.GlyphIndex(left), sfnt.GlyphIndex(right),
		f.unitsPPEM(), xfont.HintingNone)
	if err != nil {
		if !errors.Is(err, sfnt.ErrNotFound) {
			tracer().Debugf("kerning lookup in %s: %v", f.name, err)
		}
		return 0
	}
	return float64(k) * size / f.upem
}

func (f *sfntFace) Metrics(size float64) Metrics {
	f.Lock()
	defer f.Unlock()
	m, err := f.sfnt.Metrics(&f.buf, f.unitsPPEM(), xfont.HintingNone)
	if err != nil {
		tracer().Errorf("no metrics for %s: %v", f.name, err)
		return Metrics{Ascent: 0.8 * size, Descent: 0.2 * size}
	}
	scale := size / f.upem
	metrics := Metrics{
		Ascent:  float64(m.Ascent) * scale,
		Descent: float64(m.Descent) * scale,
		LineGap: float64(m.Height-m.Ascent-m.Descent) * scale,
		XHeight: float64(m.XHeight) * scale,
	}
	if metrics.LineGap < 0 {
		metrics.LineGap = 0
	}
	return metrics
}
