package fontmgr

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/font"
	"github.com/npillmayer/textflow/core/font/fontcatalog"
	"github.com/npillmayer/textflow/core/parameters"
	"github.com/npillmayer/textflow/engine/bidirun"
	"github.com/npillmayer/textflow/engine/glyphing"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Manager resolves font references to faces and builds fallback chains.
type Manager struct {
	mx       sync.Mutex
	catalog  fontcatalog.Catalog
	loader   font.Loader
	regs     *parameters.TypesettingRegisters
	resolved map[font.Ref]font.Face // exact-match cache
	loaded   map[string]font.Face   // faces by catalog handle ID
	chains   map[chainKey]*Chain

	styleMx      sync.Mutex
	defaultStyle *glyphing.Style // for runs without style
}

type chainKey struct {
	ref    font.Ref
	sample string
}

// New creates a font manager. catalog defaults to the packaged Go fonts,
// loader to font.SFNTLoader, regs to the default typesetting registers.
func New(catalog fontcatalog.Catalog, loader font.Loader, regs *parameters.TypesettingRegisters) *Manager {
	if catalog == nil {
		catalog = fontcatalog.NewGoFonts()
	}
	if loader == nil {
		loader = font.SFNTLoader{}
	}
	if regs == nil {
		regs = parameters.NewTypesettingRegisters()
	}
	return &Manager{
		catalog:  catalog,
		loader:   loader,
		regs:     regs,
		resolved: make(map[font.Ref]font.Face),
		loaded:   make(map[string]font.Face),
		chains:   make(map[chainKey]*Chain),
	}
}

// Registers returns the typesetting registers of the manager.
func (m *Manager) Registers() *parameters.TypesettingRegisters {
	return m.regs
}

// DefaultRef is the font reference used for text without a style.
func (m *Manager) DefaultRef() font.Ref {
	return font.Regular(m.regs.S(parameters.P_FONTFAMILY))
}

// Resolve returns the face for a font reference. Resolved references are
// cached; otherwise the catalog is queried and the best match is loaded.
// If the catalog does not know the family, an error of kind FontNotFound is
// returned.
func (m *Manager) Resolve(ref font.Ref) (font.Face, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.resolve(ref)
}

func (m *Manager) resolve(ref font.Ref) (font.Face, error) {
	if face, ok := m.resolved[ref]; ok {
		return face, nil
	}
	handles, err := m.catalog.Match(ref)
	if err != nil {
		if core.KindOf(err) != core.FontNotFound {
			err = core.LayoutError(core.FontNotFound, err, "cannot resolve font %s", ref)
		}
		tracer().Errorf("font manager: %v", err)
		return nil, err
	}
	if len(handles) == 0 {
		return nil, core.LayoutError(core.FontNotFound, nil, "no font matching %s", ref)
	}
	face, err := m.load(handles[0])
	if err != nil {
		return nil, err
	}
	m.resolved[ref] = face
	tracer().Debugf("font manager: resolved %s to %s", ref, handles[0].ID)
	return face, nil
}

// load loads the face for a catalog handle, at most once per handle.
func (m *Manager) load(h fontcatalog.Handle) (font.Face, error) {
	if face, ok := m.loaded[h.ID]; ok {
		return face, nil
	}
	type faceHolder interface {
		Face(fontcatalog.Handle) (font.Face, bool)
	}
	if holder, ok := m.catalog.(faceHolder); ok {
		if face, ok := holder.Face(h); ok {
			m.loaded[h.ID] = face
			return face, nil
		}
	}
	data, err := m.catalog.Open(h)
	if err != nil {
		return nil, core.LayoutError(core.FontNotFound, err, "cannot open font %s", h.ID)
	}
	face, err := m.loader.Load(data, h.Index)
	if err != nil {
		return nil, core.LayoutError(core.FontNotFound, err, "cannot load font %s", h.ID)
	}
	m.loaded[h.ID] = face
	return face, nil
}

// Chain is a fallback chain: the primary face for a font reference, followed
// by faces covering parts of a text sample the primary face lacks.
type Chain struct {
	Ref      font.Ref
	Faces    []font.Face // primary first
	byScript map[language.Script][]font.Face
}

// Primary returns the primary face of the chain.
func (c *Chain) Primary() font.Face {
	return c.Faces[0]
}

// Order returns faces in resolution order for text of a given script: the
// primary face, faces found for the script, then all other faces.
func (c *Chain) Order(scr language.Script) []font.Face {
	specific := c.byScript[scr]
	if len(specific) == 0 {
		return c.Faces
	}
	order := make([]font.Face, 0, len(c.Faces))
	order = append(order, c.Faces[0])
	seen := map[font.Face]bool{c.Faces[0]: true}
	for _, f := range specific {
		if !seen[f] {
			order = append(order, f)
			seen[f] = true
		}
	}
	for _, f := range c.Faces[1:] {
		if !seen[f] {
			order = append(order, f)
			seen[f] = true
		}
	}
	return order
}

// FallbackChain returns the fallback chain for a font reference and a text
// sample. The sample is normalized to NFC and reduced to the set of its
// code-points; chains are cached per reference and sample.
//
// For every script of the sample which the primary face does not cover, the
// catalog is asked for faces covering the sample's characters of this
// script.
func (m *Manager) FallbackChain(ref font.Ref, sample string) (*Chain, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	sample = reduceSample(sample)
	key := chainKey{ref: ref, sample: sample}
	if chain, ok := m.chains[key]; ok {
		return chain, nil
	}
	primary, err := m.resolve(ref)
	if err != nil {
		return nil, err
	}
	chain := &Chain{
		Ref:      ref,
		Faces:    []font.Face{primary},
		byScript: make(map[language.Script][]font.Face),
	}
	inChain := map[font.Face]bool{primary: true}
	for _, part := range splitByScript(sample) {
		if font.Covers(primary, part.text) {
			continue
		}
		handles, err := m.catalog.Covering(part.text, ref)
		if err != nil && core.KindOf(err) != core.NotImplemented {
			return nil, err
		}
		for _, h := range handles {
			face, err := m.load(h)
			if err != nil {
				tracer().Infof("font manager: skipping fallback font %s: %v", h.ID, err)
				continue
			}
			chain.byScript[part.script] = append(chain.byScript[part.script], face)
			if !inChain[face] {
				chain.Faces = append(chain.Faces, face)
				inChain[face] = true
			}
		}
		tracer().Debugf("font manager: %d fallback fonts for script %s", len(handles), part.script)
	}
	m.chains[key] = chain
	return chain, nil
}

// reduceSample normalizes a sample to NFC and returns its distinct
// code-points in ascending order, without ignorables and whitespace.
func reduceSample(sample string) string {
	set := make(map[rune]bool)
	for _, r := range norm.NFC.String(sample) {
		if font.IsIgnorable(r) || unicode.IsSpace(r) {
			continue
		}
		set[r] = true
	}
	runes := make([]rune, 0, len(set))
	for r := range set {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}

type scriptPart struct {
	script language.Script
	text   string
}

// splitByScript groups the runes of a sample by script. Common and inherited
// runes form a group of their own.
func splitByScript(sample string) []scriptPart {
	var parts []scriptPart
	index := make(map[language.Script]int)
	for _, r := range sample {
		scr := bidirun.ScriptOf(r)
		i, ok := index[scr]
		if !ok {
			i = len(parts)
			index[scr] = i
			parts = append(parts, scriptPart{script: scr})
		}
		parts[i].text += string(r)
	}
	for i := range parts {
		parts[i].text = strings.TrimSpace(parts[i].text)
	}
	return parts
}
