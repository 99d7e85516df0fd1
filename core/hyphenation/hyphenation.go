package hyphenation

import (
	"bytes"
	"embed"
	"sync"

	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/parameters"
	"golang.org/x/text/language"
)

// Hyphenator finds hyphenation points for a word in a given language.
// Positions are byte offsets into word, in increasing order. A hyphenator
// returns an error of kind core.HyphenationError if it is unable to hyphenate
// for lang.
type Hyphenator interface {
	Hyphenate(word string, lang language.Tag) ([]int, error)
}

//go:embed patterns/*.tex
var packaged embed.FS

// Registry is a Hyphenator which selects a dictionary by language. It is safe
// for concurrent use. Dictionaries for packaged languages are loaded on
// first use.
type Registry struct {
	mx    sync.RWMutex
	dicts map[language.Base]*Dictionary
	regs  *parameters.TypesettingRegisters
}

var _ Hyphenator = &Registry{}

// NewRegistry creates a hyphenator registry. Limits for word length and
// hyphen positions are taken from regs, if non-nil.
func NewRegistry(regs *parameters.TypesettingRegisters) *Registry {
	return &Registry{
		dicts: make(map[language.Base]*Dictionary),
		regs:  regs,
	}
}

// Register installs a dictionary for a language, replacing a previous one.
func (reg *Registry) Register(lang language.Tag, d *Dictionary) {
	base, _ := lang.Base()
	reg.mx.Lock()
	defer reg.mx.Unlock()
	reg.dicts[base] = d
}

// withLimits returns a view of d with the current register limits applied.
// Dictionaries are shared, so d itself is left untouched.
func (reg *Registry) withLimits(d *Dictionary) *Dictionary {
	if reg.regs == nil {
		return d
	}
	view := *d
	view.MinLength = reg.regs.N(parameters.P_MINHYPHENLENGTH)
	view.LeftMin = reg.regs.N(parameters.P_LEFTHYPHENMIN)
	view.RightMin = reg.regs.N(parameters.P_RIGHTHYPHENMIN)
	return &view
}

// Dictionary returns the dictionary for a language, loading a packaged one
// if necessary.
func (reg *Registry) Dictionary(lang language.Tag) (*Dictionary, error) {
	base, _ := lang.Base()
	reg.mx.RLock()
	d, ok := reg.dicts[base]
	reg.mx.RUnlock()
	if ok {
		return d, nil
	}
	data, err := packaged.ReadFile("patterns/" + base.String() + ".tex")
	if err != nil {
		return nil, core.LayoutError(core.HyphenationError, err,
			"no hyphenation dictionary for language %s", lang)
	}
	if d, err = Load(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	reg.mx.Lock()
	defer reg.mx.Unlock()
	if other, ok := reg.dicts[base]; ok { // lost a race
		return other, nil
	}
	reg.dicts[base] = d
	return d, nil
}

// Hyphenate finds hyphenation points for word, using the dictionary for lang.
func (reg *Registry) Hyphenate(word string, lang language.Tag) ([]int, error) {
	d, err := reg.Dictionary(lang)
	if err != nil {
		tracer().Debugf("cannot hyphenate %q: %v", word, err)
		return nil, err
	}
	return reg.withLimits(d).Hyphenate(word), nil
}
