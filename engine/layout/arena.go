package layout

import (
	"fmt"
	"sync"

	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/inline"
)

// Handle references a calculation context in an Arena. The zero Handle is
// invalid.
type Handle uint64

func (h Handle) generation() uint32 { return uint32(h >> 32) }
func (h Handle) index() int         { return int(uint32(h)) - 1 }

func (h Handle) String() string {
	return fmt.Sprintf("calc#%d.%d", h.generation(), h.index())
}

// CalcContext is what an ObjectSizer gets to know about an object to size.
type CalcContext struct {
	ContentIndex int
	Kind         inline.Kind
	Width        float64 // negative if unknown
	Height       float64 // negative if unknown
	Style        *glyphing.Style
	Ref          interface{}
	InlineSize   float64 // extent of the flow area along the inline axis
}

// ObjectSizer is a callback to determine the dimensions of inline objects
// whose width or height is unknown. Dimensions already known are kept.
type ObjectSizer func(h Handle, calc CalcContext) (width, height float64, err error)

// Arena holds the calculation contexts of layout passes. Contexts are
// addressed by handles. A pass begins with Begin and ends with End, which
// invalidates all handles issued during the pass.
type Arena struct {
	mx         sync.Mutex
	generation uint32
	contexts   map[uint32][]CalcContext // by generation
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{contexts: make(map[uint32][]CalcContext)}
}

// Begin starts a pass and returns its generation.
func (a *Arena) Begin() uint32 {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.generation++
	if a.generation == 0 {
		a.generation++
	}
	a.contexts[a.generation] = nil
	return a.generation
}

// End ends a pass.
func (a *Arena) End(gen uint32) {
	a.mx.Lock()
	defer a.mx.Unlock()
	delete(a.contexts, gen)
}

// Add stores a context for a pass.
func (a *Arena) Add(gen uint32, calc CalcContext) Handle {
	a.mx.Lock()
	defer a.mx.Unlock()
	ctxs, ok := a.contexts[gen]
	if !ok {
		return 0
	}
	a.contexts[gen] = append(ctxs, calc)
	return Handle(uint64(gen)<<32 | uint64(len(ctxs)+1))
}

// Get returns the context a handle references, if its pass is still
// running.
func (a *Arena) Get(h Handle) (CalcContext, bool) {
	a.mx.Lock()
	defer a.mx.Unlock()
	ctxs, ok := a.contexts[h.generation()]
	i := h.index()
	if !ok || i < 0 || i >= len(ctxs) {
		return CalcContext{}, false
	}
	return ctxs[i], true
}

// Len returns the number of passes running.
func (a *Arena) Len() int {
	a.mx.Lock()
	defer a.mx.Unlock()
	return len(a.contexts)
}
