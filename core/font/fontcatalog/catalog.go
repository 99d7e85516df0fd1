package fontcatalog

import (
	"sort"

	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/font"
)

// Handle identifies a font within a catalog. Handles are values and may be
// compared; ID is unique within its catalog.
type Handle struct {
	ID    string
	Ref   font.Ref // family, style and weight, possibly guessed from the file name
	Path  string   // file path, if any
	Index int      // index within a font collection
}

// Catalog is the query interface of a font catalog.
//
// Match returns handles for fonts of a given family, ranked by how well
// style and weight fit. If no font of the family is known, Match returns an
// error of kind core.FontNotFound.
//
// Covering returns handles for fonts which have glyphs for every (non-ignorable)
// code-point of sample. Results are ranked by their closeness to like, then by
// ID. An empty result is not an error.
//
// Open returns the raw bytes of a font.
type Catalog interface {
	Match(ref font.Ref) ([]Handle, error)
	Covering(sample string, like font.Ref) ([]Handle, error)
	Open(h Handle) ([]byte, error)
}

// rankByRef sorts handles by their match confidence with respect to ref,
// highest confidence first. Ties are broken by ID to keep results stable.
func rankByRef(handles []Handle, ref font.Ref) []Handle {
	sort.SliceStable(handles, func(i, j int) bool {
		ci := rateHandle(handles[i], ref)
		cj := rateHandle(handles[j], ref)
		if ci != cj {
			return ci > cj
		}
		return handles[i].ID < handles[j].ID
	})
	return handles
}

func rateHandle(h Handle, ref font.Ref) int {
	c := int(font.MatchRef(h.Ref, ref))
	// fonts of other families still differ in style and weight
	c = c*10 + int(font.MatchStyle(h.Ref.Style, ref.Style)) + int(font.MatchWeight(h.Ref.Weight, ref.Weight))
	return c
}

// --- Null catalog ----------------------------------------------------------

// Null is a catalog without any fonts. Every query fails with an error of kind
// core.NotImplemented. It stands in for platforms where no font enumeration
// is available.
type Null struct{}

var _ Catalog = Null{}

func (Null) Match(ref font.Ref) ([]Handle, error) {
	return nil, core.LayoutError(core.NotImplemented, nil, "no font catalog available to match %s", ref)
}

func (Null) Covering(sample string, like font.Ref) ([]Handle, error) {
	return nil, core.LayoutError(core.NotImplemented, nil, "no font catalog available for coverage queries")
}

func (Null) Open(h Handle) ([]byte, error) {
	return nil, core.LayoutError(core.NotImplemented, nil, "no font catalog available to open %s", h.ID)
}

// --- Multi catalog ---------------------------------------------------------

// Chain queries a sequence of catalogs. Match returns the results of the first
// catalog knowing the family; Covering concatenates results, earlier
// catalogs first. Handle IDs are expected to be unique across catalogs.
type Chain []Catalog

var _ Catalog = Chain{}

func (c Chain) Match(ref font.Ref) ([]Handle, error) {
	var lasterr error
	for _, cat := range c {
		hh, err := cat.Match(ref)
		if err == nil && len(hh) > 0 {
			return hh, nil
		}
		lasterr = err
	}
	if lasterr == nil || core.KindOf(lasterr) == core.NotImplemented {
		lasterr = core.LayoutError(core.FontNotFound, lasterr, "no font matching %s", ref)
	}
	return nil, lasterr
}

func (c Chain) Covering(sample string, like font.Ref) ([]Handle, error) {
	var result []Handle
	for _, cat := range c {
		hh, err := cat.Covering(sample, like)
		if err != nil {
			if core.KindOf(err) == core.NotImplemented {
				continue
			}
			return nil, err
		}
		result = append(result, hh...)
	}
	return result, nil
}

func (c Chain) Open(h Handle) ([]byte, error) {
	for _, cat := range c {
		if data, err := cat.Open(h); err == nil {
			return data, nil
		}
	}
	return nil, core.LayoutError(core.FontNotFound, nil, "font %s not present in any catalog", h.ID)
}
