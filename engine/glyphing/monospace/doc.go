/*
Package monospace implements a simple shaper for monospace output.

Every grapheme cluster becomes a single glyph. Its advance is a multiple of a
fixed cell width, the multiple being the grapheme's East Asian width (UAX #11),
i.e. wide characters occupy two cells.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package monospace

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textflow.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.glyphs")
}
