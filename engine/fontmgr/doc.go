/*
Package fontmgr resolves fonts for the layout engine and shapes runs of text
with font fallback.

A Manager is the explicit owner of all font caches of a layout "world":
fonts resolved by reference, faces loaded from a catalog, and fallback chains
built for text samples. Managers are safe for concurrent use; caches grow for
the lifetime of the manager.

Shaping a visual run groups its characters into segments likely to share a
font (same script, ASCII, whitespace next to either), selects for each segment
the first face of the run's fallback chain covering every code-point, shapes
the segment with a pluggable shaping backend and concatenates the results.
Glyphs of right-to-left runs are reversed as a whole, i.e. returned in
rendering order; their logical byte spans are left untouched.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontmgr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textflow.font'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.font")
}
