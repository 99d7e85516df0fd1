/*
Package fontcatalog answers font queries against a catalog of available fonts.

A catalog knows about fonts without having to load all of them: it lists font
handles, matches them against abstract font references (family, style, weight)
and against text samples they have to cover. Font bytes are handed out on
request; parsing them is the job of a font.Loader.

Two catalogs are provided: a System catalog, which enumerates the fonts
installed on the host with github.com/flopp/go-findfont, and a Memory catalog,
which holds fonts registered by the client (and is pre-populated with the
packaged Go fonts if requested).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontcatalog

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textflow.font'
func tracer() tracing.Trace {
	return tracing.Select("textflow.font")
}
