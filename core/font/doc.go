/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".

* A "font reference" (Ref) names a font abstractly by family, style and weight,
without telling where it comes from.

* A "face" is a parsed font file (or a member of a font collection), able to
report glyph coverage, glyph indices and metrics. Faces are produced by a
Loader, which is a pluggable capability; this package provides loaders based on
golang.org/x/image/font/sfnt and on github.com/go-text/typesetting.

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textflow.font'
func tracer() tracing.Trace {
	return tracing.Select("textflow.font")
}
