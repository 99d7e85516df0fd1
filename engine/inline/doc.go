/*
Package inline analyzes inline content for the layout engine.

Inline content is a sequence of items: runs of styled text, images, shapes,
spaces of fixed width and explicit line breaks. The analyzer concatenates
the items into the logical text of a paragraph. Items which are not text
are represented by a single U+FFFC OBJECT REPLACEMENT CHARACTER, line breaks
by U+2028 LINE SEPARATOR. Every item becomes a styled run of its own, and
the analyzer records where lines may be broken:

	UAX #14 line breaking opportunities
	after whitespace, soft hyphens and space objects
	mandatory breaks after line separators and newlines

No opportunity will ever split a grapheme cluster.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package inline

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textflow.layout'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.layout")
}
