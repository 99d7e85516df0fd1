/*
Package linebreak breaks a paragraph of shaped glyphs into lines.

The breaker is a greedy first-fit breaker: every line is filled with as many
glyphs as fit, then broken at the last break opportunity. Its only state is
a cursor into the glyph sequence of the paragraph, which is in logical
order. Every call to Next produces one line, offering one or more segments
of available width, and advances the cursor by at least one glyph.

If a word does not fit a segment on its own, the breaker asks a
hyphenation.Hyphenator for hyphenation points of the word, takes the last one
whose prefix (including a synthetic hyphen glyph) still fits, and as a last
resort forces a break in front of the first glyph which does not fit.
Break positions never split a grapheme cluster.

Whitespace at the end of a line hangs: it does not count towards the width
of the line. Whitespace at the start of a line is skipped.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package linebreak

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textflow.linebreak'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.linebreak")
}
