/*
Package position turns broken and justified lines into positioned items.

Lines are laid out in logical coordinates: u runs along the inline axis and
v along the block axis. A Frame maps logical coordinates to physical ones,
depending on the writing mode. In horizontal-tb u is x and v is y; vertical
modes swap the roles of the axes and may mirror them.

For every segment of a line the Positioner resolves the alignment (start and
end become left or right according to the paragraph's base direction),
reorders glyphs visually with rule L2 of the bidi algorithm and places them
along the inline axis. Items carry their bounding box, the logical byte span
of their source text and their visual index, which is enough to
reconstruct carets and selections (see Caret).

Before lines are broken, ResolveOrientation decides for every glyph of a
vertical writing mode whether to set it upright or sideways, and
synthesizes vertical metrics for fonts lacking them.

After positioning, a Layout's overflow is handled according to the overflow
mode, see Layout.HandleOverflow.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package position

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textflow.layout'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.layout")
}
