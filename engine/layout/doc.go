/*
Package layout lays out paragraphs of inline content into arbitrary shapes.

An Engine runs the complete pipeline for a paragraph: content analysis,
bidi resolution, shaping with font fallback, glyph orientation for
vertical writing modes, line breaking into the segments a shape leaves
for each line, justification, positioning and overflow handling.
Results are cached, keyed by content and constraints.

	engine := layout.New(layout.WithShaper(monospace.Shaper(10, nil)))
	c := layout.NewConstraints(400, 0)
	l, err := engine.Layout([]inline.Item{inline.Text("Hello World", nil)}, c)

Layouts returned by an engine are shared with its cache and must be treated
as read-only.

Inline objects with unknown dimensions are sized by an ObjectSizer
callback. The callback receives a Handle to a calculation context stored
in the engine's Arena; handles are valid for the duration of a single
layout pass.

An Engine is safe for concurrent use, as far as its collaborators are:
the font manager serializes access to its caches, shaping backends are
required to be safe for concurrent use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textflow.layout'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.layout")
}
