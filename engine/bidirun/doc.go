/*
Package bidirun resolves bidirectional text into visual runs.

Embedding levels are resolved with the Unicode Bidirectional Algorithm
(UAX #9) as implemented by package fribidi of github.com/benoitkugler/textlayout.
The paragraph is treated as a single line; reordering of lines is done
later by clients with ReorderIndices.

Resolve partitions a paragraph into runs of equal embedding level, splits them
further at style boundaries and returns them in visual order. Every run
knows the logical byte position it starts at, its script and its language.

	text := "abc אבג"
	result, err := bidirun.Resolve(nil, text, bidirun.Options{})
	// result.Runs[0] is "abc " at level 0, result.Runs[1] is "אבג" at level 1

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bidirun

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textflow.bidi'.
func tracer() tracing.Trace {
	return tracing.Select("textflow.bidi")
}
