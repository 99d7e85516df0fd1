/*
Package hyphenation finds hyphenation points in words.

Hyphenation uses Frank Liang's algorithm, as known from TeX: a dictionary of
patterns assigns inter-letter values, odd values denoting permissible
hyphenation points. A list of exceptions overrides the patterns for individual
words. Pattern and exception files in TeX format (\patterns{…} and
\hyphenation{…}) may be loaded with Load.

The package ships with a small English dictionary. It knows only a modest set
of patterns and exceptions; clients wanting production quality hyphenation
should load complete pattern files.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hyphenation

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textflow.hyphenation'
func tracer() tracing.Trace {
	return tracing.Select("textflow.hyphenation")
}
