// Package dimen implements dimensions and units.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Online dimension conversion for print:
// http://www.unitconversion.org/unit_converter/typography-ex.html

// Dimen is a dimension type.
// Values are in scaled big points (different from TeX).
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	SP   Dimen = 1       // scaled point = BP / 65536
	BP   Dimen = 65536   // big point (PDF) = 1/72 inch
	PX   Dimen = 65536   // "pixels"
	PT   Dimen = 65291   // printers point 1/72.27 inch
	MM   Dimen = 185771  // millimeters
	CM   Dimen = 1857710 // centimeters
	IN   Dimen = 4718592 // inch
)

// Stringer implementation.
func (d Dimen) String() string {
	return fmt.Sprintf("%dsp", int32(d))
}

var lengthPattern = regexp.MustCompile(`^([+\-]?[0-9]*\.?[0-9]+)\s*(%|px|pt|bp|mm|cm|in|sp|PX|PT|BP|MM|CM|IN|SP)?$`)

// ParseLength parses a CSS length, allowing fractional values, and returns
// it in pixels. A unit-less number is taken to be pixels; 1px equals one big
// point.
// If a percentage value is given (`80%`), the returned value is the plain
// percentage number and the second return value will be true.
func ParseLength(s string) (float64, bool, error) {
	d := lengthPattern.FindStringSubmatch(strings.TrimSpace(s))
	if len(d) < 2 {
		return 0, false, errors.New("format error parsing length")
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, false, errors.New("format error parsing length")
	}
	var scale Dimen
	switch strings.ToLower(d[2]) {
	case "%":
		return n, true, nil
	case "", "px", "bp":
		return n, false, nil
	case "pt":
		scale = PT
	case "mm":
		scale = MM
	case "cm":
		scale = CM
	case "in":
		scale = IN
	case "sp":
		scale = SP
	}
	return n * float64(scale) / float64(PX), false, nil
}
