/*
Package parameters holds typesetting registers, i.e. engine-wide defaults
which may be overridden in nested groups.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"fmt"
)

type TypesettingParameter int

//go:generate stringer -type=TypesettingParameter
const (
	none TypesettingParameter = iota
	P_LANGUAGE
	P_HYPHENCHAR
	P_MINHYPHENLENGTH
	P_LEFTHYPHENMIN
	P_RIGHTHYPHENMIN
	P_LINEHEIGHTFACTOR
	P_FONTFAMILY
	P_FONTSIZE
	P_STOPPER
)

type ParameterGroup struct {
	params map[TypesettingParameter]interface{}
	level  int
	next   *ParameterGroup
}

// TypesettingRegisters is a stack of parameter groups on top of a set of
// base values.
type TypesettingRegisters struct {
	base       [P_STOPPER]interface{}
	groups     *ParameterGroup
	grouplevel int
}

// ----------------------------------------------------------------------

func NewTypesettingRegisters() *TypesettingRegisters {
	regs := &TypesettingRegisters{}
	initParameters(&regs.base)
	return regs
}

func initParameters(p *[P_STOPPER]interface{}) {
	p[P_LANGUAGE] = "en"          // BCP 47 tag, a string
	p[P_HYPHENCHAR] = int('-')    // a rune
	p[P_MINHYPHENLENGTH] = 5      // # of runes a word must have to be hyphenated
	p[P_LEFTHYPHENMIN] = 2        // # of runes before the first hyphen
	p[P_RIGHTHYPHENMIN] = 3       // # of runes after the last hyphen
	p[P_LINEHEIGHTFACTOR] = 1.2   // line height as a multiple of the font size
	p[P_FONTFAMILY] = "Go"        // fallback font family
	p[P_FONTSIZE] = float64(16.0) // default font size in px
}

func (regs *TypesettingRegisters) Begingroup() {
	regs.grouplevel++
}

func (regs *TypesettingRegisters) Endgroup() {
	if regs.grouplevel > 0 {
		if regs.groups != nil && regs.groups.level == regs.grouplevel {
			regs.groups = regs.groups.next
		}
		regs.grouplevel--
	}
}

func (regs *TypesettingRegisters) Push(key TypesettingParameter, value interface{}) {
	if regs.grouplevel > 0 {
		var g *ParameterGroup
		if regs.groups == nil || regs.groups.level < regs.grouplevel {
			g = &ParameterGroup{}
			g.params = make(map[TypesettingParameter]interface{})
			g.level = regs.grouplevel
			g.next = regs.groups
			regs.groups = g
		} else {
			g = regs.groups
		}
		g.params[key] = value
	} else {
		regs.base[key] = value
	}
}

func (regs *TypesettingRegisters) Get(key TypesettingParameter) interface{} {
	if key <= 0 || key >= P_STOPPER {
		panic(fmt.Sprintf("parameter key %d outside range of typesetting parameters", key))
	}
	var value interface{}
	if regs.grouplevel > 0 {
		for g := regs.groups; g != nil; g = g.next {
			value = g.params[key]
			if value != nil {
				break
			}
		}
	}
	if value == nil {
		value = regs.base[key]
	}
	return value
}

func (regs *TypesettingRegisters) S(key TypesettingParameter) string {
	return regs.Get(key).(string)
}

func (regs *TypesettingRegisters) N(key TypesettingParameter) int {
	return regs.Get(key).(int)
}

func (regs *TypesettingRegisters) F(key TypesettingParameter) float64 {
	switch v := regs.Get(key).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	panic(fmt.Sprintf("parameter %d is not numeric", key))
}
