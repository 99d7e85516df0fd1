package bidirun

import (
	"encoding/binary"
	"unicode"

	gtlang "github.com/go-text/typesetting/language"
	"golang.org/x/text/language"
)

// ScriptOf returns the ISO 15924 script of a rune. Runes used by many scripts
// report script 'Zyyy', inherited marks 'Zinh'.
func ScriptOf(r rune) language.Script {
	return convertScript(gtlang.LookupScript(r))
}

// DominantScript returns the script most runes of text belong to, not
// counting common and inherited runes. Ties are won by the script appearing
// first. Text without any specific script reports 'Zyyy'.
func DominantScript(text string) language.Script {
	counts := make(map[gtlang.Script]int)
	var order []gtlang.Script
	for _, r := range text {
		s := gtlang.LookupScript(r)
		if s == gtlang.Common || s == gtlang.Inherited {
			continue
		}
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	if len(order) == 0 {
		return language.MustParseScript("Zyyy")
	}
	best := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return convertScript(best)
}

// convertScript converts a go-text script, which is a lowercase ISO 15924
// tag packed into 32 bits, to an x/text script.
func convertScript(s gtlang.Script) language.Script {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(s))
	b[0] = byte(unicode.ToUpper(rune(b[0])))
	scr, err := language.ParseScript(string(b))
	if err != nil {
		return language.MustParseScript("Zyyy")
	}
	return scr
}

// LanguageForScript infers the most likely language for a script, e.g.
// Hebrew for 'Hebr'. It returns language.Und if nothing can be inferred.
func LanguageForScript(scr language.Script) language.Tag {
	switch scr.String() {
	case "Zyyy", "Zinh", "Zzzz":
		return language.Und
	}
	t, err := language.Compose(language.Und, scr)
	if err != nil {
		return language.Und
	}
	base, conf := t.Base()
	if conf == language.No {
		return language.Und
	}
	lang, err := language.Compose(base)
	if err != nil {
		return language.Und
	}
	return lang
}

// detectScriptAndLanguage sets script and language of a visual run. A forced
// language wins over the style's language, which wins over the language
// inferred from the script. DefaultLanguage is the last resort.
func detectScriptAndLanguage(run *VisualRun, opts Options) {
	run.Script = DominantScript(run.Text)
	switch {
	case opts.Language != language.Und:
		run.Language = opts.Language
	case run.Style != nil && run.Style.Language != language.Und:
		run.Language = run.Style.Language
	default:
		run.Language = LanguageForScript(run.Script)
		if run.Language == language.Und {
			run.Language = opts.DefaultLanguage
		}
	}
}
