package bidirun

import (
	"sort"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMixedHebrewLatin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.bidi")
	defer teardown()
	//
	text := "abc \u05d3\u05d1\u05e8"
	res, err := Resolve(nil, text, Options{})
	require.NoError(t, err)
	assert.Equal(t, glyphing.LeftToRight, res.Direction)
	require.Len(t, res.Runs, 2)
	assert.Equal(t, "abc ", res.Runs[0].Text)
	assert.Equal(t, 0, res.Runs[0].Start)
	assert.Equal(t, uint8(0), res.Runs[0].Level)
	assert.Equal(t, "\u05d3\u05d1\u05e8", res.Runs[1].Text)
	assert.Equal(t, 4, res.Runs[1].Start)
	assert.Equal(t, uint8(1), res.Runs[1].Level)
	assert.True(t, res.Runs[1].IsRTL())
	assert.Equal(t, "Hebr", res.Runs[1].Script.String())
	base, _ := res.Runs[1].Language.Base()
	assert.Equal(t, "he", base.String())
}

func TestRightToLeftParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.bidi")
	defer teardown()
	//
	text := "\u05d3\u05d1\u05e8 abc"
	res, err := Resolve(nil, text, Options{})
	require.NoError(t, err)
	assert.Equal(t, glyphing.RightToLeft, res.Direction)
	require.Len(t, res.Runs, 2)
	assert.Equal(t, "abc", res.Runs[0].Text)
	assert.Equal(t, 7, res.Runs[0].Start)
	assert.Equal(t, uint8(2), res.Runs[0].Level)
	assert.Equal(t, "\u05d3\u05d1\u05e8 ", res.Runs[1].Text)
	assert.Equal(t, 0, res.Runs[1].Start)
	assert.Equal(t, uint8(1), res.Runs[1].Level)
}

func TestNumbersInRightToLeft(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.bidi")
	defer teardown()
	//
	res, err := Resolve(nil, "\u05d0\u05d1\u05d2 123", Options{})
	require.NoError(t, err)
	require.Len(t, res.Runs, 2)
	assert.Equal(t, "123", res.Runs[0].Text)
	assert.Equal(t, uint8(2), res.Runs[0].Level)
	assert.Equal(t, "\u05d0\u05d1\u05d2 ", res.Runs[1].Text)
	assert.Equal(t, uint8(1), res.Runs[1].Level)
}

func TestStyleBoundaries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.bidi")
	defer teardown()
	//
	s1 := &glyphing.Style{Size: 10}
	s2 := &glyphing.Style{Size: 12}
	text := "Hello \u05e9\u05dc\u05d5\u05dd world"
	cut := len("Hello \u05e9")
	runs := []StyledRun{
		{Text: text[:cut], Style: s1, Start: 0},
		{Text: text[cut:], Style: s2, Start: cut, ContentIndex: 1},
	}
	res, err := Resolve(runs, text, Options{})
	require.NoError(t, err)
	require.Len(t, res.Runs, 4)
	assert.Equal(t, "Hello ", res.Runs[0].Text)
	assert.Equal(t, "\u05dc\u05d5\u05dd", res.Runs[1].Text)
	assert.Equal(t, "\u05e9", res.Runs[2].Text)
	assert.Equal(t, " world", res.Runs[3].Text)
	assert.Same(t, s2, res.Runs[1].Style)
	assert.Same(t, s1, res.Runs[2].Style)
	assert.Equal(t, 1, res.Runs[1].RunIndex)
	assert.Equal(t, 1, res.Runs[3].ContentIndex)
}

func TestRunsTileText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.bidi")
	defer teardown()
	//
	texts := []string{
		"abc",
		"abc \u05d3\u05d1\u05e8",
		"\u05d3\u05d1\u05e8 abc 123, \u05d0\u05d1\u05d2!",
		"one (\u05d0\u05d1 \u05d2\u05d3) two",
		"x\u2067abc\u2069y",
		"\u0645\u0631\u062d\u0628\u0627 \u0628\u0627\u0644\u0639\u0627\u0644\u0645 2021",
	}
	for _, text := range texts {
		res, err := Resolve(nil, text, Options{})
		require.NoError(t, err, text)
		runs := append([]VisualRun(nil), res.Runs...)
		sort.Slice(runs, func(i, j int) bool { return runs[i].Start < runs[j].Start })
		var b strings.Builder
		pos := 0
		for _, r := range runs {
			assert.Equal(t, pos, r.Start, "gap or overlap in %q", text)
			assert.NotEmpty(t, r.Text)
			b.WriteString(r.Text)
			pos = r.End()
		}
		assert.Equal(t, text, b.String())
		for _, r := range res.Runs {
			for i := r.Start; i < r.End(); i++ {
				assert.Equal(t, r.Level, res.Levels[i], "level of byte %d in %q", i, text)
			}
		}
	}
}

func TestEmptyText(t *testing.T) {
	res, err := Resolve(nil, "", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Runs)
	assert.Equal(t, glyphing.LeftToRight, res.Direction)
	assert.Equal(t, glyphing.LeftToRight, BaseDirection(""))
}

func TestForcedDirectionAndLanguage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.bidi")
	defer teardown()
	//
	de := language.MustParse("de")
	res, err := Resolve(nil, "abc", Options{
		ForceDirection: true,
		Direction:      glyphing.RightToLeft,
		Language:       de,
	})
	require.NoError(t, err)
	assert.Equal(t, glyphing.RightToLeft, res.Direction)
	require.Len(t, res.Runs, 1)
	assert.Equal(t, uint8(2), res.Runs[0].Level)
	assert.Equal(t, de, res.Runs[0].Language)
}

func TestLanguageFromStyle(t *testing.T) {
	fr := language.MustParse("fr")
	style := &glyphing.Style{Language: fr}
	res, err := Resolve([]StyledRun{{Text: "chat", Style: style}}, "chat", Options{})
	require.NoError(t, err)
	assert.Equal(t, fr, res.Runs[0].Language)
	//
	res, err = Resolve(nil, "...", Options{DefaultLanguage: language.English})
	require.NoError(t, err)
	assert.Equal(t, language.English, res.Runs[0].Language)
}

func TestExplicitEmbedding(t *testing.T) {
	levels, dir := Levels("a\u202Bb\u202Cc", Options{})
	assert.Equal(t, glyphing.LeftToRight, dir)
	assert.Equal(t, []uint8{0, 0, 2, 2, 0}, levels)
}

func TestEmbeddingInsideRightToLeft(t *testing.T) {
	// from BidiCharacterTest.txt: 05D0 202A 05D1 202C 0020 0031 0020 0032
	text := "\u05d0\u202a\u05d1\u202c 1 2"
	levels, dir := Levels(text, Options{ForceDirection: true, Direction: glyphing.LeftToRight})
	assert.Equal(t, glyphing.LeftToRight, dir)
	require.Len(t, levels, 8)
	for i, want := range []uint8{1, 0, 3, 0, 0, 0, 0, 0} {
		if i == 1 || i == 3 { // removed by rule X9
			continue
		}
		assert.Equal(t, want, levels[i], "level of rune %d", i)
	}
	assert.Equal(t, levels[0], levels[1], "LRE takes the level of the preceding character")
}

func TestIsolates(t *testing.T) {
	levels, _ := Levels("x\u2067abc\u2069y", Options{})
	assert.Equal(t, []uint8{0, 0, 2, 2, 2, 0, 0}, levels)
	assert.Equal(t, glyphing.LeftToRight, BaseDirection("\u2067\u05d0\u05d1\u05d2\u2069abc"))
	assert.Equal(t, glyphing.RightToLeft, BaseDirection("123 \u05d0\u05d1\u05d2"))
}

func TestBracketPairs(t *testing.T) {
	levels, _ := Levels("\u05d0\u05d1 (\u05d2) cd", Options{
		ForceDirection: true,
		Direction:      glyphing.LeftToRight,
	})
	assert.Equal(t, []uint8{1, 1, 1, 1, 1, 1, 0, 0, 0}, levels)
}

func TestReorderIndices(t *testing.T) {
	assert.Equal(t, []int{0, 1, 3, 2, 4}, ReorderIndices([]uint8{0, 0, 1, 1, 0}))
	assert.Equal(t, []int{4, 2, 3, 1, 0}, ReorderIndices([]uint8{1, 1, 2, 2, 1}))
	assert.Equal(t, []int{0, 1, 2}, ReorderIndices([]uint8{0, 2, 0}))
	assert.Empty(t, ReorderIndices(nil))
}

func TestScripts(t *testing.T) {
	assert.Equal(t, "Latn", DominantScript("abc, def").String())
	assert.Equal(t, "Arab", DominantScript("\u0645\u0631\u062d\u0628\u0627 1").String())
	assert.Equal(t, "Zyyy", DominantScript("123 !").String())
	assert.Equal(t, "Hebr", ScriptOf('\u05d0').String())
	base, _ := LanguageForScript(DominantScript("\u0645\u0631\u062d\u0628\u0627")).Base()
	assert.Equal(t, "ar", base.String())
	assert.Equal(t, language.Und, LanguageForScript(DominantScript("123")))
}

func TestResolveErrors(t *testing.T) {
	_, err := Resolve(nil, "ab\xffc", Options{})
	assert.Equal(t, core.InvalidText, core.KindOf(err))
	_, err = Resolve([]StyledRun{{Text: "ab", Start: 0}}, "abc", Options{})
	assert.Equal(t, core.BidiError, core.KindOf(err))
	_, err = Resolve([]StyledRun{{Text: "bc", Start: 1}}, "abc", Options{})
	assert.Equal(t, core.BidiError, core.KindOf(err))
}
