package hyphenation

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/parameters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// Patterns from appendix H of the TeXbook.
const texbookPatterns = `hy3ph he2n hena4 hen5at 1na n2at 1tio 2io o2n`

func hyphenated(word string, offsets []int) string {
	var b strings.Builder
	last := 0
	for _, o := range offsets {
		b.WriteString(word[last:o])
		b.WriteByte('-')
		last = o
	}
	b.WriteString(word[last:])
	return b.String()
}

func TestLiangPatterns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.hyphenation")
	defer teardown()
	//
	d, err := Load(strings.NewReader(texbookPatterns))
	require.NoError(t, err)
	assert.Equal(t, "hy-phen-ation", hyphenated("hyphenation", d.Hyphenate("hyphenation")))
	assert.Equal(t, "Hy-phen-ation", hyphenated("Hyphenation", d.Hyphenate("Hyphenation")))
	assert.Empty(t, d.Hyphenate("hyph"), "too short")
	assert.Empty(t, d.Hyphenate("hyphen-ation"), "non-letters")
}

func TestLeftRightMin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.hyphenation")
	defer teardown()
	//
	d, err := Load(strings.NewReader(texbookPatterns))
	require.NoError(t, err)
	d.LeftMin = 3
	assert.Equal(t, "hyphen-ation", hyphenated("hyphenation", d.Hyphenate("hyphenation")))
	d.LeftMin, d.RightMin = 2, 6
	assert.Equal(t, "hy-phenation", hyphenated("hyphenation", d.Hyphenate("hyphenation")))
}

func TestTeXFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.hyphenation")
	defer teardown()
	//
	input := `% comment line
\patterns{ % patterns follow
` + texbookPatterns + `
}
\hyphenation{ ta-ble project }`
	d, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "hy-phen-ation", hyphenated("hyphenation", d.Hyphenate("hyphenation")))
	d.RightMin = 2
	assert.Equal(t, "ta-ble", hyphenated("table", d.Hyphenate("table")))
	assert.Empty(t, d.Hyphenate("project"))
	//
	_, err = Load(strings.NewReader(`\patterns{ a#b }`))
	assert.True(t, errors.Is(err, core.ErrHyphenation))
}

func TestNonASCII(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.hyphenation")
	defer teardown()
	//
	d := NewDictionary()
	d.AddException("\u00fcber-all-hin")
	d.RightMin = 2
	offsets := d.Hyphenate("\u00dcberallhin")
	assert.Equal(t, []int{5, 8}, offsets) // U+00DC takes two bytes
	assert.Equal(t, "\u00dcber-all-hin", hyphenated("\u00dcberallhin", offsets))
}

func TestEnglishRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.hyphenation")
	defer teardown()
	//
	reg := NewRegistry(parameters.NewTypesettingRegisters())
	word := "supercalifragilisticexpialidocious"
	offsets, err := reg.Hyphenate(word, language.AmericanEnglish)
	require.NoError(t, err)
	assert.Equal(t, "su-per-cal-ifrag-ilis-tic-ex-pi-ali-do-cious", hyphenated(word, offsets))
	//
	offsets, err = reg.Hyphenate("information", language.English)
	require.NoError(t, err)
	for _, o := range offsets {
		assert.True(t, o >= 2 && o <= len("information")-3, "offset %d violates limits", o)
	}
	//
	_, err = reg.Hyphenate("Silbentrennung", language.MustParse("tlh"))
	assert.Equal(t, core.HyphenationError, core.KindOf(err))
}

func TestRegistryLimitsFromRegisters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.hyphenation")
	defer teardown()
	//
	regs := parameters.NewTypesettingRegisters()
	regs.Push(parameters.P_LEFTHYPHENMIN, 4)
	reg := NewRegistry(regs)
	d, err := Load(strings.NewReader(texbookPatterns))
	require.NoError(t, err)
	reg.Register(language.MustParse("en-GB"), d)
	offsets, err := reg.Hyphenate("hyphenation", language.English)
	require.NoError(t, err)
	assert.Equal(t, "hyphen-ation", hyphenated("hyphenation", offsets))
	assert.Equal(t, 2, d.LeftMin, "registered dictionary is not modified")
	//
	regs.Push(parameters.P_LEFTHYPHENMIN, 2)
	offsets, err = reg.Hyphenate("hyphenation", language.English)
	require.NoError(t, err)
	assert.Equal(t, "hy-phen-ation", hyphenated("hyphenation", offsets), "limits follow the registers")
}
