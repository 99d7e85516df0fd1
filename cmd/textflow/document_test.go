package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/engine/flow"
	"github.com/npillmayer/textflow/engine/glyphing/monospace"
	"github.com/npillmayer/textflow/engine/inline"
	"github.com/npillmayer/textflow/engine/layout"
	"github.com/npillmayer/textflow/engine/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paragraph = `
width = "200px"
font = "Go Mono"
size = "10px"
language = "en"

[options]
text-align = "center"
hyphenation = "true"

[[exclusion]]
kind = "circle"
cx = 100
cy = 30
r = 20
margin = 2

[[content]]
text = "Hello "

[[content]]
kind = "image"
width = 20
height = 10

[[content]]
kind = "break"

[[content]]
text = "World"
size = "12px"
`

var testDefaults = defaults{family: "Go", size: 16, width: 400}

func TestParseDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.cli")
	defer teardown()
	//
	doc, err := parseDocument(paragraph)
	require.NoError(t, err)
	assert.Equal(t, "200px", doc.Width)
	assert.Equal(t, "center", doc.Options["text-align"])
	require.Len(t, doc.Exclusions, 1)
	assert.Equal(t, 20.0, doc.Exclusions[0].R)
	require.Len(t, doc.Content, 4)
	assert.Equal(t, "image", doc.Content[1].Kind)
	//
	_, err = parseDocument("width = ")
	assert.Equal(t, core.InvalidText, core.KindOf(err))
}

func TestBuildDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.cli")
	defer teardown()
	//
	doc, err := parseDocument(paragraph)
	require.NoError(t, err)
	items, c, err := doc.build(testDefaults)
	require.NoError(t, err)
	assert.Equal(t, 200.0, c.Width)
	assert.Equal(t, 0.0, c.Height)
	assert.Equal(t, position.Center, c.TextAlign)
	assert.True(t, c.Hyphenation)
	require.Len(t, c.Exclusions, 1)
	assert.Equal(t, flow.CircleShape, c.Exclusions[0].Shape.Kind)
	assert.Equal(t, 2.0, c.Exclusions[0].Margin)
	//
	require.Len(t, items, 4)
	assert.Equal(t, inline.TextItem, items[0].Kind)
	assert.Equal(t, "Go Mono", items[0].Style.Font.Family)
	assert.Equal(t, 10.0, items[0].Style.Size)
	assert.Equal(t, "en", items[0].Style.Language.String())
	assert.Equal(t, inline.ImageItem, items[1].Kind)
	assert.Equal(t, 20.0, items[1].Width)
	assert.Equal(t, inline.LineBreakItem, items[2].Kind)
	assert.Equal(t, "Go Mono", items[3].Style.Font.Family)
	assert.Equal(t, 12.0, items[3].Style.Size)
}

func TestDocumentDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.cli")
	defer teardown()
	//
	doc, err := parseDocument(`[[content]]
text = "x"`)
	require.NoError(t, err)
	items, c, err := doc.build(testDefaults)
	require.NoError(t, err)
	assert.Equal(t, 400.0, c.Width)
	assert.Equal(t, "Go", items[0].Style.Font.Family)
	assert.Equal(t, 16.0, items[0].Style.Size)
}

func TestDocumentErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.cli")
	defer teardown()
	//
	for _, src := range []string{
		`width = "50%"`,
		`width = "wide"`,
		`[options]
no_such_option = "1"`,
		`[[content]]
kind = "video"`,
		`[[boundary]]
kind = "star"`,
		`[[exclusion]]
kind = "path"
path = "M 0 0 X"`,
		`language = "!!"
[[content]]
text = "x"`,
	} {
		doc, err := parseDocument(src)
		require.NoError(t, err, src)
		_, _, err = doc.build(testDefaults)
		assert.Error(t, err, src)
	}
	_, err := loadDocument("/no/such/document.toml")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestShapes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.cli")
	defer teardown()
	//
	s, err := shapeSpec{Kind: "rect", X: 10, Y: 20, W: 30, H: 40}.shape()
	require.NoError(t, err)
	assert.Equal(t, flow.RectShape, s.Kind)
	s, err = shapeSpec{Kind: "polygon", Points: [][2]float64{{0, 0}, {10, 0}, {10, 10}}}.shape()
	require.NoError(t, err)
	assert.Equal(t, flow.PolygonShape, s.Kind)
	assert.Len(t, s.Points, 3)
	s, err = shapeSpec{Kind: "smooth", Points: [][2]float64{{0, 0}, {100, 0}, {50, 80}}}.shape()
	require.NoError(t, err)
	assert.Equal(t, flow.PathShape, s.Kind)
	_, err = shapeSpec{Kind: "smooth", Points: [][2]float64{{0, 0}}}.shape()
	assert.Error(t, err)
	s, err = shapeSpec{Kind: "path", Path: "M 0 0 L 100 0 L 100 100 Z"}.shape()
	require.NoError(t, err)
	assert.Equal(t, flow.PathShape, s.Kind)
}

func TestLayoutTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.cli")
	defer teardown()
	//
	doc, err := parseDocument(`width = "1000px"
font = "Go Mono"
size = "10px"
[[content]]
text = "Hello"
[[content]]
kind = "break"
[[content]]
text = "World"`)
	require.NoError(t, err)
	items, c, err := doc.build(testDefaults)
	require.NoError(t, err)
	e := layout.New(layout.WithShaper(monospace.Shaper(10, nil)))
	l, err := e.Layout(items, c)
	require.NoError(t, err)
	require.Len(t, l.Lines, 2)
	text := textOf(items)
	lines := lineTable(l, text)
	require.Len(t, lines, 3)
	assert.Equal(t, "Hello", lines[1][5])
	assert.Equal(t, "", lines[1][4])
	assert.Equal(t, "World", lines[2][5])
	assert.Equal(t, "last", lines[2][4])
	assert.Len(t, itemTable(l), len(l.Items)+1)
}

func TestLoadHTML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.cli")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>Hello <b>World</b></p><p>again</p>"), 0o644))
	items, c, err := loadHTML(path, "p", testDefaults)
	require.NoError(t, err)
	assert.Equal(t, 400.0, c.Width)
	require.Len(t, items, 4)
	assert.Equal(t, "Hello ", items[0].Text)
	assert.Equal(t, "Go", items[0].Style.Font.Family)
	assert.Equal(t, inline.LineBreakItem, items[2].Kind)
	//
	_, _, err = loadHTML(filepath.Join(t.TempDir(), "missing.html"), "p", testDefaults)
	assert.Equal(t, core.EMISSING, core.Code(err))
}
