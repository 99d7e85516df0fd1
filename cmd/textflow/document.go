package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/dimen"
	"github.com/npillmayer/textflow/core/font"
	"github.com/npillmayer/textflow/engine/flow"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/inline"
	"github.com/npillmayer/textflow/engine/layout"
	htmlin "github.com/npillmayer/textflow/input/html"
	"golang.org/x/text/language"
)

// document is a paragraph to lay out, as read from a TOML file:
//
//	width = "300px"
//	font = "Go"
//	size = "12pt"
//
//	[options]
//	text_align = "justify"
//	hyphenation = "true"
//
//	[[exclusion]]
//	kind = "circle"
//	cx = 150
//	cy = 60
//	r = 40
//
//	[[content]]
//	text = "Lorem ipsum dolor sit amet."
type document struct {
	Width      string            `toml:"width"`
	Height     string            `toml:"height"`
	Font       string            `toml:"font"`
	Size       string            `toml:"size"`
	Language   string            `toml:"language"`
	Options    map[string]string `toml:"options"`
	Boundaries []shapeSpec       `toml:"boundary"`
	Exclusions []shapeSpec       `toml:"exclusion"`
	Content    []itemSpec        `toml:"content"`
}

type shapeSpec struct {
	Kind   string       `toml:"kind"` // rect, circle, ellipse, polygon, smooth or path
	X      float64      `toml:"x"`
	Y      float64      `toml:"y"`
	W      float64      `toml:"w"`
	H      float64      `toml:"h"`
	CX     float64      `toml:"cx"`
	CY     float64      `toml:"cy"`
	R      float64      `toml:"r"`
	RX     float64      `toml:"rx"`
	RY     float64      `toml:"ry"`
	Points [][2]float64 `toml:"points"`
	Path   string       `toml:"path"` // SVG path data
	Margin float64      `toml:"margin"`
}

type itemSpec struct {
	Kind   string  `toml:"kind"` // text (default), image, shape, space or break
	Text   string  `toml:"text"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Font   string  `toml:"font"`
	Size   string  `toml:"size"`
}

func loadDocument(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read document %s", path)
	}
	return parseDocument(string(data))
}

// loadHTML reads the paragraphs selected from an HTML file.
func loadHTML(path, selector string, def defaults) ([]inline.Item, *layout.Constraints, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, core.WrapError(err, core.EMISSING, "cannot read document %s", path)
	}
	defer f.Close()
	base := &glyphing.Style{Font: font.Regular(def.family), Size: def.size}
	items, err := htmlin.Items(f, selector, base)
	if err != nil {
		return nil, nil, err
	}
	return items, layout.NewConstraints(def.width, 0), nil
}

func parseDocument(data string) (*document, error) {
	doc := &document{}
	md, err := toml.Decode(data, doc)
	if err != nil {
		return nil, core.LayoutError(core.InvalidText, err, "cannot parse document")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		tracer().Infof("ignoring unknown document keys %v", undecoded)
	}
	return doc, nil
}

// defaults for documents which do not set them
type defaults struct {
	family string
	size   float64
	width  float64
}

// build converts a document to content items and constraints.
func (doc *document) build(def defaults) ([]inline.Item, *layout.Constraints, error) {
	w, err := optionalLength(doc.Width, def.width)
	if err != nil {
		return nil, nil, err
	}
	h, err := optionalLength(doc.Height, 0)
	if err != nil {
		return nil, nil, err
	}
	c := layout.NewConstraints(w, h)
	for name, value := range doc.Options {
		if err := c.Set(name, value); err != nil {
			return nil, nil, err
		}
	}
	for i, s := range doc.Boundaries {
		shape, err := s.shape()
		if err != nil {
			return nil, nil, fmt.Errorf("boundary #%d: %w", i, err)
		}
		c.Boundaries = append(c.Boundaries, shape)
	}
	for i, s := range doc.Exclusions {
		shape, err := s.shape()
		if err != nil {
			return nil, nil, fmt.Errorf("exclusion #%d: %w", i, err)
		}
		c.Exclusions = append(c.Exclusions, flow.Exclusion{Shape: shape, Margin: s.Margin})
	}
	base, err := doc.style(doc.Font, doc.Size, nil, def)
	if err != nil {
		return nil, nil, err
	}
	items := make([]inline.Item, 0, len(doc.Content))
	for _, spec := range doc.Content {
		style := base
		if spec.Font != "" || spec.Size != "" {
			if style, err = doc.style(spec.Font, spec.Size, base, def); err != nil {
				return nil, nil, err
			}
		}
		item, err := spec.item(style)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	return items, c, nil
}

// style creates a style, inheriting unset properties from parent.
func (doc *document) style(family, size string, parent *glyphing.Style, def defaults) (*glyphing.Style, error) {
	style := &glyphing.Style{Font: font.Regular(def.family), Size: def.size}
	if parent != nil {
		*style = *parent
	}
	if family != "" {
		style.Font = font.Regular(family)
	}
	if size != "" {
		s, err := optionalLength(size, style.Size)
		if err != nil {
			return nil, err
		}
		style.Size = s
	}
	if doc.Language != "" {
		tag, err := language.Parse(doc.Language)
		if err != nil {
			return nil, core.LayoutError(core.InvalidText, err, "document language %q", doc.Language)
		}
		style.Language = tag
	}
	return style, nil
}

func (spec itemSpec) item(style *glyphing.Style) (inline.Item, error) {
	switch strings.ToLower(spec.Kind) {
	case "", "text":
		return inline.Text(spec.Text, style), nil
	case "image":
		return inline.Image(spec.Width, spec.Height, style), nil
	case "shape":
		return inline.Shape(spec.Width, spec.Height, style), nil
	case "space":
		return inline.Space(spec.Width, style), nil
	case "break":
		return inline.LineBreak(style), nil
	}
	return inline.Item{}, core.LayoutError(core.InvalidText, nil, "unknown content kind %q", spec.Kind)
}

func (s shapeSpec) shape() (flow.Shape, error) {
	switch strings.ToLower(s.Kind) {
	case "", "rect", "rectangle":
		return flow.Rectangle(s.X, s.Y, s.W, s.H), nil
	case "circle":
		return flow.Circle(s.CX, s.CY, s.R), nil
	case "ellipse":
		return flow.Ellipse(s.CX, s.CY, s.RX, s.RY), nil
	case "polygon":
		return flow.Polygon(s.points()...), nil
	case "smooth":
		return flow.Smooth(s.points()...)
	case "path":
		p, err := flow.ParsePath(s.Path)
		if err != nil {
			return flow.Shape{}, err
		}
		return flow.Path(p), nil
	}
	return flow.Shape{}, core.LayoutError(core.InvalidText, nil, "unknown shape kind %q", s.Kind)
}

func (s shapeSpec) points() []flow.Point {
	pts := make([]flow.Point, len(s.Points))
	for i, p := range s.Points {
		pts[i] = flow.Point{X: p[0], Y: p[1]}
	}
	return pts
}

func optionalLength(s string, dflt float64) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return dflt, nil
	}
	l, pcnt, err := dimen.ParseLength(s)
	if err != nil || pcnt {
		return 0, core.LayoutError(core.InvalidText, err, "not a length: %q", s)
	}
	return l, nil
}
