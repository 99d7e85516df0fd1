/*
Package html reads paragraph content from HTML fragments.

Elements are selected with CSS selectors. The content of every selected
element becomes a paragraph; paragraphs are separated by forced line breaks.
A small set of inline markup is understood:

	<b>, <strong>          bold
	<i>, <em>              italic
	<br>                   forced line break
	<img width height>     inline image of a fixed size
	style="…"              font-family, font-size, letter-spacing
	lang="…"               language of the content

Whitespace is collapsed as in CSS 'white-space: normal'.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package html

import (
	"io"
	"strings"
	"unicode"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/dimen"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/inline"
	xfont "golang.org/x/image/font"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
)

// tracer traces with key 'textflow.input'
func tracer() tracing.Trace {
	return tracing.Select("textflow.input")
}

// DefaultSelector selects all paragraphs.
const DefaultSelector = "p"

// Items parses an HTML document or fragment and converts the content of all
// elements matching selector to inline items. base is the style of content
// without markup.
func Items(r io.Reader, selector string, base *glyphing.Style) ([]inline.Item, error) {
	if selector == "" {
		selector = DefaultSelector
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, core.LayoutError(core.InvalidText, err, "invalid selector %q", selector)
	}
	doc, err := nethtml.Parse(r)
	if err != nil {
		return nil, core.LayoutError(core.InvalidText, err, "cannot parse HTML")
	}
	nodes := sel.MatchAll(doc)
	tracer().Debugf("selector %q matches %d elements", selector, len(nodes))
	c := &collector{}
	for i, n := range nodes {
		if i > 0 {
			c.lineBreak(base)
		}
		c.space = true // skip leading whitespace of a paragraph
		style, err := derive(n, base)
		if err != nil {
			return nil, err
		}
		if err := c.children(n, style); err != nil {
			return nil, err
		}
	}
	return c.items, nil
}

type collector struct {
	items []inline.Item
	space bool // last content emitted ends in whitespace
}

func (c *collector) children(n *nethtml.Node, style *glyphing.Style) error {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if err := c.node(ch, style); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) node(n *nethtml.Node, style *glyphing.Style) error {
	switch n.Type {
	case nethtml.TextNode:
		c.text(n.Data, style)
		return nil
	case nethtml.ElementNode:
	default:
		return nil
	}
	switch n.DataAtom {
	case atom.Br:
		c.lineBreak(style)
		return nil
	case atom.Img:
		w, err := attrLength(n, "width")
		if err != nil {
			return err
		}
		h, err := attrLength(n, "height")
		if err != nil {
			return err
		}
		c.items = append(c.items, inline.Image(w, h, style))
		c.space = false
		return nil
	case atom.Script, atom.Style, atom.Head:
		return nil
	}
	style, err := derive(n, style)
	if err != nil {
		return err
	}
	return c.children(n, style)
}

func (c *collector) lineBreak(style *glyphing.Style) {
	c.items = append(c.items, inline.LineBreak(style))
	c.space = true
}

// text appends text with runs of whitespace collapsed to a single space.
// Adjacent text items of the same style are merged.
func (c *collector) text(s string, style *glyphing.Style) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !c.space {
				b.WriteByte(' ')
				c.space = true
			}
			continue
		}
		b.WriteRune(r)
		c.space = false
	}
	if b.Len() == 0 {
		return
	}
	if k := len(c.items) - 1; k >= 0 && c.items[k].Kind == inline.TextItem && c.items[k].Style == style {
		c.items[k].Text += b.String()
		return
	}
	c.items = append(c.items, inline.Text(b.String(), style))
}

// derive returns the style for the content of element n. The parent style
// is returned unchanged if n carries no relevant markup.
func derive(n *nethtml.Node, parent *glyphing.Style) (*glyphing.Style, error) {
	style := *parent
	changed := false
	switch n.DataAtom {
	case atom.B, atom.Strong:
		style.Font.Weight = xfont.WeightBold
		changed = true
	case atom.I, atom.Em:
		style.Font.Style = xfont.StyleItalic
		changed = true
	}
	if lang := attr(n, "lang"); lang != "" {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, core.LayoutError(core.InvalidText, err, "invalid language %q", lang)
		}
		style.Language = tag
		changed = true
	}
	if css := attr(n, "style"); css != "" {
		decls, err := parser.ParseDeclarations(css)
		if err != nil {
			return nil, core.LayoutError(core.InvalidText, err, "invalid style %q", css)
		}
		for _, d := range decls {
			switch strings.ToLower(d.Property) {
			case "font-family":
				style.Font.Family = strings.Trim(strings.TrimSpace(strings.Split(d.Value, ",")[0]), `"'`)
			case "font-size":
				if style.Size, err = length(d.Value); err != nil {
					return nil, err
				}
			case "letter-spacing":
				if style.LetterSpacing, err = length(d.Value); err != nil {
					return nil, err
				}
			default:
				tracer().Debugf("ignoring CSS property %s", d.Property)
				continue
			}
			changed = true
		}
	}
	if !changed {
		return parent, nil
	}
	return &style, nil
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func attrLength(n *nethtml.Node, key string) (float64, error) {
	v := attr(n, key)
	if v == "" {
		return 0, nil
	}
	return length(v)
}

func length(s string) (float64, error) {
	l, pcnt, err := dimen.ParseLength(s)
	if err != nil || pcnt || l < 0 {
		return 0, core.LayoutError(core.InvalidText, err, "not a length: %q", s)
	}
	return l, nil
}
