package inline

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/engine/bidirun"
	"github.com/npillmayer/textflow/engine/glyphing"
)

// Kind is the kind of an inline content item.
type Kind uint8

// Kinds of inline content.
const (
	TextItem Kind = iota
	ImageItem
	ShapeItem
	SpaceItem
	LineBreakItem
)

func (k Kind) String() string {
	switch k {
	case ImageItem:
		return "image"
	case ShapeItem:
		return "shape"
	case SpaceItem:
		return "space"
	case LineBreakItem:
		return "linebreak"
	}
	return "text"
}

// Replacement characters for items which are not text.
const (
	ObjectReplacement = '\uFFFC'
	LineSeparator     = '\u2028'
)

// Item is an item of inline content. Text items carry text, all other items
// have dimensions. A negative Width or Height means 'unknown'; the layout
// engine will ask a sizing callback for them.
type Item struct {
	Kind   Kind
	Text   string
	Style  *glyphing.Style
	Width  float64
	Height float64
	Ref    interface{} // client data, passed through to positioned items
}

// Text creates a text item.
func Text(s string, style *glyphing.Style) Item {
	return Item{Kind: TextItem, Text: s, Style: style}
}

// Image creates an image item of a given size.
func Image(w, h float64, style *glyphing.Style) Item {
	return Item{Kind: ImageItem, Width: w, Height: h, Style: style}
}

// Shape creates an inline shape of a given size.
func Shape(w, h float64, style *glyphing.Style) Item {
	return Item{Kind: ShapeItem, Width: w, Height: h, Style: style}
}

// Space creates a space of fixed width. Lines may be broken after it.
func Space(w float64, style *glyphing.Style) Item {
	return Item{Kind: SpaceItem, Width: w, Style: style}
}

// LineBreak creates a forced line break.
func LineBreak(style *glyphing.Style) Item {
	return Item{Kind: LineBreakItem, Style: style}
}

func (item Item) String() string {
	if item.Kind == TextItem {
		return fmt.Sprintf("text(%q)", item.Text)
	}
	return fmt.Sprintf("%s(%.1f×%.1f)", item.Kind, item.Width, item.Height)
}

// Object is an inline item which is not text, as placed in the paragraph text.
type Object struct {
	ContentIndex int // index of the item in the content list
	Kind         Kind
	Width        float64
	Height       float64
	Position     int // byte position of the replacement character
	Style        *glyphing.Style
	Ref          interface{}
}

// Break is an opportunity to break a line before byte position Position.
type Break struct {
	Position  int
	Mandatory bool
}

// Content is analyzed inline content.
type Content struct {
	Text       string
	Runs       []bidirun.StyledRun // one run per item, in logical order
	Objects    []Object            // objects in logical order
	Direction  glyphing.Direction  // base direction of the paragraph
	Breaks     []Break             // sorted by position
	Boundaries []int               // grapheme cluster boundaries, including 0 and len(Text)
}

// Analyze concatenates inline content into paragraph text and finds its line
// break opportunities and base direction. Text which is not valid UTF-8 is
// rejected with an InvalidText error.
func Analyze(items []Item) (*Content, error) {
	var b strings.Builder
	c := &Content{}
	for i, item := range items {
		pos := b.Len()
		switch item.Kind {
		case TextItem:
			if !utf8.ValidString(item.Text) {
				return nil, core.LayoutError(core.InvalidText, nil,
					"content item #%d is not valid UTF-8", i)
			}
			if item.Text == "" {
				continue
			}
			b.WriteString(item.Text)
		case LineBreakItem:
			b.WriteRune(LineSeparator)
		case ImageItem, ShapeItem, SpaceItem:
			b.WriteRune(ObjectReplacement)
			c.Objects = append(c.Objects, Object{
				ContentIndex: i,
				Kind:         item.Kind,
				Width:        item.Width,
				Height:       item.Height,
				Position:     pos,
				Style:        item.Style,
				Ref:          item.Ref,
			})
		default:
			return nil, core.LayoutError(core.InvalidText, nil, "content item #%d has unknown kind %d", i, item.Kind)
		}
		c.Runs = append(c.Runs, bidirun.StyledRun{
			Text:         b.String()[pos:],
			Style:        item.Style,
			Start:        pos,
			ContentIndex: i,
		})
	}
	c.Text = b.String()
	c.Direction = bidirun.BaseDirection(c.Text)
	c.Boundaries = GraphemeBoundaries(c.Text)
	c.Breaks = c.findBreaks()
	tracer().Debugf("inline: %d items → %d bytes of text, %d objects, %d break opportunities",
		len(items), len(c.Text), len(c.Objects), len(c.Breaks))
	return c, nil
}

// IsBoundary is true if pos is a grapheme cluster boundary.
func (c *Content) IsBoundary(pos int) bool {
	i := sort.SearchInts(c.Boundaries, pos)
	return i < len(c.Boundaries) && c.Boundaries[i] == pos
}

// BreakAt returns the break opportunity before position pos, if any.
func (c *Content) BreakAt(pos int) (Break, bool) {
	i := sort.Search(len(c.Breaks), func(i int) bool { return c.Breaks[i].Position >= pos })
	if i < len(c.Breaks) && c.Breaks[i].Position == pos {
		return c.Breaks[i], true
	}
	return Break{}, false
}

// ObjectAt returns the object at byte position pos, if any.
func (c *Content) ObjectAt(pos int) (*Object, bool) {
	i := sort.Search(len(c.Objects), func(i int) bool { return c.Objects[i].Position >= pos })
	if i < len(c.Objects) && c.Objects[i].Position == pos {
		return &c.Objects[i], true
	}
	return nil, false
}

// ContentIndexAt returns the index of the content item which contributed the
// byte at position pos, or -1.
func (c *Content) ContentIndexAt(pos int) int {
	i := sort.Search(len(c.Runs), func(i int) bool { return c.Runs[i].End() > pos })
	if i < len(c.Runs) && c.Runs[i].Start <= pos {
		return c.Runs[i].ContentIndex
	}
	return -1
}
