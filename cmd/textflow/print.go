package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/textflow/engine/inline"
	"github.com/npillmayer/textflow/engine/layout"
	"github.com/npillmayer/textflow/engine/position"
	"github.com/pterm/pterm"
)

// textOf returns the paragraph text the spans of a layout refer to.
func textOf(items []inline.Item) string {
	content, err := inline.Analyze(items)
	if err != nil {
		return ""
	}
	return content.Text
}

// lineText extracts the text of a line for display.
func lineText(text string, line position.LineInfo) string {
	if line.Span.Start < 0 || line.Span.End > len(text) || line.Span.Start > line.Span.End {
		return ""
	}
	s := text[line.Span.Start:line.Span.End]
	s = strings.ReplaceAll(s, string(inline.ObjectReplacement), "[obj]")
	s = strings.ReplaceAll(s, string(inline.LineSeparator), "")
	if line.Hyphenated {
		s += "-"
	}
	return s
}

func lineFlags(line position.LineInfo) string {
	var flags []string
	if line.Hyphenated {
		flags = append(flags, "hyphenated")
	}
	if line.Forced {
		flags = append(flags, "forced")
	}
	if line.IsLast {
		flags = append(flags, "last")
	}
	if line.Overflow {
		flags = append(flags, "overflow")
	}
	return strings.Join(flags, ",")
}

func lineTable(l *layout.UnifiedLayout, text string) pterm.TableData {
	data := pterm.TableData{{"#", "Span", "Box", "Segs", "Flags", "Text"}}
	for _, line := range l.Lines {
		data = append(data, []string{
			fmt.Sprintf("%d", line.Index),
			fmt.Sprintf("%d–%d", line.Span.Start, line.Span.End),
			fmt.Sprintf("(%.1f,%.1f)-(%.1f,%.1f)", line.Box.Min.X, line.Box.Min.Y, line.Box.Max.X, line.Box.Max.Y),
			fmt.Sprintf("%d", len(line.Segments)),
			lineFlags(line),
			lineText(text, line),
		})
	}
	return data
}

func itemTable(l *layout.UnifiedLayout) pterm.TableData {
	data := pterm.TableData{{"Line", "Kind", "Char", "X", "Y", "Box", "Span"}}
	for _, it := range l.Items {
		data = append(data, []string{
			fmt.Sprintf("%d", it.LineIndex),
			it.Kind.String(),
			fmt.Sprintf("%q", it.CodePoint),
			fmt.Sprintf("%.2f", it.X),
			fmt.Sprintf("%.2f", it.Y),
			fmt.Sprintf("%.1f×%.1f", it.Box.Max.X-it.Box.Min.X, it.Box.Max.Y-it.Box.Min.Y),
			fmt.Sprintf("%d–%d", it.Span.Start, it.Span.End),
		})
	}
	return data
}

func printLayout(l *layout.UnifiedLayout, text string, items bool) {
	pterm.DefaultTable.WithHasHeader().WithData(lineTable(l, text)).Render()
	if items {
		pterm.DefaultTable.WithHasHeader().WithData(itemTable(l)).Render()
	}
	pterm.Info.Printfln("%d lines, %d items, bounds (%.1f,%.1f)-(%.1f,%.1f), direction %s",
		len(l.Lines), len(l.Items), l.Bounds.Min.X, l.Bounds.Min.Y, l.Bounds.Max.X, l.Bounds.Max.Y,
		l.Direction)
	if l.Overflow.Overflows {
		pterm.Warning.Printfln("content overflows the flow area (%s, %d items clipped)",
			l.Overflow.Mode, l.Overflow.Clipped)
	}
}
