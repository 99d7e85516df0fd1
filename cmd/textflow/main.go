/*
Command textflow lays out paragraphs from the command line.

	textflow layout paragraph.toml
	textflow layout --shaper harfbuzz --font "Go Mono" paragraph.toml
	textflow layout --select "article p" --set text-align=justify page.html
	textflow repl --width 300px

The layout command reads a TOML document describing a paragraph, or the
paragraphs of an HTML file, and prints its lines and positioned items. The
repl command lays out lines of text typed in interactively.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/font/fontcatalog"
	"github.com/npillmayer/textflow/core/parameters"
	"github.com/npillmayer/textflow/engine/fontmgr"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/glyphing/gotext"
	"github.com/npillmayer/textflow/engine/glyphing/harfbuzz"
	"github.com/npillmayer/textflow/engine/glyphing/monospace"
	"github.com/npillmayer/textflow/engine/glyphing/sfntshape"
	"github.com/npillmayer/textflow/engine/inline"
	"github.com/npillmayer/textflow/engine/layout"
	htmlin "github.com/npillmayer/textflow/input/html"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tracer traces with key 'textflow.cli'
func tracer() tracing.Trace {
	return tracing.Select("textflow.cli")
}

// traceKeys are the tracers of the engine, configured by flag --trace.
var traceKeys = []string{"cli", "input", "layout", "font", "bidi", "glyphs", "flow", "linebreak", "hyphenation"}

// settings collects the global flags.
type settings struct {
	trace       string
	shaper      string
	family      string
	systemFonts bool
}

func main() {
	initDisplay()
	s := &settings{}
	root := &cobra.Command{
		Use:           "textflow",
		Short:         "textflow lays out paragraphs of text into arbitrary shapes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupTracing(s.trace)
		},
	}
	root.PersistentFlags().StringVar(&s.trace, "trace", "Error", "Trace level [Debug|Info|Error]")
	root.PersistentFlags().StringVar(&s.shaper, "shaper", "sfnt", "Shaping backend [monospace|sfnt|harfbuzz|gotext]")
	root.PersistentFlags().StringVar(&s.family, "font", "", "Default font family")
	root.PersistentFlags().BoolVar(&s.systemFonts, "system-fonts", false, "Look up fonts installed on the system")
	root.AddCommand(layoutCommand(s))
	root.AddCommand(replCommand(s))
	if err := root.Execute(); err != nil {
		pterm.Error.Println(core.UserMessage(err))
		tracer().Errorf(err.Error())
		os.Exit(1)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setupTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range traceKeys {
		conf["trace.textflow."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("error configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().Infof("Trace level is %s", level)
	return nil
}

// backend selects a shaping backend by name.
func backend(name string) (glyphing.Shaper, error) {
	switch strings.ToLower(name) {
	case "monospace", "mono":
		return monospace.Shaper(0, nil), nil
	case "", "sfnt":
		return sfntshape.Shaper{}, nil
	case "harfbuzz", "hb":
		return harfbuzz.New(), nil
	case "gotext", "go-text":
		return gotext.New(), nil
	}
	return nil, core.Error(core.EINVALID, "unknown shaping backend %q", name)
}

// engine creates a layout engine for the global settings.
func (s *settings) engine() (*layout.Engine, defaults, error) {
	sh, err := backend(s.shaper)
	if err != nil {
		return nil, defaults{}, err
	}
	regs := parameters.NewTypesettingRegisters()
	if s.family != "" {
		regs.Push(parameters.P_FONTFAMILY, s.family)
	}
	var catalog fontcatalog.Catalog = fontcatalog.NewGoFonts()
	if s.systemFonts {
		catalog = fontcatalog.Chain{catalog, fontcatalog.NewSystem(nil)}
	}
	fonts := fontmgr.New(catalog, nil, regs)
	def := defaults{
		family: regs.S(parameters.P_FONTFAMILY),
		size:   regs.F(parameters.P_FONTSIZE),
		width:  400,
	}
	return layout.New(layout.WithFontManager(fonts), layout.WithShaper(sh)), def, nil
}

func layoutCommand(s *settings) *cobra.Command {
	var items bool
	var selector, width string
	var options map[string]string
	cmd := &cobra.Command{
		Use:   "layout <document.toml|document.html>",
		Short: "Lay out a paragraph described by a TOML document or HTML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, def, err := s.engine()
			if err != nil {
				return err
			}
			if def.width, err = optionalLength(width, def.width); err != nil {
				return err
			}
			var content []inline.Item
			var c *layout.Constraints
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".html", ".htm":
				content, c, err = loadHTML(args[0], selector, def)
			default:
				var doc *document
				if doc, err = loadDocument(args[0]); err == nil {
					content, c, err = doc.build(def)
				}
			}
			if err != nil {
				return err
			}
			for name, value := range options {
				if err := c.Set(name, value); err != nil {
					return err
				}
			}
			l, err := e.Layout(content, c)
			if err != nil {
				return err
			}
			printLayout(l, textOf(content), items)
			return nil
		},
	}
	cmd.Flags().BoolVar(&items, "items", false, "Print every positioned item")
	cmd.Flags().StringVar(&selector, "select", htmlin.DefaultSelector, "CSS selector for paragraphs of HTML input")
	cmd.Flags().StringVar(&width, "width", "", "Default width of the flow area")
	cmd.Flags().StringToStringVar(&options, "set", nil, "Layout options, e.g. --set text-align=center")
	return cmd
}
