package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/textflow/core"
	"github.com/npillmayer/textflow/core/font"
	"github.com/npillmayer/textflow/engine/glyphing"
	"github.com/npillmayer/textflow/engine/inline"
	"github.com/npillmayer/textflow/engine/layout"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func replCommand(s *settings) *cobra.Command {
	var width string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Lay out lines of text interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, def, err := s.engine()
			if err != nil {
				return err
			}
			w, err := optionalLength(width, def.width)
			if err != nil {
				return err
			}
			repl, err := readline.New("textflow > ")
			if err != nil {
				return err
			}
			defer repl.Close()
			intp := &Intp{
				repl:        repl,
				engine:      e,
				constraints: layout.NewConstraints(w, 0),
				style:       &glyphing.Style{Font: font.Regular(def.family), Size: def.size},
			}
			pterm.Info.Println("Welcome to textflow. Quit with <ctrl>D")
			intp.REPL()
			return nil
		},
	}
	cmd.Flags().StringVar(&width, "width", "", "Width of the flow area")
	return cmd
}

// Intp is our interpreter object. Input lines are laid out as paragraphs,
// lines starting with a colon are commands:
//
//	:set text-align center
//	:items
//	:quit
type Intp struct {
	repl        *readline.Instance
	engine      *layout.Engine
	constraints *layout.Constraints
	style       *glyphing.Style
	items       bool
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.execute(line)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(line string) (bool, error) {
	if !strings.HasPrefix(line, ":") {
		items := []inline.Item{inline.Text(line, intp.style)}
		l, err := intp.engine.Layout(items, intp.constraints)
		if err != nil {
			return false, err
		}
		printLayout(l, textOf(items), intp.items)
		return false, nil
	}
	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return false, nil
	}
	switch fields[0] {
	case "quit", "q":
		return true, nil
	case "items":
		intp.items = !intp.items
		pterm.Info.Printfln("printing items: %v", intp.items)
	case "set":
		if len(fields) < 3 {
			return false, fmt.Errorf("usage: :set <option> <value>")
		}
		value := strings.Join(fields[2:], " ")
		if err := intp.constraints.Set(fields[1], value); err != nil {
			return false, err
		}
	case "stats":
		if cache := intp.engine.Cache(); cache != nil {
			pterm.Info.Println(cache.Stats().String())
		}
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
	return false, nil
}
