package sink

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/casalab/casahub/internal/event"
)

// Console prints events as coloured one-liners, for interactive use.
//
// Blocked commands and errors get their own colours so they stand out
// in a busy session. Attribute changes and routine summaries are only
// printed in verbose mode.
type Console struct {
	out     io.Writer
	verbose bool

	command  *color.Color
	blocked  *color.Color
	state    *color.Color
	lifecy   *color.Color
	errc     *color.Color
	attr     *color.Color
	routine  *color.Color
	fallback *color.Color
}

// NewConsole builds a console sink writing to out.
func NewConsole(out io.Writer, verbose bool) *Console {
	return &Console{
		out:     out,
		verbose: verbose,

		command:  color.New(color.FgGreen),
		blocked:  color.New(color.FgYellow),
		state:    color.New(color.FgCyan),
		lifecy:   color.New(color.FgBlue),
		errc:     color.New(color.FgRed, color.Bold),
		attr:     color.New(color.FgMagenta),
		routine:  color.New(color.FgWhite, color.Bold),
		fallback: color.New(color.Faint),
	}
}

// Notify implements event.Observer.
func (c *Console) Notify(evt event.Event) error {
	p := evt.Payload
	switch evt.Type {
	case event.TypeCommandExecuted:
		if blocked, _ := p["bloqueado"].(bool); blocked {
			_, err := c.blocked.Fprintf(c.out, "[bloqueado] %v: %v (%v) motivo=%v\n",
				p["id"], p["comando"], p["antes"], p["motivo"])
			return err
		}
		_, err := c.command.Fprintf(c.out, "[comando] %v: %v (%v -> %v)\n",
			p["id"], p["comando"], p["antes"], p["depois"])
		return err

	case event.TypeStateTransition:
		_, err := c.state.Fprintf(c.out, "[estado] %v: %v -> %v (%v)\n",
			p["id"], p["antes"], p["depois"], p["evento"])
		return err

	case event.TypeDeviceAdded:
		_, err := c.lifecy.Fprintf(c.out, "[dispositivo] + %v (%v)\n", p["id"], p["tipo"])
		return err

	case event.TypeDeviceRemoved:
		_, err := c.lifecy.Fprintf(c.out, "[dispositivo] - %v\n", p["id"])
		return err

	case event.TypeError:
		_, err := c.errc.Fprintf(c.out, "[erro] %v\n", p["erro"])
		return err

	case event.TypeAttributeChanged:
		if !c.verbose {
			return nil
		}
		_, err := c.attr.Fprintf(c.out, "[atributo] %v: %v = %v (antes %v)\n",
			p["id"], p["atributo"], p["depois"], p["antes"])
		return err

	case event.TypeRoutineExecuted:
		if !c.verbose {
			return nil
		}
		_, err := c.routine.Fprintf(c.out, "[rotina] %v: %v/%v ok, %v falhas\n",
			p["rotina"], p["sucesso"], p["total"], p["falhas"])
		return err

	default:
		if !c.verbose {
			return nil
		}
		_, err := c.fallback.Fprintf(c.out, "[%s] %s\n", evt.Type, formatPayload(p))
		return err
	}
}

// formatPayload renders a payload deterministically for display.
func formatPayload(p map[string]any) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	return strings.Join(parts, " ")
}
