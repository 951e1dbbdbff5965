package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type printer struct {
	w     io.Writer
	ok    *color.Color
	bad   *color.Color
	label *color.Color
}

func newPrinter(w io.Writer, enabled bool) *printer {
	p := &printer{
		w:     w,
		ok:    color.New(color.FgGreen, color.Bold),
		bad:   color.New(color.FgRed, color.Bold),
		label: color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.ok, p.bad, p.label} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// field prints an aligned "name: value" line.
func (p *printer) field(name string, value any) {
	fmt.Fprintf(p.w, "%s %v\n", p.label.Sprintf("%-10s", name+":"), value)
}

func (p *printer) success(format string, args ...any) {
	fmt.Fprintln(p.w, p.ok.Sprintf(format, args...))
}

func (p *printer) failure(format string, args ...any) {
	fmt.Fprintln(p.w, p.bad.Sprintf(format, args...))
}
