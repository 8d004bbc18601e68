// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// progressPrinter writes percent reports to the terminal: an in-place
// redraw on a TTY, one line per report otherwise.
type progressPrinter struct {
	w       io.Writer
	tty     bool
	quiet   bool
	printed bool
}

func newProgressPrinter(w io.Writer, quiet bool) *progressPrinter {
	return &progressPrinter{w: w, tty: interactive(w), quiet: quiet}
}

func (p *progressPrinter) update(percent int) {
	if p.quiet {
		return
	}
	if p.tty {
		fmt.Fprintf(p.w, "\rProgress: %3d%%", percent)
	} else {
		fmt.Fprintf(p.w, "Progress: %d%%\n", percent)
	}
	p.printed = true
}

// finish terminates the redraw line so later output starts clean.
func (p *progressPrinter) finish() {
	if p.tty && p.printed {
		fmt.Fprintln(p.w)
	}
}

func interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
