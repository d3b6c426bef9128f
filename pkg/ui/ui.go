// Package ui writes operator-facing status lines to the terminal the
// bridge owns: the command about to run in bold, errors in color, and
// plain text when output is not a TTY.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Notifier renders human-readable status lines around each dispatch
// decision. Styling is disabled automatically when the writer is not a
// terminal.
type Notifier struct {
	out   io.Writer
	term  *termenv.Output
	color bool
}

// NewNotifier creates a notifier writing to the given file, detecting
// whether it is a terminal
func NewNotifier(out *os.File) *Notifier {
	return &Notifier{
		out:   out,
		term:  termenv.NewOutput(out),
		color: isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()),
	}
}

// NewPlainNotifier creates a notifier for a plain writer, without
// styling or terminal control. Used by tests.
func NewPlainNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

// ResetTerminal clears any styling state a previous command may have
// left behind, so our status lines and the next command start clean
func (n *Notifier) ResetTerminal() {
	if n.term != nil && n.color {
		n.term.Reset()
	}
}

// Command announces the command about to run
func (n *Notifier) Command(command string) {
	n.println(CommandStyle, fmt.Sprintf("executing: %s", command))
}

// Error reports a recoverable error to the operator
func (n *Notifier) Error(err error) {
	n.println(ErrorStyle, err.Error())
}

// Warning reports a non-fatal condition
func (n *Notifier) Warning(msg string) {
	n.println(WarningStyle, msg)
}

// Info reports a state change such as an action-set switch
func (n *Notifier) Info(msg string) {
	n.println(InfoStyle, msg)
}

func (n *Notifier) println(style interface{ Render(...string) string }, msg string) {
	if n.color {
		fmt.Fprintln(n.out, style.Render(msg))
		return
	}
	fmt.Fprintln(n.out, msg)
}
