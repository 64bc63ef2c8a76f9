package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows a message while work runs.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	message string
	spin    *spinner.Spinner
}

// NewSpinner creates a spinner writing to out. The animation only runs when
// caps reports a terminal.
func NewSpinner(out io.Writer, caps TerminalCapabilities, message string) *Spinner {
	s := &Spinner{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
		message: message,
	}
	if caps.IsTTY {
		s.spin = spinner.New(spinner.CharSets[s.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(out))
		s.spin.Suffix = " " + message
		if !caps.SupportsColor {
			s.spin.Color("reset") //nolint:errcheck // "reset" is always a valid color
		}
	}
	return s
}

// Start begins the animation, or prints the message when not on a terminal.
func (s *Spinner) Start() {
	if s.spin != nil {
		s.spin.Start()
		return
	}
	fmt.Fprintf(s.out, "%s...\n", s.message)
}

// Success stops the spinner and prints msg with a checkmark.
func (s *Spinner) Success(msg string) {
	s.stop()
	fmt.Fprintf(s.out, "%s %s\n", s.symbols.Checkmark, msg)
}

// Fail stops the spinner and prints msg with a failure marker.
func (s *Spinner) Fail(msg string) {
	s.stop()
	fmt.Fprintf(s.out, "%s %s\n", s.symbols.Failure, msg)
}

func (s *Spinner) stop() {
	if s.spin != nil {
		s.spin.Stop()
	}
}
