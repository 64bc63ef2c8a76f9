// Package lifecycle wraps CLI command execution with timing and completion
// callbacks.
//
// The package is intentionally minimal: no event bus, no goroutines, no
// external dependencies. Run captures the start time, executes the function,
// calculates the duration and calls the handler.
package lifecycle

import "time"

// Handler receives command completion events.
type Handler interface {
	// OnCommandComplete is called when a command finishes.
	//   - name: the command name (e.g., "render", "bundle")
	//   - success: true if the command completed without error
	//   - duration: how long the command took
	OnCommandComplete(name string, success bool, duration time.Duration)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(name string, success bool, duration time.Duration)

// OnCommandComplete calls f.
func (f HandlerFunc) OnCommandComplete(name string, success bool, duration time.Duration) {
	f(name, success, duration)
}

// Run executes fn and reports its outcome to h. A nil h only times fn.
func Run(h Handler, name string, fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	duration := time.Since(start)
	if h != nil {
		h.OnCommandComplete(name, err == nil, duration)
	}
	return duration, err
}
