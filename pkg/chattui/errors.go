package chattui

import "fmt"

// TerminalError reports that the terminal could not be taken over or
// handed back. The terminal has already been restored as far as possible
// when it is returned.
type TerminalError struct {
	Err error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("terminal: %v", e.Err)
}

func (e *TerminalError) Unwrap() error { return e.Err }
