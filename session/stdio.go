package session

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// StdioHost holds the controlling terminal in raw mode: NewStdioHost calls
// MakeRaw and Restore puts the prior mode back. Restore is not guarded
// against a second call.
type StdioHost struct {
	fd       int
	oldState *term.State
}

// NewStdioHost puts f (typically os.Stdin) into raw mode. Call Restore
// before the process exits, even on an error path.
func NewStdioHost(f *os.File) (*StdioHost, error) {
	fd := int(f.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &StdioHost{fd: fd, oldState: old}, nil
}

// Size reports the controlling terminal's current geometry for sizing a
// Session before Run starts.
func (h *StdioHost) Size(f *os.File) (rows, cols int, err error) {
	cols, rows, err = term.GetSize(int(f.Fd()))
	return rows, cols, err
}

// Restore returns the terminal to its prior mode. Safe to call once; a
// second call is a caller bug, not guarded here since StdioHost is meant to
// be driven from a single defer.
func (h *StdioHost) Restore() error {
	return term.Restore(h.fd, h.oldState)
}
