package session

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/goterm/ftui/frame"
)

// TeaAdapter wraps a Session as a bubbletea.Model so an application can run
// under bubbletea's own Program instead of Session.Run, trading this
// module's presenter for bubbletea's renderer. Optional: most applications
// should just call Session.Run directly.
type TeaAdapter struct {
	sess *Session
}

// NewTeaAdapter wraps sess for use with tea.NewProgram.
func NewTeaAdapter(sess *Session) *TeaAdapter { return &TeaAdapter{sess: sess} }

var _ tea.Model = (*TeaAdapter)(nil)

func (a *TeaAdapter) Init() tea.Cmd { return nil }

// Update translates the subset of tea.Msg this module's Model cares about
// (key, mouse, window size) into session.Msg and forwards it; anything else
// is dropped silently, matching this package's nil-safe no-op default idiom
// for channels an application didn't opt into.
func (a *TeaAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		runes := m.Runes
		if len(runes) == 1 && m.Type == tea.KeyRunes {
			a.sess.handleEvent(KeyMsg{Rune: runes[0]})
		} else {
			a.sess.handleEvent(KeyMsg{Name: m.String()})
		}
	case tea.MouseMsg:
		a.sess.handleEvent(MouseMsg{
			X: m.X, Y: m.Y,
			Button: int(m.Button),
			Press:  m.Action == tea.MouseActionPress,
		})
	case tea.WindowSizeMsg:
		a.sess.Resize(m.Height, m.Width)
		a.sess.handleEvent(ResizeMsg{Rows: m.Height, Cols: m.Width})
	}
	return a, nil
}

// View renders the Model into the Session's buffer and flattens it to a
// plain string for bubbletea's renderer. Per-cell color/attrs are not
// reproduced here: bubbletea's own renderer and lipgloss styling own that
// concern on this path, so the adapter only needs the glyphs.
func (a *TeaAdapter) View() string {
	buf := a.sess.buf
	buf.Reset()
	area := frame.Rect{X: 0, Y: 0, W: buf.Cols(), H: buf.Rows()}
	a.sess.model.View(area, buf)

	out := make([]byte, 0, buf.Rows()*(buf.Cols()+1))
	for y := 0; y < buf.Rows(); y++ {
		for x := 0; x < buf.Cols(); x++ {
			out = append(out, []byte(buf.Grapheme(buf.At(x, y)))...)
		}
		if y < buf.Rows()-1 {
			out = append(out, '\n')
		}
	}
	return string(out)
}
