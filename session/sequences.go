package session

import "github.com/charmbracelet/x/ansi"

// Mode-toggle escape sequences for Session.Run's enter/cleanup pairs. Built
// from charmbracelet/x/ansi's named constants where one exists; the Kitty
// keyboard protocol (CSI > 1 u / CSI < u) has no x/ansi constant, so those
// two are hand-written.
const (
	seqAltScreenEnter = ansi.SetAltScreenSaveCursorMode
	seqAltScreenExit  = ansi.ResetAltScreenSaveCursorMode

	seqMouseEnter = ansi.SetButtonEventMouseMode + ansi.SetSgrExtMouseMode
	seqMouseExit  = ansi.ResetSgrExtMouseMode + ansi.ResetButtonEventMouseMode

	seqBracketedPasteEnter = ansi.SetBracketedPasteMode
	seqBracketedPasteExit  = ansi.ResetBracketedPasteMode

	seqFocusEventsEnter = ansi.SetFocusEventMode
	seqFocusEventsExit  = ansi.ResetFocusEventMode

	seqKittyKeyboardEnter = "\x1b[>1u"
	seqKittyKeyboardExit  = "\x1b[<u"

	seqHideCursor = ansi.HideCursor
	seqShowCursor = ansi.ShowCursor
	seqSGRReset   = ansi.ResetStyle
)
