package grid

// DecMode is a DEC private mode bit, set/reset via CSI ? Pn h / CSI ? Pn l.
type DecMode uint32

const (
	DecModeCursorKeys  DecMode = 1 << iota // DECCKM 1
	DecModeOriginMode                      // DECOM 6
	DecModeAutowrap                        // DECAWM 7
	DecModeMouseX10                        // 9 (legacy, rarely used)
	DecModeMouseNormal                     // 1000
	DecModeMouseButton                     // 1002
	DecModeMouseSGR                        // 1006
	DecModeFocusEvents                     // 1004
	DecModeAltScreen1047                   // 1047
	DecModeSaveCursor1048                  // 1048
	DecModeAltScreen1049                   // 1049 (save cursor + alt screen + clear)
	DecModeBracketedPaste                  // 2004
	DecModeKittyKeyboard                   // kitty progressive enhancement
)

// AnsiMode is a standard-mode bit, set/reset via CSI Pn h / CSI Pn l (no `?`).
type AnsiMode uint32

const (
	AnsiModeLineFeedNewline AnsiMode = 1 << iota // LNM 20
	AnsiModeInsert                                // IRM 4
	AnsiModeSendReceive                           // SRM 12
)

// Modes holds the two standard terminal mode bitsets. The zero value has
// every mode reset; NewModes returns the set with Autowrap on.
type Modes struct {
	Dec  DecMode
	Ansi AnsiMode
}

// NewModes returns the conventional power-on mode set (autowrap enabled).
func NewModes() Modes {
	return Modes{Dec: DecModeAutowrap}
}

func (m Modes) HasDec(bit DecMode) bool   { return m.Dec&bit != 0 }
func (m Modes) HasAnsi(bit AnsiMode) bool { return m.Ansi&bit != 0 }

func (m *Modes) SetDec(bit DecMode, on bool) {
	if on {
		m.Dec |= bit
	} else {
		m.Dec &^= bit
	}
}

func (m *Modes) SetAnsi(bit AnsiMode, on bool) {
	if on {
		m.Ansi |= bit
	} else {
		m.Ansi &^= bit
	}
}
