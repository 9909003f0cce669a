package vtparse

import "testing"

func findCsi(actions []Action) []Action {
	var out []Action
	for _, a := range actions {
		if a.Kind == ActionCsiDispatch {
			out = append(out, a)
		}
	}
	return out
}

func TestPrintAndExecute(t *testing.T) {
	p := New(SevenBitOnly)
	actions := p.Feed([]byte("A\n"))
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0].Kind != ActionPrint || actions[0].Rune != 'A' {
		t.Errorf("expected Print('A'), got %+v", actions[0])
	}
	if actions[1].Kind != ActionExecute || actions[1].Byte != '\n' {
		t.Errorf("expected Execute(\\n), got %+v", actions[1])
	}
}

func TestCsiSgrDispatch(t *testing.T) {
	// S1: ESC [ 3 1 m A ESC [ 0 m B
	p := New(SevenBitOnly)
	actions := p.Feed([]byte("\x1b[31mA\x1b[0mB"))

	csis := findCsi(actions)
	if len(csis) != 2 {
		t.Fatalf("expected 2 CSI dispatches, got %d: %+v", len(csis), csis)
	}
	if csis[0].Final != 'm' || len(csis[0].Params) != 1 || csis[0].Params[0][0] != 31 {
		t.Errorf("expected SGR 31, got %+v", csis[0])
	}
	if csis[1].Final != 'm' || csis[1].Params[0][0] != 0 {
		t.Errorf("expected SGR 0 reset, got %+v", csis[1])
	}

	var prints []rune
	for _, a := range actions {
		if a.Kind == ActionPrint {
			prints = append(prints, a.Rune)
		}
	}
	if len(prints) != 2 || prints[0] != 'A' || prints[1] != 'B' {
		t.Errorf("expected prints [A B], got %q", prints)
	}
}

func TestCsiPrivateMarkerAndMultipleParams(t *testing.T) {
	p := New(SevenBitOnly)
	actions := p.Feed([]byte("\x1b[?25h"))
	if len(actions) != 1 || actions[0].Kind != ActionCsiDispatch {
		t.Fatalf("expected 1 CSI dispatch, got %+v", actions)
	}
	a := actions[0]
	if a.Private != '?' || a.Final != 'h' || a.Params[0][0] != 25 {
		t.Errorf("expected private=?, final=h, param=25, got %+v", a)
	}
}

func TestCsiSubParamColonSeparated(t *testing.T) {
	p := New(SevenBitOnly)
	actions := p.Feed([]byte("\x1b[38:2:10:20:30m"))
	if len(actions) != 1 || actions[0].Kind != ActionCsiDispatch {
		t.Fatalf("expected 1 CSI dispatch, got %+v", actions)
	}
	params := actions[0].Params
	if len(params) != 1 || len(params[0]) != 5 {
		t.Fatalf("expected a single 5-element colon group, got %+v", params)
	}
	want := []int{38, 2, 10, 20, 30}
	for i, v := range want {
		if params[0][i] != v {
			t.Errorf("param[%d]: expected %d, got %d", i, v, params[0][i])
		}
	}
}

func TestCsiSemicolonSeparatedRGB(t *testing.T) {
	p := New(SevenBitOnly)
	actions := p.Feed([]byte("\x1b[38;2;10;20;30m"))
	params := actions[0].Params
	if len(params) != 5 {
		t.Fatalf("expected 5 semicolon-separated params, got %+v", params)
	}
	if params[0][0] != 38 || params[1][0] != 2 || params[4][0] != 30 {
		t.Errorf("unexpected params: %+v", params)
	}
}

func TestOscDispatch(t *testing.T) {
	p := New(SevenBitOnly)
	actions := p.Feed([]byte("\x1b]8;;https://example.com\x07"))
	if len(actions) != 1 || actions[0].Kind != ActionOscDispatch {
		t.Fatalf("expected 1 OSC dispatch, got %+v", actions)
	}
	a := actions[0]
	if a.OscCommand != "8" {
		t.Errorf("expected OSC command '8', got %q", a.OscCommand)
	}
	if string(a.OscPayload) != ";https://example.com" {
		t.Errorf("expected payload ';https://example.com', got %q", a.OscPayload)
	}
}

func TestOscTerminatedByEscBackslash(t *testing.T) {
	p := New(SevenBitOnly)
	actions := p.Feed([]byte("\x1b]0;title\x1b\\"))
	if len(actions) != 1 || actions[0].Kind != ActionOscDispatch {
		t.Fatalf("expected 1 OSC dispatch, got %+v", actions)
	}
	if string(actions[0].OscPayload) != "title" {
		t.Errorf("expected payload 'title', got %q", actions[0].OscPayload)
	}
}

func TestDcsHookPutUnhook(t *testing.T) {
	p := New(SevenBitOnly)
	actions := p.Feed([]byte("\x1bPq#0;2;0;0;0\x1b\\"))
	if actions[0].Kind != ActionDcsHook {
		t.Fatalf("expected first action to be DcsHook, got %+v", actions[0])
	}
	last := actions[len(actions)-1]
	if last.Kind != ActionDcsUnhook {
		t.Errorf("expected last action to be DcsUnhook, got %+v", last)
	}
	var puts int
	for _, a := range actions {
		if a.Kind == ActionDcsPut {
			puts++
		}
	}
	if puts == 0 {
		t.Error("expected at least one DcsPut carrying the sixel payload bytes")
	}
}

func TestCanSubCancelsEscape(t *testing.T) {
	p := New(SevenBitOnly)
	actions := p.Feed([]byte("\x1b[31\x18A"))
	if p.State() != Ground {
		t.Errorf("expected parser to return to Ground after CAN, got %v", p.State())
	}
	var prints int
	for _, a := range actions {
		if a.Kind == ActionPrint {
			prints++
		}
	}
	if prints != 1 {
		t.Errorf("expected the trailing 'A' to print normally after cancel, got %d prints", prints)
	}
}

func TestParamOverflowDropsSequence(t *testing.T) {
	p := New(SevenBitOnly)
	var seq []byte
	seq = append(seq, []byte("\x1b[")...)
	for i := 0; i < ParamsCap+4; i++ {
		seq = append(seq, []byte("1;")...)
	}
	seq = append(seq, 'm')
	actions := p.Feed(seq)
	if len(findCsi(actions)) != 0 {
		t.Errorf("expected overflowing param list to drop the dispatch, got %+v", actions)
	}
	if p.State() != Ground {
		t.Errorf("expected parser to resynchronize to Ground, got %v", p.State())
	}
}

func TestUTF8MultibyteDecodesToOneCodepoint(t *testing.T) {
	p := New(SevenBitOnly)
	actions := p.Feed([]byte("é")) // U+00E9, 2-byte UTF-8
	if len(actions) != 1 || actions[0].Kind != ActionPrint || actions[0].Rune != 'é' {
		t.Errorf("expected single Print('é'), got %+v", actions)
	}
}

func TestUTF8MalformedEmitsReplacementAndResyncs(t *testing.T) {
	p := New(SevenBitOnly)
	// 0xC0 is an invalid (overlong) lead byte, followed by an ASCII 'A'.
	actions := p.Feed([]byte{0xC0, 'A'})
	if len(actions) < 2 {
		t.Fatalf("expected replacement char plus resynced print, got %+v", actions)
	}
	if actions[0].Rune != 0xFFFD {
		t.Errorf("expected U+FFFD for malformed lead byte, got %U", actions[0].Rune)
	}
	if actions[len(actions)-1].Rune != 'A' {
		t.Errorf("expected resync to print 'A', got %+v", actions[len(actions)-1])
	}
}

func TestDelIgnoredInGround(t *testing.T) {
	p := New(SevenBitOnly)
	actions := p.Feed([]byte{0x7F})
	if len(actions) != 0 {
		t.Errorf("expected DEL to be silently ignored in Ground, got %+v", actions)
	}
}
