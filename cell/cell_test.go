package cell

import "testing"

func TestEmptyCell(t *testing.T) {
	c := Empty
	r, ok := c.Rune()
	if !ok {
		t.Fatal("expected Empty to hold an inline rune")
	}
	if r != ' ' {
		t.Errorf("expected space, got %q", r)
	}
	if c.Attrs.Width() != WidthNormal {
		t.Errorf("expected WidthNormal, got %v", c.Attrs.Width())
	}
}

func TestCellWithRuneAndGrapheme(t *testing.T) {
	c := Empty.WithRune('A')
	if r, ok := c.Rune(); !ok || r != 'A' {
		t.Errorf("expected rune 'A', got %q ok=%v", r, ok)
	}
	if _, ok := c.GraphemeID(); ok {
		t.Error("expected GraphemeID to report ok=false for an inline rune cell")
	}

	g := Empty.WithGrapheme(42)
	if id, ok := g.GraphemeID(); !ok || id != 42 {
		t.Errorf("expected grapheme id 42, got %d ok=%v", id, ok)
	}
	if _, ok := g.Rune(); ok {
		t.Error("expected Rune to report ok=false for a grapheme-pool cell")
	}
}

func TestAttrsRoundTrip(t *testing.T) {
	a := PackAttrs(Bold|Italic, WidthWide, 17, 200)
	if !a.HasFlag(Bold) || !a.HasFlag(Italic) {
		t.Error("expected Bold and Italic flags set")
	}
	if a.HasFlag(Underline) {
		t.Error("expected Underline unset")
	}
	if a.Width() != WidthWide {
		t.Errorf("expected WidthWide, got %v", a.Width())
	}
	if a.LinkID() != 17 {
		t.Errorf("expected link id 17, got %d", a.LinkID())
	}
	if a.StyleBits() != 200 {
		t.Errorf("expected style bits 200, got %d", a.StyleBits())
	}

	a = a.WithWidth(WidthNormal).WithLinkID(0).WithStyleBits(0)
	if a.Width() != WidthNormal || a.LinkID() != 0 || a.StyleBits() != 0 {
		t.Error("expected overwritten fields to take the new values")
	}
	if !a.HasFlag(Bold) {
		t.Error("expected Bold to survive unrelated field overwrites")
	}
}

func TestWideCellContinuation(t *testing.T) {
	primary := Empty.WithRune('中').WithAttrs(func(a Attrs) Attrs { return a.WithWidth(WidthWide) })
	if !primary.IsWide() {
		t.Fatal("expected primary cell to report IsWide")
	}
	cont := ContinuationOf(primary)
	if !cont.IsContinuation() {
		t.Error("expected continuation sentinel to report IsContinuation")
	}
	if cont.IsWide() {
		t.Error("continuation cells are not themselves wide")
	}
	if cont.FgRGBA != primary.FgRGBA || cont.BgRGBA != primary.BgRGBA {
		t.Error("expected continuation cell to inherit colors from its primary")
	}
}

func TestToBytesDeterministic(t *testing.T) {
	a := Empty.WithRune('x')
	b := Empty.WithRune('x')
	if a.ToBytes() != b.ToBytes() {
		t.Error("expected identical cells to produce identical byte encodings")
	}
	c := Empty.WithRune('y')
	if a.ToBytes() == c.ToBytes() {
		t.Error("expected differing content to change the byte encoding")
	}
}

func TestColorPackRoundTrip(t *testing.T) {
	c := RGBA{R: 10, G: 20, B: 30, A: 40}
	if got := UnpackRGBA(c.Pack()); got != c {
		t.Errorf("expected round trip to preserve RGBA, got %+v", got)
	}
}

func TestOverOpaqueSourceWins(t *testing.T) {
	src := Opaque(1, 2, 3)
	dst := Opaque(9, 9, 9)
	if got := Over(src, dst); got != src {
		t.Errorf("expected fully opaque source to win outright, got %+v", got)
	}
}

func TestOverTransparentSourceNoop(t *testing.T) {
	src := RGBA{R: 1, G: 2, B: 3, A: 0}
	dst := Opaque(9, 9, 9)
	if got := Over(src, dst); got != dst {
		t.Errorf("expected fully transparent source to leave dst unchanged, got %+v", got)
	}
}

func TestPalette256CubeAndGrayscale(t *testing.T) {
	if len(Palette256) != 256 {
		t.Fatalf("expected 256 entries, got %d", len(Palette256))
	}
	if Palette256[16] != (Opaque(0, 0, 0)) {
		t.Errorf("expected cube origin at index 16 to be black, got %+v", Palette256[16])
	}
	if Palette256[231] != (Opaque(255, 255, 255)) {
		t.Errorf("expected cube corner at index 231 to be white, got %+v", Palette256[231])
	}
	if Palette256[232].R != 8 {
		t.Errorf("expected grayscale ramp to start at luminance 8, got %d", Palette256[232].R)
	}
}

func TestGraphemePoolInternStable(t *testing.T) {
	p := NewGraphemePool()
	id1 := p.Intern("é")
	id2 := p.Intern("é")
	if id1 != id2 {
		t.Errorf("expected repeated interning to return the same id, got %d and %d", id1, id2)
	}
	other := p.Intern("ñ")
	if other == id1 {
		t.Error("expected distinct clusters to get distinct ids")
	}
	if got := p.Lookup(id1); got != "é" {
		t.Errorf("expected lookup to recover the interned string, got %q", got)
	}
}

func TestGraphemePoolReset(t *testing.T) {
	p := NewGraphemePool()
	p.Intern("a")
	p.Intern("b")
	p.Reset()
	if p.Len() != 0 {
		t.Errorf("expected pool to be empty after Reset, got %d entries", p.Len())
	}
	if got := p.Lookup(0); got != "" {
		t.Errorf("expected stale id to resolve to empty string after Reset, got %q", got)
	}
}
