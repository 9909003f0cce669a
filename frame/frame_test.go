package frame

import (
	"testing"

	"github.com/goterm/ftui/cell"
)

func TestSetCellClippedByScissor(t *testing.T) {
	b := New(5, 5)
	b.PushScissor(Rect{X: 0, Y: 0, W: 2, H: 2})
	b.SetCell(0, 0, cell.Empty.WithRune('A'))
	b.SetCell(3, 3, cell.Empty.WithRune('B'))

	if r, _ := b.At(0, 0).Rune(); r != 'A' {
		t.Errorf("expected write inside scissor to land, got %q", r)
	}
	if b.At(3, 3) != cell.Empty {
		t.Errorf("expected write outside scissor to be clipped, got %+v", b.At(3, 3))
	}

	b.PopScissor()
	b.SetCell(3, 3, cell.Empty.WithRune('B'))
	if r, _ := b.At(3, 3).Rune(); r != 'B' {
		t.Errorf("expected write to land after popping scissor, got %q", r)
	}
}

func TestOpacityBlendsBackgroundOnly(t *testing.T) {
	b := New(3, 3)
	base := cell.Cell{BgRGBA: cell.Opaque(0, 0, 0).Pack()}
	b.SetCell(0, 0, base)

	b.PushOpacity(0.5)
	overlay := cell.Cell{BgRGBA: cell.Opaque(255, 255, 255).Pack()}
	b.SetCell(0, 0, overlay)
	b.PopOpacity()

	got := cell.UnpackRGBA(b.At(0, 0).BgRGBA)
	if got.R < 100 || got.R > 155 {
		t.Errorf("expected blended background near 50%% gray, got %+v", got)
	}
	if got.A != 255 {
		t.Errorf("expected resolved-opaque background after blend, got alpha %d", got.A)
	}
}

func TestOpacityStacksMultiply(t *testing.T) {
	b := New(2, 2)
	b.PushOpacity(0.5)
	b.PushOpacity(0.5)
	if got := b.currentOpacity(); got != 0.25 {
		t.Errorf("expected composed opacity 0.25, got %v", got)
	}
}

func TestZeroOpacityWriteIsNoop(t *testing.T) {
	b := New(2, 2)
	b.PushOpacity(0)
	b.SetCell(0, 0, cell.Empty.WithRune('X'))
	if b.At(0, 0) != cell.Empty {
		t.Errorf("expected zero-opacity write to be a no-op, got %+v", b.At(0, 0))
	}
}

func TestGraphemeRoundTrip(t *testing.T) {
	b := New(2, 2)
	b.SetGrapheme(0, 0, "é", 0, 0, 0)
	if got := b.Grapheme(b.At(0, 0)); got != "é" {
		t.Errorf("expected grapheme round trip, got %q", got)
	}
}

func TestFramePresentDiffsAgainstPrevious(t *testing.T) {
	f := NewFrame(2, 3)
	f.Buffer.SetCell(0, 0, cell.Empty.WithRune('A'))
	p1 := f.Present()
	if len(p1.Runs) == 0 {
		t.Fatal("expected first present to diff against an implicit blank frame")
	}

	f.Buffer.SetCell(0, 0, cell.Empty.WithRune('A'))
	p2 := f.Present()
	if len(p2.Runs) != 0 {
		t.Errorf("expected no runs when nothing changed since the last present, got %+v", p2.Runs)
	}
}

func TestResetClearsDirtySpansAndPool(t *testing.T) {
	b := New(2, 2)
	b.SetGrapheme(0, 0, "é", 0, 0, 0)
	pooled := b.At(0, 0)
	b.Reset()
	if got := b.Grapheme(pooled); got != "" {
		t.Errorf("expected grapheme pool cleared after reset, got %q", got)
	}
	if len(b.DirtyRows()) != 0 {
		t.Errorf("expected no dirty rows after reset, got %+v", b.DirtyRows())
	}
	if b.At(0, 0) != cell.Empty {
		t.Errorf("expected cells cleared after reset, got %+v", b.At(0, 0))
	}
}
