package cell

import "github.com/mattn/go-runewidth"

// GraphemePool interns multi-codepoint clusters (combining marks, ZWJ
// sequences, wide emoji) for a single frame's lifetime. IDs are stable once
// assigned and are never reused within the same frame; the pool is reset (or
// replaced) wholesale between frames at the renderer's discretion.
type GraphemePool struct {
	byID     []string
	byString map[string]uint32
}

func NewGraphemePool() *GraphemePool {
	return &GraphemePool{byString: make(map[string]uint32)}
}

// Intern returns a stable 24-bit id for cluster, assigning a new one on first
// use. The id fits the Cell.Content grapheme tag's 24 available bits.
func (p *GraphemePool) Intern(cluster string) uint32 {
	if id, ok := p.byString[cluster]; ok {
		return id
	}
	id := uint32(len(p.byID))
	p.byID = append(p.byID, cluster)
	p.byString[cluster] = id
	return id
}

// Lookup returns the cluster string for id, or "" if unknown.
func (p *GraphemePool) Lookup(id uint32) string {
	if int(id) >= len(p.byID) {
		return ""
	}
	return p.byID[id]
}

// Len returns the number of distinct clusters interned this frame.
func (p *GraphemePool) Len() int { return len(p.byID) }

// Reset clears the pool for reuse in a new frame. Existing ids become invalid.
func (p *GraphemePool) Reset() {
	p.byID = p.byID[:0]
	for k := range p.byString {
		delete(p.byString, k)
	}
}

// ClusterWidth returns the display width (0, 1, or 2) of a grapheme cluster.
func ClusterWidth(cluster string) Width {
	w := runewidth.StringWidth(cluster)
	switch {
	case w <= 0:
		return WidthCombining
	case w == 1:
		return WidthNormal
	default:
		return WidthWide
	}
}

// RuneWidth returns the display width of a single codepoint.
func RuneWidth(r rune) Width {
	switch runewidth.RuneWidth(r) {
	case 0:
		return WidthCombining
	case 1:
		return WidthNormal
	default:
		return WidthWide
	}
}
