// Package diag implements frame hashing and golden-frame verification for
// regression harnesses (C13): a deterministic FNV-1a/64 hash over grid
// geometry and cell payload, an interaction-inclusive variant that folds in
// overlay state, and structured mismatch diagnostics for CI gating.
package diag

import (
	"encoding/binary"
	"math"

	"github.com/goterm/ftui/cell"
)

const (
	frameHashAlgo  = "fnv1a64"
	fnv64OffsetBasis uint64 = 0xcbf29ce484222325
	fnv64Prime       uint64 = 0x100000001b3
)

// GeometrySnapshot is the deterministic geometry payload folded into a frame
// hash ahead of cell data, so resize/zoom changes are hash-visible even when
// the cell contents are unchanged.
type GeometrySnapshot struct {
	Cols         uint16
	Rows         uint16
	PixelWidth   uint32
	PixelHeight  uint32
	CellWidthPx  float32
	CellHeightPx float32
	Dpr          float32
	Zoom         float32
}

// InteractionSnapshot mirrors renderer interaction uniforms (hover, cursor,
// selection, shaping, accessibility, focus) so tests can checksum overlay
// behavior deterministically, independent of the base frame hash.
type InteractionSnapshot struct {
	HoveredLinkID   uint32
	CursorOffset    uint32
	CursorStyle     uint32
	SelectionActive bool
	SelectionStart  uint32
	SelectionEnd    uint32

	TextShapingEnabled bool
	TextShapingEngine  uint32

	ScreenReaderEnabled   bool
	HighContrastEnabled   bool
	ReducedMotionEnabled  bool
	Focused               bool
}

// effectiveTextShapingEngine canonicalizes the engine id to 0 whenever
// shaping is disabled, so two snapshots that differ only in a disabled
// engine's id hash identically.
func (s InteractionSnapshot) effectiveTextShapingEngine() uint32 {
	if !s.TextShapingEnabled {
		return 0
	}
	return s.TextShapingEngine
}

func boolU32(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

func fnv1a64Extend(hash uint64, data []byte) uint64 {
	for _, b := range data {
		hash ^= uint64(b)
		hash *= fnv64Prime
	}
	return hash
}

func fnv1a64ExtendU32(hash uint64, v uint32) uint64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return fnv1a64Extend(hash, buf[:])
}

func fnv1a64ExtendU16(hash uint64, v uint16) uint64 {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return fnv1a64Extend(hash, buf[:])
}

func hashGeometry(hash uint64, g GeometrySnapshot) uint64 {
	hash = fnv1a64ExtendU16(hash, g.Cols)
	hash = fnv1a64ExtendU16(hash, g.Rows)
	hash = fnv1a64ExtendU32(hash, g.PixelWidth)
	hash = fnv1a64ExtendU32(hash, g.PixelHeight)
	hash = fnv1a64ExtendU32(hash, math.Float32bits(g.CellWidthPx))
	hash = fnv1a64ExtendU32(hash, math.Float32bits(g.CellHeightPx))
	hash = fnv1a64ExtendU32(hash, math.Float32bits(g.Dpr))
	hash = fnv1a64ExtendU32(hash, math.Float32bits(g.Zoom))
	return hash
}

func formatHash(hash uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, len(frameHashAlgo)+1+16)
	copy(buf, frameHashAlgo)
	buf[len(frameHashAlgo)] = ':'
	for i := 0; i < 16; i++ {
		shift := uint(60 - 4*i)
		buf[len(frameHashAlgo)+1+i] = hexDigits[(hash>>shift)&0xF]
	}
	return string(buf)
}

// FrameHash computes the deterministic hash over geometry followed by each
// cell's canonical 16-byte encoding (cell.Cell.ToBytes), row-major.
func FrameHash(cells []cell.Cell, geom GeometrySnapshot) string {
	hash := fnv64OffsetBasis
	hash = hashGeometry(hash, geom)
	for _, c := range cells {
		b := c.ToBytes()
		hash = fnv1a64Extend(hash, b[:])
	}
	return formatHash(hash)
}

// FrameHashWithInteraction extends FrameHash with overlay interaction state,
// so cursor/selection/hover changes are hash-visible without perturbing the
// base FrameHash value used elsewhere.
func FrameHashWithInteraction(cells []cell.Cell, geom GeometrySnapshot, interaction InteractionSnapshot) string {
	hash := fnv64OffsetBasis
	hash = hashGeometry(hash, geom)
	for _, c := range cells {
		b := c.ToBytes()
		hash = fnv1a64Extend(hash, b[:])
	}
	hash = fnv1a64ExtendU32(hash, interaction.HoveredLinkID)
	hash = fnv1a64ExtendU32(hash, interaction.CursorOffset)
	hash = fnv1a64ExtendU32(hash, interaction.CursorStyle)
	hash = fnv1a64ExtendU32(hash, boolU32(interaction.SelectionActive))
	hash = fnv1a64ExtendU32(hash, interaction.SelectionStart)
	hash = fnv1a64ExtendU32(hash, interaction.SelectionEnd)
	hash = fnv1a64ExtendU32(hash, boolU32(interaction.TextShapingEnabled))
	hash = fnv1a64ExtendU32(hash, interaction.effectiveTextShapingEngine())
	hash = fnv1a64ExtendU32(hash, boolU32(interaction.ScreenReaderEnabled))
	hash = fnv1a64ExtendU32(hash, boolU32(interaction.HighContrastEnabled))
	hash = fnv1a64ExtendU32(hash, boolU32(interaction.ReducedMotionEnabled))
	hash = fnv1a64ExtendU32(hash, boolU32(interaction.Focused))
	return formatHash(hash)
}
