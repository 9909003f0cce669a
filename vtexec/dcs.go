package vtexec

import (
	"go.uber.org/zap"

	"github.com/goterm/ftui/vtparse"
)

// dcsHook begins collecting a DCS payload. Only sixel (intermediate-less,
// final 'q') and Kitty graphics (final 'q' with a 'G' param convention are
// instead carried over APC in real terminals, so DCS here is sixel-only) are
// recognized; anything else still buffers so DcsUnhook can flush it, but is
// classified GraphicsUnknown.
func (e *Executor) dcsHook(a vtparse.Action) {
	e.dcsActive = true
	e.dcsFinal = a.Final
	e.dcsParams = append([]int(nil), flattenParams(a.Params)...)
	e.dcsBuf = e.dcsBuf[:0]
}

func flattenParams(params [][]int) []int {
	out := make([]int, 0, len(params))
	for _, g := range params {
		if len(g) > 0 {
			out = append(out, g[0])
		}
	}
	return out
}

// dcsUnhook flushes the buffered DCS payload to the GraphicsSink and resets
// collection state. The engine never decodes sixel/Kitty pixels (§1
// Non-goals); it only surfaces the raw bytes.
func (e *Executor) dcsUnhook() {
	if !e.dcsActive {
		return
	}
	kind := GraphicsUnknown
	if e.dcsFinal == 'q' {
		kind = GraphicsSixel
	}
	if len(e.dcsBuf) > 0 {
		e.graphics.Graphics(kind, e.dcsParams, append([]byte(nil), e.dcsBuf...))
	} else {
		e.log.Debug("empty DCS payload on unhook", zap.String("final", string(e.dcsFinal)))
	}
	e.dcsActive = false
	e.dcsBuf = nil
	e.dcsParams = nil
}
