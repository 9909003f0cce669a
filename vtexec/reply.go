package vtexec

// ReplyEngine receives host-reply byte strings (DSR, DA, CPR, OSC query
// responses). Replies are never written to the grid (§4.2).
type ReplyEngine interface {
	Reply(data []byte)
}

// NoopReply discards all replies; the Provider/Noop pattern mirrors the
// familiar ResponseProvider/NoopResponse idiom.
type NoopReply struct{}

func (NoopReply) Reply([]byte) {}

var _ ReplyEngine = NoopReply{}

// BellSink receives BEL (0x07) notifications.
type BellSink interface{ Ring() }

type NoopBell struct{}

func (NoopBell) Ring() {}

var _ BellSink = NoopBell{}

// TitleSink receives OSC 0/1/2 window title changes.
type TitleSink interface {
	SetTitle(title string)
	PushTitle()
	PopTitle()
}

type NoopTitle struct{}

func (NoopTitle) SetTitle(string) {}
func (NoopTitle) PushTitle()      {}
func (NoopTitle) PopTitle()       {}

var _ TitleSink = NoopTitle{}

// ClipboardSink services OSC 52 clipboard get/set requests.
type ClipboardSink interface {
	Read(selection byte) string
	Write(selection byte, data []byte)
}

type NoopClipboard struct{}

func (NoopClipboard) Read(byte) string   { return "" }
func (NoopClipboard) Write(byte, []byte) {}

var _ ClipboardSink = NoopClipboard{}

// GraphicsSink receives raw DCS payload bytes for sixel/Kitty graphics
// protocols. The engine never rasterizes; it only surfaces the bytes
// (§1 Non-goals: graphical image rendering).
type GraphicsSink interface {
	Graphics(kind GraphicsKind, params []int, payload []byte)
}

type GraphicsKind int

const (
	GraphicsSixel GraphicsKind = iota
	GraphicsKitty
	GraphicsUnknown
)

type NoopGraphics struct{}

func (NoopGraphics) Graphics(GraphicsKind, []int, []byte) {}

var _ GraphicsSink = NoopGraphics{}
