package vtexec

import (
	"encoding/base64"
	"strings"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"go.uber.org/zap"
)

// oscDispatch routes an OSC sequence by its leading numeric command. Payload
// is everything after the command's terminating ';' (§4.2).
func (e *Executor) oscDispatch(command string, payload []byte) {
	switch command {
	case "0", "2": // icon name + title, or title only
		e.title.SetTitle(string(payload))
	case "1": // icon name only; no sink distinguishes it from the title
		e.title.SetTitle(string(payload))
	case "8":
		e.oscHyperlink(payload)
	case "52":
		e.oscClipboard(payload)
	case "4": // palette color set/query: accepted, not tracked
	case "10", "11", "12": // fg/bg/cursor color set/query: accepted, not tracked
	case "104", "110", "111", "112": // palette/fg/bg/cursor color reset
	default:
		e.log.Debug("unhandled OSC command", zap.String("command", command))
	}
}

// oscHyperlink handles OSC 8 ; params ; uri. An empty uri closes the active
// link. Link ids are assigned round-robin over a uint8 space and stamped
// into the grid pen so every subsequent WriteRune tags the cell for free.
func (e *Executor) oscHyperlink(payload []byte) {
	// payload is "params;uri": the parser strips the "8;" command prefix, so
	// the (possibly empty) params field comes first and the URI is
	// everything after the first ';'.
	parts := strings.SplitN(string(payload), ";", 2)
	uri := ""
	if len(parts) == 2 {
		uri = parts[1]
	}

	fg, bg, attrs := e.current.Pen()
	if uri == "" {
		e.activeLink = 0
		e.current.SetPen(fg, bg, attrs.WithLinkID(0))
		return
	}
	e.nextLinkID++
	if e.nextLinkID == 0 {
		e.nextLinkID = 1 // wrap past the "no link" sentinel
	}
	id := e.nextLinkID
	e.linkURLs[id] = uri
	e.activeLink = id
	e.current.SetPen(fg, bg, attrs.WithLinkID(id))
}

// LinkURL returns the URI associated with a hyperlink id stamped on a cell,
// or "" if unknown (used by consumers rendering the active frame).
func (e *Executor) LinkURL(id uint8) string { return e.linkURLs[id] }

// oscClipboard handles OSC 52 ; selection ; base64-data. Per Open Question 3
// this bypasses mouse-capture suppression: the host always services it.
func (e *Executor) oscClipboard(payload []byte) {
	parts := strings.SplitN(string(payload), ";", 2)
	if len(parts) != 2 {
		return
	}
	selection := byte('c')
	if len(parts[0]) > 0 {
		selection = parts[0][0]
	}
	if parts[1] == "?" {
		data := e.clipboard.Read(selection)
		seq := osc52.New(data)
		if selection == 'p' {
			seq = seq.Primary()
		}
		e.reply.Reply([]byte(seq.String()))
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		e.log.Debug("malformed OSC 52 payload", zap.Error(err))
		return
	}
	e.clipboard.Write(selection, decoded)
}
