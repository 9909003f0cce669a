package session

import (
	"context"
	"errors"
	"io"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// retryPolicy tunes the reader retry/backoff contract: a transient read
// error (anything but EOF or ctx cancellation) is retried with exponential
// backoff, logged at Warn on every failed attempt that is retried; after MaxAttempts
// consecutive failures with no successful read in between, the loop gives
// up and reports an *IoFailure. Mirrors a raw-fd host's reader loop:
// sleep-and-retry on a transient read condition, give up and tear down on
// a hard error.
type retryPolicy struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
}

var defaultRetryPolicy = retryPolicy{MaxAttempts: 8, Initial: 10 * time.Millisecond, Max: 500 * time.Millisecond}

// runReader reads from in, decodes bytes into Msgs, and forwards them on
// events until ctx is cancelled, in returns EOF, or the retry budget is
// exhausted. On ctx cancellation or EOF it returns silently; every other read
// error is retried, and once the retry budget is exhausted it reports exactly
// one *IoFailure on errs and returns.
func runReader(ctx context.Context, in io.Reader, log *zap.Logger, events chan<- Msg, errs chan<- error) {
	runReaderWithPolicy(ctx, in, log, events, errs, defaultRetryPolicy)
}

func runReaderWithPolicy(ctx context.Context, in io.Reader, log *zap.Logger, events chan<- Msg, errs chan<- error, policy retryPolicy) {
	if log == nil {
		log = zap.NewNop()
	}
	var pending []byte
	buf := make([]byte, 4096)
	attempts := 0
	backoff := policy.Initial

	for {
		if ctx.Err() != nil {
			return
		}

		n, err := in.Read(buf)
		if n > 0 {
			attempts = 0
			backoff = policy.Initial
			pending = append(pending, buf[:n]...)
			pending = drainMsgs(pending, events)
		}

		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if ctx.Err() != nil {
			return
		}

		attempts++
		if attempts >= policy.MaxAttempts {
			errs <- &IoFailure{Op: "read", Attempts: attempts, Last: err}
			return
		}
		log.Warn("session: transient input read error, retrying",
			zap.Error(err), zap.Int("attempt", attempts), zap.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > policy.Max {
			backoff = policy.Max
		}
	}
}

// drainMsgs decodes as many complete events as pending holds, sends each on
// events, and returns the undecoded remainder (a possibly-incomplete escape
// sequence awaiting more bytes).
func drainMsgs(pending []byte, events chan<- Msg) []byte {
	for len(pending) > 0 {
		msg, n := decodeOne(pending)
		if n == 0 {
			break
		}
		if msg != nil {
			events <- msg
		}
		pending = pending[n:]
	}
	return pending
}

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// decodeOne decodes a single Msg from the head of buf, returning the Msg
// (nil for a recognized-but-silent sequence) and the number of bytes
// consumed, or n=0 if buf holds an incomplete sequence and the caller
// should wait for more input.
func decodeOne(buf []byte) (Msg, int) {
	if buf[0] != 0x1b {
		return decodeRune(buf)
	}
	if len(buf) < 2 {
		return nil, 0
	}
	if buf[1] != '[' {
		// Bare ESC, or an unrecognized Meta+key combination: report a plain
		// Esc key rather than blocking forever on a sequence that will
		// never complete.
		return KeyMsg{Name: "esc"}, 1
	}
	if len(buf) >= len(pasteStart) && string(buf[:len(pasteStart)]) == pasteStart {
		return decodePaste(buf)
	}
	switch {
	case len(buf) >= 3 && buf[2] == 'A':
		return KeyMsg{Name: "up"}, 3
	case len(buf) >= 3 && buf[2] == 'B':
		return KeyMsg{Name: "down"}, 3
	case len(buf) >= 3 && buf[2] == 'C':
		return KeyMsg{Name: "right"}, 3
	case len(buf) >= 3 && buf[2] == 'D':
		return KeyMsg{Name: "left"}, 3
	case len(buf) >= 3 && buf[2] == 'I':
		return FocusMsg{Gained: true}, 3
	case len(buf) >= 3 && buf[2] == 'O':
		return FocusMsg{Gained: false}, 3
	case len(buf) >= 3 && buf[2] == '<':
		return decodeMouse(buf)
	}
	return nil, 0
}

func decodePaste(buf []byte) (Msg, int) {
	end := indexOf(buf, []byte(pasteEnd))
	if end < 0 {
		if len(buf) > 1<<20 {
			// Runaway buffer with no terminator: drop it rather than retain
			// unbounded memory for a malformed paste.
			return nil, len(buf)
		}
		return nil, 0
	}
	text := string(buf[len(pasteStart):end])
	return PasteMsg{Text: text}, end + len(pasteEnd)
}

// decodeMouse decodes an SGR (1006) mouse report: CSI < Cb ; Cx ; Cy M/m.
func decodeMouse(buf []byte) (Msg, int) {
	i := 3
	var nums [3]int
	numIdx := 0
	for i < len(buf) && numIdx < 3 {
		start := i
		for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
			i++
		}
		if i == start {
			return nil, 0
		}
		n := 0
		for _, d := range buf[start:i] {
			n = n*10 + int(d-'0')
		}
		nums[numIdx] = n
		numIdx++
		if i >= len(buf) {
			return nil, 0
		}
		if buf[i] == ';' {
			i++
			continue
		}
		if buf[i] == 'M' || buf[i] == 'm' {
			press := buf[i] == 'M'
			i++
			return MouseMsg{Button: nums[0], X: nums[1] - 1, Y: nums[2] - 1, Press: press}, i
		}
		return nil, 0
	}
	return nil, 0
}

func indexOf(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

var namedKeys = map[byte]string{
	'\r': "enter",
	'\n': "enter",
	'\t': "tab",
	0x7f: "backspace",
	0x08: "backspace",
	0x03: "ctrl+c",
}

func decodeRune(buf []byte) (Msg, int) {
	if name, ok := namedKeys[buf[0]]; ok {
		return KeyMsg{Name: name}, 1
	}
	if buf[0] < 0x80 {
		return KeyMsg{Rune: rune(buf[0])}, 1
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		if len(buf) < utf8.UTFMax {
			return nil, 0
		}
		return KeyMsg{Rune: utf8.RuneError}, 1
	}
	return KeyMsg{Rune: r}, size
}
