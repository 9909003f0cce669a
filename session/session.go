// Package session hosts a TUI application against a real terminal: mode
// setup/teardown via functional options (the familiar
// `Option func(*Terminal)` / `WithSize` / `WithResponse` idiom), a
// tick -> handle_events -> update -> layout -> render -> present host loop,
// and cleanup-sequence emission on every exit path — normal return, panic,
// or context cancellation.
package session

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goterm/ftui/budget"
	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/flow"
	"github.com/goterm/ftui/frame"
	"github.com/goterm/ftui/patch"
)

// Model is the application a Session drives. Update reacts to one Msg and
// returns the next Model (itself, typically, after mutating in place, or a
// replacement value); View renders the current state into area of buf.
type Model interface {
	Update(msg Msg) Model
	View(area frame.Rect, buf *frame.Buffer)
}

// Msg is anything a Model.Update can react to.
type Msg interface{}

// KeyMsg is a decoded keypress. Name is set for non-rune keys ("enter",
// "up", "ctrl+c", "esc", ...); Rune is set for plain printable input.
type KeyMsg struct {
	Rune rune
	Name string
}

// MouseMsg is a decoded SGR (1006) mouse report.
type MouseMsg struct {
	X, Y   int
	Button int
	Press  bool
}

// PasteMsg carries bracketed-paste content as a single event.
type PasteMsg struct{ Text string }

// FocusMsg reports terminal focus gain/loss (mode 1004).
type FocusMsg struct{ Gained bool }

// ResizeMsg reports a terminal geometry change.
type ResizeMsg struct{ Rows, Cols int }

// TickMsg drives a frame when no input arrived within the tick rate.
type TickMsg struct{ At time.Time }

const (
	DefaultRows = 24
	DefaultCols = 80
)

// config is the resolved option set a Session is built from.
type config struct {
	rows, cols int

	alternateScreen bool
	mouseCapture    bool
	bracketedPaste  bool
	focusEvents     bool
	kittyKeyboard   bool

	frameBudget time.Duration
	tickRate    time.Duration

	in  io.Reader
	out io.Writer
	log *zap.Logger

	flowPolicy flow.FlowControlPolicy
}

// Option configures a Session during construction.
type Option func(*config)

// WithSize sets the initial terminal geometry. Values <= 0 keep the default
// (24x80).
func WithSize(rows, cols int) Option {
	return func(c *config) {
		if rows > 0 {
			c.rows = rows
		}
		if cols > 0 {
			c.cols = cols
		}
	}
}

// WithAlternateScreen toggles entering the alternate screen buffer
// (mode 1049) on Run and leaving it on cleanup. Default true.
func WithAlternateScreen(enabled bool) Option {
	return func(c *config) { c.alternateScreen = enabled }
}

// WithMouseCapture toggles SGR mouse reporting (modes 1002 and 1006).
// Default true.
func WithMouseCapture(enabled bool) Option {
	return func(c *config) { c.mouseCapture = enabled }
}

// WithBracketedPaste toggles bracketed-paste mode (2004). Default true.
func WithBracketedPaste(enabled bool) Option {
	return func(c *config) { c.bracketedPaste = enabled }
}

// WithFocusEvents toggles focus in/out reporting (mode 1004). Default true.
func WithFocusEvents(enabled bool) Option {
	return func(c *config) { c.focusEvents = enabled }
}

// WithKittyKeyboard toggles the Kitty keyboard protocol. Default false,
// since most host terminals don't implement it.
func WithKittyKeyboard(enabled bool) Option {
	return func(c *config) { c.kittyKeyboard = enabled }
}

// WithFrameBudget sets the per-frame time budget fed to the degradation
// controller. Default 16ms (60fps).
func WithFrameBudget(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.frameBudget = d
		}
	}
}

// WithTickRate sets how often TickMsg fires when no input is pending.
// Default 16ms.
func WithTickRate(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.tickRate = d
		}
	}
}

// WithInput overrides the input reader. Defaults to os.Stdin.
func WithInput(r io.Reader) Option { return func(c *config) { c.in = r } }

// WithOutput overrides the output writer. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option { return func(c *config) { c.out = w } }

// WithLogger injects a zap logger for unknown-sequence warnings, golden
// mismatches, degradation transitions, and reader retry/backoff. Defaults
// to a no-op logger; never used on the hot per-cell path.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithFlowPolicy overrides the input back-pressure policy (C12). The zero
// value accepts everything unconditionally.
func WithFlowPolicy(p flow.FlowControlPolicy) Option {
	return func(c *config) { c.flowPolicy = p }
}

func newConfig(opts ...Option) config {
	c := config{
		rows: DefaultRows, cols: DefaultCols,
		alternateScreen: true,
		mouseCapture:    true,
		bracketedPaste:  true,
		focusEvents:     true,
		kittyKeyboard:   false,
		frameBudget:     16 * time.Millisecond,
		tickRate:        16 * time.Millisecond,
		in:              os.Stdin,
		out:             os.Stdout,
		log:             zap.NewNop(),
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Session hosts a Model against a real terminal: it owns mode setup and
// teardown, the tick -> handle_events -> update -> layout -> render ->
// present loop, and guarantees the cleanup sequence is written exactly once
// regardless of how the loop exits.
type Session struct {
	cfg   config
	model Model

	buf        *frame.Buffer
	prevCells  [][]cell.Cell
	controller *budget.Controller

	cleanupOnce sync.Once
	closed      bool

	pendingCfgMu sync.Mutex
	pendingCfg   *EngineConfig
}

// New constructs a Session hosting model at the configured geometry. Call
// Run to start the host loop.
func New(model Model, opts ...Option) *Session {
	cfg := newConfig(opts...)
	s := &Session{
		cfg:        cfg,
		model:      model,
		buf:        frame.New(cfg.rows, cfg.cols),
		controller: budget.NewController(cfg.frameBudget),
	}
	return s
}

// Resize updates the session's geometry and underlying buffer; the next
// render starts from a blank buffer at the new size.
func (s *Session) Resize(rows, cols int) {
	s.cfg.rows, s.cfg.cols = rows, cols
	s.buf = frame.New(rows, cols)
	s.prevCells = nil
}

// enterSequence returns the bytes written once at the start of Run to put
// the terminal into the configured mode set.
func (s *Session) enterSequence() []byte {
	var b []byte
	if s.cfg.alternateScreen {
		b = append(b, []byte(seqAltScreenEnter)...)
	}
	if s.cfg.mouseCapture {
		b = append(b, []byte(seqMouseEnter)...)
	}
	if s.cfg.bracketedPaste {
		b = append(b, []byte(seqBracketedPasteEnter)...)
	}
	if s.cfg.focusEvents {
		b = append(b, []byte(seqFocusEventsEnter)...)
	}
	if s.cfg.kittyKeyboard {
		b = append(b, []byte(seqKittyKeyboardEnter)...)
	}
	b = append(b, []byte(seqHideCursor)...)
	return b
}

// cleanupSequence returns the bytes Close writes to restore the terminal,
// in teardown order (reverse of enterSequence), ending with SGR reset and
// cursor show so a crashed app never leaves the host terminal unusable.
func (s *Session) cleanupSequence() []byte {
	var b []byte
	if s.cfg.kittyKeyboard {
		b = append(b, []byte(seqKittyKeyboardExit)...)
	}
	if s.cfg.focusEvents {
		b = append(b, []byte(seqFocusEventsExit)...)
	}
	if s.cfg.bracketedPaste {
		b = append(b, []byte(seqBracketedPasteExit)...)
	}
	if s.cfg.mouseCapture {
		b = append(b, []byte(seqMouseExit)...)
	}
	if s.cfg.alternateScreen {
		b = append(b, []byte(seqAltScreenExit)...)
	}
	b = append(b, []byte(seqShowCursor)...)
	b = append(b, []byte(seqSGRReset)...)
	return b
}

// Close writes the cleanup sequence exactly once. Safe to call more than
// once and safe to call from a deferred recover after a panic.
func (s *Session) Close() error {
	var err error
	s.cleanupOnce.Do(func() {
		s.closed = true
		_, err = s.cfg.out.Write(s.cleanupSequence())
	})
	return err
}

// Run starts the host loop: it writes the enter sequence, then repeatedly
// ticks -> handles queued input events -> calls Model.Update -> lays out
// and renders the Model's View -> diffs against the previous frame -> and
// presents the diff, until ctx is cancelled. The cleanup sequence is always
// written before Run returns, including when Model.Update or View panics.
func (s *Session) Run(ctx context.Context) (err error) {
	if _, werr := s.cfg.out.Write(s.enterSequence()); werr != nil {
		return werr
	}
	defer func() {
		if r := recover(); r != nil {
			s.cfg.log.Error("session: panic in host loop, restoring terminal", zap.Any("panic", r))
			_ = s.Close()
			panic(r)
		}
		_ = s.Close()
	}()

	events := make(chan Msg, 256)
	readErrs := make(chan error, 1)
	readerCtx, cancelReader := context.WithCancel(ctx)
	defer cancelReader()
	go runReader(readerCtx, s.cfg.in, s.cfg.log, events, readErrs)

	ticker := time.NewTicker(s.cfg.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rerr := <-readErrs:
			return rerr
		case msg := <-events:
			s.handleEvent(msg)
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

// handleEvent applies flow control before handing msg to the Model. Decide's
// hard queue-depth drop and rate throttle apply to every classified event;
// only the coalesce step is scoped to coalescable classes, so this calls
// Decide for any class, not just coalescable ones.
func (s *Session) handleEvent(msg Msg) {
	class, ok := classify(msg)
	if ok {
		decision := s.cfg.flowPolicy.Decide(flow.FlowControlSnapshot{}, class)
		switch decision.Kind {
		case flow.Drop:
			return
		case flow.Throttle:
			time.Sleep(time.Duration(decision.BackPressureMs) * time.Millisecond)
		}
	}
	s.model = s.model.Update(msg)
}

// ApplyConfig queues cfg for adoption at the start of the next frame. The
// swap never happens mid-render: tick applies it before calling Update, so
// a frame in progress always sees one consistent configuration.
func (s *Session) ApplyConfig(cfg EngineConfig) {
	s.pendingCfgMu.Lock()
	defer s.pendingCfgMu.Unlock()
	c := cfg
	s.pendingCfg = &c
}

func (s *Session) adoptPendingConfig() {
	s.pendingCfgMu.Lock()
	cfg := s.pendingCfg
	s.pendingCfg = nil
	s.pendingCfgMu.Unlock()
	if cfg == nil {
		return
	}
	s.cfg.frameBudget = cfg.FrameBudget()
	s.cfg.tickRate = cfg.TickRate()
	s.cfg.flowPolicy = flow.FlowControlPolicy{
		HardCapBytes:                cfg.FlowControl.HardCapBytes,
		QueueCoalesceThresholdBytes: cfg.FlowControl.QueueCoalesceThresholdBytes,
		LatencyBudgetMs:             cfg.FlowControl.LatencyBudgetMs,
		FairnessThreshold:           cfg.FlowControl.FairnessThreshold,
		RateBudgetBps:               cfg.FlowControl.RateBudgetBps,
	}
}

// tick runs one full frame: adopt any pending config, update with a
// TickMsg, layout/render the Model's view, diff against the previous frame,
// and present.
func (s *Session) tick(now time.Time) {
	s.adoptPendingConfig()
	start := time.Now()
	s.model = s.model.Update(TickMsg{At: now})

	s.buf.Reset()
	area := frame.Rect{X: 0, Y: 0, W: s.cfg.cols, H: s.cfg.rows}
	s.model.View(area, s.buf)

	next := s.buf.Snapshot()
	p := patch.Diff(s.prevCells, next)
	s.prevCells = next

	if len(p.Runs) > 0 {
		_, _ = s.cfg.out.Write(present(p))
	}

	prevLevel := s.controller.Level()
	level := s.controller.Observe(time.Since(start))
	if level != prevLevel {
		s.cfg.log.Warn("session: degradation level changed",
			zap.Stringer("from", prevLevel), zap.Stringer("to", level),
			zap.Duration("ewma", s.controller.EWMA()))
	}
}

// Level reports the degradation controller's current level, for a Model
// whose View wants to render at reduced detail under sustained overrun.
func (s *Session) Level() budget.DegradationLevel { return s.controller.Level() }

// classify maps a Msg to the InputEventClass flow control reasons about.
// Msgs with no flow-control-relevant class (TickMsg, ResizeMsg, FocusMsg)
// return ok=false and are never rate-limited.
func classify(msg Msg) (flow.InputEventClass, bool) {
	switch msg.(type) {
	case KeyMsg:
		return flow.ClassKey, true
	case PasteMsg:
		return flow.ClassPaste, true
	case MouseMsg:
		return flow.ClassMouseButton, true
	default:
		return 0, false
	}
}
