package session

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goterm/ftui/flow"
	"github.com/goterm/ftui/frame"
)

// countingModel records every Msg it receives via Update and renders nothing.
type countingModel struct {
	updates []Msg
}

func (m *countingModel) Update(msg Msg) Model {
	m.updates = append(m.updates, msg)
	return m
}

func (m *countingModel) View(area frame.Rect, buf *frame.Buffer) {}

func TestEnterSequenceIncludesConfiguredModes(t *testing.T) {
	s := New(&countingModel{}, WithOutput(&bytes.Buffer{}))
	seq := string(s.enterSequence())
	assert.Contains(t, seq, seqAltScreenEnter)
	assert.Contains(t, seq, seqMouseEnter)
	assert.Contains(t, seq, seqBracketedPasteEnter)
	assert.Contains(t, seq, seqFocusEventsEnter)
	assert.Contains(t, seq, seqHideCursor)
	assert.NotContains(t, seq, seqKittyKeyboardEnter)
}

func TestEnterSequenceOmitsDisabledModes(t *testing.T) {
	s := New(&countingModel{}, WithOutput(&bytes.Buffer{}), WithMouseCapture(false), WithAlternateScreen(false))
	seq := string(s.enterSequence())
	assert.NotContains(t, seq, seqMouseEnter)
	assert.NotContains(t, seq, seqAltScreenEnter)
}

func TestCleanupSequenceRestoresCursorAndStyle(t *testing.T) {
	s := New(&countingModel{}, WithOutput(&bytes.Buffer{}))
	seq := string(s.cleanupSequence())
	assert.Contains(t, seq, seqShowCursor)
	assert.Contains(t, seq, seqSGRReset)
	// Teardown order: cursor restoration and the reset come last, after
	// every mode exit sequence.
	assert.True(t, strings.Index(seq, seqAltScreenExit) < strings.Index(seq, seqShowCursor))
}

func TestCloseIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	s := New(&countingModel{}, WithOutput(&out))

	require.NoError(t, s.Close())
	written := out.Len()
	require.NoError(t, s.Close())
	assert.Equal(t, written, out.Len(), "a second Close must not write the cleanup sequence again")
}

func TestClassifyMapsKnownMsgTypes(t *testing.T) {
	cases := []struct {
		msg   Msg
		class flow.InputEventClass
	}{
		{KeyMsg{Rune: 'a'}, flow.ClassKey},
		{PasteMsg{Text: "x"}, flow.ClassPaste},
		{MouseMsg{}, flow.ClassMouseButton},
	}
	for _, tc := range cases {
		class, ok := classify(tc.msg)
		assert.True(t, ok)
		assert.Equal(t, tc.class, class)
	}
}

func TestClassifyReturnsFalseForUnclassifiedMsgs(t *testing.T) {
	_, ok := classify(TickMsg{})
	assert.False(t, ok)
	_, ok = classify(ResizeMsg{})
	assert.False(t, ok)
	_, ok = classify(FocusMsg{})
	assert.False(t, ok)
}

func TestHandleEventDropsOnHardQueueCap(t *testing.T) {
	m := &countingModel{}
	s := New(m, WithOutput(&bytes.Buffer{}), WithFlowPolicy(flow.FlowControlPolicy{HardCapBytes: -1}))

	s.handleEvent(KeyMsg{Rune: 'a'})
	assert.Empty(t, m.updates, "a policy with a negative hard cap must drop every event")
}

func TestHandleEventAcceptsUnderDefaultPolicy(t *testing.T) {
	m := &countingModel{}
	s := New(m, WithOutput(&bytes.Buffer{}))

	s.handleEvent(KeyMsg{Rune: 'a'})
	require.Len(t, m.updates, 1)
	assert.Equal(t, KeyMsg{Rune: 'a'}, m.updates[0])
}

func TestHandleEventPassesThroughUnclassifiedMsgs(t *testing.T) {
	m := &countingModel{}
	s := New(m, WithOutput(&bytes.Buffer{}), WithFlowPolicy(flow.FlowControlPolicy{HardCapBytes: -1}))

	s.handleEvent(ResizeMsg{Rows: 10, Cols: 20})
	require.Len(t, m.updates, 1)
}

func TestApplyConfigSwapsAtNextTickOnly(t *testing.T) {
	m := &countingModel{}
	s := New(m, WithOutput(&bytes.Buffer{}), WithFrameBudget(16*time.Millisecond))

	s.ApplyConfig(EngineConfig{FrameBudgetMs: 50, TickRateMs: 25})
	// Not yet adopted: tick() hasn't run.
	assert.Equal(t, 16*time.Millisecond, s.cfg.frameBudget)

	s.tick(time.Now())
	assert.Equal(t, 50*time.Millisecond, s.cfg.frameBudget)
	assert.Equal(t, 25*time.Millisecond, s.cfg.tickRate)
}

func TestAdoptPendingConfigIsNoOpWhenNothingQueued(t *testing.T) {
	s := New(&countingModel{}, WithOutput(&bytes.Buffer{}), WithFrameBudget(16*time.Millisecond))
	s.adoptPendingConfig()
	assert.Equal(t, 16*time.Millisecond, s.cfg.frameBudget)
}

func TestResizeResetsPreviousFrame(t *testing.T) {
	s := New(&countingModel{}, WithOutput(&bytes.Buffer{}), WithSize(10, 20))
	s.prevCells = s.buf.Snapshot() // any non-nil sentinel would do; nil check is what matters
	s.Resize(5, 5)
	assert.Nil(t, s.prevCells)
	assert.Equal(t, 5, s.cfg.rows)
	assert.Equal(t, 5, s.cfg.cols)
}

func TestRunWritesEnterSequenceThenCleansUpOnCancel(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("")
	s := New(&countingModel{}, WithOutput(&out), WithInput(in), WithTickRate(5*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	written := out.String()
	assert.True(t, strings.HasPrefix(written, string(s.enterSequence())))
	assert.True(t, strings.HasSuffix(written, string(s.cleanupSequence())))
}
