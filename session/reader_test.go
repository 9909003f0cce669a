package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRunePlainAscii(t *testing.T) {
	msg, n := decodeOne([]byte("x"))
	assert.Equal(t, 1, n)
	assert.Equal(t, KeyMsg{Rune: 'x'}, msg)
}

func TestDecodeNamedKeys(t *testing.T) {
	msg, n := decodeOne([]byte("\r"))
	assert.Equal(t, 1, n)
	assert.Equal(t, KeyMsg{Name: "enter"}, msg)
}

func TestDecodeArrowKeys(t *testing.T) {
	cases := map[string]string{
		"\x1b[A": "up",
		"\x1b[B": "down",
		"\x1b[C": "right",
		"\x1b[D": "left",
	}
	for seq, name := range cases {
		msg, n := decodeOne([]byte(seq))
		assert.Equal(t, 3, n, seq)
		assert.Equal(t, KeyMsg{Name: name}, msg, seq)
	}
}

func TestDecodeFocusEvents(t *testing.T) {
	msg, n := decodeOne([]byte("\x1b[I"))
	assert.Equal(t, 3, n)
	assert.Equal(t, FocusMsg{Gained: true}, msg)

	msg, n = decodeOne([]byte("\x1b[O"))
	assert.Equal(t, 3, n)
	assert.Equal(t, FocusMsg{Gained: false}, msg)
}

func TestDecodeMouseSGRPress(t *testing.T) {
	msg, n := decodeOne([]byte("\x1b[<0;5;10M"))
	require.Equal(t, 10, n)
	assert.Equal(t, MouseMsg{Button: 0, X: 4, Y: 9, Press: true}, msg)
}

func TestDecodeMouseSGRRelease(t *testing.T) {
	msg, n := decodeOne([]byte("\x1b[<0;5;10m"))
	require.Equal(t, 10, n)
	assert.Equal(t, MouseMsg{Button: 0, X: 4, Y: 9, Press: false}, msg)
}

func TestDecodePasteComplete(t *testing.T) {
	msg, n := decodeOne([]byte("\x1b[200~hello\x1b[201~"))
	assert.Equal(t, 17, n)
	assert.Equal(t, PasteMsg{Text: "hello"}, msg)
}

func TestDecodePasteIncompleteWaitsForMoreBytes(t *testing.T) {
	msg, n := decodeOne([]byte("\x1b[200~hello"))
	assert.Nil(t, msg)
	assert.Equal(t, 0, n)
}

func TestDecodeIncompleteEscSequenceWaits(t *testing.T) {
	msg, n := decodeOne([]byte("\x1b["))
	assert.Nil(t, msg)
	assert.Equal(t, 0, n)
}

func TestDecodeBareEscReportsEscKey(t *testing.T) {
	msg, n := decodeOne([]byte("\x1bq"))
	assert.Equal(t, 1, n)
	assert.Equal(t, KeyMsg{Name: "esc"}, msg)
}

func TestDrainMsgsHandlesMultipleEventsInOneRead(t *testing.T) {
	var got []Msg
	events := make(chan Msg, 8)
	remainder := drainMsgs([]byte("\x1b[Ax"), events)
	close(events)
	for m := range events {
		got = append(got, m)
	}
	assert.Empty(t, remainder)
	assert.Equal(t, []Msg{KeyMsg{Name: "up"}, KeyMsg{Rune: 'x'}}, got)
}

// flakyReader fails transiently errLimit times, then succeeds forever with
// a single 'x' byte per call.
type flakyReader struct {
	calls    int
	errLimit int
}

func (f *flakyReader) Read(p []byte) (int, error) {
	f.calls++
	if f.calls <= f.errLimit {
		return 0, errors.New("transient read error")
	}
	p[0] = 'x'
	return 1, nil
}

func TestRunReaderRecoversAfterTransientErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &flakyReader{errLimit: 2}
	events := make(chan Msg, 8)
	errs := make(chan error, 1)
	policy := retryPolicy{MaxAttempts: 8, Initial: time.Millisecond, Max: 5 * time.Millisecond}

	go runReaderWithPolicy(ctx, r, nil, events, errs, policy)

	select {
	case msg := <-events:
		assert.Equal(t, KeyMsg{Rune: 'x'}, msg)
	case err := <-errs:
		t.Fatalf("expected recovery, got error: %v", err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reader to recover")
	}
}

// alwaysFailReader never produces a successful read.
type alwaysFailReader struct{}

func (alwaysFailReader) Read(p []byte) (int, error) {
	return 0, errors.New("permanent read error")
}

func TestRunReaderEscalatesAfterRetryBudgetExhausted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Msg, 1)
	errs := make(chan error, 1)
	policy := retryPolicy{MaxAttempts: 3, Initial: time.Millisecond, Max: 2 * time.Millisecond}

	go runReaderWithPolicy(ctx, alwaysFailReader{}, nil, events, errs, policy)

	select {
	case err := <-errs:
		var ioErr *IoFailure
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, 3, ioErr.Attempts)
		assert.True(t, errors.Is(err, ErrReaderExhausted))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for escalation")
	}
}

func TestRunReaderStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Msg, 1)
	errs := make(chan error, 1)
	policy := retryPolicy{MaxAttempts: 100, Initial: 50 * time.Millisecond, Max: time.Second}

	done := make(chan struct{})
	go func() {
		runReaderWithPolicy(ctx, alwaysFailReader{}, nil, events, errs, policy)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected runReaderWithPolicy to return promptly after cancellation")
	}
}
