package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// testSpinner returns a spinner drawing into buf regardless of the terminal.
func testSpinner(ctx context.Context, buf *bytes.Buffer, message string) *Spinner {
	s := newSpinner(ctx, message)
	s.out = buf
	s.animate = true
	return s
}

func TestSpinnerDraws(t *testing.T) {
	var buf bytes.Buffer
	s := testSpinner(context.Background(), &buf, "Bundling 2 specs...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Update("Building...")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Bundling 2 specs...") {
		t.Errorf("spinner output missing first message: %q", out)
	}
	if !strings.Contains(out, "Building...") {
		t.Errorf("spinner output missing updated message: %q", out)
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), "quiet")
	s.out = &buf
	s.animate = false
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner drew without a terminal: %q", buf.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := testSpinner(ctx, &buf, "Testing with context...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := testSpinner(context.Background(), &buf, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}
