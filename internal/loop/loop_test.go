package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestRunQuitsOnQ(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("q"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(context.Background(), r, &out, Options{
			TermSizeFunc: func() (int, int, error) { return 120, 40, nil },
			Username:     "local",
		})
	}()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after q")
	}

	frame := out.String()
	if !strings.Contains(frame, "\033[?1006h") || !strings.Contains(frame, "\033[?1006l") {
		t.Fatalf("mouse reporting not enabled and restored")
	}
	if !strings.Contains(frame, "\033[?25h") {
		t.Fatalf("cursor not restored")
	}
}

func TestRunReturnsPromptlyOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, bufio.NewReader(pr), io.Discard, Options{
			TermSizeFunc: func() (int, int, error) { return 120, 40, nil },
		})
	}()

	time.Sleep(50 * time.Millisecond)
	start := time.Now()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if d := time.Since(start); d > time.Second {
		t.Fatalf("Run took %v to stop", d)
	}
}
