// Package testutil contains utilities for end-to-end tests of the server.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starquake/quizbase/cmd/server/app"
	"github.com/starquake/quizbase/internal/dbtest"
)

const (
	clientTimeout             = 5 * time.Second
	waitForReadyTimeout       = 10 * time.Second
	waitForReadyRetryInterval = 250 * time.Millisecond
	shutdownWait              = 5 * time.Second
)

// SignalCtx returns a context that is canceled when the test is interrupted
// (e.g., via the Stop button in an IDE).
func SignalCtx(tb testing.TB) (context.Context, context.CancelFunc) {
	tb.Helper()
	ctx, stop := signal.NotifyContext(tb.Context(), os.Interrupt)
	tb.Cleanup(stop)

	return ctx, stop
}

// TestWriter is an io.Writer that forwards writes to tb.Log.
type TestWriter struct {
	tb testing.TB
	mu sync.Mutex
}

// NewTestWriter creates a new TestWriter that forwards writes to tb.Log.
func NewTestWriter(tb testing.TB) *TestWriter {
	tb.Helper()

	return &TestWriter{tb: tb}
}

// Write forwards p to tb.Log without its trailing newline.
func (w *TestWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tb.Log(strings.TrimSuffix(string(p), "\n"))

	return len(p), nil
}

// StartServer runs the application against a fresh SQLite file on a random local port and
// returns its base URL once /healthz answers 200. env overrides the environment the
// application sees. The server is shut down when the test ends.
func StartServer(tb testing.TB, env map[string]string) string {
	tb.Helper()

	ctx, stop := SignalCtx(tb)

	vars := map[string]string{
		"HOST":   "localhost",
		"PORT":   "0",
		"DB_URI": dbtest.SetupTestDB(tb),
	}
	for k, v := range env {
		vars[k] = v
	}
	getenv := func(key string) string { return vars[key] }

	listenConfig := &net.ListenConfig{}
	ln, err := listenConfig.Listen(ctx, "tcp", net.JoinHostPort(vars["HOST"], vars["PORT"]))
	if err != nil {
		tb.Fatalf("failed to listen: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run(ctx, getenv, NewTestWriter(tb), ln)
	}()

	baseURL := "http://" + ln.Addr().String()

	tb.Cleanup(func() {
		stop()
		select {
		case runErr := <-errCh:
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				tb.Errorf("server exited with error: %v", runErr)
			}
		case <-time.After(shutdownWait):
			tb.Error("server timed out during shutdown")
		}
	})

	if err = WaitForReady(ctx, waitForReadyTimeout, baseURL+"/healthz"); err != nil {
		tb.Fatalf("error waiting for server to be ready: %v", err)
	}

	return baseURL
}

// WaitForReady calls endpoint until it gets a 200 response, the context is canceled,
// or the timeout is reached.
func WaitForReady(ctx context.Context, timeout time.Duration, endpoint string) error {
	client := http.Client{
		Timeout: clientTimeout,
	}
	ticker := time.NewTicker(waitForReadyRetryInterval)
	defer ticker.Stop()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := client.Do(req)
		if err == nil {
			if closeErr := resp.Body.Close(); closeErr != nil {
				return fmt.Errorf("failed to close response body: %w", closeErr)
			}
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-timeoutCtx.Done():
			return fmt.Errorf("timeout waiting for endpoint: %w", timeoutCtx.Err())
		case <-ticker.C:
		}
	}
}
