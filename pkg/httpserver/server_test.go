package httpserver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdssamie/convex-shipfast/pkg/httpserver"
)

// startServer runs srv in the background on a random local port and returns
// the bound address and the Run result channel.
func startServer(t *testing.T, ctx context.Context, h http.Handler, opts ...httpserver.Option) (*httpserver.Server, string, <-chan error) {
	t.Helper()

	addrCh := make(chan string, 1)
	opts = append([]httpserver.Option{
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithStartHook(func(addr net.Addr, _ *slog.Logger) { addrCh <- addr.String() }),
	}, opts...)
	srv := httpserver.New(opts...)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	select {
	case addr := <-addrCh:
		return srv, addr, done
	case err := <-done:
		t.Fatalf("server did not start: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start in time")
	}
	return nil, "", nil
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("run did not finish")
		return nil
	}
}

func TestRunAndCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, addr, done := startServer(t, ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	assert.NoError(t, waitDone(t, done))
}

func TestManualShutdown(t *testing.T) {
	t.Parallel()

	srv, _, done := startServer(t, context.Background(), http.NewServeMux())
	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()), "second shutdown is a no-op")
	assert.NoError(t, waitDone(t, done))
}

func TestStartError(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	var started atomic.Bool
	srv := httpserver.New(
		httpserver.WithAddr(l.Addr().String()),
		httpserver.WithStartHook(func(net.Addr, *slog.Logger) { started.Store(true) }),
	)
	err = srv.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, httpserver.ErrStart)
	assert.False(t, started.Load(), "start hooks run only after a successful bind")
}

func TestStopHooks(t *testing.T) {
	t.Parallel()

	var stopped atomic.Bool
	var hadDeadline atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	_, _, done := startServer(t, ctx, http.NewServeMux(),
		httpserver.WithStopHook(func(ctx context.Context, _ *slog.Logger) error {
			_, ok := ctx.Deadline()
			hadDeadline.Store(ok)
			stopped.Store(true)
			return nil
		}),
	)

	cancel()
	require.NoError(t, waitDone(t, done))
	assert.True(t, stopped.Load())
	assert.True(t, hadDeadline.Load(), "stop hooks get the shutdown deadline")
}

func TestStopHookError(t *testing.T) {
	t.Parallel()

	drainErr := errors.New("drain timed out")
	ctx, cancel := context.WithCancel(context.Background())
	_, _, done := startServer(t, ctx, http.NewServeMux(),
		httpserver.WithStopHook(func(context.Context, *slog.Logger) error { return drainErr }),
	)

	cancel()
	err := waitDone(t, done)
	assert.ErrorIs(t, err, httpserver.ErrShutdown)
	assert.ErrorIs(t, err, drainErr)
}

func TestAlreadyRunning(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	srv, _, done := startServer(t, ctx, http.NewServeMux())

	err := srv.Run(context.Background(), http.NewServeMux())
	assert.ErrorIs(t, err, httpserver.ErrStart)

	cancel()
	assert.NoError(t, waitDone(t, done))
}

func TestOptionsApply(t *testing.T) {
	t.Parallel()

	hs := &http.Server{}
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	gotLogger := make(chan *slog.Logger, 1)
	srv, addr, done := startServer(t, context.Background(), nil,
		httpserver.WithServer(hs),
		httpserver.WithReadTimeout(time.Second),
		httpserver.WithWriteTimeout(2*time.Second),
		httpserver.WithIdleTimeout(3*time.Second),
		httpserver.WithLogger(l),
		httpserver.WithStartHook(func(_ net.Addr, lg *slog.Logger) { gotLogger <- lg }),
	)

	assert.Equal(t, "127.0.0.1:0", hs.Addr)
	assert.NotEmpty(t, addr)
	assert.Equal(t, time.Second, hs.ReadTimeout)
	assert.Equal(t, 2*time.Second, hs.WriteTimeout)
	assert.Equal(t, 3*time.Second, hs.IdleTimeout)
	assert.NotNil(t, hs.Handler)
	assert.Equal(t, l, <-gotLogger)

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, waitDone(t, done))
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	hs := &http.Server{}
	addrCh := make(chan string, 1)
	srv := httpserver.NewFromConfig(httpserver.Config{
		Addr:        "127.0.0.1:0",
		ReadTimeout: 4 * time.Second,
	},
		httpserver.WithServer(hs),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithStartHook(func(addr net.Addr, _ *slog.Logger) { addrCh <- addr.String() }),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), nil) }()
	<-addrCh

	assert.Equal(t, 4*time.Second, hs.ReadTimeout)
	assert.Zero(t, hs.WriteTimeout)

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, waitDone(t, done))
}

// Not parallel: the signal reaches every running server in the process.
func TestSignalShutdown(t *testing.T) {
	_, _, done := startServer(t, context.Background(), http.NewServeMux())

	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, p.Signal(syscall.SIGTERM))

	assert.NoError(t, waitDone(t, done))
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"addr", func() { httpserver.WithAddr("") }},
		{"read", func() { httpserver.WithReadTimeout(-time.Second) }},
		{"write", func() { httpserver.WithWriteTimeout(-time.Second) }},
		{"idle", func() { httpserver.WithIdleTimeout(-time.Second) }},
		{"shutdown", func() { httpserver.WithShutdownTimeout(-time.Second) }},
		{"server", func() { httpserver.WithServer(nil) }},
		{"start hook", func() { httpserver.WithStartHook(nil) }},
		{"stop hook", func() { httpserver.WithStopHook(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, tt.fn)
		})
	}

	assert.NotPanics(t, func() { httpserver.WithLogger(nil) })
}
