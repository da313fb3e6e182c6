package service

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

func runLifecycle(t *testing.T, l *Lifecycle) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case <-l.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("Run returned before ready: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("lifecycle not ready")
	}
	return cancel, done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestNewLifecycle_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "service.lifecycle.go: addr is required", func() {
		NewLifecycle("", okHandler(), log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "service.lifecycle.go: handler is required", func() {
		NewLifecycle(":0", nil, log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "service.lifecycle.go: logger is required", func() {
		NewLifecycle(":0", okHandler(), nil)
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "starting", StateStarting.String())
	assert.Equal(t, "listening", StateListening.String())
	assert.Equal(t, "shutting_down", StateShuttingDown.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestLifecycle_Run(t *testing.T) {
	var (
		mu     sync.Mutex
		closed []string
	)
	record := func(name string) closerFunc {
		return func() error {
			mu.Lock()
			defer mu.Unlock()
			closed = append(closed, name)
			return nil
		}
	}

	l := NewLifecycle("127.0.0.1:0", okHandler(), log.NewNopLogger(),
		WithCloser("toucher", record("toucher")),
		WithCloser("redis", record("redis")),
	)
	assert.Equal(t, StateStarting, l.State())
	assert.Nil(t, l.Addr())

	cancel, done := runLifecycle(t, l)
	assert.Equal(t, StateListening, l.State())
	require.NotNil(t, l.Addr())
	assert.Nil(t, l.GRPCAddr())

	resp, err := http.Get("http://" + l.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	require.NoError(t, waitRun(t, done))
	assert.Equal(t, StateStopped, l.State())
	assert.Equal(t, []string{"toucher", "redis"}, closed)

	_, err = net.DialTimeout("tcp", l.Addr().String(), time.Second)
	assert.Error(t, err, "listener must be closed")
}

func TestLifecycle_Run_ListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	l := NewLifecycle(ln.Addr().String(), okHandler(), log.NewNopLogger())
	err = l.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateStopped, l.State())
}

func TestLifecycle_Run_CloserErrorDoesNotStopShutdown(t *testing.T) {
	second := false
	l := NewLifecycle("127.0.0.1:0", okHandler(), log.NewNopLogger(),
		WithCloser("first", closerFunc(func() error { return assert.AnError })),
		WithCloser("second", closerFunc(func() error { second = true; return nil })),
	)
	cancel, done := runLifecycle(t, l)
	cancel()
	require.NoError(t, waitRun(t, done))
	assert.True(t, second)
}

func TestLifecycle_Run_ForcedAfterTimeout(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})

	l := NewLifecycle("127.0.0.1:0", handler, log.NewNopLogger(), WithShutdownTimeout(100*time.Millisecond))
	cancel, done := runLifecycle(t, l)

	clientErr := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + l.Addr().String() + "/slow")
		if err == nil {
			resp.Body.Close()
		}
		clientErr <- err
	}()
	<-entered

	start := time.Now()
	cancel()
	require.NoError(t, waitRun(t, done))
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Error(t, <-clientErr)
}

func TestLifecycle_GRPCHealth(t *testing.T) {
	var (
		client         grpc_health_v1.HealthClient
		duringShutdown grpc_health_v1.HealthCheckResponse_ServingStatus
		probeErr       error
	)

	check := func() (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ""})
		if err != nil {
			return grpc_health_v1.HealthCheckResponse_UNKNOWN, err
		}
		return resp.Status, nil
	}

	l := NewLifecycle("127.0.0.1:0", okHandler(), log.NewNopLogger(),
		WithGRPCHealth("127.0.0.1:0"),
		WithCloser("probe", closerFunc(func() error {
			duringShutdown, probeErr = check()
			return nil
		})),
	)
	cancel, done := runLifecycle(t, l)
	require.NotNil(t, l.GRPCAddr())

	conn, err := grpc.NewClient(l.GRPCAddr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client = grpc_health_v1.NewHealthClient(conn)

	status, err := check()
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, status)

	cancel()
	require.NoError(t, waitRun(t, done))
	require.NoError(t, probeErr)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, duringShutdown)
}
