package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dipsubhro/subterm-proxy/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// State is the lifecycle phase of the router process.
type State int32

const (
	StateStarting State = iota
	StateListening
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// DefaultShutdownTimeout is how long in-flight requests get before connections are closed forcibly.
const DefaultShutdownTimeout = 5 * time.Second

type namedCloser struct {
	name   string
	closer io.Closer
}

// LifecycleOption configures a Lifecycle.
type LifecycleOption func(*Lifecycle)

// WithCloser registers c to be closed during shutdown, after the listener stops accepting and before
// in-flight requests are drained. Closers run in registration order.
func WithCloser(name string, c io.Closer) LifecycleOption {
	return func(l *Lifecycle) {
		l.closers = append(l.closers, namedCloser{name: name, closer: c})
	}
}

// WithGRPCHealth serves grpc.health.v1.Health on addr: SERVING while listening, NOT_SERVING from shutdown on.
func WithGRPCHealth(addr string) LifecycleOption {
	return func(l *Lifecycle) {
		l.grpcAddr = addr
	}
}

// WithShutdownTimeout overrides DefaultShutdownTimeout.
func WithShutdownTimeout(d time.Duration) LifecycleOption {
	return func(l *Lifecycle) {
		l.shutdownTimeout = d
	}
}

// Lifecycle binds the listener, serves until its context is done, then shuts down in order:
// stop accepting, run closers, drain the HTTP server (forced after the shutdown timeout).
type Lifecycle struct {
	addr            string
	handler         http.Handler
	logger          log.Logger
	shutdownTimeout time.Duration
	closers         []namedCloser
	grpcAddr        string

	state atomic.Int32
	ready chan struct{}

	mu       sync.Mutex
	httpAddr net.Addr
	grpcBind net.Addr
}

// NewLifecycle creates a Lifecycle for handler on addr (e.g. ":5001"). Panics on empty addr, nil handler or logger.
func NewLifecycle(addr string, handler http.Handler, logger log.Logger, opts ...LifecycleOption) *Lifecycle {
	l := &Lifecycle{
		addr:            helpers.StrPanic(addr, "service.lifecycle.go: addr is required"),
		handler:         helpers.NilPanic(handler, "service.lifecycle.go: handler is required"),
		logger:          log.With(helpers.NilPanic(logger, "service.lifecycle.go: logger is required"), "component", "Lifecycle"),
		shutdownTimeout: DefaultShutdownTimeout,
		ready:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current phase.
func (l *Lifecycle) State() State {
	return State(l.state.Load())
}

// Ready is closed once the HTTP listener is bound.
func (l *Lifecycle) Ready() <-chan struct{} {
	return l.ready
}

// Addr returns the bound HTTP address, nil before Ready.
func (l *Lifecycle) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.httpAddr
}

// GRPCAddr returns the bound gRPC health address, nil when disabled or before Ready.
func (l *Lifecycle) GRPCAddr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.grpcBind
}

// Run serves until ctx is done and returns after shutdown completes.
// Returns an error when a listener cannot be bound or the server fails; a signal-driven stop returns nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	defer l.state.Store(int32(StateStopped))

	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listen on %s failed, err: %w", l.addr, err)
	}

	var (
		grpcServer   *grpc.Server
		healthServer *health.Server
	)
	if l.grpcAddr != "" {
		gln, err := net.Listen("tcp", l.grpcAddr)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("listen on %s for grpc health failed, err: %w", l.grpcAddr, err)
		}
		grpcServer = grpc.NewServer()
		healthServer = health.NewServer()
		grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
		reflection.Register(grpcServer)
		go func() {
			if err := grpcServer.Serve(gln); err != nil {
				level.Error(l.logger).Log("msg", "gRPC server error", "err", err)
			}
		}()
		l.mu.Lock()
		l.grpcBind = gln.Addr()
		l.mu.Unlock()
	}

	srv := &http.Server{Handler: l.handler}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	l.mu.Lock()
	l.httpAddr = ln.Addr()
	l.mu.Unlock()
	l.state.Store(int32(StateListening))
	if healthServer != nil {
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	}
	close(l.ready)
	level.Info(l.logger).Log("msg", "Listening", "addr", fmt.Sprintf("http://%s", ln.Addr()))

	var (
		runErr   error
		serveEnd bool
	)
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		serveEnd = true
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server failed, err: %w", err)
		}
	}

	l.state.Store(int32(StateShuttingDown))
	level.Info(l.logger).Log("msg", "Shutting down")
	if healthServer != nil {
		healthServer.Shutdown()
	}

	// stop accepting; connections already open finish their current request
	srv.SetKeepAlivesEnabled(false)
	_ = ln.Close()
	if !serveEnd {
		<-serveErr
	}

	for _, c := range l.closers {
		if err := c.closer.Close(); err != nil {
			level.Error(l.logger).Log("msg", "Close failed", "name", c.name, "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		level.Warn(l.logger).Log("msg", "Graceful shutdown timed out, closing connections", "err", err)
		_ = srv.Close()
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}

	level.Info(l.logger).Log("msg", "Server stopped")
	return runErr
}
