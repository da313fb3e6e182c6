package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/dipsubhro/subterm-proxy/domain"
	"github.com/dipsubhro/subterm-proxy/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Dialer opens the backend side of a spliced connection. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, network, addr string) (net.Conn, error)

func (f DialerFunc) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	return f(ctx, network, addr)
}

// DefaultDialTimeout bounds connecting to a backend for an upgrade.
const DefaultDialTimeout = 10 * time.Second

// Splicer connects an upgraded client connection to its backend and copies bytes both ways.
type Splicer struct {
	dialer      Dialer
	dialTimeout time.Duration
	logger      log.Logger
}

// NewSplicer creates a Splicer. Panics on nil dialer or logger.
func NewSplicer(dialer Dialer, logger log.Logger) *Splicer {
	return &Splicer{
		dialer:      helpers.NilPanic(dialer, "service.splicer.go: dialer is required"),
		dialTimeout: DefaultDialTimeout,
		logger:      log.With(helpers.NilPanic(logger, "service.splicer.go: logger is required"), "component", "Splicer"),
	}
}

// Open dials target and writes the handshake req to it. req must already carry the rewritten URL and an
// empty RequestURI.
//
// Returns bad_gateway if the backend cannot be reached or the handshake cannot be written.
func (s *Splicer) Open(ctx context.Context, target domain.Target, req *http.Request) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.dialTimeout)
	defer cancel()

	backend, err := s.dialer.DialContext(dialCtx, "tcp", target.Address())
	if err != nil {
		return nil, NewBadGatewayError("Upgrade dial failed", err)
	}
	if err := req.Write(backend); err != nil {
		_ = backend.Close()
		return nil, NewBadGatewayError("Upgrade handshake failed", fmt.Errorf("write handshake to %s, err: %w", target.Address(), err))
	}
	return backend, nil
}

// Pipe copies client→backend and backend→client until either direction ends, then closes both connections.
// clientReader holds bytes the server already buffered from client; it may be nil.
func (s *Splicer) Pipe(client net.Conn, clientReader *bufio.Reader, backend net.Conn) {
	var src io.Reader = client
	if clientReader != nil {
		src = clientReader
	}
	// the server may have left deadlines from its read/write timeouts on the hijacked conn
	_ = client.SetDeadline(time.Time{})

	errc := make(chan error, 2)
	go func() {
		_, err := io.Copy(backend, src)
		errc <- err
	}()
	go func() {
		_, err := io.Copy(client, backend)
		errc <- err
	}()

	if err := <-errc; err != nil {
		level.Debug(s.logger).Log("msg", "splice ended", "backend", backend.RemoteAddr(), "err", err)
	}
	_ = client.Close()
	_ = backend.Close()
	<-errc
}
