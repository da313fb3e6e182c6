package handlers

import (
	"bufio"
	"context"
	"net"
	"net/http"

	"github.com/dipsubhro/subterm-proxy/domain"
	"github.com/dipsubhro/subterm-proxy/helpers"
	"github.com/dipsubhro/subterm-proxy/interfaces"
	"github.com/dipsubhro/subterm-proxy/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Splicer connects a hijacked client to its backend. Implemented by *service.Splicer.
type Splicer interface {
	Open(ctx context.Context, target domain.Target, req *http.Request) (net.Conn, error)
	Pipe(client net.Conn, clientReader *bufio.Reader, backend net.Conn)
}

// UpgradeProxy takes over WebSocket handshakes for /workspace/{sessionId}/... before echo routes them.
// Failures are reported as a bare status line on the raw connection, since no HTTP response can follow a hijack.
type UpgradeProxy struct {
	resolver interfaces.RouteResolver
	toucher  interfaces.Toucher
	splicer  Splicer
	logger   log.Logger
}

// NewUpgradeProxy creates an UpgradeProxy. Panics on nil dependencies.
func NewUpgradeProxy(resolver interfaces.RouteResolver, toucher interfaces.Toucher, splicer Splicer, logger log.Logger) *UpgradeProxy {
	return &UpgradeProxy{
		resolver: helpers.NilPanic(resolver, "handlers.upgrade.go: resolver is required"),
		toucher:  helpers.NilPanic(toucher, "handlers.upgrade.go: toucher is required"),
		splicer:  helpers.NilPanic(splicer, "handlers.upgrade.go: splicer is required"),
		logger:   log.WithPrefix(helpers.NilPanic(logger, "handlers.upgrade.go: logger is required"), "component", "UpgradeProxy"),
	}
}

// Middleware returns the echo Pre middleware. Requests that are not WebSocket upgrades pass through.
func (u *UpgradeProxy) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ectx echo.Context) error {
			req := ectx.Request()
			if !websocket.IsWebSocketUpgrade(req) {
				return next(ectx)
			}

			conn, rw, err := ectx.Response().Hijack()
			if err != nil {
				return service.NewInternalServerError("upgrade hijack failed", err)
			}
			u.serve(req, conn, rw.Reader)
			return nil
		}
	}
}

func (u *UpgradeProxy) serve(req *http.Request, conn net.Conn, clientReader *bufio.Reader) {
	wt, err := domain.ParseWorkspaceTarget(req.RequestURI)
	if err != nil {
		level.Debug(u.logger).Log("msg", "malformed upgrade target", "uri", req.RequestURI)
		u.reject(conn, service.NewBadParameterError("malformed upgrade target", err))
		return
	}
	rest, err := wt.RestURL()
	if err != nil {
		level.Debug(u.logger).Log("msg", "malformed upgrade target", "uri", req.RequestURI, "err", err)
		u.reject(conn, service.NewBadParameterError("malformed upgrade target", err))
		return
	}

	ctx := req.Context()
	target, err := u.resolver.Resolve(ctx, wt.SessionID)
	if err != nil {
		if service.IsEntityNotFoundError(err) {
			level.Debug(u.logger).Log("msg", "upgrade for unknown session", "session_id", wt.SessionID)
		} else {
			level.Error(u.logger).Log("msg", "Redis lookup failed", "session_id", wt.SessionID, "err", err)
		}
		u.reject(conn, err)
		return
	}

	u.toucher.Touch(wt.SessionID)
	level.Info(u.logger).Log(
		"msg", "WS",
		"path", domain.WorkspacePrefix+wt.SessionID+wt.Rest,
		"session_id", wt.SessionID,
		"target", target,
	)

	out := req.Clone(ctx)
	out.URL = rest
	out.RequestURI = ""

	backend, err := u.splicer.Open(ctx, target, out)
	if err != nil {
		level.Error(u.logger).Log("msg", "Proxy error", "session_id", wt.SessionID, "target", target, "err", err)
		u.reject(conn, err)
		return
	}
	u.splicer.Pipe(conn, clientReader, backend)
}

func (u *UpgradeProxy) reject(conn net.Conn, err error) {
	if werr := service.NewConnResponder(conn).RespondError(err); werr != nil {
		level.Debug(u.logger).Log("msg", "reject write failed", "err", werr, "reported", err)
	}
}
