// Package handlers contains the http handlers of the workspace router.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dipsubhro/subterm-proxy/domain"
	"github.com/dipsubhro/subterm-proxy/helpers"
	"github.com/dipsubhro/subterm-proxy/interfaces"
	"github.com/dipsubhro/subterm-proxy/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

const healthTimeout = 2 * time.Second

// Forwarder relays a resolved request to its backend. Implemented by *service.Forwarder.
type Forwarder interface {
	Forward(w http.ResponseWriter, r *http.Request, target domain.Target, rest string) error
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// HTTPServer implements ServerInterface.
type HTTPServer struct {
	resolver  interfaces.RouteResolver
	toucher   interfaces.Toucher
	forwarder Forwarder
	health    interfaces.HealthChecker
	logger    log.Logger
}

// NewHTTPServer creates a new HTTPServer. Panics on nil dependencies.
func NewHTTPServer(
	resolver interfaces.RouteResolver,
	toucher interfaces.Toucher,
	forwarder Forwarder,
	health interfaces.HealthChecker,
	logger log.Logger,
) *HTTPServer {
	logger = log.WithPrefix(helpers.NilPanic(logger, "handlers.http.go: logger is required"), "component", "HTTPServer")
	return &HTTPServer{
		resolver:  helpers.NilPanic(resolver, "handlers.http.go: resolver is required"),
		toucher:   helpers.NilPanic(toucher, "handlers.http.go: toucher is required"),
		forwarder: helpers.NilPanic(forwarder, "handlers.http.go: forwarder is required"),
		health:    helpers.NilPanic(health, "handlers.http.go: health is required"),
		logger:    logger,
	}
}

// ProxyWorkspace (ANY /workspace/{sessionId}/*) forwards the request to the session's container with the mount
// prefix stripped. Returns 404 for an unknown session, 500 when the store fails, 502 when the container is unreachable.
func (h *HTTPServer) ProxyWorkspace(ectx echo.Context, sessionId string) error {
	req := ectx.Request()
	// The raw URI, not the routed sessionId, keys the lookup so HTTP and upgrade requests resolve the same key.
	wt, err := domain.ParseWorkspaceTarget(req.URL.RequestURI())
	if err != nil {
		// e.g. "/workspace/" routed with an empty sessionId
		return echo.ErrNotFound
	}

	target, err := h.resolver.Resolve(req.Context(), wt.SessionID)
	if err != nil {
		if service.IsInternalServerError(err) {
			level.Error(h.logger).Log("msg", "Redis lookup failed", "session_id", wt.SessionID, "err", err)
		}
		return err
	}

	h.toucher.Touch(wt.SessionID)
	level.Info(h.logger).Log(
		"msg", "HTTP",
		"method", req.Method,
		"path", domain.WorkspacePrefix+wt.SessionID+wt.Rest,
		"session_id", wt.SessionID,
		"target", target,
	)

	return h.forwarder.Forward(ectx.Response(), req, target, wt.Rest)
}

// GetHealth (GET /healthz) answers 200 when the session store responds to a ping, 503 otherwise.
func (h *HTTPServer) GetHealth(ectx echo.Context) error {
	ctx, cancel := context.WithTimeout(ectx.Request().Context(), healthTimeout)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		level.Warn(h.logger).Log("msg", "health check failed", "err", err)
		return ectx.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
	}
	return ectx.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
