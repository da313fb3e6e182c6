package service

import (
	"errors"
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// RegisterErrorHandler register custom error handler.
func RegisterErrorHandler(e *echo.Echo, logger log.Logger) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger).Handler
}

// HTTPErrorHandler is an error handler.
type HTTPErrorHandler struct {
	logger log.Logger
}

// NewHTTPErrorHandler creates a new instance of the HTTPErrorHandler.
func NewHTTPErrorHandler(logger log.Logger) *HTTPErrorHandler {
	return &HTTPErrorHandler{
		logger: logger,
	}
}

// Handler handles error returned by echo Handlers.
// Session misses and client errors are routine and logged at debug; everything else at error.
func (h *HTTPErrorHandler) Handler(err error, c echo.Context) {
	req := c.Request()
	logger := log.With(h.logger, "method", req.Method, "path", req.URL.Path, "err", err)
	if code := ToMyErrorCode(err); code != "" {
		logger = log.With(logger, "code", code)
	}

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he) && he.Code < 500:
		level.Debug(logger).Log("msg", "HTTP request rejected")
	case IsEntityNotFoundError(err), IsBadParameterError(err):
		level.Debug(logger).Log("msg", "HTTP request rejected")
	default:
		level.Error(logger).Log("msg", "HTTP request error")
	}

	if c.Response().Committed {
		return
	}
	if req.Method == http.MethodHead {
		status, _ := errorRenderer{NewErrorCodeToStatusCodeMaps()}.render(err)
		_ = c.NoContent(status)
		return
	}
	_ = NewHTTPResponder(c.Response()).RespondError(err)
}
