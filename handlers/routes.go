package handlers

import (
	"github.com/labstack/echo/v4"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Proxy any request under the workspace mount to the session's container
	// (ANY /workspace/{sessionId}/*)
	ProxyWorkspace(ctx echo.Context, sessionId string) error
	// Router and session store health
	// (GET /healthz)
	GetHealth(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// ProxyWorkspace converts echo context to params.
func (w *ServerInterfaceWrapper) ProxyWorkspace(ctx echo.Context) error {
	sessionId := ctx.Param("sessionId")
	return w.Handler.ProxyWorkspace(ctx, sessionId)
}

// GetHealth converts echo context to params.
func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router *echo.Echo, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.Any("/workspace/:sessionId", wrapper.ProxyWorkspace)
	router.Any("/workspace/:sessionId/*", wrapper.ProxyWorkspace)
	router.GET("/healthz", wrapper.GetHealth)
}
