package interfaces

import (
	"context"

	"github.com/dipsubhro/subterm-proxy/domain"
)

// RouteResolver maps a session id to the backend container serving it.
// Implemented by service.routeResolver. Called once per proxied request and once per upgrade.
//
//go:generate moq -stub -out mock/route_resolver.go -pkg mock . RouteResolver
type RouteResolver interface {
	// Resolve returns the target for sessionID.
	// Returns: (target, nil) on success; entity_not_found when no session exists; internal_server_error when the
	// store fails or the record has no container name.
	Resolve(ctx context.Context, sessionID string) (domain.Target, error)
}
