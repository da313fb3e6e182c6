package service

import (
	"context"
	"fmt"

	"github.com/dipsubhro/subterm-proxy/domain"
	"github.com/dipsubhro/subterm-proxy/helpers"
	"github.com/dipsubhro/subterm-proxy/interfaces"
)

// routeResolver implements interfaces.RouteResolver on top of a SessionStore.
// Every call re-reads the store; there is no cache and no retry.
type routeResolver struct {
	store       interfaces.SessionStore
	backendPort int
}

// NewRouteResolver creates a resolver pointing sessions at {containerName}:{backendPort}. Panics on nil store or
// non-positive port.
//
// Called from cmd/main; shared by the HTTP forwarder and the upgrade middleware.
func NewRouteResolver(store interfaces.SessionStore, backendPort int) *routeResolver {
	return &routeResolver{
		store:       helpers.NilPanic(store, "service.resolver.go: store is required"),
		backendPort: helpers.PositivePanic(backendPort, "service.resolver.go: backendPort must be positive"),
	}
}

// Resolve looks sessionID up and builds its target.
//
// Returns entity_not_found when the record is absent, internal_server_error when the store fails or the record
// names no container.
func (r *routeResolver) Resolve(ctx context.Context, sessionID string) (domain.Target, error) {
	session, err := r.store.Get(ctx, sessionID)
	if err != nil {
		if IsEntityNotFoundError(err) {
			return domain.Target{}, err
		}
		return domain.Target{}, NewInternalServerError("Session lookup failed", fmt.Errorf("resolve session %q failed, err: %w", sessionID, err))
	}
	if session.ContainerName == "" {
		return domain.Target{}, NewInternalServerError("Session has no container", fmt.Errorf("session %q has empty containerName", sessionID))
	}
	return domain.NewTarget(session.ContainerName, r.backendPort), nil
}
