package interfaces

import (
	"context"

	"github.com/dipsubhro/subterm-proxy/domain"
)

// SessionStore reads and writes session records by session id.
// Implemented by myredis.SessionStore (key session:{id}, JSON value).
//
//go:generate moq -stub -out mock/session_store.go -pkg mock . SessionStore
type SessionStore interface {
	// Get returns the record for id.
	// Returns service.ErrEntityNotFound when the key is absent, service.ErrInternalServerError on store or decode failure.
	Get(ctx context.Context, sessionID string) (domain.Session, error)

	// Set overwrites the record for id. The key's expiry, if any, is kept.
	Set(ctx context.Context, sessionID string, session domain.Session) error
}

// HealthChecker reports whether a dependency is reachable.
//
//go:generate moq -stub -out mock/health_checker.go -pkg mock . HealthChecker
type HealthChecker interface {
	Ping(ctx context.Context) error
}
