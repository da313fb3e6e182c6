package interfaces

import "time"

// TimeProvider supplies the current time for lastActive stamps.
// Constructed in cmd/main as service.NewTimeProvider(time.Now); tests inject a fixed clock.
//
//go:generate moq -stub -out mock/time_provider.go -pkg mock . TimeProvider
type TimeProvider interface {
	Now() time.Time
}
