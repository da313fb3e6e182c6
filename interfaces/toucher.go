package interfaces

// Toucher refreshes a session's lastActive stamp in the background.
//
//go:generate moq -stub -out mock/toucher.go -pkg mock . Toucher
type Toucher interface {
	// Touch schedules a refresh for sessionID and returns immediately. Failures are never reported to the caller.
	Touch(sessionID string)
}
