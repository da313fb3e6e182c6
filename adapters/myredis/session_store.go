package myredis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dipsubhro/subterm-proxy/domain"
	"github.com/dipsubhro/subterm-proxy/service"

	"github.com/go-redis/redis/v8"
)

// SessionStore reads and writes session records (key: session:{session_id}, value: JSON {containerName, lastActive, ...}).
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a SessionStore over a shared client. The client is owned by the caller until Close.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: domain.SessionKeyPrefix,
	}
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	data, err := s.client.Get(ctx, s.generateKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, service.NewEntityNotFoundError("Session not found", nil)
		}
		return domain.Session{}, service.NewInternalServerError("Redis get session error", fmt.Errorf("can't read session from redis (key='%s'), err: %w", s.generateKey(sessionID), err))
	}
	// A JSON null is what a cleared record looks like to older writers.
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return domain.Session{}, service.NewEntityNotFoundError("Session not found", nil)
	}

	var v domain.Session
	if err := json.Unmarshal(data, &v); err != nil {
		return domain.Session{}, service.NewInternalServerError("Redis decode session error", fmt.Errorf("can't unmarshal session (key='%s'), err: %w", s.generateKey(sessionID), err))
	}
	return v, nil
}

// Set overwrites the record, keeping whatever expiry the provisioning system gave the key.
func (s *SessionStore) Set(ctx context.Context, sessionID string, session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return service.NewInternalServerError("Redis marshal session error", fmt.Errorf("can't marshal session %q, err: %w", sessionID, err))
	}

	err = s.client.SetArgs(ctx, s.generateKey(sessionID), data, redis.SetArgs{KeepTTL: true}).Err()
	if err != nil {
		return service.NewInternalServerError("Redis write session error", fmt.Errorf("can't write session to redis (key='%s'), err: %w", s.generateKey(sessionID), err))
	}
	return nil
}

// Ping checks that the store answers.
func (s *SessionStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return service.NewInternalServerError("Redis ping error", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

func (s *SessionStore) generateKey(sessionID string) string {
	return s.prefix + ":" + sessionID
}
