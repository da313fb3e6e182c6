package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dipsubhro/subterm-proxy/helpers"
	"github.com/dipsubhro/subterm-proxy/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// touchTimeout bounds one read-modify-write against the store.
const touchTimeout = 5 * time.Second

// Toucher refreshes lastActive off the request path. Touch only enqueues; a fixed pool of workers does the
// read-modify-write. A full queue drops the touch.
type Toucher struct {
	store  interfaces.SessionStore
	clock  interfaces.TimeProvider
	logger log.Logger

	queue chan string
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewToucher creates a Toucher and starts its workers. Panics on nil dependencies or non-positive sizes.
// Close must be called to stop the workers.
func NewToucher(store interfaces.SessionStore, clock interfaces.TimeProvider, logger log.Logger, queueSize, workers int) *Toucher {
	t := &Toucher{
		store:  helpers.NilPanic(store, "service.toucher.go: store is required"),
		clock:  helpers.NilPanic(clock, "service.toucher.go: clock is required"),
		logger: log.With(helpers.NilPanic(logger, "service.toucher.go: logger is required"), "component", "Toucher"),
		queue:  make(chan string, helpers.PositivePanic(queueSize, "service.toucher.go: queueSize must be positive")),
	}
	workers = helpers.PositivePanic(workers, "service.toucher.go: workers must be positive")
	for i := 0; i < workers; i++ {
		t.wg.Add(1)
		go t.work()
	}
	return t
}

// Touch schedules a lastActive refresh for sessionID. Never blocks.
func (t *Toucher) Touch(sessionID string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.queue <- sessionID:
	default:
		level.Debug(t.logger).Log("msg", "touch dropped, queue full", "session_id", sessionID)
	}
}

// Close stops accepting touches and waits for queued ones to finish. Safe to call more than once.
func (t *Toucher) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	close(t.queue)
	t.mu.Unlock()

	t.wg.Wait()
	return nil
}

func (t *Toucher) work() {
	defer t.wg.Done()
	for sessionID := range t.queue {
		t.touch(sessionID)
	}
}

func (t *Toucher) touch(sessionID string) {
	defer func() {
		if r := recover(); r != nil {
			level.Error(t.logger).Log("msg", "touch panicked", "session_id", sessionID, "panic", fmt.Sprint(r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
	defer cancel()

	session, err := t.store.Get(ctx, sessionID)
	if err != nil {
		if IsEntityNotFoundError(err) {
			return
		}
		level.Warn(t.logger).Log("msg", "touch read failed", "session_id", sessionID, "err", err)
		return
	}

	session.LastActive = t.clock.Now().UnixMilli()
	if err := t.store.Set(ctx, sessionID, session); err != nil {
		level.Warn(t.logger).Log("msg", "touch write failed", "session_id", sessionID, "err", err)
	}
}
