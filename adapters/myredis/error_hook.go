package myredis

import (
	"context"
	"errors"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-redis/redis/v8"
)

type errorLogHook struct {
	logger log.Logger
}

// NewErrorLogHook returns a hook that logs failed commands. A missing key (redis.Nil) is not a failure.
func NewErrorLogHook(logger log.Logger) redis.Hook {
	return &errorLogHook{logger: log.With(logger, "component", "redis")}
}

func (h *errorLogHook) BeforeProcess(ctx context.Context, _ redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (h *errorLogHook) AfterProcess(_ context.Context, cmd redis.Cmder) error {
	h.logErr(cmd.Name(), cmd.Err())
	return nil
}

func (h *errorLogHook) BeforeProcessPipeline(ctx context.Context, _ []redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (h *errorLogHook) AfterProcessPipeline(_ context.Context, cmds []redis.Cmder) error {
	for _, cmd := range cmds {
		h.logErr(cmd.Name(), cmd.Err())
	}
	return nil
}

func (h *errorLogHook) logErr(name string, err error) {
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}
	level.Error(h.logger).Log("msg", "Redis error", "cmd", name, "err", err)
}
