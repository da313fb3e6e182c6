package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dipsubhro/subterm-proxy/adapters/myredis"
	"github.com/dipsubhro/subterm-proxy/handlers"
	"github.com/dipsubhro/subterm-proxy/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

func main() {
	// Initialize logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting workspace router")

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	levelOption, _ := config.LevelOption()
	logger = level.NewFilter(logger, levelOption)
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"port", config.HTTPPort,
		"backend_port", config.BackendPort,
		"backend_timeout", config.BackendTimeout,
		"service_port_grpc", config.GRPCPort,
		"touch_workers", config.TouchWorkers,
	)

	var store *myredis.SessionStore
	{
		redisClient, err := myredis.NewRedisUniversalClient(config.RedisURL)
		if err != nil {
			level.Error(logger).Log("msg", "Failed to create Redis client", "err", err)
			os.Exit(1)
		}
		redisClient.AddHook(myredis.NewErrorLogHook(logger))
		store = myredis.NewSessionStore(redisClient)

		// The router keeps running without Redis; lookups fail with 500 until it comes back.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			level.Error(logger).Log("msg", "Redis not reachable", "err", err)
		} else {
			level.Info(logger).Log("msg", "Connected to Redis")
		}
	}

	var (
		resolver = service.NewRouteResolver(store, config.BackendPort)
		toucher  = service.NewToucher(store, service.NewTimeProvider(time.Now), logger, config.TouchQueueSize, config.TouchWorkers)
	)

	var e *echo.Echo
	{
		dialer := &net.Dialer{Timeout: service.DefaultDialTimeout, KeepAlive: 30 * time.Second}
		forwarder := service.NewForwarder(logger,
			service.WithDialContext(dialer.DialContext),
			service.WithResponseHeaderTimeout(config.BackendTimeout),
		)
		splicer := service.NewSplicer(dialer, logger)

		e = echo.New()
		e.HideBanner = true
		e.HidePort = true
		service.RegisterErrorHandler(e, logger)
		e.Pre(handlers.NewUpgradeProxy(resolver, toucher, splicer, logger).Middleware())
		handlers.RegisterHandlers(e, handlers.NewHTTPServer(resolver, toucher, forwarder, store, logger))
	}

	opts := []service.LifecycleOption{
		service.WithShutdownTimeout(config.ShutdownTimeout),
		service.WithCloser("toucher", toucher),
		service.WithCloser("redis", store),
	}
	if config.GRPCPort != 0 {
		opts = append(opts, service.WithGRPCHealth(fmt.Sprintf(":%d", config.GRPCPort)))
	}
	lifecycle := service.NewLifecycle(fmt.Sprintf(":%d", config.HTTPPort), e, logger, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := lifecycle.Run(ctx); err != nil {
		level.Error(logger).Log("msg", "Router stopped with error", "err", err)
		os.Exit(1)
	}
}
