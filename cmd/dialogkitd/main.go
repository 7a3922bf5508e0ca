// Command dialogkitd serves the DialogKit conversational API over HTTP.
//
// Configuration comes from the environment (see the config package);
// with no configuration at all the service runs fully in process:
// in-memory session memory, in-memory rate limiting and a local SQLite
// file for long-term history. Pointing REDIS_ADDR at a redis instance
// moves session memory and rate limiting there.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/dialogkit/config"
	"github.com/hupe1980/dialogkit/contextstore"
	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/entity"
	"github.com/hupe1980/dialogkit/handler"
	"github.com/hupe1980/dialogkit/httpapi"
	"github.com/hupe1980/dialogkit/intent"
	"github.com/hupe1980/dialogkit/logging"
	"github.com/hupe1980/dialogkit/memory"
	"github.com/hupe1980/dialogkit/pipeline"
	"github.com/hupe1980/dialogkit/ratelimit"
	"github.com/hupe1980/dialogkit/safety"
	"github.com/hupe1980/dialogkit/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := logging.ParseLogLevel(cfg.LogLevel)
	if cfg.Debug {
		level = logging.LogLevelDebug
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.LogFormat,
		Output:    os.Stdout,
		Component: "dialogkitd",
	})

	logger.Info("starting", "app", cfg.AppName, "version", cfg.Version)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}

		logger.Info("redis connected", "addr", cfg.RedisAddr)
	}

	var mem core.ConversationMemory
	if redisClient != nil {
		mem = memory.NewRedisStore(redisClient, func(o *memory.RedisOptions) {
			o.TTL = cfg.MemoryTTL
			o.Logger = logger
		})
	} else {
		mem = memory.NewInMemoryStore(func(o *memory.InMemoryOptions) {
			o.TTL = cfg.MemoryTTL
			o.Logger = logger
		})
	}

	var limiter core.RateLimiter
	if cfg.RateLimitEnabled {
		if redisClient != nil {
			limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow, func(o *ratelimit.RedisOptions) {
				o.Logger = logger
			})
		} else {
			limiter = ratelimit.NewWindow(cfg.RateLimitMax, cfg.RateLimitWindow, func(o *ratelimit.WindowOptions) {
				o.Logger = logger
			})
		}
	}

	var filter core.SafetyFilter
	if cfg.SafetyEnabled {
		filter = safety.New(func(o *safety.Options) {
			o.Logger = logger
		})
	}

	var recorder core.ConversationStore
	if cfg.LongTermEnabled {
		store, err := storage.Open(cfg.SQLitePath, func(o *storage.SQLOptions) {
			o.Logger = logger
		})
		if err != nil {
			return fmt.Errorf("open conversation store: %w", err)
		}
		defer store.Close()

		recorder = store
	}

	classifier := intent.New(func(o *intent.Options) {
		o.Logger = logger
	})
	extractor := entity.New(func(o *entity.Options) {
		o.Logger = logger
	})
	contexts := contextstore.New(func(o *contextstore.Options) {
		o.TTL = cfg.ContextTTL
		o.Logger = logger
	})

	p := pipeline.New(func(o *pipeline.Options) {
		o.Classifier = classifier
		o.Extractor = extractor
		o.ContextStore = contexts
		o.RateLimiter = limiter
		o.SafetyFilter = filter
		o.Memory = mem
		o.Recorder = recorder
		o.Logger = logger
	})

	for name, h := range handler.Defaults() {
		p.RegisterHandler(name, h)
	}

	srv := httpapi.New(cfg, p, func(o *httpapi.Options) {
		o.ContextStore = contexts
		o.Memory = mem
		o.Recorder = recorder
		o.Classifier = classifier
		o.Extractor = extractor
		o.Logger = logger
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Run()
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped gracefully")

	return nil
}
