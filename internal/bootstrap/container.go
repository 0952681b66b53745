package bootstrap

import (
	"context"
	"log"

	"ai-verification-be/internal/config"
	"ai-verification-be/internal/controller"
	"ai-verification-be/internal/pkg/logger"
	"ai-verification-be/internal/repository/unitofwork"
	"ai-verification-be/internal/service"
	"ai-verification-be/pkg/verification/cache"

	pktNats "ai-verification-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	VerificationController controller.IVerificationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogPath)
	uowFactory := unitofwork.NewRepositoryFactory(db)

	c := &Container{Logger: sysLogger}

	// 2. Result cache backend
	store := newCacheStore(cfg, sysLogger, c)

	// 3. Scoring core
	verifier, err := NewVerifier(cfg, store, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize verifier: %v", err)
	}

	// 4. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// NATS is optional, completions still reach the audit log without it
	var events service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS unavailable, outbound events disabled", map[string]interface{}{
			"url":   cfg.App.NatsURL,
			"error": err.Error(),
		})
	} else {
		events = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	publisherService := service.NewPublisherService(cfg.Verification.CompletionTopic, pubSub, sysLogger)
	verifier.OnComplete(publisherService.OnVerificationCompleted)

	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Verification.CompletionTopic,
		auditLogger,
		sysLogger,
		events,
	)

	// 5. Services and controllers
	verificationService := service.NewVerificationService(uowFactory, verifier, sysLogger)
	c.VerificationController = controller.NewVerificationController(verificationService)

	return c
}

// Close releases brokers and flushes loggers
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func newCacheStore(cfg *config.Config, sysLogger logger.ILogger, c *Container) cache.Store {
	if cfg.Verification.CacheBackend == "memory" {
		sysLogger.Info("BOOTSTRAP", "Using in-memory result cache", nil)
		return cache.NewMemoryStore(cfg.Verification.CacheTTL)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{
			"error": err.Error(),
		})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// Requests fail with a cache error until Redis is reachable
		sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	return cache.NewRedisStore(rdb)
}
