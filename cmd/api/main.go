package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"solarfield_backend/internal/auth"
	"solarfield_backend/internal/events"
	apphttp "solarfield_backend/internal/http"
	"solarfield_backend/internal/http/router"
	"solarfield_backend/internal/jobs"
	"solarfield_backend/internal/leads"
	"solarfield_backend/internal/mytasks"
	mytasksservice "solarfield_backend/internal/mytasks/service"
	"solarfield_backend/internal/notification"
	"solarfield_backend/internal/refdata"
	"solarfield_backend/internal/scheduler"
	"solarfield_backend/internal/workflow"
	"solarfield_backend/migrations"
	"solarfield_backend/platform/config"
	"solarfield_backend/platform/db"
	"solarfield_backend/platform/logger"
	appvalidator "solarfield_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)

	// Shared validator with the domain field rules installed.
	val := appvalidator.New()
	if err := workflow.RegisterRules(val); err != nil {
		panic("failed to register validation rules: " + err.Error())
	}

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	reminderClient, err := scheduler.NewClient(cfg, eventBus, log)
	if err != nil {
		log.Error("failed to initialize reminder scheduler", "error", err)
	}
	if reminderClient != nil {
		defer reminderClient.Close()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification subscribes to assignment events; not HTTP-facing.
	notification.New(initSender(cfg, log), notification.NewPGDirectory(pool), eventBus, log)

	authModule := auth.New(pool, cfg, val, log)
	leadsModule := leads.New(pool, eventBus, val, log)
	jobsModule := jobs.New(pool, eventBus, val, log)
	refdataModule := refdata.New(pool)

	overviewCache := mytasksservice.NewOverviewCache(redisClient, cfg.GetOverviewCacheTTL(), log)
	mytasksModule := mytasks.New(leadsModule.Service(), jobsModule.Service(), overviewCache, eventBus, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
			jobsModule,
			mytasksModule,
			refdataModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg config.CacheConfig, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; overview cache disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; overview cache disabled", "error", err)
		return nil
	}
	return redis.NewClient(opts)
}

func initSender(cfg config.EmailConfig, log *logger.Logger) notification.Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("email disabled; assignment notifications will be dropped")
		return notification.NopSender{}
	}
	return notification.NewSMTPSender(cfg)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
