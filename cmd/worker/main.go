// The worker binary processes queued reminder tasks: it connects asynq to the
// configured Redis and emails assignees the day before their scheduled jobs.
package main

import (
	"context"

	"github.com/hibiken/asynq"

	"solarfield_backend/internal/notification"
	"solarfield_backend/internal/scheduler"
	"solarfield_backend/platform/config"
	"solarfield_backend/platform/db"
	"solarfield_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	if cfg.RedisURL == "" {
		panic("REDIS_URL is required for the worker")
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		panic("invalid REDIS_URL: " + err.Error())
	}

	pool, err := db.NewPool(context.Background(), cfg)
	if err != nil {
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	var sender notification.Sender = notification.NopSender{}
	if cfg.GetEmailEnabled() {
		sender = notification.NewSMTPSender(cfg)
	} else {
		log.Warn("email disabled; reminders will be dropped")
	}

	worker := scheduler.NewWorker(sender, notification.NewPGDirectory(pool), log)

	mux := asynq.NewServeMux()
	worker.Register(mux)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{cfg.AsynqQueueName: 1},
	})

	log.Info("worker starting", "queue", cfg.AsynqQueueName)
	if err := srv.Run(mux); err != nil {
		panic("worker stopped: " + err.Error())
	}
}
