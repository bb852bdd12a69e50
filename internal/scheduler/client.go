package scheduler

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"solarfield_backend/internal/events"
	"solarfield_backend/platform/config"
	"solarfield_backend/platform/logger"
)

// reminderLead is how long before the scheduled date the reminder fires.
const reminderLead = 24 * time.Hour

// Client enqueues reminder tasks when jobs are assigned.
type Client struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
	now    func() time.Time
}

// NewClient connects an asynq client to the configured Redis and subscribes
// it to assignment events. Returns nil (and no subscription) when Redis is
// not configured; reminders are then simply off.
func NewClient(cfg config.SchedulerConfig, bus events.Bus, log *logger.Logger) (*Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}

	opt, err := asynq.ParseRedisURI(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	c := &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetAsynqQueueName(),
		log:    log,
		now:    time.Now,
	}
	bus.Subscribe(events.JobAssigned{}.EventName(), events.HandlerFunc(c.onJobAssigned))
	return c, nil
}

// Close releases the underlying asynq client.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) onJobAssigned(ctx context.Context, event events.Event) error {
	assigned, ok := event.(events.JobAssigned)
	if !ok {
		return nil
	}

	scheduled, err := time.ParseInLocation("2006-01-02", assigned.ScheduledDate, time.Local)
	if err != nil {
		c.log.Warn("reminder skipped, bad scheduled date", "job_id", assigned.JobID, "date", assigned.ScheduledDate)
		return nil
	}

	remindAt := scheduled.Add(-reminderLead)
	if !remindAt.After(c.now()) {
		// Scheduled too soon for a day-before reminder.
		return nil
	}

	task, err := NewJobReminderTask(JobReminderPayload{
		JobID:         assigned.JobID,
		JobCode:       assigned.JobCode,
		EmployeeID:    assigned.EmployeeID,
		ScheduledDate: assigned.ScheduledDate,
	})
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.ProcessAt(remindAt),
	)
	if err != nil {
		c.log.Warn("reminder enqueue failed", "job_id", assigned.JobID, "error", err)
		return nil
	}

	c.log.Info("reminder scheduled", "job_id", assigned.JobID, "task_id", info.ID, "process_at", remindAt)
	return nil
}
