package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"nytro_assessment_backend/platform/config"
)

type Client struct {
	client *asynq.Client
	queue  string
}

// TaskScheduler is the enqueue surface other modules depend on.
type TaskScheduler interface {
	ScheduleFollowupEmail(ctx context.Context, payload FollowupEmailPayload, runAt time.Time) error
	EnqueueCRMSync(ctx context.Context, payload CRMSyncPayload) error
}

func NewClient(cfg config.QueueConfig) (*Client, error) {
	addr := cfg.GetRedisAddr()
	if addr == "" {
		return nil, fmt.Errorf("redis address not configured")
	}

	return &Client{
		client: asynq.NewClient(redisOpt(cfg)),
		queue:  "default",
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) ScheduleFollowupEmail(ctx context.Context, payload FollowupEmailPayload, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewFollowupEmailTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(runAt),
		asynq.Queue(c.queue),
		asynq.MaxRetry(5),
	)
	return err
}

func (c *Client) EnqueueCRMSync(ctx context.Context, payload CRMSyncPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewCRMSyncTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(5),
	)
	return err
}

func redisOpt(cfg config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
	}
}
