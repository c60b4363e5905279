package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/crestline/meetflow/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueSegment(payload StagePayload) error {
	return c.enqueue(TypeMeetingSegment, payload, asynq.MaxRetry(0), asynq.Timeout(10*time.Minute))
}

func (c *Client) EnqueueEmbed(payload StagePayload) error {
	return c.enqueue(TypeMeetingEmbed, payload, asynq.MaxRetry(0), asynq.Timeout(10*time.Minute))
}

func (c *Client) EnqueueExtract(payload StagePayload) error {
	return c.enqueue(TypeMeetingExtract, payload, asynq.MaxRetry(0), asynq.Timeout(10*time.Minute))
}

// enqueue serializes and submits one task. MaxRetry is zero on every stage:
// a failed job stays at stage=error until it is re-triggered explicitly.
func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
