package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/crestline/meetflow/internal/models"
	"github.com/crestline/meetflow/internal/pipeline"
	"github.com/crestline/meetflow/internal/queue"
)

// StageWorker runs pipeline stages off the queue. It calls the same stage
// services the HTTP handlers do, so queue-driven and request-driven
// ingestion behave identically.
type StageWorker struct {
	svc *pipeline.Service
}

func NewStageWorker(svc *pipeline.Service) *StageWorker {
	return &StageWorker{svc: svc}
}

func (w *StageWorker) ProcessSegment(ctx context.Context, t *asynq.Task) error {
	return w.process(ctx, t, func(ctx context.Context, m *models.Meeting) error {
		_, err := w.svc.Segment(ctx, m)
		return err
	})
}

func (w *StageWorker) ProcessEmbed(ctx context.Context, t *asynq.Task) error {
	return w.process(ctx, t, func(ctx context.Context, m *models.Meeting) error {
		_, err := w.svc.Embed(ctx, m)
		return err
	})
}

func (w *StageWorker) ProcessExtract(ctx context.Context, t *asynq.Task) error {
	return w.process(ctx, t, func(ctx context.Context, m *models.Meeting) error {
		_, err := w.svc.Extract(ctx, m)
		return err
	})
}

func (w *StageWorker) process(ctx context.Context, t *asynq.Task, run func(context.Context, *models.Meeting) error) error {
	var payload queue.StagePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	meeting, err := w.svc.Resolve(ctx, payload.MeetingID, payload.FirefliesID)
	if err != nil {
		return fmt.Errorf("resolve meeting: %w", err)
	}

	slog.Info("processing meeting task", "type", t.Type(), "meeting_id", meeting.ID)
	return run(ctx, meeting)
}
