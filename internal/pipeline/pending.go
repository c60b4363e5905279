package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crestline/meetflow/internal/models"
)

// Stage names accepted by ProcessPending.
const (
	StageNameParse   = "parse"
	StageNameEmbed   = "embed"
	StageNameExtract = "extract"
)

type SweepItem struct {
	FirefliesID string `json:"firefliesId"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

type SweepResult struct {
	Processed int         `json:"processed"`
	Results   []SweepItem `json:"results"`
}

// ProcessPending scans the job table for rows stuck at the named stage's
// predecessor and processes up to the batch size, sequentially. A failing
// job is marked error with its message and the sweep continues: one bad
// meeting never blocks the batch.
func (s *Service) ProcessPending(ctx context.Context, stageName string) (*SweepResult, error) {
	var predecessor string
	var run func(context.Context, *models.Meeting) error

	switch stageName {
	case StageNameParse:
		predecessor = models.StageRawIngested
		run = func(ctx context.Context, m *models.Meeting) error {
			_, err := s.Segment(ctx, m)
			return err
		}
	case StageNameEmbed:
		predecessor = models.StageSegmented
		run = func(ctx context.Context, m *models.Meeting) error {
			_, err := s.Embed(ctx, m)
			return err
		}
	case StageNameExtract:
		predecessor = models.StageEmbedded
		run = func(ctx context.Context, m *models.Meeting) error {
			_, err := s.Extract(ctx, m)
			return err
		}
	default:
		return nil, fmt.Errorf("unknown stage %q", stageName)
	}

	jobs, err := s.jobs.ListByStage(ctx, predecessor, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("list pending jobs: %w", err)
	}

	result := &SweepResult{Results: []SweepItem{}}
	for _, job := range jobs {
		item := SweepItem{FirefliesID: job.FirefliesID, Success: true}

		if err := s.processJob(ctx, job, run); err != nil {
			item.Success = false
			item.Error = err.Error()
			if markErr := s.jobs.MarkError(ctx, job.ID, err.Error()); markErr != nil {
				slog.Error("failed to mark job error", "job_id", job.ID, "error", markErr)
			}
			slog.Warn("pending job failed",
				"stage", stageName,
				"fireflies_id", job.FirefliesID,
				"error", err,
			)
		}

		result.Results = append(result.Results, item)
		result.Processed++
	}

	return result, nil
}

func (s *Service) processJob(ctx context.Context, job models.IngestionJob, run func(context.Context, *models.Meeting) error) error {
	meeting, err := s.resolveJobMeeting(ctx, job)
	if err != nil {
		return fmt.Errorf("resolve meeting: %w", err)
	}
	return run(ctx, meeting)
}
