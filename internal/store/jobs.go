package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crestline/meetflow/internal/models"
)

type JobStore struct {
	db *pgxpool.Pool
}

func NewJobStore(db *pgxpool.Pool) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, fireflies_id, meeting_id, stage, attempt_count, last_attempt_at, error_message, created_at`

func (s *JobStore) GetByFirefliesID(ctx context.Context, firefliesID string) (*models.IngestionJob, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM ingestion_jobs WHERE fireflies_id = $1`, firefliesID)
	return scanJob(row)
}

func (s *JobStore) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*models.IngestionJob, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM ingestion_jobs WHERE meeting_id = $1`, meetingID)
	return scanJob(row)
}

// Ensure creates the job row at raw_ingested if none exists for this
// transcript yet, and returns the current row either way.
func (s *JobStore) Ensure(ctx context.Context, firefliesID string, meetingID uuid.UUID) (*models.IngestionJob, error) {
	_, err := s.db.Exec(ctx,
		`INSERT INTO ingestion_jobs (fireflies_id, meeting_id, stage)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (fireflies_id) DO NOTHING`,
		firefliesID, meetingID, models.StageRawIngested)
	if err != nil {
		return nil, fmt.Errorf("ensure job: %w", err)
	}
	return s.GetByFirefliesID(ctx, firefliesID)
}

// ListByStage returns up to limit jobs sitting at the given stage, oldest
// first, for a pending sweep.
func (s *JobStore) ListByStage(ctx context.Context, stage string, limit int) ([]models.IngestionJob, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+jobColumns+` FROM ingestion_jobs WHERE stage = $1 ORDER BY created_at ASC LIMIT $2`,
		stage, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs by stage: %w", err)
	}
	defer rows.Close()

	var jobs []models.IngestionJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// SetStage advances the job. Every update also increments attempt_count and
// stamps last_attempt_at, so stuck jobs are visible from the row alone.
func (s *JobStore) SetStage(ctx context.Context, id uuid.UUID, stage string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE ingestion_jobs
		 SET stage = $2, attempt_count = attempt_count + 1, last_attempt_at = now(), error_message = ''
		 WHERE id = $1`,
		id, stage)
	if err != nil {
		return fmt.Errorf("set job stage: %w", err)
	}
	return nil
}

func (s *JobStore) MarkError(ctx context.Context, id uuid.UUID, message string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE ingestion_jobs
		 SET stage = $2, attempt_count = attempt_count + 1, last_attempt_at = now(), error_message = $3
		 WHERE id = $1`,
		id, models.StageError, message)
	if err != nil {
		return fmt.Errorf("mark job error: %w", err)
	}
	return nil
}

func scanJob(row pgx.Row) (*models.IngestionJob, error) {
	var j models.IngestionJob
	err := row.Scan(&j.ID, &j.FirefliesID, &j.MeetingID, &j.Stage,
		&j.AttemptCount, &j.LastAttemptAt, &j.ErrorMessage, &j.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	return &j, nil
}
