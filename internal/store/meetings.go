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

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type MeetingStore struct {
	db *pgxpool.Pool
}

func NewMeetingStore(db *pgxpool.Pool) *MeetingStore {
	return &MeetingStore{db: db}
}

const meetingColumns = `id, fireflies_id, project_id, client_id, title, content, overview, status, started_at, created_at`

func (s *MeetingStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)
	return scanMeeting(row)
}

func (s *MeetingStore) GetByFirefliesID(ctx context.Context, firefliesID string) (*models.Meeting, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE fireflies_id = $1`, firefliesID)
	return scanMeeting(row)
}

// SetOverview records the parsed title, LLM overview and new status in one
// update, as the segmentation stage finishes.
func (s *MeetingStore) SetOverview(ctx context.Context, id uuid.UUID, title, overview, status string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE meetings SET title = $2, overview = $3, status = $4 WHERE id = $1`,
		id, title, overview, status)
	if err != nil {
		return fmt.Errorf("set overview: %w", err)
	}
	return nil
}

func (s *MeetingStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.db.Exec(ctx, `UPDATE meetings SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update meeting status: %w", err)
	}
	return nil
}

func scanMeeting(row pgx.Row) (*models.Meeting, error) {
	var m models.Meeting
	err := row.Scan(&m.ID, &m.FirefliesID, &m.ProjectID, &m.ClientID, &m.Title,
		&m.Content, &m.Overview, &m.Status, &m.StartedAt, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan meeting: %w", err)
	}
	return &m, nil
}
