package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/crestline/meetflow/internal/models"
)

type SegmentStore struct {
	db *pgxpool.Pool
}

func NewSegmentStore(db *pgxpool.Pool) *SegmentStore {
	return &SegmentStore{db: db}
}

// Upsert writes segments keyed on (meeting_id, segment_index), so re-running
// segmentation replaces rather than duplicates.
func (s *SegmentStore) Upsert(ctx context.Context, segments []models.MeetingSegment) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, seg := range segments {
		_, err := tx.Exec(ctx,
			`INSERT INTO meeting_segments (meeting_id, segment_index, title, start_index, end_index, summary, decisions, risks, tasks)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (meeting_id, segment_index) DO UPDATE
			 SET title = $3, start_index = $4, end_index = $5, summary = $6, decisions = $7, risks = $8, tasks = $9`,
			seg.MeetingID, seg.SegmentIndex, seg.Title, seg.StartIndex, seg.EndIndex,
			seg.Summary, seg.Decisions, seg.Risks, seg.Tasks,
		)
		if err != nil {
			return fmt.Errorf("upsert segment %d: %w", seg.SegmentIndex, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *SegmentStore) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.MeetingSegment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, meeting_id, segment_index, title, start_index, end_index, summary, decisions, risks, tasks, created_at
		 FROM meeting_segments WHERE meeting_id = $1 ORDER BY segment_index ASC`,
		meetingID)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var segments []models.MeetingSegment
	for rows.Next() {
		var seg models.MeetingSegment
		if err := rows.Scan(&seg.ID, &seg.MeetingID, &seg.SegmentIndex, &seg.Title,
			&seg.StartIndex, &seg.EndIndex, &seg.Summary,
			&seg.Decisions, &seg.Risks, &seg.Tasks, &seg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

func (s *SegmentStore) SetSummaryEmbedding(ctx context.Context, meetingID uuid.UUID, segmentIndex int, embedding []float32) error {
	_, err := s.db.Exec(ctx,
		`UPDATE meeting_segments SET summary_embedding = $3 WHERE meeting_id = $1 AND segment_index = $2`,
		meetingID, segmentIndex, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("set summary embedding for segment %d: %w", segmentIndex, err)
	}
	return nil
}
