package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/crestline/meetflow/internal/models"
)

// FactStore persists the normalized decision/risk/task/opportunity records.
// Every upsert is keyed on (meeting_id, description): identical description
// text is treated as the same fact.
type FactStore struct {
	db *pgxpool.Pool
}

func NewFactStore(db *pgxpool.Pool) *FactStore {
	return &FactStore{db: db}
}

func (s *FactStore) UpsertDecision(ctx context.Context, d models.Decision) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO decisions (meeting_id, description, rationale, owner, status, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (meeting_id, description) DO UPDATE
		 SET rationale = $3, owner = $4, embedding = $6`,
		d.MeetingID, d.Description, d.Rationale, d.Owner, d.Status, pgvector.NewVector(d.Embedding))
	if err != nil {
		return fmt.Errorf("upsert decision: %w", err)
	}
	return nil
}

func (s *FactStore) UpsertRisk(ctx context.Context, r models.Risk) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO risks (meeting_id, description, category, likelihood, impact, owner, status, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (meeting_id, description) DO UPDATE
		 SET category = $3, likelihood = $4, impact = $5, owner = $6, embedding = $8`,
		r.MeetingID, r.Description, r.Category, r.Likelihood, r.Impact, r.Owner, r.Status, pgvector.NewVector(r.Embedding))
	if err != nil {
		return fmt.Errorf("upsert risk: %w", err)
	}
	return nil
}

func (s *FactStore) UpsertTask(ctx context.Context, t models.Task) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO tasks (meeting_id, description, assignee, due_date, priority, status, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (meeting_id, description) DO UPDATE
		 SET assignee = $3, due_date = $4, priority = $5, embedding = $7`,
		t.MeetingID, t.Description, t.Assignee, t.DueDate, t.Priority, t.Status, pgvector.NewVector(t.Embedding))
	if err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}
	return nil
}

func (s *FactStore) UpsertOpportunity(ctx context.Context, o models.Opportunity) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO opportunities (meeting_id, description, type, owner, status, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (meeting_id, description) DO UPDATE
		 SET type = $3, owner = $4, embedding = $6`,
		o.MeetingID, o.Description, o.Type, o.Owner, o.Status, pgvector.NewVector(o.Embedding))
	if err != nil {
		return fmt.Errorf("upsert opportunity: %w", err)
	}
	return nil
}
