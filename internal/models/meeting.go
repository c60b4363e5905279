package models

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is the canonical record for one ingested meeting. The row is
// created upstream when the raw Fireflies export lands; the pipeline only
// fills in derived fields and advances Status.
type Meeting struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	FirefliesID string     `json:"fireflies_id" db:"fireflies_id"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty" db:"project_id"`
	ClientID    *uuid.UUID `json:"client_id,omitempty" db:"client_id"`
	Title       string     `json:"title" db:"title"`
	Content     string     `json:"content" db:"content"`
	Overview    string     `json:"overview,omitempty" db:"overview"`
	Status      string     `json:"status" db:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

const (
	MeetingStatusNew       = "new"
	MeetingStatusSegmented = "segmented"
	MeetingStatusEmbedded  = "embedded"
	MeetingStatusComplete  = "complete"
)
