package models

import (
	"time"

	"github.com/google/uuid"
)

// IngestionJob tracks one transcript's progress through the pipeline. The
// Stage column is the only coordination mechanism between stages: each stage
// picks up jobs sitting at its predecessor's terminal stage.
type IngestionJob struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	FirefliesID   string     `json:"fireflies_id" db:"fireflies_id"`
	MeetingID     *uuid.UUID `json:"meeting_id,omitempty" db:"meeting_id"`
	Stage         string     `json:"stage" db:"stage"`
	AttemptCount  int        `json:"attempt_count" db:"attempt_count"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty" db:"last_attempt_at"`
	ErrorMessage  string     `json:"error_message,omitempty" db:"error_message"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// Pipeline stages, in order. Stage only moves forward, except into StageError.
const (
	StageRawIngested = "raw_ingested"
	StageSegmented   = "segmented"
	StageChunked     = "chunked"
	StageEmbedded    = "embedded"
	StageDone        = "done"
	StageError       = "error"
)
