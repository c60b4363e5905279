package models

import (
	"time"

	"github.com/google/uuid"
)

// MeetingSegment is one contiguous topic range of a transcript. StartIndex
// and EndIndex are inclusive bounds into the transcript line indexes.
// Decisions, Risks and Tasks hold the raw free-text extractions made at
// segmentation time; the extract stage normalizes them later.
type MeetingSegment struct {
	ID               uuid.UUID `json:"id" db:"id"`
	MeetingID        uuid.UUID `json:"meeting_id" db:"meeting_id"`
	SegmentIndex     int       `json:"segment_index" db:"segment_index"`
	Title            string    `json:"title" db:"title"`
	StartIndex       int       `json:"start_index" db:"start_index"`
	EndIndex         int       `json:"end_index" db:"end_index"`
	Summary          string    `json:"summary" db:"summary"`
	Decisions        []string  `json:"decisions" db:"decisions"`
	Risks            []string  `json:"risks" db:"risks"`
	Tasks            []string  `json:"tasks" db:"tasks"`
	SummaryEmbedding []float32 `json:"-" db:"summary_embedding"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
