package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is a vector-search row. ContentHash is the idempotence key:
// re-embedding unchanged content updates the existing row in place.
type DocumentChunk struct {
	ID           uuid.UUID `json:"id" db:"id"`
	MeetingID    uuid.UUID `json:"meeting_id" db:"meeting_id"`
	SegmentIndex int       `json:"segment_index" db:"segment_index"` // -1 for meeting-level chunks
	ChunkIndex   int       `json:"chunk_index" db:"chunk_index"`
	DocType      string    `json:"doc_type" db:"doc_type"`
	Content      string    `json:"content" db:"content"`
	ContentHash  string    `json:"content_hash" db:"content_hash"`
	Embedding    []float32 `json:"-" db:"embedding"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

const (
	DocTypeChunk          = "chunk"
	DocTypeMeetingSummary = "meeting_summary"
	DocTypeSegmentSummary = "segment_summary"
)
