package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crestline/meetflow/internal/chunker"
	"github.com/crestline/meetflow/internal/config"
	"github.com/crestline/meetflow/internal/embedding"
	"github.com/crestline/meetflow/internal/llm"
	"github.com/crestline/meetflow/internal/models"
	"github.com/crestline/meetflow/internal/store"
)

// ErrMissingID is returned when a request names neither a meeting nor a
// fireflies id.
var ErrMissingID = errors.New("metadataId or firefliesId required")

// ErrNotFound mirrors the storage layer's sentinel so handlers can classify
// without importing it.
var ErrNotFound = store.ErrNotFound

type MeetingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	GetByFirefliesID(ctx context.Context, firefliesID string) (*models.Meeting, error)
	SetOverview(ctx context.Context, id uuid.UUID, title, overview, status string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type JobStore interface {
	GetByFirefliesID(ctx context.Context, firefliesID string) (*models.IngestionJob, error)
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*models.IngestionJob, error)
	Ensure(ctx context.Context, firefliesID string, meetingID uuid.UUID) (*models.IngestionJob, error)
	ListByStage(ctx context.Context, stage string, limit int) ([]models.IngestionJob, error)
	SetStage(ctx context.Context, id uuid.UUID, stage string) error
	MarkError(ctx context.Context, id uuid.UUID, message string) error
}

type SegmentStore interface {
	Upsert(ctx context.Context, segments []models.MeetingSegment) error
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.MeetingSegment, error)
	SetSummaryEmbedding(ctx context.Context, meetingID uuid.UUID, segmentIndex int, embedding []float32) error
}

type ChunkStore interface {
	Upsert(ctx context.Context, chunks []models.DocumentChunk) error
}

type FactStore interface {
	UpsertDecision(ctx context.Context, d models.Decision) error
	UpsertRisk(ctx context.Context, r models.Risk) error
	UpsertTask(ctx context.Context, t models.Task) error
	UpsertOpportunity(ctx context.Context, o models.Opportunity) error
}

// Stores bundles the repositories a Service needs.
type Stores struct {
	Meetings MeetingStore
	Jobs     JobStore
	Segments SegmentStore
	Chunks   ChunkStore
	Facts    FactStore
}

// Service runs the three ingestion stages. All steps within a stage are
// sequential; the job row is the only coordination between stages.
type Service struct {
	meetings MeetingStore
	jobs     JobStore
	segments SegmentStore
	chunks   ChunkStore
	facts    FactStore

	gateway  llm.Gateway
	embedder *embedding.Service
	model    string

	batchSize int
	chunkOpts chunker.Options
}

func NewService(st Stores, gw llm.Gateway, emb *embedding.Service, cfg config.PipelineConfig, completionModel string) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Service{
		meetings:  st.Meetings,
		jobs:      st.Jobs,
		segments:  st.Segments,
		chunks:    st.Chunks,
		facts:     st.Facts,
		gateway:   gw,
		embedder:  emb,
		model:     completionModel,
		batchSize: cfg.BatchSize,
		chunkOpts: chunker.Options{ChunkSize: cfg.ChunkSize, Overlap: cfg.ChunkOverlap},
	}
}

// Resolve turns a request's metadataId/firefliesId pair into a meeting row.
// When only the fireflies id is given, the job table maps it to the meeting.
func (s *Service) Resolve(ctx context.Context, metadataID, firefliesID string) (*models.Meeting, error) {
	switch {
	case metadataID != "":
		id, err := uuid.Parse(metadataID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid metadataId %q", ErrMissingID, metadataID)
		}
		return s.meetings.GetByID(ctx, id)
	case firefliesID != "":
		job, err := s.jobs.GetByFirefliesID(ctx, firefliesID)
		if err == nil && job.MeetingID != nil {
			return s.meetings.GetByID(ctx, *job.MeetingID)
		}
		return s.meetings.GetByFirefliesID(ctx, firefliesID)
	default:
		return nil, ErrMissingID
	}
}

// resolveJobMeeting loads the meeting a pending job points at.
func (s *Service) resolveJobMeeting(ctx context.Context, job models.IngestionJob) (*models.Meeting, error) {
	if job.MeetingID != nil {
		return s.meetings.GetByID(ctx, *job.MeetingID)
	}
	return s.meetings.GetByFirefliesID(ctx, job.FirefliesID)
}
