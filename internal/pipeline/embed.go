package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crestline/meetflow/internal/chunker"
	"github.com/crestline/meetflow/internal/models"
	"github.com/crestline/meetflow/internal/transcript"
)

type EmbedResult struct {
	MeetingID    string `json:"metadataId"`
	FirefliesID  string `json:"firefliesId"`
	ChunkCount   int    `json:"chunkCount"`
	SegmentCount int    `json:"segmentCount"`
}

// Embed runs the chunking + embedding stage: re-derive each segment's text
// window from the transcript, split into overlapping chunks, batch-embed
// chunks, segment summaries and the meeting summary, and upsert vector rows
// keyed by content hash.
func (s *Service) Embed(ctx context.Context, meeting *models.Meeting) (*EmbedResult, error) {
	segments, err := s.segments.ListByMeeting(ctx, meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments found for meeting %s: run segmentation first", meeting.ID)
	}

	job, err := s.jobs.GetByMeetingID(ctx, meeting.ID)
	if err != nil {
		job, err = s.jobs.Ensure(ctx, meeting.FirefliesID, meeting.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve job: %w", err)
		}
	}

	parsed := transcript.Parse(meeting.Content)

	// Transcript chunks per segment.
	var textChunks []models.DocumentChunk
	for _, seg := range segments {
		window := segmentText(parsed.Lines, seg.StartIndex, seg.EndIndex)
		if window == "" {
			continue
		}
		for _, c := range chunker.Split(window, s.chunkOpts) {
			textChunks = append(textChunks, models.DocumentChunk{
				MeetingID:    meeting.ID,
				SegmentIndex: seg.SegmentIndex,
				ChunkIndex:   c.Index,
				DocType:      models.DocTypeChunk,
				Content:      c.Content,
				ContentHash:  transcript.HashContent(c.Content),
			})
		}
	}

	// Synthetic summary chunks: one per segment, one for the meeting.
	segmentSummaries := make([]string, len(segments))
	for i, seg := range segments {
		text := seg.Summary
		if text == "" {
			text = seg.Title
		}
		segmentSummaries[i] = text
	}

	if err := s.jobs.SetStage(ctx, job.ID, models.StageChunked); err != nil {
		return nil, fmt.Errorf("advance job to chunked: %w", err)
	}

	// Three embedding calls in fixed order; results attach back to their
	// sources strictly by array index.
	chunkTexts := make([]string, len(textChunks))
	for i, c := range textChunks {
		chunkTexts[i] = c.Content
	}
	chunkEmbeddings, err := s.embedder.Embed(ctx, chunkTexts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	for i := range textChunks {
		textChunks[i].Embedding = chunkEmbeddings[i]
	}

	summaryEmbeddings, err := s.embedder.Embed(ctx, segmentSummaries)
	if err != nil {
		return nil, fmt.Errorf("embed segment summaries: %w", err)
	}

	rows := textChunks
	for i, seg := range segments {
		rows = append(rows, models.DocumentChunk{
			MeetingID:    meeting.ID,
			SegmentIndex: seg.SegmentIndex,
			DocType:      models.DocTypeSegmentSummary,
			Content:      segmentSummaries[i],
			ContentHash:  transcript.HashContent(segmentSummaries[i]),
			Embedding:    summaryEmbeddings[i],
		})
	}

	if meeting.Overview != "" {
		overviewEmbedding, err := s.embedder.EmbedSingle(ctx, meeting.Overview)
		if err != nil {
			return nil, fmt.Errorf("embed meeting summary: %w", err)
		}
		rows = append(rows, models.DocumentChunk{
			MeetingID:    meeting.ID,
			SegmentIndex: -1,
			DocType:      models.DocTypeMeetingSummary,
			Content:      meeting.Overview,
			ContentHash:  transcript.HashContent(meeting.Overview),
			Embedding:    overviewEmbedding,
		})
	}

	if err := s.chunks.Upsert(ctx, rows); err != nil {
		return nil, fmt.Errorf("persist chunks: %w", err)
	}

	for i, seg := range segments {
		if err := s.segments.SetSummaryEmbedding(ctx, meeting.ID, seg.SegmentIndex, summaryEmbeddings[i]); err != nil {
			return nil, fmt.Errorf("persist segment embedding: %w", err)
		}
	}

	if err := s.meetings.UpdateStatus(ctx, meeting.ID, models.MeetingStatusEmbedded); err != nil {
		return nil, fmt.Errorf("update meeting: %w", err)
	}
	if err := s.jobs.SetStage(ctx, job.ID, models.StageEmbedded); err != nil {
		return nil, fmt.Errorf("advance job: %w", err)
	}

	slog.Info("meeting embedded",
		"meeting_id", meeting.ID,
		"chunks", len(rows),
		"segments", len(segments),
	)

	return &EmbedResult{
		MeetingID:    meeting.ID.String(),
		FirefliesID:  job.FirefliesID,
		ChunkCount:   len(rows),
		SegmentCount: len(segments),
	}, nil
}

// segmentText joins the transcript lines in [start, end] as "speaker: text".
// Bounds outside the parsed line range are clamped.
func segmentText(lines []transcript.Line, start, end int) string {
	if len(lines) == 0 {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > len(lines)-1 {
		end = len(lines) - 1
	}
	if start > end {
		return ""
	}

	var sb strings.Builder
	for _, l := range lines[start : end+1] {
		sb.WriteString(l.Speaker)
		sb.WriteString(": ")
		sb.WriteString(l.Text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
