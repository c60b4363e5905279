package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crestline/meetflow/internal/llm"
	"github.com/crestline/meetflow/internal/models"
	"github.com/crestline/meetflow/internal/transcript"
)

type SegmentResult struct {
	MeetingID    string `json:"metadataId"`
	FirefliesID  string `json:"firefliesId"`
	SegmentCount int    `json:"segmentCount"`
}

// Segment runs the parse + segmentation stage for one meeting: parse the raw
// markdown, produce an executive summary and a topic segmentation via the
// completion model, persist segments and advance the job to segmented.
func (s *Service) Segment(ctx context.Context, meeting *models.Meeting) (*SegmentResult, error) {
	parsed := transcript.Parse(meeting.Content)

	firefliesID := meeting.FirefliesID
	if firefliesID == "" {
		firefliesID = parsed.FirefliesID
	}

	job, err := s.jobs.Ensure(ctx, firefliesID, meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("ensure job: %w", err)
	}

	if len(parsed.Lines) == 0 {
		return nil, fmt.Errorf("transcript has no lines")
	}

	summaryResp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: "You are an assistant that summarizes construction project meetings."},
			{Role: "user", Content: summaryPrompt(parsed)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("summary completion: %w", err)
	}

	segResp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: "You segment meeting transcripts. Respond with JSON only."},
			{Role: "user", Content: segmentationPrompt(parsed)},
		},
		JSONMode: true,
	})
	if err != nil {
		return nil, fmt.Errorf("segmentation completion: %w", err)
	}

	payloads, err := decodeSegments(segResp.Content)
	if err != nil {
		return nil, err
	}
	payloads = repairSegments(payloads, len(parsed.Lines)-1)

	segments := make([]models.MeetingSegment, len(payloads))
	for i, p := range payloads {
		segments[i] = models.MeetingSegment{
			MeetingID:    meeting.ID,
			SegmentIndex: i,
			Title:        p.Title,
			StartIndex:   p.StartIndex,
			EndIndex:     p.EndIndex,
			Summary:      p.Summary,
			Decisions:    emptyIfNil(p.Decisions),
			Risks:        emptyIfNil(p.Risks),
			Tasks:        emptyIfNil(p.Tasks),
		}
	}

	if err := s.segments.Upsert(ctx, segments); err != nil {
		return nil, fmt.Errorf("persist segments: %w", err)
	}

	title := parsed.Title
	if meeting.Title != "" && title == "Untitled Meeting" {
		title = meeting.Title
	}
	if err := s.meetings.SetOverview(ctx, meeting.ID, title, summaryResp.Content, models.MeetingStatusSegmented); err != nil {
		return nil, fmt.Errorf("update meeting: %w", err)
	}

	if err := s.jobs.SetStage(ctx, job.ID, models.StageSegmented); err != nil {
		return nil, fmt.Errorf("advance job: %w", err)
	}

	slog.Info("meeting segmented",
		"meeting_id", meeting.ID,
		"fireflies_id", firefliesID,
		"segments", len(segments),
		"lines", len(parsed.Lines),
	)

	return &SegmentResult{
		MeetingID:    meeting.ID.String(),
		FirefliesID:  firefliesID,
		SegmentCount: len(segments),
	}, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
