package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crestline/meetflow/internal/llm"
	"github.com/crestline/meetflow/internal/models"
	"github.com/crestline/meetflow/internal/transcript"
)

type ExtractResult struct {
	MeetingID     string `json:"metadataId"`
	FirefliesID   string `json:"firefliesId"`
	Decisions     int    `json:"decisions"`
	Risks         int    `json:"risks"`
	Tasks         int    `json:"tasks"`
	Opportunities int    `json:"opportunities"`
}

// Extract runs the structured extraction stage: collect the raw per-segment
// decision/risk/task mentions, have the completion model deduplicate and
// normalize them into typed records, embed each description, and upsert the
// facts. Terminal stage: the job moves to done.
func (s *Service) Extract(ctx context.Context, meeting *models.Meeting) (*ExtractResult, error) {
	segments, err := s.segments.ListByMeeting(ctx, meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments found for meeting %s: run segmentation first", meeting.ID)
	}

	job, err := s.jobs.GetByMeetingID(ctx, meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve job: %w", err)
	}

	parsed := transcript.Parse(meeting.Content)

	var rawDecisions, rawRisks, rawTasks []string
	for _, seg := range segments {
		rawDecisions = append(rawDecisions, seg.Decisions...)
		rawRisks = append(rawRisks, seg.Risks...)
		rawTasks = append(rawTasks, seg.Tasks...)
	}
	// Document-level action items feed the task list too.
	rawTasks = append(rawTasks, parsed.ActionItems...)

	resp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: "You normalize meeting outcomes into structured records. Respond with JSON only."},
			{Role: "user", Content: extractionPrompt(meeting, parsed, rawDecisions, rawRisks, rawTasks)},
		},
		JSONMode: true,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction completion: %w", err)
	}

	payload, err := decodeExtraction(resp.Content)
	if err != nil {
		return nil, err
	}

	// One batch call for every description, concatenated in the fixed order
	// decisions, risks, tasks, opportunities; embeddings are consumed back in
	// exactly that order.
	var texts []string
	for _, d := range payload.Decisions {
		texts = append(texts, d.Description)
	}
	for _, r := range payload.Risks {
		texts = append(texts, r.Description)
	}
	for _, t := range payload.Tasks {
		texts = append(texts, t.Description)
	}
	for _, o := range payload.Opportunities {
		texts = append(texts, o.Description)
	}

	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed descriptions: %w", err)
	}

	next := 0
	take := func() []float32 {
		e := embeddings[next]
		next++
		return e
	}

	var nDecisions, nRisks, nTasks, nOpportunities int

	for _, d := range payload.Decisions {
		if d.Description == "" {
			next++
			continue
		}
		err := s.facts.UpsertDecision(ctx, models.Decision{
			MeetingID:   meeting.ID,
			Description: d.Description,
			Rationale:   d.Rationale,
			Owner:       d.Owner,
			Status:      models.DecisionStatusActive,
			Embedding:   take(),
		})
		if err != nil {
			return nil, err
		}
		nDecisions++
	}

	for _, r := range payload.Risks {
		if r.Description == "" {
			next++
			continue
		}
		err := s.facts.UpsertRisk(ctx, models.Risk{
			MeetingID:   meeting.ID,
			Description: r.Description,
			Category:    normalizeEnum(r.Category, models.RiskCategories, "technical"),
			Likelihood:  normalizeEnum(r.Likelihood, models.SeverityLevels, "medium"),
			Impact:      normalizeEnum(r.Impact, models.SeverityLevels, "medium"),
			Owner:       r.Owner,
			Status:      models.FactStatusOpen,
			Embedding:   take(),
		})
		if err != nil {
			return nil, err
		}
		nRisks++
	}

	for _, t := range payload.Tasks {
		if t.Description == "" {
			next++
			continue
		}
		err := s.facts.UpsertTask(ctx, models.Task{
			MeetingID:   meeting.ID,
			Description: t.Description,
			Assignee:    t.Assignee,
			DueDate:     t.DueDate,
			Priority:    normalizeEnum(t.Priority, models.TaskPriorities, "medium"),
			Status:      models.FactStatusOpen,
			Embedding:   take(),
		})
		if err != nil {
			return nil, err
		}
		nTasks++
	}

	for _, o := range payload.Opportunities {
		if o.Description == "" {
			next++
			continue
		}
		err := s.facts.UpsertOpportunity(ctx, models.Opportunity{
			MeetingID:   meeting.ID,
			Description: o.Description,
			Type:        normalizeEnum(o.Type, models.OpportunityTypes, "efficiency"),
			Owner:       o.Owner,
			Status:      models.FactStatusOpen,
			Embedding:   take(),
		})
		if err != nil {
			return nil, err
		}
		nOpportunities++
	}

	if err := s.meetings.UpdateStatus(ctx, meeting.ID, models.MeetingStatusComplete); err != nil {
		return nil, fmt.Errorf("update meeting: %w", err)
	}
	if err := s.jobs.SetStage(ctx, job.ID, models.StageDone); err != nil {
		return nil, fmt.Errorf("advance job: %w", err)
	}

	slog.Info("meeting extracted",
		"meeting_id", meeting.ID,
		"decisions", nDecisions,
		"risks", nRisks,
		"tasks", nTasks,
		"opportunities", nOpportunities,
	)

	// Counts reflect persisted facts, not the raw model arrays: records the
	// model returned with an empty description are skipped above.
	return &ExtractResult{
		MeetingID:     meeting.ID.String(),
		FirefliesID:   job.FirefliesID,
		Decisions:     nDecisions,
		Risks:         nRisks,
		Tasks:         nTasks,
		Opportunities: nOpportunities,
	}, nil
}
