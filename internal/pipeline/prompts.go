package pipeline

import (
	"fmt"
	"strings"

	"github.com/crestline/meetflow/internal/models"
	"github.com/crestline/meetflow/internal/transcript"
)

const (
	// summaryLineLimit caps the transcript context for the executive summary.
	summaryLineLimit = 200
	// segmentationCharLimit caps the transcript text in the segmentation prompt.
	segmentationCharLimit = 15000
	// extractionSummaryLimit caps the meeting summary in the extraction prompt.
	extractionSummaryLimit = 2000
)

// formatLines renders transcript lines as "[idx] [timestamp] speaker: text",
// the addressing scheme the segmentation model must echo back.
func formatLines(lines []transcript.Line) string {
	var sb strings.Builder
	for _, l := range lines {
		ts := l.Timestamp
		if ts == "" {
			ts = "--:--"
		}
		fmt.Fprintf(&sb, "[%d] [%s] %s: %s\n", l.Index, ts, l.Speaker, l.Text)
	}
	return sb.String()
}

func summaryPrompt(p *transcript.Parsed) string {
	lines := p.Lines
	if len(lines) > summaryLineLimit {
		lines = lines[:summaryLineLimit]
	}

	return fmt.Sprintf(`Write an executive summary of this meeting in 3-5 paragraphs.

Cover, in order: the purpose of the meeting, the main topics discussed,
decisions made, actions agreed, and any risks or concerns raised.

Meeting: %s
Participants: %s

Transcript:
%s`, p.Title, strings.Join(p.Participants, ", "), formatLines(lines))
}

func segmentationPrompt(p *transcript.Parsed) string {
	text := truncateRunes(formatLines(p.Lines), segmentationCharLimit)

	maxIndex := 0
	if n := len(p.Lines); n > 0 {
		maxIndex = n - 1
	}

	return fmt.Sprintf(`Segment this meeting transcript into topic-based sections.

Rules:
- Every transcript line (index 0 through %d) must belong to exactly one segment.
- Segments are typically 10-50 lines and follow natural topic boundaries.
- start_index and end_index are inclusive line indexes.

For each segment also extract verbatim any decisions made, risks raised, and
tasks assigned as free-text strings.

Respond with a JSON object of this shape:
{"segments": [{"title": "...", "start_index": 0, "end_index": 12, "summary": "...", "decisions": ["..."], "risks": ["..."], "tasks": ["..."]}]}

Transcript:
%s`, maxIndex, text)
}

func extractionPrompt(m *models.Meeting, p *transcript.Parsed, decisions, risks, tasks []string) string {
	summary := truncateRunes(m.Overview, extractionSummaryLimit)

	date := ""
	if m.StartedAt != nil {
		date = m.StartedAt.Format("2006-01-02")
	}

	return fmt.Sprintf(`You are given raw decision/risk/task mentions extracted per-segment from a
meeting transcript. Deduplicate, normalize and enrich them into structured
records. Infer owners from the participant list where the text supports it.
Also identify any opportunities the discussion surfaced.

Meeting: %s
Date: %s
Participants: %s
Summary: %s

Raw decisions:
%s

Raw risks:
%s

Raw tasks:
%s

Respond with a JSON object of this shape:
{
  "decisions": [{"description": "...", "rationale": "...", "owner": "..."}],
  "risks": [{"description": "...", "category": "schedule|budget|resource|technical|external", "likelihood": "low|medium|high", "impact": "low|medium|high", "owner": "..."}],
  "tasks": [{"description": "...", "assignee": "...", "due_date": "...", "priority": "low|medium|high|urgent"}],
  "opportunities": [{"description": "...", "type": "efficiency|revenue|relationship|innovation", "owner": "..."}]
}`,
		m.Title, date, strings.Join(p.Participants, ", "), summary,
		bulletList(decisions), bulletList(risks), bulletList(tasks))
}

// truncateRunes cuts on a rune boundary so a multi-byte character is never
// split mid-sequence.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString("- ")
		sb.WriteString(it)
		sb.WriteString("\n")
	}
	return sb.String()
}
