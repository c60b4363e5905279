package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// segmentPayload is the shape the segmentation model must return for each
// segment.
type segmentPayload struct {
	Title      string   `json:"title"`
	StartIndex int      `json:"start_index"`
	EndIndex   int      `json:"end_index"`
	Summary    string   `json:"summary"`
	Decisions  []string `json:"decisions"`
	Risks      []string `json:"risks"`
	Tasks      []string `json:"tasks"`
}

type extractionPayload struct {
	Decisions []struct {
		Description string `json:"description"`
		Rationale   string `json:"rationale"`
		Owner       string `json:"owner"`
	} `json:"decisions"`
	Risks []struct {
		Description string `json:"description"`
		Category    string `json:"category"`
		Likelihood  string `json:"likelihood"`
		Impact      string `json:"impact"`
		Owner       string `json:"owner"`
	} `json:"risks"`
	Tasks []struct {
		Description string `json:"description"`
		Assignee    string `json:"assignee"`
		DueDate     string `json:"due_date"`
		Priority    string `json:"priority"`
	} `json:"tasks"`
	Opportunities []struct {
		Description string `json:"description"`
		Type        string `json:"type"`
		Owner       string `json:"owner"`
	} `json:"opportunities"`
}

// stripFences removes a markdown code fence wrapper some models add around
// JSON replies.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// decodeSegments parses the segmentation reply. Accepts either the
// documented {"segments": [...]} object or a bare array.
func decodeSegments(content string) ([]segmentPayload, error) {
	content = stripFences(content)

	var wrapper struct {
		Segments []segmentPayload `json:"segments"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && wrapper.Segments != nil {
		return wrapper.Segments, nil
	}

	var segments []segmentPayload
	if err := json.Unmarshal([]byte(content), &segments); err != nil {
		return nil, fmt.Errorf("malformed segmentation response: %w (got %q)", err, prefix(content, 120))
	}
	return segments, nil
}

func decodeExtraction(content string) (*extractionPayload, error) {
	content = stripFences(content)

	var payload extractionPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("malformed extraction response: %w (got %q)", err, prefix(content, 120))
	}
	return &payload, nil
}

// repairSegments enforces the coverage contract the prompt states but the
// model cannot be trusted to keep: bounds are clamped to [0, maxIndex],
// inverted or empty segments are dropped, gaps are closed by extending the
// preceding segment, and the last segment is extended to the final line.
// Overlaps are left as-is.
func repairSegments(segments []segmentPayload, maxIndex int) []segmentPayload {
	var out []segmentPayload
	for _, seg := range segments {
		if seg.StartIndex < 0 {
			seg.StartIndex = 0
		}
		if seg.EndIndex > maxIndex {
			seg.EndIndex = maxIndex
		}
		if seg.StartIndex > maxIndex || seg.EndIndex < seg.StartIndex {
			continue
		}
		out = append(out, seg)
	}

	if len(out) == 0 {
		return []segmentPayload{{
			Title:      "Full Meeting",
			StartIndex: 0,
			EndIndex:   maxIndex,
		}}
	}

	if out[0].StartIndex > 0 {
		out[0].StartIndex = 0
	}
	for i := 1; i < len(out); i++ {
		if out[i].StartIndex > out[i-1].EndIndex+1 {
			out[i-1].EndIndex = out[i].StartIndex - 1
		}
	}
	if out[len(out)-1].EndIndex < maxIndex {
		out[len(out)-1].EndIndex = maxIndex
	}

	return out
}

// normalizeEnum lower-cases the model's value and falls back to def when it
// is not in the allowed set.
func normalizeEnum(value string, allowed []string, def string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return def
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
