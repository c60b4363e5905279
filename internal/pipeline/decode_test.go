package pipeline

import (
	"strings"
	"testing"
)

func TestDecodeSegments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{
			name:    "object wrapper",
			content: `{"segments":[{"title":"Kickoff","start_index":0,"end_index":4}]}`,
			want:    1,
		},
		{
			name:    "bare array",
			content: `[{"title":"A","start_index":0,"end_index":1},{"title":"B","start_index":2,"end_index":3}]`,
			want:    2,
		},
		{
			name:    "fenced json",
			content: "```json\n{\"segments\":[{\"title\":\"Kickoff\",\"start_index\":0,\"end_index\":4}]}\n```",
			want:    1,
		},
		{
			name:    "prose reply",
			content: "Sure! Here are the segments you asked for.",
			wantErr: true,
		},
		{
			name:    "empty",
			content: "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeSegments(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d segments, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDecodeSegmentsKeepsFields(t *testing.T) {
	got, err := decodeSegments(`{"segments":[{"title":"Budget","start_index":3,"end_index":9,"summary":"money talk","decisions":["approve"],"risks":["overrun"],"tasks":["recheck"]}]}`)
	if err != nil {
		t.Fatal(err)
	}
	seg := got[0]
	if seg.Title != "Budget" || seg.StartIndex != 3 || seg.EndIndex != 9 {
		t.Errorf("bounds = %+v", seg)
	}
	if len(seg.Decisions) != 1 || seg.Decisions[0] != "approve" {
		t.Errorf("decisions = %v", seg.Decisions)
	}
	if len(seg.Risks) != 1 || len(seg.Tasks) != 1 {
		t.Errorf("risks/tasks = %v / %v", seg.Risks, seg.Tasks)
	}
}

func TestDecodeExtraction(t *testing.T) {
	payload, err := decodeExtraction("```json\n" + `{
		"decisions":[{"description":"use precast panels","rationale":"schedule","owner":"Dana"}],
		"risks":[{"description":"permit delay","category":"schedule","likelihood":"high","impact":"medium","owner":""}],
		"tasks":[{"description":"call inspector","assignee":"Lee","due_date":"2024-03-20","priority":"high"}],
		"opportunities":[]
	}` + "\n```")
	if err != nil {
		t.Fatal(err)
	}
	if len(payload.Decisions) != 1 || payload.Decisions[0].Description != "use precast panels" {
		t.Errorf("decisions = %+v", payload.Decisions)
	}
	if len(payload.Risks) != 1 || payload.Risks[0].Likelihood != "high" {
		t.Errorf("risks = %+v", payload.Risks)
	}
	if len(payload.Tasks) != 1 || payload.Tasks[0].DueDate != "2024-03-20" {
		t.Errorf("tasks = %+v", payload.Tasks)
	}
	if len(payload.Opportunities) != 0 {
		t.Errorf("opportunities = %+v", payload.Opportunities)
	}

	if _, err := decodeExtraction("not json at all"); err == nil {
		t.Error("expected error for prose reply")
	}
}

func TestRepairSegments(t *testing.T) {
	tests := []struct {
		name     string
		in       []segmentPayload
		maxIndex int
		want     [][2]int
	}{
		{
			name:     "valid passthrough",
			in:       []segmentPayload{{StartIndex: 0, EndIndex: 4}, {StartIndex: 5, EndIndex: 9}},
			maxIndex: 9,
			want:     [][2]int{{0, 4}, {5, 9}},
		},
		{
			name:     "clamp out of range bounds",
			in:       []segmentPayload{{StartIndex: -3, EndIndex: 4}, {StartIndex: 5, EndIndex: 50}},
			maxIndex: 9,
			want:     [][2]int{{0, 4}, {5, 9}},
		},
		{
			name:     "drop inverted segment",
			in:       []segmentPayload{{StartIndex: 0, EndIndex: 4}, {StartIndex: 8, EndIndex: 5}, {StartIndex: 5, EndIndex: 9}},
			maxIndex: 9,
			want:     [][2]int{{0, 4}, {5, 9}},
		},
		{
			name:     "close interior gap",
			in:       []segmentPayload{{StartIndex: 0, EndIndex: 2}, {StartIndex: 6, EndIndex: 9}},
			maxIndex: 9,
			want:     [][2]int{{0, 5}, {6, 9}},
		},
		{
			name:     "extend first and last to cover transcript",
			in:       []segmentPayload{{StartIndex: 2, EndIndex: 5}},
			maxIndex: 9,
			want:     [][2]int{{0, 9}},
		},
		{
			name:     "all invalid collapses to full range",
			in:       []segmentPayload{{StartIndex: 20, EndIndex: 30}},
			maxIndex: 9,
			want:     [][2]int{{0, 9}},
		},
		{
			name:     "empty input collapses to full range",
			in:       nil,
			maxIndex: 9,
			want:     [][2]int{{0, 9}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairSegments(tt.in, tt.maxIndex)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d segments %+v, want %d", len(got), got, len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].StartIndex != w[0] || got[i].EndIndex != w[1] {
					t.Errorf("segment %d = [%d,%d], want [%d,%d]",
						i, got[i].StartIndex, got[i].EndIndex, w[0], w[1])
				}
			}
			// Full coverage: starts at 0, ends at maxIndex, no gaps.
			if got[0].StartIndex != 0 {
				t.Errorf("first start = %d", got[0].StartIndex)
			}
			if got[len(got)-1].EndIndex != tt.maxIndex {
				t.Errorf("last end = %d, want %d", got[len(got)-1].EndIndex, tt.maxIndex)
			}
			for i := 1; i < len(got); i++ {
				if got[i].StartIndex > got[i-1].EndIndex+1 {
					t.Errorf("gap between segment %d and %d", i-1, i)
				}
			}
		})
	}
}

func TestNormalizeEnum(t *testing.T) {
	allowed := []string{"low", "medium", "high"}
	tests := []struct {
		in   string
		want string
	}{
		{"high", "high"},
		{"HIGH", "high"},
		{"  Medium ", "medium"},
		{"critical", "medium"},
		{"", "medium"},
	}
	for _, tt := range tests {
		if got := normalizeEnum(tt.in, allowed, "medium"); got != tt.want {
			t.Errorf("normalizeEnum(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrefixTruncates(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := prefix(long, 120)
	if len(got) != 123 || !strings.HasSuffix(got, "...") {
		t.Errorf("prefix length = %d", len(got))
	}
	if got := prefix("short", 120); got != "short" {
		t.Errorf("prefix(short) = %q", got)
	}
}
