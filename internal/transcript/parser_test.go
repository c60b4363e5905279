package transcript

import (
	"strings"
	"testing"
)

const sampleExport = `# Weekly Project Sync

**Date:** 03/15/2024
**Duration:** 45 mins
https://app.fireflies.ai/view/ABC123xyz

## Attendees

- Dana Smith
- Lee Wong

## Summary

The team reviewed foundation progress.

## Transcript

[00:01] **Dana Smith**: Let's get started.
[00:15] **Lee Wong**: Concrete pour is done.
And inspection is scheduled.
**Dana Smith**: Great news.

## Action Items

- Lee to confirm inspection date
`

func TestParseFullExport(t *testing.T) {
	p := Parse(sampleExport)

	if p.FirefliesID != "ABC123xyz" {
		t.Errorf("FirefliesID = %q, want ABC123xyz", p.FirefliesID)
	}
	if p.Title != "Weekly Project Sync" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.StartedAt == nil {
		t.Fatal("StartedAt = nil, want parsed date")
	}
	if y, m, d := p.StartedAt.Date(); y != 2024 || int(m) != 3 || d != 15 {
		t.Errorf("StartedAt = %v, want 2024-03-15", p.StartedAt)
	}
	if p.Duration != "45 mins" {
		t.Errorf("Duration = %q", p.Duration)
	}
	if p.FirefliesLink != "https://app.fireflies.ai/view/ABC123xyz" {
		t.Errorf("FirefliesLink = %q", p.FirefliesLink)
	}

	wantParticipants := []string{"Dana Smith", "Lee Wong"}
	if len(p.Participants) != len(wantParticipants) {
		t.Fatalf("Participants = %v, want %v", p.Participants, wantParticipants)
	}
	for i, name := range wantParticipants {
		if p.Participants[i] != name {
			t.Errorf("Participants[%d] = %q, want %q", i, p.Participants[i], name)
		}
	}

	if p.Summary != "The team reviewed foundation progress." {
		t.Errorf("Summary = %q", p.Summary)
	}
	if len(p.ActionItems) != 1 || p.ActionItems[0] != "Lee to confirm inspection date" {
		t.Errorf("ActionItems = %v", p.ActionItems)
	}
}

func TestParseTranscriptLines(t *testing.T) {
	p := Parse(sampleExport)

	want := []Line{
		{Index: 0, Timestamp: "00:01", Speaker: "Dana Smith", Text: "Let's get started."},
		{Index: 1, Timestamp: "00:15", Speaker: "Lee Wong", Text: "Concrete pour is done."},
		{Index: 2, Speaker: "Lee Wong", Text: "And inspection is scheduled."},
		{Index: 3, Speaker: "Dana Smith", Text: "Great news."},
	}

	if len(p.Lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(p.Lines), len(want), p.Lines)
	}
	for i, w := range want {
		if p.Lines[i] != w {
			t.Errorf("Lines[%d] = %+v, want %+v", i, p.Lines[i], w)
		}
	}
}

func TestParseLineIndexesContiguous(t *testing.T) {
	p := Parse(sampleExport)
	for i, l := range p.Lines {
		if l.Index != i {
			t.Errorf("Lines[%d].Index = %d", i, l.Index)
		}
	}
}

func TestParseIDPrecedence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "explicit id field wins over url",
			raw:  "**ID:** explicit_1\nhttps://app.fireflies.ai/view/fromurl",
			want: "explicit_1",
		},
		{
			name: "fireflies id field",
			raw:  "**Fireflies ID:** ff_42",
			want: "ff_42",
		},
		{
			name: "url fallback",
			raw:  "See https://fireflies.ai/view/urlonly for details",
			want: "urlonly",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw).FirefliesID; got != tt.want {
				t.Errorf("FirefliesID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSyntheticIDIsStable(t *testing.T) {
	raw := "# No ID Here\n\n## Transcript\n\n**A**: hello."
	first := Parse(raw).FirefliesID
	second := Parse(raw).FirefliesID
	if first == "" {
		t.Fatal("expected synthetic id, got empty")
	}
	if first != second {
		t.Errorf("synthetic id not stable: %q vs %q", first, second)
	}
	if other := Parse(raw + " more text").FirefliesID; other == first {
		t.Errorf("different content produced same synthetic id %q", first)
	}
}

func TestParseDefaults(t *testing.T) {
	p := Parse("just some text with no structure")

	if p.Title != "Untitled Meeting" {
		t.Errorf("Title = %q, want Untitled Meeting", p.Title)
	}
	if p.StartedAt != nil {
		t.Errorf("StartedAt = %v, want nil", p.StartedAt)
	}
	if p.Lines == nil || len(p.Lines) != 0 {
		t.Errorf("Lines = %v, want empty non-nil", p.Lines)
	}
	if p.Participants == nil {
		t.Error("Participants = nil, want empty slice")
	}
}

func TestParseISODate(t *testing.T) {
	p := Parse("# Standup\n\nHeld on 2024-07-01.\n")
	if p.StartedAt == nil {
		t.Fatal("StartedAt = nil")
	}
	if y, m, d := p.StartedAt.Date(); y != 2024 || int(m) != 7 || d != 1 {
		t.Errorf("StartedAt = %v, want 2024-07-01", p.StartedAt)
	}
}

func TestParseMetadataLinesAreNotSpeakers(t *testing.T) {
	p := Parse(sampleExport)
	for _, name := range p.Participants {
		if strings.Contains(name, "Date") || strings.Contains(name, "Duration") {
			t.Errorf("metadata leaked into participants: %q", name)
		}
	}
}
