package transcript

import (
	"regexp"
	"strings"
	"time"
)

// Line is one attributed utterance of a transcript. Index is zero-based,
// strictly increasing and contiguous; segments address ranges of it.
type Line struct {
	Index     int    `json:"index"`
	Timestamp string `json:"timestamp,omitempty"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
}

// Parsed is the structured form of a raw Fireflies markdown export.
type Parsed struct {
	FirefliesID  string     `json:"fireflies_id"`
	Title        string     `json:"title"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	Participants []string   `json:"participants"`
	Lines        []Line     `json:"lines"`

	Summary     string   `json:"summary,omitempty"`
	ActionItems []string `json:"action_items,omitempty"`

	Duration      string   `json:"duration,omitempty"`
	AudioURL      string   `json:"audio_url,omitempty"`
	VideoURL      string   `json:"video_url,omitempty"`
	FirefliesLink string   `json:"fireflies_link,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	BulletPoints  []string `json:"bullet_points,omitempty"`
}

var (
	reExplicitID   = regexp.MustCompile(`\*\*ID:\*\*\s*([A-Za-z0-9_-]+)`)
	reFirefliesID  = regexp.MustCompile(`\*\*Fireflies ID:\*\*\s*([A-Za-z0-9_-]+)`)
	reFirefliesURL = regexp.MustCompile(`https?://(?:app\.)?fireflies\.ai/view/([A-Za-z0-9_-]+)`)

	reDateUS  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	reDateISO = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

	reTimedSpeaker = regexp.MustCompile(`^\[(\d{1,2}:\d{2}(?::\d{2})?)\]\s*\*\*(.+?)\*\*\s*:\s*(.*)$`)
	reBoldSpeaker  = regexp.MustCompile(`^\*\*(.+?)\*\*\s*:\s*(.*)$`)

	reAttendeeHeader = regexp.MustCompile(`(?i)^(?:#{1,6}\s*)?\*{0,2}\s*(?:attendees|participants)\s*:?\s*\*{0,2}\s*$`)
	reBullet         = regexp.MustCompile(`^\s*[-*]\s+(.*)$`)

	reDuration = regexp.MustCompile(`(?i)\*\*Duration:\*\*\s*(.+)`)
	reAudioURL = regexp.MustCompile(`https?://\S+\.(?:mp3|m4a|wav)\b`)
	reVideoURL = regexp.MustCompile(`https?://\S+\.(?:mp4|webm|mov)\b`)
	reKeywords = regexp.MustCompile(`(?i)\*\*Keywords:\*\*\s*(.+)`)
)

// Parse converts a raw markdown meeting export into structured fields. It is
// a pure function and never fails: missing fields fall back to defaults, and
// a transcript without an explicit id gets a stable content-hash-derived one.
func Parse(raw string) *Parsed {
	p := &Parsed{
		Title:        "Untitled Meeting",
		Participants: []string{},
		Lines:        []Line{},
	}

	lines := strings.Split(raw, "\n")

	p.FirefliesID = extractID(raw)
	p.FirefliesLink = extractFirefliesLink(raw)

	if t := extractTitle(lines); t != "" {
		p.Title = t
	}
	p.StartedAt = extractDate(lines)

	if names := extractParticipants(lines); names != nil {
		p.Participants = names
	}
	if tl := extractTranscript(lines); tl != nil {
		p.Lines = tl
	}

	p.Summary = strings.TrimSpace(sectionText(lines, "summary"))
	p.ActionItems = parseBullets(sectionText(lines, "action items"))
	p.BulletPoints = parseBullets(sectionText(lines, "bullet points"))

	if m := reDuration.FindStringSubmatch(raw); m != nil {
		p.Duration = strings.TrimSpace(m[1])
	}
	p.AudioURL = reAudioURL.FindString(raw)
	p.VideoURL = reVideoURL.FindString(raw)
	if m := reKeywords.FindStringSubmatch(raw); m != nil {
		for _, k := range strings.Split(m[1], ",") {
			if k = strings.TrimSpace(k); k != "" {
				p.Keywords = append(p.Keywords, k)
			}
		}
	}

	return p
}

// extractID resolves the fireflies id with field, then URL, then hash
// precedence.
func extractID(raw string) string {
	if m := reExplicitID.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if m := reFirefliesID.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if m := reFirefliesURL.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return HashContent(raw)
}

func extractFirefliesLink(raw string) string {
	return reFirefliesURL.FindString(raw)
}

// extractTitle returns the first H1 within the first 10 lines.
func extractTitle(lines []string) string {
	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for _, l := range lines[:limit] {
		if strings.HasPrefix(l, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(l, "# "))
		}
	}
	return ""
}

// extractDate scans the first 20 lines for MM/DD/YYYY, then YYYY-MM-DD.
func extractDate(lines []string) *time.Time {
	limit := len(lines)
	if limit > 20 {
		limit = 20
	}
	head := strings.Join(lines[:limit], "\n")

	if m := reDateUS.FindStringSubmatch(head); m != nil {
		if t, err := time.Parse("1/2/2006", m[1]+"/"+m[2]+"/"+m[3]); err == nil {
			return &t
		}
	}
	if m := reDateISO.FindStringSubmatch(head); m != nil {
		if t, err := time.Parse("2006-01-02", m[0]); err == nil {
			return &t
		}
	}
	return nil
}

// extractParticipants unions three passes: attendee-list bullets, timestamped
// speaker labels, and standalone bold-speaker lines. Order of first
// appearance is kept but carries no meaning.
func extractParticipants(lines []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	inList := false
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if reAttendeeHeader.MatchString(trimmed) {
			inList = true
			continue
		}
		if inList {
			if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "---") {
				inList = false
			} else if m := reBullet.FindStringSubmatch(l); m != nil {
				add(m[1])
				continue
			}
		}
		if m := reTimedSpeaker.FindStringSubmatch(trimmed); m != nil {
			add(m[2])
		} else if m := reBoldSpeaker.FindStringSubmatch(trimmed); m != nil {
			add(m[1])
		}
	}
	return out
}

// extractTranscript collects lines under the "## Transcript" heading until
// the next section heading. Three shapes are recognized in priority order:
// timestamped speaker, bold speaker (which updates the current-speaker
// context), and bare continuation text attributed to the last seen speaker.
func extractTranscript(lines []string) []Line {
	var out []Line
	in := false
	currentSpeaker := ""

	for _, l := range lines {
		trimmed := strings.TrimSpace(l)

		if isHeading(trimmed, "transcript") {
			in = true
			continue
		}
		if !in {
			continue
		}
		if strings.HasPrefix(trimmed, "## ") {
			break
		}
		if trimmed == "" {
			continue
		}

		if m := reTimedSpeaker.FindStringSubmatch(trimmed); m != nil {
			currentSpeaker = strings.TrimSpace(m[2])
			out = append(out, Line{
				Index:     len(out),
				Timestamp: m[1],
				Speaker:   currentSpeaker,
				Text:      strings.TrimSpace(m[3]),
			})
			continue
		}
		if m := reBoldSpeaker.FindStringSubmatch(trimmed); m != nil {
			currentSpeaker = strings.TrimSpace(m[1])
			out = append(out, Line{
				Index:   len(out),
				Speaker: currentSpeaker,
				Text:    strings.TrimSpace(m[2]),
			})
			continue
		}
		if currentSpeaker != "" {
			out = append(out, Line{
				Index:   len(out),
				Speaker: currentSpeaker,
				Text:    trimmed,
			})
		}
	}
	return out
}

// sectionText returns the raw text under the "## <name>" heading.
func sectionText(lines []string, name string) string {
	var sb strings.Builder
	in := false
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if isHeading(trimmed, name) {
			in = true
			continue
		}
		if in {
			if strings.HasPrefix(trimmed, "## ") {
				break
			}
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func isHeading(line, name string) bool {
	if !strings.HasPrefix(line, "## ") {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(line, "## ")), name)
}

func parseBullets(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if m := reBullet.FindStringSubmatch(l); m != nil {
			if item := strings.TrimSpace(m[1]); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
