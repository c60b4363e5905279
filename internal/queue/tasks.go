package queue

const (
	TypeMeetingSegment = "meeting:segment"
	TypeMeetingEmbed   = "meeting:embed"
	TypeMeetingExtract = "meeting:extract"
)

// StagePayload drives any of the three stage tasks.
type StagePayload struct {
	MeetingID   string `json:"meeting_id,omitempty"`
	FirefliesID string `json:"fireflies_id,omitempty"`
}
