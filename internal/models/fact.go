package models

import (
	"time"

	"github.com/google/uuid"
)

// Structured facts derived from a meeting by the extract stage. All four are
// upserted on (meeting_id, description): identical description text is the
// same fact.

type Decision struct {
	ID          uuid.UUID `json:"id" db:"id"`
	MeetingID   uuid.UUID `json:"meeting_id" db:"meeting_id"`
	Description string    `json:"description" db:"description"`
	Rationale   string    `json:"rationale,omitempty" db:"rationale"`
	Owner       string    `json:"owner,omitempty" db:"owner"`
	Status      string    `json:"status" db:"status"`
	Embedding   []float32 `json:"-" db:"embedding"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Risk struct {
	ID          uuid.UUID `json:"id" db:"id"`
	MeetingID   uuid.UUID `json:"meeting_id" db:"meeting_id"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Likelihood  string    `json:"likelihood" db:"likelihood"`
	Impact      string    `json:"impact" db:"impact"`
	Owner       string    `json:"owner,omitempty" db:"owner"`
	Status      string    `json:"status" db:"status"`
	Embedding   []float32 `json:"-" db:"embedding"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Task struct {
	ID          uuid.UUID `json:"id" db:"id"`
	MeetingID   uuid.UUID `json:"meeting_id" db:"meeting_id"`
	Description string    `json:"description" db:"description"`
	Assignee    string    `json:"assignee,omitempty" db:"assignee"`
	DueDate     string    `json:"due_date,omitempty" db:"due_date"`
	Priority    string    `json:"priority" db:"priority"`
	Status      string    `json:"status" db:"status"`
	Embedding   []float32 `json:"-" db:"embedding"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Opportunity struct {
	ID          uuid.UUID `json:"id" db:"id"`
	MeetingID   uuid.UUID `json:"meeting_id" db:"meeting_id"`
	Description string    `json:"description" db:"description"`
	Type        string    `json:"type" db:"type"`
	Owner       string    `json:"owner,omitempty" db:"owner"`
	Status      string    `json:"status" db:"status"`
	Embedding   []float32 `json:"-" db:"embedding"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

const (
	DecisionStatusActive = "active"
	FactStatusOpen       = "open"
)

// Allowed enum values for model-provided fields. The extract stage
// normalizes unknown values to the listed defaults instead of failing.
var (
	RiskCategories   = []string{"schedule", "budget", "resource", "technical", "external"}
	SeverityLevels   = []string{"low", "medium", "high"}
	TaskPriorities   = []string{"low", "medium", "high", "urgent"}
	OpportunityTypes = []string{"efficiency", "revenue", "relationship", "innovation"}
)
