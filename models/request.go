package models

import (
	"strings"
	"time"

	"github.com/blogem/vendorflow/workflow"
)

// Request is a vendor/third-party request under workflow control
type Request struct {
	ID           int64          `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Description  string         `json:"description" db:"description"`
	State        workflow.State `json:"state" db:"state"`
	AssigneeID   int64          `json:"assignee_id" db:"assignee_id"`
	CreatedBy    *int64         `json:"created_by,omitempty" db:"created_by"`
	RejectReason string         `json:"reject_reason,omitempty" db:"reject_reason"`
	Version      int            `json:"-" db:"version"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Subject returns the fields the workflow engine decides on
func (r *Request) Subject() workflow.Subject {
	return workflow.Subject{State: r.State, AssigneeID: r.AssigneeID}
}

// IsTerminal is true once the request is approved or rejected
func (r *Request) IsTerminal() bool {
	return r.State.IsTerminal()
}

// StepIndex is the position of the current state in the UI stepper
func (r *Request) StepIndex() int {
	return r.State.StepIndex()
}

func (r *Request) String() string {
	return r.Name + " [" + r.State.Label() + "]"
}

// StateLogEntry is one immutable audit record of a request transition
type StateLogEntry struct {
	ID          int64           `json:"id" db:"id"`
	RequestID   int64           `json:"request_id" db:"request_id"`
	SourceState *workflow.State `json:"source_state,omitempty" db:"source_state"`
	State       workflow.State  `json:"state" db:"state"`
	ActorID     *int64          `json:"actor_id,omitempty" db:"actor_id"`
	Timestamp   time.Time       `json:"timestamp" db:"timestamp"`
	Description string          `json:"description" db:"description"`

	// Joined from the public users table
	ActorName string `json:"actor_name,omitempty" db:"-"`
}

// NewStateLogEntry builds the audit row for a transition
func NewStateLogEntry(requestID int64, t workflow.Transition, at time.Time) *StateLogEntry {
	return &StateLogEntry{
		RequestID:   requestID,
		SourceState: t.From,
		State:       t.To,
		ActorID:     t.ActorID,
		Timestamp:   at,
		Description: t.Description,
	}
}

// RequestFilter narrows request listings
type RequestFilter struct {
	State      workflow.State
	AssigneeID int64
}

// RequestForm represents form data for creating requests
type RequestForm struct {
	Name        string `validate:"required,max=255"`
	Description string
	AssigneeID  int64 `validate:"required"`
}

// Normalize trims user input
func (f *RequestForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
}

// Validate validates the request form
func (f *RequestForm) Validate() ValidationErrors {
	f.Normalize()
	return validateStruct(f, map[string]string{
		"Name":       "name",
		"AssigneeID": "assignee",
	})
}
