// internal/models/workflow.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Workflow is a custodian review workflow embedded in an application.
// Invariants: at most one step is active at any time; steps activate in
// declaration order; the workflow is complete once the last step completes.
type Workflow struct {
	ID           uuid.UUID      `json:"id"`
	WorkflowName string         `json:"workflow_name"`
	Version      int            `json:"version"`
	Active       bool           `json:"active"`
	Steps        []WorkflowStep `json:"steps"`
}

func (w *Workflow) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	return json.Marshal(w)
}

func (w *Workflow) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, w)
}

// Completed reports whether every step of the workflow has completed.
func (w *Workflow) Completed() bool {
	if w == nil || len(w.Steps) == 0 {
		return false
	}
	for i := range w.Steps {
		if !w.Steps[i].Completed {
			return false
		}
	}
	return true
}

// ActiveStepIndex returns the index of the currently active step, or -1.
func (w *Workflow) ActiveStepIndex() int {
	if w == nil {
		return -1
	}
	for i := range w.Steps {
		if w.Steps[i].Active {
			return i
		}
	}
	return -1
}

// WorkflowStep is one sequential review phase with assigned reviewers.
// Deadline and ReminderOffset are counted in days from step activation.
type WorkflowStep struct {
	StepName        string           `json:"step_name"`
	Reviewers       []uuid.UUID      `json:"reviewers"`
	Sections        []string         `json:"sections"`
	Deadline        int              `json:"deadline"`
	ReminderOffset  int              `json:"reminder_offset"`
	Active          bool             `json:"active"`
	Completed       bool             `json:"completed"`
	StartDateTime   *time.Time       `json:"start_date_time,omitempty"`
	EndDateTime     *time.Time       `json:"end_date_time,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

// HasReviewer reports whether the user is assigned to this step.
func (s *WorkflowStep) HasReviewer(userID uuid.UUID) bool {
	for _, r := range s.Reviewers {
		if r == userID {
			return true
		}
	}
	return false
}

// RecommendationFor returns the reviewer's recommendation on this step, or nil.
func (s *WorkflowStep) RecommendationFor(userID uuid.UUID) *Recommendation {
	for i := range s.Recommendations {
		if s.Recommendations[i].Reviewer == userID {
			return &s.Recommendations[i]
		}
	}
	return nil
}

// Recommendation is one reviewer's verdict on a workflow step.
type Recommendation struct {
	Reviewer    uuid.UUID `json:"reviewer"`
	Approved    bool      `json:"approved"`
	Comments    string    `json:"comments"`
	DateCreated time.Time `json:"date_created"`
}
