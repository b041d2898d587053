// internal/models/event.go
package models

import "time"

// EventType identifies a state transition the core has applied. Events are
// descriptors only; dispatching them to sinks is the caller's job.
type EventType string

const (
	EventApplicationSubmitted  EventType = "application_submitted"
	EventApplicationWithdrawn  EventType = "application_withdrawn"
	EventApplicationApproved   EventType = "application_approved"
	EventApplicationRejected   EventType = "application_rejected"
	EventResubmissionCreated   EventType = "resubmission_created"
	EventAmendmentRequested    EventType = "amendment_requested"
	EventAmendmentReturned     EventType = "amendment_returned"
	EventAmendmentSubmitted    EventType = "amendment_submitted"
	EventWorkflowAssigned      EventType = "workflow_assigned"
	EventReviewStepStarted     EventType = "review_step_started"
	EventReviewStepCompleted   EventType = "review_step_completed"
	EventFinalDecisionRequired EventType = "final_decision_required"
	EventDatasetDraftCreated   EventType = "dataset_draft_created"
	EventDatasetSubmitted      EventType = "dataset_submitted"
	EventDatasetApproved       EventType = "dataset_approved"
	EventDatasetRejected       EventType = "dataset_rejected"
	EventDatasetArchived       EventType = "dataset_archived"
	EventDatasetUnarchived     EventType = "dataset_unarchived"
)

// Event is an emitted side-effect descriptor: services hand these to the
// notification and activity-log sinks after persisting a transition.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    JSONB     `json:"payload"`
}

// NewEvent builds an event descriptor stamped with the transition time.
func NewEvent(eventType EventType, occurredAt time.Time, payload JSONB) Event {
	if payload == nil {
		payload = JSONB{}
	}
	return Event{Type: eventType, OccurredAt: occurredAt, Payload: payload}
}

// Notification is a persisted fire-and-forget notification row.
type Notification struct {
	BaseModel
	Type    EventType `json:"type" gorm:"type:varchar(50);index"`
	Context JSONB     `json:"context" gorm:"type:jsonb"`
}

// ActivityLog is one append-only activity log row. Payload carries enough
// detail (including v2 diffs) to reconstruct what changed.
type ActivityLog struct {
	BaseModel
	EventType EventType `json:"event_type" gorm:"type:varchar(50);index"`
	Payload   JSONB     `json:"payload" gorm:"type:jsonb"`
}
