// internal/models/application.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DataAccessRequest is one DAR application. Owned by the applicant and
// co-authors until submission; afterwards the custodian team may write the
// workflow and review fields only.
type DataAccessRequest struct {
	BaseModel
	ApplicantID         uuid.UUID           `json:"applicant_id" gorm:"type:uuid;not null;index"`
	AuthorIDs           pq.StringArray      `json:"author_ids" gorm:"type:text[]"`
	PublisherID         uuid.UUID           `json:"publisher_id" gorm:"type:uuid;index"`
	DatasetIDs          pq.StringArray      `json:"dataset_ids" gorm:"type:text[]"`
	ApplicationStatus   ApplicationStatus   `json:"application_status" gorm:"type:varchar(30);default:'inProgress';index"`
	ApplicationType     ApplicationType     `json:"application_type" gorm:"type:varchar(20);default:'initial'"`
	MajorVersion        float64             `json:"major_version" gorm:"default:1"`
	QuestionAnswers     JSONB               `json:"question_answers" gorm:"type:jsonb"`
	VersionTree         VersionTree         `json:"version_tree" gorm:"type:jsonb"`
	AmendmentIterations AmendmentIterations `json:"amendment_iterations" gorm:"type:jsonb"`
	Workflow            *Workflow           `json:"workflow,omitempty" gorm:"type:jsonb"`
	Uses5Safes          bool                `json:"uses_5_safes" gorm:"default:false"`
	IsShared            bool                `json:"is_shared" gorm:"default:false"`
	DateSubmitted       *time.Time          `json:"date_submitted"`
	DateFinalStatus     *time.Time          `json:"date_final_status"`
	ApplicationStatusDesc string            `json:"application_status_desc,omitempty" gorm:"type:text"`
}

// IsApplicantOrAuthor reports whether the given user owns this application.
func (a *DataAccessRequest) IsApplicantOrAuthor(userID uuid.UUID) bool {
	if a.ApplicantID == userID {
		return true
	}
	for _, id := range a.AuthorIDs {
		if id == userID.String() {
			return true
		}
	}
	return false
}

// UnderReview reports whether custodian amendments may be requested.
func (a *DataAccessRequest) UnderReview() bool {
	return a.ApplicationStatus == ApplicationStatusSubmitted ||
		a.ApplicationStatus == ApplicationStatusInReview
}

// AmendmentIteration is one custodian-requested round of applicant updates.
// DateSubmitted unset means the iteration is still awaiting updates.
type AmendmentIteration struct {
	ID              uuid.UUID  `json:"id"`
	DateCreated     time.Time  `json:"date_created"`
	CreatedBy       uuid.UUID  `json:"created_by"`
	DateReturned    *time.Time `json:"date_returned,omitempty"`
	ReturnedBy      *uuid.UUID `json:"returned_by,omitempty"`
	DateSubmitted   *time.Time `json:"date_submitted,omitempty"`
	SubmittedBy     *uuid.UUID `json:"submitted_by,omitempty"`
	QuestionAnswers JSONB      `json:"question_answers,omitempty"`
}

// Submitted reports whether the applicant has resubmitted this iteration.
func (it *AmendmentIteration) Submitted() bool {
	return it.DateSubmitted != nil
}

// Returned reports whether the iteration was returned to the applicant.
func (it *AmendmentIteration) Returned() bool {
	return it.DateReturned != nil
}

// AmendmentIterations is the ordered iteration list, persisted as jsonb.
type AmendmentIterations []AmendmentIteration

func (a AmendmentIterations) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *AmendmentIterations) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Latest returns the most recently created iteration, or nil when none exist.
// The latest iteration is canonical for the amendment discoverability APIs.
func (a AmendmentIterations) Latest() *AmendmentIteration {
	if len(a) == 0 {
		return nil
	}
	return &a[len(a)-1]
}

// VersionTreeEntry is one node of the application lineage map.
type VersionTreeEntry struct {
	ApplicationID     uuid.UUID         `json:"application_id"`
	IterationID       *uuid.UUID        `json:"iteration_id,omitempty"`
	DisplayTitle      string            `json:"display_title"`
	DetailedTitle     string            `json:"detailed_title"`
	Link              string            `json:"link"`
	ApplicationType   ApplicationType   `json:"application_type,omitempty"`
	ApplicationStatus ApplicationStatus `json:"application_status,omitempty"`
	IsShared          bool              `json:"is_shared,omitempty"`
}

// VersionTree maps version labels ("1.0", "1.1", "2.0", ...) to entries.
// Append-only: keys are never removed, only "(latest)" suffixes move.
type VersionTree map[string]VersionTreeEntry

func (v VersionTree) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (v *VersionTree) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, v)
}
