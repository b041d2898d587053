// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums

// ApplicationStatus is the lifecycle status of a data access request.
type ApplicationStatus string

const (
	ApplicationStatusInProgress    ApplicationStatus = "inProgress"
	ApplicationStatusSubmitted     ApplicationStatus = "submitted"
	ApplicationStatusInReview      ApplicationStatus = "inReview"
	ApplicationStatusApproved      ApplicationStatus = "approved"
	ApplicationStatusRejected      ApplicationStatus = "rejected"
	ApplicationStatusApprovedConds ApplicationStatus = "approved with conditions"
	ApplicationStatusWithdrawn     ApplicationStatus = "withdrawn"
)

// ApplicationType distinguishes a first submission from a full resubmission
// that opens a new major version.
type ApplicationType string

const (
	ApplicationTypeInitial      ApplicationType = "initial"
	ApplicationTypeResubmission ApplicationType = "resubmission"
)

// ActiveFlag is the onboarding status of one dataset version record.
type ActiveFlag string

const (
	ActiveFlagDraft    ActiveFlag = "draft"
	ActiveFlagInReview ActiveFlag = "inReview"
	ActiveFlagActive   ActiveFlag = "active"
	ActiveFlagRejected ActiveFlag = "rejected"
	ActiveFlagArchive  ActiveFlag = "archive"
)

// UserType is the effective role the permission resolver computes for a user
// against a given application or dataset.
type UserType string

const (
	UserTypeAdmin          UserType = "admin"
	UserTypeMetadataEditor UserType = "metadataEditor"
	UserTypeManager        UserType = "manager"
	UserTypeApplicant      UserType = "applicant"
	UserTypeReviewer       UserType = "reviewer"
	UserTypeNone           UserType = ""
)

// TeamRole is a role held inside a publisher team membership.
type TeamRole string

const (
	TeamRoleAdminDataset   TeamRole = "admin_dataset"
	TeamRoleAdminDAR       TeamRole = "admin_data_use"
	TeamRoleManager        TeamRole = "manager"
	TeamRoleMetadataEditor TeamRole = "metadata_editor"
	TeamRoleReviewer       TeamRole = "reviewer"
)

// TeamType separates the platform admin team from publisher teams.
type TeamType string

const (
	TeamTypeAdmin     TeamType = "admin"
	TeamTypePublisher TeamType = "publisher"
)

// ReviewStatus is a derived label describing where a workflow sits; it is
// surfaced alongside, never instead of, the ApplicationStatus.
type ReviewStatus string

const (
	ReviewStatusNotStarted            ReviewStatus = "Review not started"
	ReviewStatusInProgress            ReviewStatus = "In review"
	ReviewStatusFinalDecisionRequired ReviewStatus = "Final decision required"
)

// VersionBump selects how the semantic dataset version is incremented when a
// new version record is created for an existing pid.
type VersionBump string

const (
	VersionBumpMajor VersionBump = "major"
	VersionBumpMinor VersionBump = "minor"
	VersionBumpPatch VersionBump = "patch"
)
