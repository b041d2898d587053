// internal/store/stores.go
package store

import (
	"github.com/google/uuid"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/utils"
)

// ApplicationStore persists data access request applications.
type ApplicationStore interface {
	Get(id uuid.UUID) (*models.DataAccessRequest, error)
	Save(app *models.DataAccessRequest) error
	FindByDatasetID(datasetID string) ([]models.DataAccessRequest, error)
	Search(params ApplicationSearchParams) ([]models.DataAccessRequest, int64, error)
}

// ApplicationSearchParams filters the custodian application list.
type ApplicationSearchParams struct {
	utils.PaginationParams
	PublisherID *uuid.UUID
	ApplicantID *uuid.UUID
	Status      *models.ApplicationStatus
}

// DatasetStore persists dataset version records and their quality scores.
type DatasetStore interface {
	Get(id uuid.UUID) (*models.Dataset, error)
	Save(dataset *models.Dataset) error
	FindActiveByPID(pid string) (*models.Dataset, error)
	FindSiblingsByPID(pid string) ([]models.Dataset, error)
	LatestVersionForPID(pid string) (string, error)
	SaveQuality(quality *models.MetadataQuality) error
}

// PublisherDirectory resolves publisher team rosters.
type PublisherDirectory interface {
	GetTeamForPublisher(publisherID uuid.UUID) (*models.Team, error)
}

// UserDirectory resolves platform users with their team memberships.
type UserDirectory interface {
	GetUser(id uuid.UUID) (*models.User, error)
}

// NotificationSink receives fire-and-forget notifications after state
// transitions. Implementations must never block the transition.
type NotificationSink interface {
	Notify(eventType models.EventType, context models.JSONB)
}

// ActivityLogSink appends state-change payloads for audit reconstruction.
type ActivityLogSink interface {
	Log(eventType models.EventType, payload models.JSONB) error
}
