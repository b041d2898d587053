// internal/services/dataset_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/datasets"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/obs"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/permissions"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/quality"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/store"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/utils"
)

// DatasetService orchestrates the dataset version lifecycle: drafting,
// review, activation with sibling archival, and quality scoring.
type DatasetService struct {
	datasets   store.DatasetStore
	users      store.UserDirectory
	resolver   *permissions.Resolver
	dispatcher dispatcher
	now        func() time.Time
}

type CreateDraftRequest struct {
	PID                string                 `json:"pid,omitempty" validate:"omitempty,pid"`
	Name               string                 `json:"name" validate:"required,min=2,max=255"`
	PublisherID        uuid.UUID              `json:"publisher_id" validate:"required"`
	VersionBump        models.VersionBump     `json:"version_bump,omitempty" validate:"omitempty,oneof=major minor patch"`
	DatasetV2          map[string]interface{} `json:"datasetv2,omitempty"`
	StructuralMetadata models.StructuralMetadata `json:"structural_metadata,omitempty"`
}

type RejectDatasetRequest struct {
	Reason string `json:"reason" validate:"required,min=2"`
}

func NewDatasetService(
	datasetStore store.DatasetStore,
	users store.UserDirectory,
	resolver *permissions.Resolver,
	notifications store.NotificationSink,
	activityLog store.ActivityLogSink,
) *DatasetService {
	return &DatasetService{
		datasets:   datasetStore,
		users:      users,
		resolver:   resolver,
		dispatcher: dispatcher{notifications: notifications, activityLog: activityLog},
		now:        time.Now,
	}
}

// CreateDraft opens a new draft version record. A fresh pid starts at 1.0.0;
// an existing pid gets the latest version bumped by the requested level.
func (s *DatasetService) CreateDraft(userID uuid.UUID, req *CreateDraftRequest) (*models.Dataset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	pid := req.PID
	version := "1.0.0"
	if pid == "" {
		pid = uuid.New().String()
	} else {
		latest, err := s.datasets.LatestVersionForPID(pid)
		switch {
		case err == nil:
			version, err = datasets.IncrementVersion(latest, req.VersionBump)
			if err != nil {
				return nil, err
			}
		case apperrors.IsNotFound(err):
			// first version record under this pid
		default:
			return nil, err
		}
	}

	dataset := &models.Dataset{
		PID:                pid,
		Name:               req.Name,
		PublisherID:        req.PublisherID,
		DatasetVersion:     version,
		ActiveFlag:         models.ActiveFlagDraft,
		DatasetV2:          models.JSONB(req.DatasetV2),
		StructuralMetadata: req.StructuralMetadata,
	}
	dataset.ID = uuid.New()

	if err := s.requireMetadataRole(userID, dataset, "create draft"); err != nil {
		return nil, err
	}
	if err := s.datasets.Save(dataset); err != nil {
		return nil, err
	}
	s.dispatcher.emit("dataset", models.EventDatasetDraftCreated, models.JSONB{
		"dataset_id": dataset.ID.String(),
		"pid":        dataset.PID,
		"version":    dataset.DatasetVersion,
	})
	return dataset, nil
}

// SubmitForReview moves a draft into review and logs the answer-level diff
// against the currently active sibling so reviewers see what changed.
func (s *DatasetService) SubmitForReview(datasetID, userID uuid.UUID) (*models.Dataset, error) {
	dataset, err := s.datasets.Get(datasetID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMetadataRole(userID, dataset, "submit dataset"); err != nil {
		return nil, err
	}

	if err := datasets.Submit(dataset, s.now()); err != nil {
		obs.RecordTransitionFailure("dataset", string(models.EventDatasetSubmitted))
		return nil, err
	}
	if err := s.datasets.Save(dataset); err != nil {
		return nil, err
	}

	payload := models.JSONB{
		"dataset_id": dataset.ID.String(),
		"pid":        dataset.PID,
		"version":    dataset.DatasetVersion,
	}
	if active, err := s.datasets.FindActiveByPID(dataset.PID); err == nil {
		if diff := datasets.Diff(dataset.DatasetV2, active.DatasetV2); len(diff) > 0 {
			payload["changes"] = diff
		}
	}
	s.dispatcher.emit("dataset", models.EventDatasetSubmitted, payload)
	return dataset, nil
}

// ApproveDataset activates an inReview record, archiving the previously
// active sibling first so at most one record per pid is ever active, then
// recomputes and persists the metadata quality score.
func (s *DatasetService) ApproveDataset(datasetID, userID uuid.UUID) (*models.Dataset, error) {
	dataset, err := s.datasets.Get(datasetID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAdmin(userID, dataset, "approve dataset"); err != nil {
		return nil, err
	}

	activeSibling, err := s.datasets.FindActiveByPID(dataset.PID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}

	now := s.now()
	if err := datasets.Approve(dataset, activeSibling, now); err != nil {
		obs.RecordTransitionFailure("dataset", string(models.EventDatasetApproved))
		return nil, err
	}

	// archive-old-then-activate-new write ordering: a crash between the two
	// writes leaves zero active records, never two
	if activeSibling != nil {
		if err := s.datasets.Save(activeSibling); err != nil {
			return nil, err
		}
	}
	if err := s.datasets.Save(dataset); err != nil {
		return nil, err
	}

	metadataQuality := quality.BuildMetadataQuality(dataset)
	obs.ObserveQualityScore(metadataQuality.WeightedQualityScore)
	if err := s.datasets.SaveQuality(metadataQuality); err != nil {
		return nil, err
	}

	s.dispatcher.emit("dataset", models.EventDatasetApproved, models.JSONB{
		"dataset_id":     dataset.ID.String(),
		"pid":            dataset.PID,
		"version":        dataset.DatasetVersion,
		"quality_score":  metadataQuality.WeightedQualityScore,
		"quality_rating": metadataQuality.WeightedQualityRating,
	})
	return dataset, nil
}

// RejectDataset turns an inReview record down with a reason.
func (s *DatasetService) RejectDataset(datasetID, userID uuid.UUID, req *RejectDatasetRequest) (*models.Dataset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	dataset, err := s.datasets.Get(datasetID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAdmin(userID, dataset, "reject dataset"); err != nil {
		return nil, err
	}

	if err := datasets.Reject(dataset, req.Reason, s.now()); err != nil {
		obs.RecordTransitionFailure("dataset", string(models.EventDatasetRejected))
		return nil, err
	}
	if err := s.datasets.Save(dataset); err != nil {
		return nil, err
	}
	s.dispatcher.emit("dataset", models.EventDatasetRejected, models.JSONB{
		"dataset_id": dataset.ID.String(),
		"pid":        dataset.PID,
		"reason":     req.Reason,
	})
	return dataset, nil
}

// ArchiveDataset retires an active record.
func (s *DatasetService) ArchiveDataset(datasetID, userID uuid.UUID) (*models.Dataset, error) {
	dataset, err := s.datasets.Get(datasetID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMetadataRole(userID, dataset, "archive dataset"); err != nil {
		return nil, err
	}

	if err := datasets.Archive(dataset, s.now()); err != nil {
		obs.RecordTransitionFailure("dataset", string(models.EventDatasetArchived))
		return nil, err
	}
	if err := s.datasets.Save(dataset); err != nil {
		return nil, err
	}
	s.dispatcher.emit("dataset", models.EventDatasetArchived, models.JSONB{
		"dataset_id": dataset.ID.String(),
		"pid":        dataset.PID,
	})
	return dataset, nil
}

// UnarchiveDataset restores an archived record to active or draft depending
// on whether it was ever submitted.
func (s *DatasetService) UnarchiveDataset(datasetID, userID uuid.UUID) (*models.Dataset, error) {
	dataset, err := s.datasets.Get(datasetID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMetadataRole(userID, dataset, "unarchive dataset"); err != nil {
		return nil, err
	}

	if dataset.EverSubmitted() {
		// restoring to active must not break the single-active invariant
		if active, err := s.datasets.FindActiveByPID(dataset.PID); err == nil && active.ID != dataset.ID {
			return nil, apperrors.NewConflictError("dataset", dataset.PID, "another version is already active")
		}
	}
	if err := datasets.Unarchive(dataset, s.now()); err != nil {
		obs.RecordTransitionFailure("dataset", string(models.EventDatasetUnarchived))
		return nil, err
	}
	if err := s.datasets.Save(dataset); err != nil {
		return nil, err
	}
	s.dispatcher.emit("dataset", models.EventDatasetUnarchived, models.JSONB{
		"dataset_id": dataset.ID.String(),
		"pid":        dataset.PID,
		"activeflag": string(dataset.ActiveFlag),
	})
	return dataset, nil
}

// ScoreMetadata recomputes the quality record for a dataset version on
// demand, without touching its lifecycle state.
func (s *DatasetService) ScoreMetadata(datasetID uuid.UUID) (*models.MetadataQuality, error) {
	dataset, err := s.datasets.Get(datasetID)
	if err != nil {
		return nil, err
	}
	metadataQuality := quality.BuildMetadataQuality(dataset)
	obs.ObserveQualityScore(metadataQuality.WeightedQualityScore)
	if err := s.datasets.SaveQuality(metadataQuality); err != nil {
		return nil, err
	}
	return metadataQuality, nil
}

// requireAdmin admits platform admins only; approval and rejection are
// platform-level decisions, not custodian ones.
func (s *DatasetService) requireAdmin(userID uuid.UUID, dataset *models.Dataset, action string) error {
	result := s.resolveFor(userID, dataset)
	if !result.Authorised || result.UserType != models.UserTypeAdmin {
		return apperrors.NewNotAuthorisedError(userID.String(), action)
	}
	return nil
}

// requireMetadataRole admits admins, metadata editors and managers of the
// owning publisher.
func (s *DatasetService) requireMetadataRole(userID uuid.UUID, dataset *models.Dataset, action string) error {
	result := s.resolveFor(userID, dataset)
	if !result.Authorised {
		return apperrors.NewNotAuthorisedError(userID.String(), action)
	}
	switch result.UserType {
	case models.UserTypeAdmin, models.UserTypeMetadataEditor, models.UserTypeManager:
		return nil
	default:
		return apperrors.NewNotAuthorisedError(userID.String(), action)
	}
}

func (s *DatasetService) resolveFor(userID uuid.UUID, dataset *models.Dataset) permissions.Result {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return permissions.Result{}
	}
	id := dataset.ID
	return s.resolver.Resolve(user, permissions.Query{
		DatasetID:   &id,
		PublisherID: publisherRef(dataset.PublisherID),
	})
}
