// internal/store/application_store.go
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/utils"
)

const uniqueViolation = "23505"

type applicationStore struct {
	db *gorm.DB
}

// NewApplicationStore builds the gorm-backed application store.
func NewApplicationStore(db *gorm.DB) ApplicationStore {
	return &applicationStore{db: db}
}

func (s *applicationStore) Get(id uuid.UUID) (*models.DataAccessRequest, error) {
	var app models.DataAccessRequest
	if err := s.db.First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("application", id.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &app, nil
}

func (s *applicationStore) Save(app *models.DataAccessRequest) error {
	if err := s.db.Save(app).Error; err != nil {
		return mapWriteError("application", app.ID.String(), err)
	}
	return nil
}

func (s *applicationStore) FindByDatasetID(datasetID string) ([]models.DataAccessRequest, error) {
	var apps []models.DataAccessRequest
	if err := s.db.Where("? = ANY(dataset_ids)", datasetID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}
	return apps, nil
}

func (s *applicationStore) Search(params ApplicationSearchParams) ([]models.DataAccessRequest, int64, error) {
	query := s.db.Model(&models.DataAccessRequest{})

	if params.PublisherID != nil {
		query = query.Where("publisher_id = ?", *params.PublisherID)
	}
	if params.ApplicantID != nil {
		query = query.Where("applicant_id = ?", *params.ApplicantID)
	}
	if params.Status != nil {
		query = query.Where("application_status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "date_submitted", "application_status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var apps []models.DataAccessRequest
	if err := query.Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}
	return apps, total, nil
}

// mapWriteError converts driver-level failures into the core error taxonomy.
func mapWriteError(entity, id string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return apperrors.NewConflictError(entity, id, pqErr.Detail)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(entity, id)
	}
	return fmt.Errorf("failed to save %s: %w", entity, err)
}
