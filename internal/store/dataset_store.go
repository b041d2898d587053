// internal/store/dataset_store.go
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/datasets"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

type datasetStore struct {
	db *gorm.DB
}

// NewDatasetStore builds the gorm-backed dataset store.
func NewDatasetStore(db *gorm.DB) DatasetStore {
	return &datasetStore{db: db}
}

func (s *datasetStore) Get(id uuid.UUID) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := s.db.First(&dataset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("dataset", id.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &dataset, nil
}

func (s *datasetStore) Save(dataset *models.Dataset) error {
	if err := s.db.Save(dataset).Error; err != nil {
		return mapWriteError("dataset", dataset.ID.String(), err)
	}
	return nil
}

func (s *datasetStore) FindActiveByPID(pid string) (*models.Dataset, error) {
	var dataset models.Dataset
	err := s.db.Where("pid = ? AND active_flag = ?", pid, models.ActiveFlagActive).
		First(&dataset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("dataset", pid)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &dataset, nil
}

func (s *datasetStore) FindSiblingsByPID(pid string) ([]models.Dataset, error) {
	var datasets []models.Dataset
	if err := s.db.Where("pid = ?", pid).
		Order("created_at ASC").
		Find(&datasets).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch dataset versions: %w", err)
	}
	return datasets, nil
}

// LatestVersionForPID compares the version strings themselves rather than
// insertion order, so a backfilled older record never shadows the newest
// version.
func (s *datasetStore) LatestVersionForPID(pid string) (string, error) {
	var versions []string
	if err := s.db.Model(&models.Dataset{}).
		Where("pid = ?", pid).
		Pluck("dataset_version", &versions).Error; err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}
	if len(versions) == 0 {
		return "", apperrors.NewNotFoundError("dataset", pid)
	}

	latest := versions[0]
	for _, version := range versions[1:] {
		if cmp, err := datasets.CompareVersions(version, latest); err == nil && cmp > 0 {
			latest = version
		}
	}
	return latest, nil
}

// SaveQuality upserts by dataset version: recomputing a score replaces the
// previous row for the same dataset record.
func (s *datasetStore) SaveQuality(quality *models.MetadataQuality) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "dataset_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"publisher", "title", "weighted_quality_score",
			"weighted_completeness_percent", "weighted_error_percent",
			"weighted_quality_rating", "updated_at",
		}),
	}).Create(quality).Error
	if err != nil {
		return mapWriteError("metadata quality", quality.DatasetID.String(), err)
	}
	return nil
}
