// internal/models/dataset.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Dataset is one version record of a logical dataset. All versions of the
// same logical dataset share a PID; at most one record per PID is active.
type Dataset struct {
	BaseModel
	PID                   string             `json:"pid" gorm:"column:pid;type:varchar(64);not null;index"`
	Name                  string             `json:"name" gorm:"type:varchar(255)"`
	PublisherID           uuid.UUID          `json:"publisher_id" gorm:"type:uuid;index"`
	DatasetVersion        string             `json:"dataset_version" gorm:"type:varchar(20);not null"`
	ActiveFlag            ActiveFlag         `json:"activeflag" gorm:"type:varchar(20);default:'draft';index"`
	Counter               int                `json:"counter" gorm:"default:0"`
	DiscourseTopicID      int                `json:"discourse_topic_id" gorm:"default:0"`
	CommercialUse         bool               `json:"commercial_use" gorm:"default:false"`
	ApplicationStatusDesc string             `json:"application_status_desc,omitempty" gorm:"type:text"`
	DatasetV2             JSONB              `json:"datasetv2" gorm:"type:jsonb"`
	StructuralMetadata    StructuralMetadata `json:"structural_metadata" gorm:"type:jsonb"`
	Timestamps            DatasetTimestamps  `json:"timestamps" gorm:"embedded;embeddedPrefix:ts_"`
}

// EverSubmitted reports whether this record was ever sent for review. It
// decides where an archived record is restored to on unarchive.
func (d *Dataset) EverSubmitted() bool {
	return d.Timestamps.Submitted != nil
}

// DatasetTimestamps are the lifecycle stamps of one dataset version record.
type DatasetTimestamps struct {
	Submitted  *time.Time `json:"submitted,omitempty"`
	Published  *time.Time `json:"published,omitempty"`
	Rejected   *time.Time `json:"rejected,omitempty"`
	Archived   *time.Time `json:"archived,omitempty"`
	Unarchived *time.Time `json:"unarchived,omitempty"`
}

// TableMetadata describes one table of the dataset's structural metadata.
type TableMetadata struct {
	TableName   string           `json:"table_name"`
	Description string           `json:"description,omitempty"`
	Columns     []ColumnMetadata `json:"columns"`
}

// ColumnMetadata describes one column of a structural metadata table.
type ColumnMetadata struct {
	Name      string `json:"name"`
	DataType  string `json:"data_type"`
	Sensitive bool   `json:"sensitive"`
}

// StructuralMetadata is the table/column inventory, persisted as jsonb.
type StructuralMetadata []TableMetadata

func (s StructuralMetadata) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StructuralMetadata) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// MetadataQuality is the derived quality record for one dataset version.
// Recomputed on demand or on approval; never independently mutable.
type MetadataQuality struct {
	BaseModel
	PID                         string    `json:"pid" gorm:"column:pid;type:varchar(64);index"`
	DatasetID                   uuid.UUID `json:"dataset_id" gorm:"type:uuid;index"`
	Publisher                   string    `json:"publisher" gorm:"type:varchar(255)"`
	Title                       string    `json:"title" gorm:"type:varchar(255)"`
	WeightedQualityScore        float64   `json:"weighted_quality_score"`
	WeightedCompletenessPercent float64   `json:"weighted_completeness_percent"`
	WeightedErrorPercent        float64   `json:"weighted_error_percent"`
	WeightedQualityRating       string    `json:"weighted_quality_rating" gorm:"type:varchar(20)"`
}
