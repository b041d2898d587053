// internal/store/directory_store.go
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

type publisherDirectory struct {
	db *gorm.DB
}

// NewPublisherDirectory builds the gorm-backed publisher team directory.
func NewPublisherDirectory(db *gorm.DB) PublisherDirectory {
	return &publisherDirectory{db: db}
}

func (d *publisherDirectory) GetTeamForPublisher(publisherID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := d.db.Where("publisher_id = ? AND type = ?", publisherID, models.TeamTypePublisher).
		First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("team", publisherID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &team, nil
}

type userDirectory struct {
	db *gorm.DB
}

// NewUserDirectory builds the gorm-backed user directory. Users are returned
// with their team memberships attached so the permission resolver can
// evaluate admin and custodian roles without further lookups.
func NewUserDirectory(db *gorm.DB) UserDirectory {
	return &userDirectory{db: db}
}

func (d *userDirectory) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user", id.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var teams []models.Team
	if err := d.db.Where("members @> ?", fmt.Sprintf(`[{"user_id": %q}]`, id)).
		Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user teams: %w", err)
	}
	user.Teams = teams
	return &user, nil
}
