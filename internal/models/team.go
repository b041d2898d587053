// internal/models/team.go
package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// Publisher is a data custodian organisation that owns datasets and reviews
// data access requests against them.
type Publisher struct {
	BaseModel
	Name        string `json:"name" gorm:"type:varchar(255);not null"`
	AllowsMessaging bool `json:"allows_messaging" gorm:"default:false"`
	Uses5Safes  bool   `json:"uses_5_safes" gorm:"default:false"`
}

// Team is the membership roster attached to a publisher (or the platform
// admin team, which has no publisher).
type Team struct {
	BaseModel
	PublisherID *uuid.UUID  `json:"publisher_id,omitempty" gorm:"type:uuid;index"`
	Type        TeamType    `json:"type" gorm:"type:varchar(20);default:'publisher'"`
	Members     TeamMembers `json:"members" gorm:"type:jsonb"`
}

// MemberFor returns the membership entry for the user, or nil.
func (t *Team) MemberFor(userID uuid.UUID) *TeamMember {
	if t == nil {
		return nil
	}
	for i := range t.Members {
		if t.Members[i].UserID == userID {
			return &t.Members[i]
		}
	}
	return nil
}

// TeamMember is one user's membership in a team with its assigned roles.
type TeamMember struct {
	UserID uuid.UUID  `json:"user_id"`
	Roles  []TeamRole `json:"roles"`
}

// HasRole reports whether the membership carries the given role.
func (m *TeamMember) HasRole(role TeamRole) bool {
	if m == nil {
		return false
	}
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TeamMembers is the roster, persisted as jsonb.
type TeamMembers []TeamMember

func (t TeamMembers) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *TeamMembers) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, t)
}

// User is a platform user as the user directory reports it. Teams carries
// the memberships the permission resolver evaluates.
type User struct {
	BaseModel
	Firstname string `json:"firstname" gorm:"type:varchar(100)"`
	Lastname  string `json:"lastname" gorm:"type:varchar(100)"`
	Email     string `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	Teams     []Team `json:"teams,omitempty" gorm:"-"`
}
