// internal/store/sinks.go
package store

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

type notificationSink struct {
	db *gorm.DB
}

// NewNotificationSink builds a sink that persists notification rows. Failures
// are logged and swallowed; notification delivery must never fail a state
// transition.
func NewNotificationSink(db *gorm.DB) NotificationSink {
	return &notificationSink{db: db}
}

func (s *notificationSink) Notify(eventType models.EventType, context models.JSONB) {
	notification := &models.Notification{Type: eventType, Context: context}
	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).WithField("event_type", eventType).
			Warn("Failed to persist notification")
	}
}

type activityLogSink struct {
	db *gorm.DB
}

// NewActivityLogSink builds a sink that appends activity log rows.
func NewActivityLogSink(db *gorm.DB) ActivityLogSink {
	return &activityLogSink{db: db}
}

func (s *activityLogSink) Log(eventType models.EventType, payload models.JSONB) error {
	entry := &models.ActivityLog{EventType: eventType, Payload: payload}
	if err := s.db.Create(entry).Error; err != nil {
		return mapWriteError("activity log", string(eventType), err)
	}
	return nil
}
