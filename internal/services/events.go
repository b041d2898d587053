// internal/services/events.go
package services

import (
	"github.com/sirupsen/logrus"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/obs"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/store"
)

// dispatcher fans a state-transition event out to the sinks. The activity
// log is written synchronously (its failure is logged, never propagated);
// notifications go out on a goroutine that is never awaited.
type dispatcher struct {
	notifications store.NotificationSink
	activityLog   store.ActivityLogSink
}

func (d *dispatcher) emit(entity string, eventType models.EventType, payload models.JSONB) {
	obs.RecordTransition(entity, string(eventType))

	if d.activityLog != nil {
		if err := d.activityLog.Log(eventType, payload); err != nil {
			logrus.WithError(err).WithField("event_type", eventType).
				Error("Failed to append activity log entry")
		}
	}

	if d.notifications != nil {
		go d.notifications.Notify(eventType, payload)
	}
}
