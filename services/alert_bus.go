package services

import (
	"go.uber.org/zap"
)

// AlertBus records an alert in the audit trail and pushes it to any
// connected realtime clients. Safe to call from anywhere.
type AlertBus struct {
	activity *ActivityService
	hub      *RealtimeHub
	log      *zap.Logger
}

func NewAlertBus(activity *ActivityService, hub *RealtimeHub, log *zap.Logger) *AlertBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &AlertBus{activity: activity, hub: hub, log: log}
}

func (b *AlertBus) Emit(userID uint, typ, message string) {
	if b == nil {
		return
	}
	if b.activity != nil {
		if err := b.activity.Record(userID, "alert."+typ, message); err != nil {
			b.log.Warn("alert_record_failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	if b.hub != nil {
		b.hub.Broadcast(userID, map[string]any{
			"kind":    "alert",
			"type":    typ,
			"message": message,
		})
	}
}
