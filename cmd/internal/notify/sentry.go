package notify

import (
	"context"

	"clientdesk/cmd/internal/monitoring"
)

// SentryRelay reports failed operations that carry an error.
type SentryRelay struct{}

func (SentryRelay) Publish(_ context.Context, n Notification) {
	if n.Outcome != Failure || n.Err == nil {
		return
	}
	monitoring.CaptureError(n.Err, map[string]any{
		"entity":    n.Entity,
		"action":    n.Action,
		"message":   n.Message,
		"record_id": n.RecordID,
		"user_id":   n.UserID,
	})
}

// MetricsRelay counts every notification.
type MetricsRelay struct{}

func (MetricsRelay) Publish(_ context.Context, n Notification) {
	monitoring.GatewayOperations.WithLabelValues(n.Entity, n.Action, string(n.Outcome)).Inc()
}
