package notify

import (
	"context"

	"github.com/labstack/gommon/log"
)

// LogRelay writes every notification to the application log.
type LogRelay struct{}

func (LogRelay) Publish(_ context.Context, n Notification) {
	if n.Outcome == Failure {
		log.Errorf("%s %s failed (record=%s user=%s): %s: %v", n.Entity, n.Action, n.RecordID, n.UserID, n.Message, n.Err)
		return
	}
	log.Infof("%s %s succeeded (record=%s user=%s): %s", n.Entity, n.Action, n.RecordID, n.UserID, n.Message)
}
