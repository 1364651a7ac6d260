package service

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/notify"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"io"
)

// Mutation is returned by create and update calls: the message to show the
// user and the stored record.
type Mutation[T any] struct {
	Message string `json:"message"`
	Record  T      `json:"record,omitempty"`
}

// Ack is returned by calls that leave nothing to show but a message.
type Ack struct {
	Message string `json:"message"`
}

// OptionResponse feeds the related-record selectors of the forms.
type OptionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// recorder relays the outcome of each storage call for one record type and
// turns failures into the generic per-operation error.
type recorder struct {
	relay    notify.Relay
	entity   string
	messages notify.Messages
}

func newRecorder(relay notify.Relay, entity, plural string) recorder {
	return recorder{relay: relay, entity: entity, messages: notify.MessagesFor(entity, plural)}
}

func (r recorder) ok(ctx context.Context, sess auth.Session, action, recordID, message string) string {
	r.relay.Publish(ctx, notify.Notification{
		Entity:   r.entity,
		Action:   action,
		Outcome:  notify.Success,
		Message:  message,
		RecordID: recordID,
		UserID:   sess.UserID,
	})
	return message
}

func (r recorder) fail(ctx context.Context, sess auth.Session, action, recordID, message string, err error) apierror.ErrorResponse {
	r.relay.Publish(ctx, notify.Notification{
		Entity:   r.entity,
		Action:   action,
		Outcome:  notify.Failure,
		Message:  message,
		RecordID: recordID,
		UserID:   sess.UserID,
		Err:      err,
	})
	return apierror.NewOperationFailed(message)
}

func (r recorder) notFound() apierror.ErrorResponse {
	return apierror.NewNotFound(r.messages.NotFound)
}

// BlobStore holds document contents by path.
type BlobStore interface {
	Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}
