package notify

import (
	"context"
	"strings"
	"time"
)

type Outcome string

const (
	Success Outcome = "success"
	Failure Outcome = "failure"
)

const (
	ActionFetch    = "fetch"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionUpload   = "upload"
	ActionDownload = "download"
	ActionRespond  = "respond"
	ActionSubmit   = "submit"
)

// Notification reports the outcome of one storage call. Message is the text
// shown to the user.
type Notification struct {
	Entity   string    `json:"entity"`
	Action   string    `json:"action"`
	Outcome  Outcome   `json:"outcome"`
	Message  string    `json:"message"`
	RecordID string    `json:"record_id,omitempty"`
	UserID   string    `json:"user_id,omitempty"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`

	Err error `json:"-"`
}

// Relay delivers notifications. Publish never blocks on delivery and never
// fails the caller.
type Relay interface {
	Publish(ctx context.Context, n Notification)
}

// Fanout publishes to every relay in order.
type Fanout []Relay

func (f Fanout) Publish(ctx context.Context, n Notification) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	if n.Err != nil && n.Error == "" {
		n.Error = n.Err.Error()
	}
	for _, r := range f {
		r.Publish(ctx, n)
	}
}

// Messages holds the user-facing text for one record type's CRUD calls.
type Messages struct {
	FetchFailed  string
	Created      string
	CreateFailed string
	Updated      string
	UpdateFailed string
	Deleted      string
	DeleteFailed string
	NotFound     string
}

// MessagesFor builds the stock messages, e.g. "Client created successfully"
// and "Error fetching clients".
func MessagesFor(singular, plural string) Messages {
	title := strings.ToUpper(singular[:1]) + singular[1:]
	return Messages{
		FetchFailed:  "Error fetching " + plural,
		Created:      title + " created successfully",
		CreateFailed: "Error creating " + singular,
		Updated:      title + " updated successfully",
		UpdateFailed: "Error updating " + singular,
		Deleted:      title + " deleted successfully",
		DeleteFailed: "Error deleting " + singular,
		NotFound:     title + " not found",
	}
}
