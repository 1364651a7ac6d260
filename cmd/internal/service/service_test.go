package service

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/domain/database"
	"clientdesk/cmd/internal/notify"
	"clientdesk/cmd/internal/utils/validators"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	owner    = auth.Session{UserID: "staff-1", Email: "staff@example.com"}
	stranger = auth.Session{UserID: "staff-2", Email: "other@example.com"}
)

type recordingRelay struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (r *recordingRelay) Publish(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingRelay) last() notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.got) == 0 {
		return notify.Notification{}
	}
	return r.got[len(r.got)-1]
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newValidator() *validator.Validate {
	return validators.New()
}

func strPtr(s string) *string { return &s }
