package service

import (
	"clientdesk/cmd/internal/domain/database/repository"
	"clientdesk/cmd/internal/domain/entity"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppointmentService(t *testing.T) *DefaultAppointmentService {
	t.Helper()
	return NewAppointmentService(repository.NewAppointmentRepository(newTestDB(t)), newValidator(), &recordingRelay{})
}

func TestCreateAppointmentDefaults(t *testing.T) {
	svc := newAppointmentService(t)

	created, apierr := svc.CreateAppointment(context.Background(), owner, &AppointmentRequest{
		Title:           "Tax consultation",
		AppointmentDate: "2024-09-03T10:30",
		DurationMinutes: "",
	})
	require.Nil(t, apierr)

	got := created.Record
	assert.Equal(t, "Appointment created successfully", created.Message)
	assert.Equal(t, "2024-09-03T10:30:00Z", got.AppointmentDate)
	assert.Equal(t, "2024-09-03T11:30:00Z", got.EndsAt)
	assert.Equal(t, entity.DefaultAppointmentMinutes, got.DurationMinutes)
	assert.Equal(t, entity.AppointmentScheduled, got.Status)
	assert.Nil(t, got.ClientID)
}

func TestCreateAppointmentRejectsBadDate(t *testing.T) {
	svc := newAppointmentService(t)

	_, apierr := svc.CreateAppointment(context.Background(), owner, &AppointmentRequest{
		Title:           "Tax consultation",
		AppointmentDate: "next tuesday",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestAppointmentsAreSoonestFirst(t *testing.T) {
	svc := newAppointmentService(t)
	ctx := context.Background()

	for _, at := range []string{"2024-10-20T09:00:00Z", "2024-10-01T09:00:00+05:45", "2024-11-02T15:00"} {
		_, apierr := svc.CreateAppointment(ctx, owner, &AppointmentRequest{Title: at, AppointmentDate: at, DurationMinutes: "45"})
		require.Nil(t, apierr)
	}

	list, apierr := svc.GetAppointments(ctx, owner)
	require.Nil(t, apierr)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-10-01T03:15:00Z", list[0].AppointmentDate)
	assert.Equal(t, "2024-10-20T09:00:00Z", list[1].AppointmentDate)
	assert.Equal(t, "2024-11-02T15:00:00Z", list[2].AppointmentDate)
	assert.Equal(t, 45, list[0].DurationMinutes)

	october := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	calendar, apierr := svc.GetCalendar(ctx, owner, october, october.AddDate(0, 1, 0))
	require.Nil(t, apierr)
	require.Len(t, calendar.ScheduledDays, 2)
	assert.Equal(t, "2024-10-01T04:00:00Z", calendar.ScheduledDays[0].EndsAt)

	calendar, apierr = svc.GetCalendar(ctx, stranger, october, october.AddDate(0, 1, 0))
	require.Nil(t, apierr)
	assert.Empty(t, calendar.ScheduledDays)
}

func TestUpdateAndDeleteAppointment(t *testing.T) {
	svc := newAppointmentService(t)
	ctx := context.Background()

	created, apierr := svc.CreateAppointment(ctx, owner, &AppointmentRequest{
		Title:           "Review",
		Location:        "Office",
		AppointmentDate: "2024-09-03T10:30:00Z",
	})
	require.Nil(t, apierr)
	id := created.Record.ID

	updated, apierr := svc.UpdateAppointment(ctx, owner, id, &AppointmentRequest{
		Title:           "Review",
		AppointmentDate: "2024-09-04T10:30:00Z",
		Status:          "rescheduled",
	})
	require.Nil(t, apierr)
	require.NotNil(t, updated.Record)
	assert.Equal(t, entity.AppointmentRescheduled, updated.Record.Status)
	assert.Nil(t, updated.Record.Location)

	_, apierr = svc.DeleteAppointment(ctx, owner, id)
	require.Nil(t, apierr)

	_, apierr = svc.GetAppointment(ctx, owner, id)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}
