package service

import (
	"clientdesk/cmd/internal/domain/database/repository"
	"clientdesk/cmd/internal/domain/entity"
	"clientdesk/cmd/internal/notify"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInquiryService(t *testing.T) (*DefaultContactInquiryService, *recordingRelay) {
	t.Helper()
	relay := &recordingRelay{}
	svc := NewContactInquiryService(repository.NewContactInquiryRepository(newTestDB(t)), newValidator(), relay)
	return svc, relay
}

func submit(t *testing.T, svc *DefaultContactInquiryService) *ContactInquiryResponse {
	t.Helper()
	ctx := context.Background()

	ack, apierr := svc.SubmitInquiry(ctx, &ContactInquiryRequest{
		Name:    "Sita Sharma",
		Email:   "sita@example.com",
		Subject: "Income tax",
		Message: "I need help filing my return.",
	})
	require.Nil(t, apierr)
	assert.Equal(t, "Message sent! We'll get back to you within 24 hours.", ack.Message)

	list, apierr := svc.GetInquiries(ctx, owner)
	require.Nil(t, apierr)
	require.NotEmpty(t, list)
	return list[0]
}

func TestSubmitInquiryStartsNew(t *testing.T) {
	svc, relay := newInquiryService(t)

	got := submit(t, svc)
	assert.Equal(t, entity.InquiryNew, got.Status)
	assert.Nil(t, got.RespondedAt)
	assert.Nil(t, got.Phone)
	assert.Equal(t, notify.ActionSubmit, relay.last().Action)
}

func TestMarkRespondedSetsTimestamp(t *testing.T) {
	svc, _ := newInquiryService(t)
	svc.now = func() time.Time { return time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	inquiry := submit(t, svc)

	ack, apierr := svc.MarkResponded(ctx, owner, inquiry.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "Inquiry marked as responded", ack.Message)

	got, apierr := svc.GetInquiry(ctx, owner, inquiry.ID)
	require.Nil(t, apierr)
	assert.Equal(t, entity.InquiryResponded, got.Status)
	require.NotNil(t, got.RespondedAt)
	assert.Equal(t, "2024-08-01T09:00:00Z", *got.RespondedAt)
}

func TestUpdateInquiryStatus(t *testing.T) {
	svc, _ := newInquiryService(t)
	ctx := context.Background()

	inquiry := submit(t, svc)

	_, apierr := svc.UpdateStatus(ctx, owner, inquiry.ID, &InquiryStatusRequest{Status: "in_progress"})
	require.Nil(t, apierr)

	got, apierr := svc.GetInquiry(ctx, owner, inquiry.ID)
	require.Nil(t, apierr)
	assert.Equal(t, entity.InquiryInProgress, got.Status)
	assert.Nil(t, got.RespondedAt)

	_, apierr = svc.UpdateStatus(ctx, owner, inquiry.ID, &InquiryStatusRequest{Status: "archived"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	_, apierr = svc.MarkResponded(ctx, owner, "missing")
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}

func TestReopeningInquiryClearsRespondedAt(t *testing.T) {
	svc, _ := newInquiryService(t)
	ctx := context.Background()

	inquiry := submit(t, svc)
	_, apierr := svc.MarkResponded(ctx, owner, inquiry.ID)
	require.Nil(t, apierr)

	for _, status := range []string{"new", "in_progress"} {
		_, apierr = svc.MarkResponded(ctx, owner, inquiry.ID)
		require.Nil(t, apierr)

		_, apierr = svc.UpdateStatus(ctx, owner, inquiry.ID, &InquiryStatusRequest{Status: status})
		require.Nil(t, apierr)

		got, apierr := svc.GetInquiry(ctx, owner, inquiry.ID)
		require.Nil(t, apierr)
		assert.Equal(t, status, got.Status)
		assert.Nil(t, got.RespondedAt, status)
	}
}

type brokenInquiryRepo struct {
	ContactInquiryRepository
}

func (brokenInquiryRepo) FindAll(context.Context) ([]*entity.ContactInquiry, error) {
	return nil, errors.New("connection reset")
}

func TestGetInquiriesFailureMessage(t *testing.T) {
	svc := NewContactInquiryService(brokenInquiryRepo{}, newValidator(), &recordingRelay{})

	_, apierr := svc.GetInquiries(context.Background(), owner)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusInternalServerError, apierr.Code())
	assert.Equal(t, "Error fetching contact inquiries", apierr.Error())
}

func TestSubmitInquiryValidation(t *testing.T) {
	svc, _ := newInquiryService(t)

	_, apierr := svc.SubmitInquiry(context.Background(), &ContactInquiryRequest{Name: "x", Email: "nope"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}
