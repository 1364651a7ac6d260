package service

import (
	"clientdesk/cmd/internal/domain/database/repository"
	"clientdesk/cmd/internal/domain/entity"
	"clientdesk/cmd/internal/notify"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientService(t *testing.T) (*DefaultClientService, *recordingRelay) {
	t.Helper()
	relay := &recordingRelay{}
	return NewClientService(repository.NewClientRepository(newTestDB(t)), newValidator(), relay), relay
}

func TestCreateClientThenList(t *testing.T) {
	svc, relay := newClientService(t)
	ctx := context.Background()

	created, apierr := svc.CreateClient(ctx, owner, &ClientRequest{Name: "Acme Traders", ClientType: "business"})
	require.Nil(t, apierr)
	assert.Equal(t, "Client created successfully", created.Message)
	assert.Equal(t, notify.Success, relay.last().Outcome)
	assert.Equal(t, notify.ActionCreate, relay.last().Action)

	clients, apierr := svc.GetClients(ctx, owner)
	require.Nil(t, apierr)
	require.Len(t, clients, 1)

	got := clients[0]
	assert.Equal(t, created.Record.ID, got.ID)
	assert.Equal(t, "Acme Traders", got.Name)
	assert.Equal(t, entity.ClientBusiness, got.ClientType)
	assert.Nil(t, got.Email)
}

func TestCreateClientDefaultsType(t *testing.T) {
	svc, _ := newClientService(t)

	created, apierr := svc.CreateClient(context.Background(), owner, &ClientRequest{Name: "  Ram Bahadur  ", Email: ""})
	require.Nil(t, apierr)
	assert.Equal(t, "Ram Bahadur", created.Record.Name)
	assert.Equal(t, entity.ClientIndividual, created.Record.ClientType)
}

func TestCreateClientValidation(t *testing.T) {
	svc, relay := newClientService(t)

	_, apierr := svc.CreateClient(context.Background(), owner, &ClientRequest{Name: "", Email: "not-an-email", ClientType: "charity"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
	assert.Empty(t, relay.got)
}

func TestClientListIsNewestFirstAndOwnerScoped(t *testing.T) {
	svc, _ := newClientService(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second"} {
		_, apierr := svc.CreateClient(ctx, owner, &ClientRequest{Name: name})
		require.Nil(t, apierr)
	}
	_, apierr := svc.CreateClient(ctx, stranger, &ClientRequest{Name: "Not yours"})
	require.Nil(t, apierr)

	clients, apierr := svc.GetClients(ctx, owner)
	require.Nil(t, apierr)
	require.Len(t, clients, 2)
	assert.Equal(t, "Second", clients[0].Name)
	assert.Equal(t, "First", clients[1].Name)

	options, apierr := svc.GetClientOptions(ctx, owner)
	require.Nil(t, apierr)
	require.Len(t, options, 2)
	assert.Equal(t, "First", options[0].Name)
}

func TestUpdateClientNullsOmittedFields(t *testing.T) {
	svc, _ := newClientService(t)
	ctx := context.Background()

	created, apierr := svc.CreateClient(ctx, owner, &ClientRequest{
		Name:  "Himal Traders",
		Email: "info@himal.example",
		Phone: "01-4410000",
		City:  "Kathmandu",
	})
	require.Nil(t, apierr)
	id := created.Record.ID

	updated, apierr := svc.UpdateClient(ctx, owner, id, &ClientRequest{Name: "Himal Traders Pvt", City: "Lalitpur"})
	require.Nil(t, apierr)
	assert.Equal(t, "Client updated successfully", updated.Message)

	got, apierr := svc.GetClient(ctx, owner, id)
	require.Nil(t, apierr)
	assert.Equal(t, "Himal Traders Pvt", got.Name)
	assert.Equal(t, strPtr("Lalitpur"), got.City)
	assert.Nil(t, got.Email)
	assert.Nil(t, got.Phone)
	assert.Equal(t, created.Record.CreatedAt, got.CreatedAt)
}

func TestUpdateClientOfAnotherOwnerIsNotFound(t *testing.T) {
	svc, _ := newClientService(t)
	ctx := context.Background()

	created, apierr := svc.CreateClient(ctx, owner, &ClientRequest{Name: "Mine"})
	require.Nil(t, apierr)

	_, apierr = svc.UpdateClient(ctx, stranger, created.Record.ID, &ClientRequest{Name: "Stolen"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())

	_, apierr = svc.DeleteClient(ctx, stranger, created.Record.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())

	got, apierr := svc.GetClient(ctx, owner, created.Record.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "Mine", got.Name)
}

func TestDeleteClientRemovesItFromList(t *testing.T) {
	svc, _ := newClientService(t)
	ctx := context.Background()

	created, apierr := svc.CreateClient(ctx, owner, &ClientRequest{Name: "Short lived"})
	require.Nil(t, apierr)

	ack, apierr := svc.DeleteClient(ctx, owner, created.Record.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "Client deleted successfully", ack.Message)

	clients, apierr := svc.GetClients(ctx, owner)
	require.Nil(t, apierr)
	assert.Empty(t, clients)
}

type brokenClientRepo struct {
	ClientRepository
}

func (brokenClientRepo) FindAll(context.Context, string) ([]*entity.Client, error) {
	return nil, errors.New("connection reset")
}

func TestGetClientsFailureIsGeneric(t *testing.T) {
	relay := &recordingRelay{}
	svc := NewClientService(brokenClientRepo{}, newValidator(), relay)

	_, apierr := svc.GetClients(context.Background(), owner)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusInternalServerError, apierr.Code())
	assert.Equal(t, "Error fetching clients", apierr.Error())

	n := relay.last()
	assert.Equal(t, notify.Failure, n.Outcome)
	assert.EqualError(t, n.Err, "connection reset")
}
