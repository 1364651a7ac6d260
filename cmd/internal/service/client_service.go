package service

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/domain/entity"
	"clientdesk/cmd/internal/notify"
	"clientdesk/cmd/internal/utils"
	"clientdesk/cmd/internal/utils/apierror"
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type ClientRepository interface {
	FindAll(ctx context.Context, ownerID string) ([]*entity.Client, error)
	FindOptions(ctx context.Context, ownerID string) ([]*entity.Client, error)
	FindByID(ctx context.Context, id, ownerID string) (*entity.Client, error)
	Create(ctx context.Context, client *entity.Client) error
	Update(ctx context.Context, id, ownerID string, client *entity.Client) (bool, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

type ClientRequest struct {
	Name               string `json:"name" form:"name" validate:"required,max=200"`
	Email              string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	Phone              string `json:"phone" form:"phone" validate:"omitempty,max=32"`
	Address            string `json:"address" form:"address" validate:"omitempty,max=500"`
	City               string `json:"city" form:"city" validate:"omitempty,max=100"`
	ClientType         string `json:"client_type" form:"client_type" validate:"omitempty,oneof=individual business organization"`
	PanNumber          string `json:"pan_number" form:"pan_number" validate:"omitempty,max=32"`
	RegistrationNumber string `json:"registration_number" form:"registration_number" validate:"omitempty,max=64"`
	Notes              string `json:"notes" form:"notes" validate:"omitempty,max=5000"`
}

type ClientResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	Address            *string `json:"address"`
	City               *string `json:"city"`
	ClientType         string  `json:"client_type"`
	PanNumber          *string `json:"pan_number"`
	RegistrationNumber *string `json:"registration_number"`
	Notes              *string `json:"notes"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

type DefaultClientService struct {
	ClientRepo ClientRepository
	Validate   *validator.Validate
	rec        recorder
}

func NewClientService(clientRepo ClientRepository, validate *validator.Validate, relay notify.Relay) *DefaultClientService {
	return &DefaultClientService{
		ClientRepo: clientRepo,
		Validate:   validate,
		rec:        newRecorder(relay, "client", "clients"),
	}
}

func (s *DefaultClientService) GetClients(ctx context.Context, sess auth.Session) ([]*ClientResponse, apierror.ErrorResponse) {
	clients, err := s.ClientRepo.FindAll(ctx, sess.UserID)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionFetch, "", s.rec.messages.FetchFailed, err)
	}

	resp := make([]*ClientResponse, len(clients))
	for i, client := range clients {
		resp[i] = toClientResponse(client)
	}
	return resp, nil
}

func (s *DefaultClientService) GetClientOptions(ctx context.Context, sess auth.Session) ([]*OptionResponse, apierror.ErrorResponse) {
	clients, err := s.ClientRepo.FindOptions(ctx, sess.UserID)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionFetch, "", s.rec.messages.FetchFailed, err)
	}

	resp := make([]*OptionResponse, len(clients))
	for i, client := range clients {
		resp[i] = &OptionResponse{ID: client.ID, Name: client.Name}
	}
	return resp, nil
}

func (s *DefaultClientService) GetClient(ctx context.Context, sess auth.Session, id string) (*ClientResponse, apierror.ErrorResponse) {
	client, err := s.ClientRepo.FindByID(ctx, id, sess.UserID)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionFetch, id, s.rec.messages.FetchFailed, err)
	}
	if client == nil {
		return nil, s.rec.notFound()
	}
	return toClientResponse(client), nil
}

func (s *DefaultClientService) CreateClient(ctx context.Context, sess auth.Session, req *ClientRequest) (*Mutation[*ClientResponse], apierror.ErrorResponse) {
	client, apierr := s.fromRequest(req)
	if apierr != nil {
		return nil, apierr
	}
	client.UserID = sess.UserID

	if err := s.ClientRepo.Create(ctx, client); err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionCreate, "", s.rec.messages.CreateFailed, err)
	}

	msg := s.rec.ok(ctx, sess, notify.ActionCreate, client.ID, s.rec.messages.Created)
	return &Mutation[*ClientResponse]{Message: msg, Record: toClientResponse(client)}, nil
}

func (s *DefaultClientService) UpdateClient(ctx context.Context, sess auth.Session, id string, req *ClientRequest) (*Mutation[*ClientResponse], apierror.ErrorResponse) {
	client, apierr := s.fromRequest(req)
	if apierr != nil {
		return nil, apierr
	}

	found, err := s.ClientRepo.Update(ctx, id, sess.UserID, client)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionUpdate, id, s.rec.messages.UpdateFailed, err)
	}
	if !found {
		return nil, s.rec.notFound()
	}

	msg := s.rec.ok(ctx, sess, notify.ActionUpdate, id, s.rec.messages.Updated)
	resp := &Mutation[*ClientResponse]{Message: msg}
	if updated, err := s.ClientRepo.FindByID(ctx, id, sess.UserID); err != nil {
		log.Warnf("client %s updated but could not be re-read: %v", id, err)
	} else if updated != nil {
		resp.Record = toClientResponse(updated)
	}
	return resp, nil
}

// DeleteClient does not touch the client's services, appointments or
// documents; the store decides whether dangling references are allowed.
func (s *DefaultClientService) DeleteClient(ctx context.Context, sess auth.Session, id string) (*Ack, apierror.ErrorResponse) {
	found, err := s.ClientRepo.Delete(ctx, id, sess.UserID)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionDelete, id, s.rec.messages.DeleteFailed, err)
	}
	if !found {
		return nil, s.rec.notFound()
	}
	return &Ack{Message: s.rec.ok(ctx, sess, notify.ActionDelete, id, s.rec.messages.Deleted)}, nil
}

func (s *DefaultClientService) fromRequest(req *ClientRequest) (*entity.Client, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	return &entity.Client{
		Name:               req.Name,
		Email:              utils.NullableString(req.Email),
		Phone:              utils.NullableString(req.Phone),
		Address:            utils.NullableString(req.Address),
		City:               utils.NullableString(req.City),
		ClientType:         utils.OrDefault(req.ClientType, entity.ClientIndividual),
		PanNumber:          utils.NullableString(req.PanNumber),
		RegistrationNumber: utils.NullableString(req.RegistrationNumber),
		Notes:              utils.NullableString(req.Notes),
	}, nil
}

func toClientResponse(client *entity.Client) *ClientResponse {
	return &ClientResponse{
		ID:                 client.ID,
		Name:               client.Name,
		Email:              client.Email,
		Phone:              client.Phone,
		Address:            client.Address,
		City:               client.City,
		ClientType:         client.ClientType,
		PanNumber:          client.PanNumber,
		RegistrationNumber: client.RegistrationNumber,
		Notes:              client.Notes,
		CreatedAt:          utils.FormatTime(client.CreatedAt),
		UpdatedAt:          utils.FormatTime(client.UpdatedAt),
	}
}
