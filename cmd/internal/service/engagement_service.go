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

// EngagementRepository stores the services performed for clients.
type EngagementRepository interface {
	FindAll(ctx context.Context, ownerID string) ([]*entity.Service, error)
	FindOptions(ctx context.Context, ownerID string) ([]*entity.Service, error)
	FindByID(ctx context.Context, id, ownerID string) (*entity.Service, error)
	Create(ctx context.Context, svc *entity.Service) error
	Update(ctx context.Context, id, ownerID string, svc *entity.Service) (bool, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

type EngagementRequest struct {
	ClientID       string          `json:"client_id" form:"client_id" validate:"required,max=36"`
	ServiceName    string          `json:"service_name" form:"service_name" validate:"required,max=200"`
	Description    string          `json:"description" form:"description" validate:"omitempty,max=5000"`
	Status         string          `json:"status" form:"status" validate:"omitempty,oneof=pending in_progress completed on_hold"`
	StartDate      string          `json:"start_date" form:"start_date" validate:"omitempty,isodate"`
	DueDate        string          `json:"due_date" form:"due_date" validate:"omitempty,isodate"`
	CompletionDate string          `json:"completion_date" form:"completion_date" validate:"omitempty,isodate"`
	Amount         utils.FormValue `json:"amount" form:"amount"`
	Notes          string          `json:"notes" form:"notes" validate:"omitempty,max=5000"`
}

type EngagementResponse struct {
	ID             string   `json:"id"`
	ClientID       string   `json:"client_id"`
	ClientName     *string  `json:"client_name"`
	ServiceName    string   `json:"service_name"`
	Description    *string  `json:"description"`
	Status         string   `json:"status"`
	StartDate      *string  `json:"start_date"`
	DueDate        *string  `json:"due_date"`
	CompletionDate *string  `json:"completion_date"`
	Amount         *float64 `json:"amount"`
	Notes          *string  `json:"notes"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type DefaultEngagementService struct {
	EngagementRepo EngagementRepository
	Validate       *validator.Validate
	rec            recorder
}

func NewEngagementService(repo EngagementRepository, validate *validator.Validate, relay notify.Relay) *DefaultEngagementService {
	return &DefaultEngagementService{
		EngagementRepo: repo,
		Validate:       validate,
		rec:            newRecorder(relay, "service", "services"),
	}
}

func (s *DefaultEngagementService) GetServices(ctx context.Context, sess auth.Session) ([]*EngagementResponse, apierror.ErrorResponse) {
	svcs, err := s.EngagementRepo.FindAll(ctx, sess.UserID)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionFetch, "", s.rec.messages.FetchFailed, err)
	}

	resp := make([]*EngagementResponse, len(svcs))
	for i, svc := range svcs {
		resp[i] = toEngagementResponse(svc)
	}
	return resp, nil
}

func (s *DefaultEngagementService) GetServiceOptions(ctx context.Context, sess auth.Session) ([]*OptionResponse, apierror.ErrorResponse) {
	svcs, err := s.EngagementRepo.FindOptions(ctx, sess.UserID)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionFetch, "", s.rec.messages.FetchFailed, err)
	}

	resp := make([]*OptionResponse, len(svcs))
	for i, svc := range svcs {
		resp[i] = &OptionResponse{ID: svc.ID, Name: svc.ServiceName}
	}
	return resp, nil
}

func (s *DefaultEngagementService) GetService(ctx context.Context, sess auth.Session, id string) (*EngagementResponse, apierror.ErrorResponse) {
	svc, err := s.EngagementRepo.FindByID(ctx, id, sess.UserID)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionFetch, id, s.rec.messages.FetchFailed, err)
	}
	if svc == nil {
		return nil, s.rec.notFound()
	}
	return toEngagementResponse(svc), nil
}

func (s *DefaultEngagementService) CreateService(ctx context.Context, sess auth.Session, req *EngagementRequest) (*Mutation[*EngagementResponse], apierror.ErrorResponse) {
	svc, apierr := s.fromRequest(req)
	if apierr != nil {
		return nil, apierr
	}
	svc.UserID = sess.UserID

	if err := s.EngagementRepo.Create(ctx, svc); err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionCreate, "", s.rec.messages.CreateFailed, err)
	}

	msg := s.rec.ok(ctx, sess, notify.ActionCreate, svc.ID, s.rec.messages.Created)
	resp := &Mutation[*EngagementResponse]{Message: msg, Record: toEngagementResponse(svc)}
	if created, err := s.EngagementRepo.FindByID(ctx, svc.ID, sess.UserID); err == nil && created != nil {
		resp.Record = toEngagementResponse(created)
	}
	return resp, nil
}

func (s *DefaultEngagementService) UpdateService(ctx context.Context, sess auth.Session, id string, req *EngagementRequest) (*Mutation[*EngagementResponse], apierror.ErrorResponse) {
	svc, apierr := s.fromRequest(req)
	if apierr != nil {
		return nil, apierr
	}

	found, err := s.EngagementRepo.Update(ctx, id, sess.UserID, svc)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionUpdate, id, s.rec.messages.UpdateFailed, err)
	}
	if !found {
		return nil, s.rec.notFound()
	}

	msg := s.rec.ok(ctx, sess, notify.ActionUpdate, id, s.rec.messages.Updated)
	resp := &Mutation[*EngagementResponse]{Message: msg}
	if updated, err := s.EngagementRepo.FindByID(ctx, id, sess.UserID); err != nil {
		log.Warnf("service %s updated but could not be re-read: %v", id, err)
	} else if updated != nil {
		resp.Record = toEngagementResponse(updated)
	}
	return resp, nil
}

func (s *DefaultEngagementService) DeleteService(ctx context.Context, sess auth.Session, id string) (*Ack, apierror.ErrorResponse) {
	found, err := s.EngagementRepo.Delete(ctx, id, sess.UserID)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionDelete, id, s.rec.messages.DeleteFailed, err)
	}
	if !found {
		return nil, s.rec.notFound()
	}
	return &Ack{Message: s.rec.ok(ctx, sess, notify.ActionDelete, id, s.rec.messages.Deleted)}, nil
}

func (s *DefaultEngagementService) fromRequest(req *EngagementRequest) (*entity.Service, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	amount, err := utils.ParseAmount(string(req.Amount))
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("amount", "number")
	}
	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("start_date", "date")
	}
	due, err := utils.ParseDate(req.DueDate)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("due_date", "date")
	}
	completed, err := utils.ParseDate(req.CompletionDate)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("completion_date", "date")
	}

	return &entity.Service{
		ClientID:       req.ClientID,
		ServiceName:    req.ServiceName,
		Description:    utils.NullableString(req.Description),
		Status:         utils.OrDefault(req.Status, entity.ServicePending),
		StartDate:      start,
		DueDate:        due,
		CompletionDate: completed,
		Amount:         amount,
		Notes:          utils.NullableString(req.Notes),
	}, nil
}

func toEngagementResponse(svc *entity.Service) *EngagementResponse {
	resp := &EngagementResponse{
		ID:             svc.ID,
		ClientID:       svc.ClientID,
		ServiceName:    svc.ServiceName,
		Description:    svc.Description,
		Status:         svc.Status,
		StartDate:      utils.FormatDatePtr(svc.StartDate),
		DueDate:        utils.FormatDatePtr(svc.DueDate),
		CompletionDate: utils.FormatDatePtr(svc.CompletionDate),
		Amount:         svc.Amount,
		Notes:          svc.Notes,
		CreatedAt:      utils.FormatTime(svc.CreatedAt),
		UpdatedAt:      utils.FormatTime(svc.UpdatedAt),
	}
	if svc.Client != nil {
		resp.ClientName = &svc.Client.Name
	}
	return resp
}
