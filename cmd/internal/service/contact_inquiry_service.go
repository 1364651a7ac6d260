package service

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/domain/entity"
	"clientdesk/cmd/internal/notify"
	"clientdesk/cmd/internal/utils"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	inquiryStatusFailed = "Error updating inquiry status"
	inquiryResponded    = "Inquiry marked as responded"
	inquiryStatusSet    = "Inquiry status updated"
	inquirySubmitted    = "Message sent! We'll get back to you within 24 hours."
	inquirySubmitFailed = "Error sending message. Please try again."
)

// ContactInquiryRepository is not owner-scoped: every staff user sees every
// inquiry sent from the public site.
type ContactInquiryRepository interface {
	FindAll(ctx context.Context) ([]*entity.ContactInquiry, error)
	FindByID(ctx context.Context, id string) (*entity.ContactInquiry, error)
	Create(ctx context.Context, inquiry *entity.ContactInquiry) error
	UpdateStatus(ctx context.Context, id, status string, respondedAt *time.Time) (bool, error)
}

type ContactInquiryRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=200"`
	Email   string `json:"email" form:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" form:"phone" validate:"omitempty,max=32"`
	Subject string `json:"subject" form:"subject" validate:"omitempty,max=300"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
}

type InquiryStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required,oneof=new in_progress responded"`
}

type ContactInquiryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	Subject     *string `json:"subject"`
	Message     string  `json:"message"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	RespondedAt *string `json:"responded_at"`
}

type DefaultContactInquiryService struct {
	InquiryRepo ContactInquiryRepository
	Validate    *validator.Validate
	rec         recorder
	now         func() time.Time
}

func NewContactInquiryService(repo ContactInquiryRepository, validate *validator.Validate, relay notify.Relay) *DefaultContactInquiryService {
	rec := newRecorder(relay, "inquiry", "inquiries")
	rec.messages.FetchFailed = "Error fetching contact inquiries"
	return &DefaultContactInquiryService{
		InquiryRepo: repo,
		Validate:    validate,
		rec:         rec,
		now:         utils.NowUTC,
	}
}

func (s *DefaultContactInquiryService) GetInquiries(ctx context.Context, sess auth.Session) ([]*ContactInquiryResponse, apierror.ErrorResponse) {
	inquiries, err := s.InquiryRepo.FindAll(ctx)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionFetch, "", s.rec.messages.FetchFailed, err)
	}

	resp := make([]*ContactInquiryResponse, len(inquiries))
	for i, inquiry := range inquiries {
		resp[i] = toContactInquiryResponse(inquiry)
	}
	return resp, nil
}

func (s *DefaultContactInquiryService) GetInquiry(ctx context.Context, sess auth.Session, id string) (*ContactInquiryResponse, apierror.ErrorResponse) {
	inquiry, err := s.InquiryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, notify.ActionFetch, id, s.rec.messages.FetchFailed, err)
	}
	if inquiry == nil {
		return nil, s.rec.notFound()
	}
	return toContactInquiryResponse(inquiry), nil
}

// SubmitInquiry records a message sent from the public contact page. There
// is no session; the inquiry starts as new.
func (s *DefaultContactInquiryService) SubmitInquiry(ctx context.Context, req *ContactInquiryRequest) (*Ack, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	inquiry := &entity.ContactInquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   utils.NullableString(req.Phone),
		Subject: utils.NullableString(req.Subject),
		Message: req.Message,
		Status:  entity.InquiryNew,
	}

	if err := s.InquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, s.rec.fail(ctx, auth.Session{}, notify.ActionSubmit, "", inquirySubmitFailed, err)
	}
	return &Ack{Message: s.rec.ok(ctx, auth.Session{}, notify.ActionSubmit, inquiry.ID, inquirySubmitted)}, nil
}

// MarkResponded sets the inquiry to responded and stamps the response time.
func (s *DefaultContactInquiryService) MarkResponded(ctx context.Context, sess auth.Session, id string) (*Ack, apierror.ErrorResponse) {
	return s.setStatus(ctx, sess, id, entity.InquiryResponded, notify.ActionRespond, inquiryResponded)
}

func (s *DefaultContactInquiryService) UpdateStatus(ctx context.Context, sess auth.Session, id string, req *InquiryStatusRequest) (*Ack, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	action, msg := notify.ActionUpdate, inquiryStatusSet
	if req.Status == entity.InquiryResponded {
		action, msg = notify.ActionRespond, inquiryResponded
	}
	return s.setStatus(ctx, sess, id, req.Status, action, msg)
}

func (s *DefaultContactInquiryService) setStatus(ctx context.Context, sess auth.Session, id, status, action, msg string) (*Ack, apierror.ErrorResponse) {
	var respondedAt *time.Time
	if status == entity.InquiryResponded {
		now := s.now()
		respondedAt = &now
	}

	found, err := s.InquiryRepo.UpdateStatus(ctx, id, status, respondedAt)
	if err != nil {
		return nil, s.rec.fail(ctx, sess, action, id, inquiryStatusFailed, err)
	}
	if !found {
		return nil, s.rec.notFound()
	}
	return &Ack{Message: s.rec.ok(ctx, sess, action, id, msg)}, nil
}

func toContactInquiryResponse(inquiry *entity.ContactInquiry) *ContactInquiryResponse {
	return &ContactInquiryResponse{
		ID:          inquiry.ID,
		Name:        inquiry.Name,
		Email:       inquiry.Email,
		Phone:       inquiry.Phone,
		Subject:     inquiry.Subject,
		Message:     inquiry.Message,
		Status:      inquiry.Status,
		CreatedAt:   utils.FormatTime(inquiry.CreatedAt),
		RespondedAt: utils.FormatTimePtr(inquiry.RespondedAt),
	}
}
