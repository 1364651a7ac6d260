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
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	FindAll(ctx context.Context, ownerID string) ([]*entity.Appointment, error)
	FindByID(ctx context.Context, id, ownerID string) (*entity.Appointment, error)
	FindBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*entity.Appointment, error)
	Create(ctx context.Context, appt *entity.Appointment) error
	Update(ctx context.Context, id, ownerID string, appt *entity.Appointment) (bool, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

type AppointmentRequest struct {
	Title           string          `json:"title" form:"title" validate:"required,max=200"`
	Description     string          `json:"description" form:"description" validate:"omitempty,max=5000"`
	AppointmentDate string          `json:"appointment_date" form:"appointment_date" validate:"required,iso8601"`
	DurationMinutes utils.FormValue `json:"duration_minutes" form:"duration_minutes"`
	Location        string          `json:"location" form:"location" validate:"omitempty,max=300"`
	Status          string          `json:"status" form:"status" validate:"omitempty,oneof=scheduled completed cancelled rescheduled"`
	ClientID        string          `json:"client_id" form:"client_id" validate:"omitempty,max=36"`
}

type AppointmentResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	AppointmentDate string  `json:"appointment_date"`
	EndsAt          string  `json:"ends_at"`
	DurationMinutes int     `json:"duration_minutes"`
	Location        *string `json:"location"`
	Status          string  `json:"status"`
	ClientID        *string `json:"client_id"`
	ClientName      *string `json:"client_name"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ScheduledDay struct {
	BeginsAt string `json:"begins_at"`
	EndsAt   string `json:"ends_at"`
	Title    string `json:"title"`
	Status   string `json:"status"`
}

type CalendarResponse struct {
	ScheduledDays []*ScheduledDay `json:"scheduled_days"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	Validate        *validator.Validate
	rec             recorder
}

func NewAppointmentService(apptRepo AppointmentRepository, validate *validator.Validate, relay notify.Relay) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		AppointmentRepo: apptRepo,
		Validate:        validate,
		rec:             newRecorder(relay, "appointment", "appointments"),
	}
}

func (a *DefaultAppointmentService) GetAppointments(ctx context.Context, sess auth.Session) ([]*AppointmentResponse, apierror.ErrorResponse) {
	appts, err := a.AppointmentRepo.FindAll(ctx, sess.UserID)
	if err != nil {
		return nil, a.rec.fail(ctx, sess, notify.ActionFetch, "", a.rec.messages.FetchFailed, err)
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) GetAppointment(ctx context.Context, sess auth.Session, id string) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(ctx, id, sess.UserID)
	if err != nil {
		return nil, a.rec.fail(ctx, sess, notify.ActionFetch, id, a.rec.messages.FetchFailed, err)
	}
	if appt == nil {
		return nil, a.rec.notFound()
	}
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) CreateAppointment(ctx context.Context, sess auth.Session, req *AppointmentRequest) (*Mutation[*AppointmentResponse], apierror.ErrorResponse) {
	appt, apierr := a.fromRequest(req)
	if apierr != nil {
		return nil, apierr
	}
	appt.UserID = sess.UserID

	if err := a.AppointmentRepo.Create(ctx, appt); err != nil {
		return nil, a.rec.fail(ctx, sess, notify.ActionCreate, "", a.rec.messages.CreateFailed, err)
	}

	msg := a.rec.ok(ctx, sess, notify.ActionCreate, appt.ID, a.rec.messages.Created)
	resp := &Mutation[*AppointmentResponse]{Message: msg, Record: toAppointmentResponse(appt)}
	if created, err := a.AppointmentRepo.FindByID(ctx, appt.ID, sess.UserID); err == nil && created != nil {
		resp.Record = toAppointmentResponse(created)
	}
	return resp, nil
}

func (a *DefaultAppointmentService) UpdateAppointment(ctx context.Context, sess auth.Session, id string, req *AppointmentRequest) (*Mutation[*AppointmentResponse], apierror.ErrorResponse) {
	appt, apierr := a.fromRequest(req)
	if apierr != nil {
		return nil, apierr
	}

	found, err := a.AppointmentRepo.Update(ctx, id, sess.UserID, appt)
	if err != nil {
		return nil, a.rec.fail(ctx, sess, notify.ActionUpdate, id, a.rec.messages.UpdateFailed, err)
	}
	if !found {
		return nil, a.rec.notFound()
	}

	msg := a.rec.ok(ctx, sess, notify.ActionUpdate, id, a.rec.messages.Updated)
	resp := &Mutation[*AppointmentResponse]{Message: msg}
	if updated, err := a.AppointmentRepo.FindByID(ctx, id, sess.UserID); err != nil {
		log.Warnf("appointment %s updated but could not be re-read: %v", id, err)
	} else if updated != nil {
		resp.Record = toAppointmentResponse(updated)
	}
	return resp, nil
}

func (a *DefaultAppointmentService) DeleteAppointment(ctx context.Context, sess auth.Session, id string) (*Ack, apierror.ErrorResponse) {
	found, err := a.AppointmentRepo.Delete(ctx, id, sess.UserID)
	if err != nil {
		return nil, a.rec.fail(ctx, sess, notify.ActionDelete, id, a.rec.messages.DeleteFailed, err)
	}
	if !found {
		return nil, a.rec.notFound()
	}
	return &Ack{Message: a.rec.ok(ctx, sess, notify.ActionDelete, id, a.rec.messages.Deleted)}, nil
}

// GetCalendar lists the caller's appointments starting in [monthStart, monthEnd).
func (a *DefaultAppointmentService) GetCalendar(ctx context.Context, sess auth.Session, monthStart, monthEnd time.Time) (*CalendarResponse, apierror.ErrorResponse) {
	appts, err := a.AppointmentRepo.FindBetween(ctx, sess.UserID, monthStart, monthEnd)
	if err != nil {
		log.Errorf("failed to fetch appointments in [%s - %s]: %v", monthStart, monthEnd, err)
		return nil, a.rec.fail(ctx, sess, notify.ActionFetch, "", a.rec.messages.FetchFailed, err)
	}

	schedDays := make([]*ScheduledDay, len(appts))
	for i, appt := range appts {
		schedDays[i] = toScheduledDay(appt)
	}
	return &CalendarResponse{ScheduledDays: schedDays}, nil
}

func (a *DefaultAppointmentService) fromRequest(req *AppointmentRequest) (*entity.Appointment, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	when, err := utils.ParseTimestamp(req.AppointmentDate)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("appointment_date", "timestamp")
	}

	return &entity.Appointment{
		Title:           req.Title,
		Description:     utils.NullableString(req.Description),
		AppointmentDate: when,
		DurationMinutes: utils.ParseMinutes(string(req.DurationMinutes), entity.DefaultAppointmentMinutes),
		Location:        utils.NullableString(req.Location),
		Status:          utils.OrDefault(req.Status, entity.AppointmentScheduled),
		ClientID:        utils.NullableString(req.ClientID),
	}, nil
}

func endsAt(appt *entity.Appointment) time.Time {
	return appt.AppointmentDate.Add(time.Duration(appt.DurationMinutes) * time.Minute)
}

func toScheduledDay(appt *entity.Appointment) *ScheduledDay {
	return &ScheduledDay{
		BeginsAt: utils.FormatTime(appt.AppointmentDate),
		EndsAt:   utils.FormatTime(endsAt(appt)),
		Title:    appt.Title,
		Status:   appt.Status,
	}
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:              appt.ID,
		Title:           appt.Title,
		Description:     appt.Description,
		AppointmentDate: utils.FormatTime(appt.AppointmentDate),
		EndsAt:          utils.FormatTime(endsAt(appt)),
		DurationMinutes: appt.DurationMinutes,
		Location:        appt.Location,
		Status:          appt.Status,
		ClientID:        appt.ClientID,
		CreatedAt:       utils.FormatTime(appt.CreatedAt),
		UpdatedAt:       utils.FormatTime(appt.UpdatedAt),
	}
	if appt.Client != nil {
		resp.ClientName = &appt.Client.Name
	}
	return resp
}
