package routes

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/service"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type AppointmentService interface {
	GetAppointments(ctx context.Context, sess auth.Session) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	GetAppointment(ctx context.Context, sess auth.Session, id string) (*service.AppointmentResponse, apierror.ErrorResponse)
	CreateAppointment(ctx context.Context, sess auth.Session, req *service.AppointmentRequest) (*service.Mutation[*service.AppointmentResponse], apierror.ErrorResponse)
	UpdateAppointment(ctx context.Context, sess auth.Session, id string, req *service.AppointmentRequest) (*service.Mutation[*service.AppointmentResponse], apierror.ErrorResponse)
	DeleteAppointment(ctx context.Context, sess auth.Session, id string) (*service.Ack, apierror.ErrorResponse)
	GetCalendar(ctx context.Context, sess auth.Session, monthStart, monthEnd time.Time) (*service.CalendarResponse, apierror.ErrorResponse)
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	appts, apierr := a.AppointmentService.GetAppointments(c.Request().Context(), data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"appointments": appts}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) GetAppointment(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.GetAppointment(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) CreateAppointment(c echo.Context) error {
	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.CreateAppointment(c.Request().Context(), data, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (a *DefaultAppointmentRoute) UpdateAppointment(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.UpdateAppointment(c.Request().Context(), data, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) DeleteAppointment(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := a.AppointmentService.DeleteAppointment(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAppointmentRoute) GetCalendar(c echo.Context) error {
	monthStr := c.QueryParam("month") // "2025-08"
	if monthStr == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("month"))
	}

	monthStart, monthEnd, err := parseMonthString(monthStr)
	if err != nil {
		apierr := apierror.NewSimple(http.StatusBadRequest, "Could not understand month format")
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	calendar, apierr := a.AppointmentService.GetCalendar(c.Request().Context(), data, monthStart, monthEnd)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &calendar)
}

// parseMonthString takes "YYYY-MM" (e.g., "2025-08") and returns
// the start of that month and the start of the next month, in UTC.
func parseMonthString(monthString string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", monthString)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid month format, expected YYYY-MM")
	}

	monthStart := t.UTC()
	return monthStart, monthStart.AddDate(0, 1, 0), nil
}
