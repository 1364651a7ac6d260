package routes

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/service"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// EngagementService manages the "services" the firm performs for clients.
type EngagementService interface {
	GetServices(ctx context.Context, sess auth.Session) ([]*service.EngagementResponse, apierror.ErrorResponse)
	GetServiceOptions(ctx context.Context, sess auth.Session) ([]*service.OptionResponse, apierror.ErrorResponse)
	GetService(ctx context.Context, sess auth.Session, id string) (*service.EngagementResponse, apierror.ErrorResponse)
	CreateService(ctx context.Context, sess auth.Session, req *service.EngagementRequest) (*service.Mutation[*service.EngagementResponse], apierror.ErrorResponse)
	UpdateService(ctx context.Context, sess auth.Session, id string, req *service.EngagementRequest) (*service.Mutation[*service.EngagementResponse], apierror.ErrorResponse)
	DeleteService(ctx context.Context, sess auth.Session, id string) (*service.Ack, apierror.ErrorResponse)
}

type DefaultEngagementRoute struct {
	EngagementService EngagementService
}

func NewEngagementDefault(engagementService EngagementService) *DefaultEngagementRoute {
	return &DefaultEngagementRoute{EngagementService: engagementService}
}

func (r *DefaultEngagementRoute) GetServices(c echo.Context) error {
	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	svcs, apierr := r.EngagementService.GetServices(c.Request().Context(), data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"services": svcs}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultEngagementRoute) GetServiceOptions(c echo.Context) error {
	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	options, apierr := r.EngagementService.GetServiceOptions(c.Request().Context(), data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"services": options}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultEngagementRoute) GetService(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	svc, apierr := r.EngagementService.GetService(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, svc)
}

func (r *DefaultEngagementRoute) CreateService(c echo.Context) error {
	var req service.EngagementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.EngagementService.CreateService(c.Request().Context(), data, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (r *DefaultEngagementRoute) UpdateService(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.EngagementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.EngagementService.UpdateService(c.Request().Context(), data, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultEngagementRoute) DeleteService(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.EngagementService.DeleteService(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
