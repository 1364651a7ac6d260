package routes

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/service"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ClientService interface {
	GetClients(ctx context.Context, sess auth.Session) ([]*service.ClientResponse, apierror.ErrorResponse)
	GetClientOptions(ctx context.Context, sess auth.Session) ([]*service.OptionResponse, apierror.ErrorResponse)
	GetClient(ctx context.Context, sess auth.Session, id string) (*service.ClientResponse, apierror.ErrorResponse)
	CreateClient(ctx context.Context, sess auth.Session, req *service.ClientRequest) (*service.Mutation[*service.ClientResponse], apierror.ErrorResponse)
	UpdateClient(ctx context.Context, sess auth.Session, id string, req *service.ClientRequest) (*service.Mutation[*service.ClientResponse], apierror.ErrorResponse)
	DeleteClient(ctx context.Context, sess auth.Session, id string) (*service.Ack, apierror.ErrorResponse)
}

type DefaultClientRoute struct {
	ClientService ClientService
}

func NewClientDefault(clientService ClientService) *DefaultClientRoute {
	return &DefaultClientRoute{ClientService: clientService}
}

func (r *DefaultClientRoute) GetClients(c echo.Context) error {
	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	clients, apierr := r.ClientService.GetClients(c.Request().Context(), data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"clients": clients}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultClientRoute) GetClientOptions(c echo.Context) error {
	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	options, apierr := r.ClientService.GetClientOptions(c.Request().Context(), data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"clients": options}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultClientRoute) GetClient(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	client, apierr := r.ClientService.GetClient(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, client)
}

func (r *DefaultClientRoute) CreateClient(c echo.Context) error {
	var req service.ClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.ClientService.CreateClient(c.Request().Context(), data, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (r *DefaultClientRoute) UpdateClient(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.ClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.ClientService.UpdateClient(c.Request().Context(), data, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultClientRoute) DeleteClient(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.ClientService.DeleteClient(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
