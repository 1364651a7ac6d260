package routes

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/service"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ContactInquiryService interface {
	GetInquiries(ctx context.Context, sess auth.Session) ([]*service.ContactInquiryResponse, apierror.ErrorResponse)
	GetInquiry(ctx context.Context, sess auth.Session, id string) (*service.ContactInquiryResponse, apierror.ErrorResponse)
	SubmitInquiry(ctx context.Context, req *service.ContactInquiryRequest) (*service.Ack, apierror.ErrorResponse)
	MarkResponded(ctx context.Context, sess auth.Session, id string) (*service.Ack, apierror.ErrorResponse)
	UpdateStatus(ctx context.Context, sess auth.Session, id string, req *service.InquiryStatusRequest) (*service.Ack, apierror.ErrorResponse)
}

type DefaultContactInquiryRoute struct {
	InquiryService ContactInquiryService
}

func NewContactInquiryDefault(inquiryService ContactInquiryService) *DefaultContactInquiryRoute {
	return &DefaultContactInquiryRoute{InquiryService: inquiryService}
}

func (r *DefaultContactInquiryRoute) GetInquiries(c echo.Context) error {
	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	inquiries, apierr := r.InquiryService.GetInquiries(c.Request().Context(), data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"inquiries": inquiries}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultContactInquiryRoute) GetInquiry(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	inquiry, apierr := r.InquiryService.GetInquiry(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, inquiry)
}

// SubmitInquiry is the public JSON intake; it needs no session.
func (r *DefaultContactInquiryRoute) SubmitInquiry(c echo.Context) error {
	var req service.ContactInquiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := r.InquiryService.SubmitInquiry(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (r *DefaultContactInquiryRoute) MarkResponded(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.InquiryService.MarkResponded(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultContactInquiryRoute) UpdateStatus(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.InquiryStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.InquiryService.UpdateStatus(c.Request().Context(), data, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
