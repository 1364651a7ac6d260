package routes

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/service"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type DocumentService interface {
	GetDocuments(ctx context.Context, sess auth.Session) ([]*service.DocumentResponse, apierror.ErrorResponse)
	GetDocument(ctx context.Context, sess auth.Session, id string) (*service.DocumentResponse, apierror.ErrorResponse)
	UploadDocument(ctx context.Context, sess auth.Session, req *service.DocumentRequest, file *service.DocumentFile) (*service.Mutation[*service.DocumentResponse], apierror.ErrorResponse)
	UpdateDocument(ctx context.Context, sess auth.Session, id string, req *service.DocumentEditRequest) (*service.Mutation[*service.DocumentResponse], apierror.ErrorResponse)
	DownloadDocument(ctx context.Context, sess auth.Session, id string) (*service.DocumentDownload, apierror.ErrorResponse)
	DeleteDocument(ctx context.Context, sess auth.Session, id string) (*service.Ack, apierror.ErrorResponse)
}

type DefaultDocumentRoute struct {
	DocumentService DocumentService
}

func NewDocumentDefault(documentService DocumentService) *DefaultDocumentRoute {
	return &DefaultDocumentRoute{DocumentService: documentService}
}

func (r *DefaultDocumentRoute) GetDocuments(c echo.Context) error {
	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	docs, apierr := r.DocumentService.GetDocuments(c.Request().Context(), data)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"documents": docs}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultDocumentRoute) GetDocument(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	doc, apierr := r.DocumentService.GetDocument(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, doc)
}

// UploadDocument takes a multipart form with the blob in "file".
func (r *DefaultDocumentRoute) UploadDocument(c echo.Context) error {
	var req service.DocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return c.JSON(apierror.MissingFileError.Code(), apierror.MissingFileError)
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	src, err := header.Open()
	if err != nil {
		log.Errorf("failed to open uploaded file %s: %v", header.Filename, err)
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}
	defer src.Close()

	file := &service.DocumentFile{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Body:        src,
	}

	resp, apierr := r.DocumentService.UploadDocument(c.Request().Context(), data, &req, file)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (r *DefaultDocumentRoute) UpdateDocument(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.DocumentEditRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.DocumentService.UpdateDocument(c.Request().Context(), data, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

// DownloadDocument streams the stored blob as an attachment.
func (r *DefaultDocumentRoute) DownloadDocument(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	dl, apierr := r.DocumentService.DownloadDocument(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	defer dl.Body.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(dl.Name))
	c.Response().Header().Set(echo.HeaderContentType, dl.ContentType)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := io.Copy(c.Response(), dl.Body); err != nil {
		log.Warnf("download of document %s interrupted: %v", id, err)
	}
	return nil
}

func (r *DefaultDocumentRoute) DeleteDocument(c echo.Context) error {
	id, apierr := idParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := auth.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.DocumentService.DeleteDocument(c.Request().Context(), data, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func attachment(name string) string {
	name = strings.NewReplacer(`"`, "'", `\`, "_", "\r", "", "\n", "").Replace(name)
	return `attachment; filename="` + name + `"`
}
