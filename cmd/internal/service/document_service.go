package service

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/domain/entity"
	"clientdesk/cmd/internal/monitoring"
	"clientdesk/cmd/internal/notify"
	"clientdesk/cmd/internal/utils"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const genericContentType = "application/octet-stream"

type DocumentRepository interface {
	FindAll(ctx context.Context, ownerID string) ([]*entity.Document, error)
	FindByID(ctx context.Context, id, ownerID string) (*entity.Document, error)
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, id, ownerID string, doc *entity.Document) (bool, error)
	DeleteWith(ctx context.Context, id, ownerID string, release func(doc *entity.Document) error) (bool, error)
}

// DocumentRequest carries the metadata fields of the upload and edit forms.
type DocumentRequest struct {
	Name         string `json:"name" form:"name" validate:"omitempty,max=255"`
	DocumentType string `json:"document_type" form:"document_type" validate:"omitempty,oneof=tax_return financial_statement receipt contract other"`
	ClientID     string `json:"client_id" form:"client_id" validate:"omitempty,max=36"`
	ServiceID    string `json:"service_id" form:"service_id" validate:"omitempty,max=36"`
}

// DocumentEditRequest is the edit form, where the name can no longer fall
// back to the uploaded filename.
type DocumentEditRequest struct {
	Name         string `json:"name" form:"name" validate:"required,max=255"`
	DocumentType string `json:"document_type" form:"document_type" validate:"omitempty,oneof=tax_return financial_statement receipt contract other"`
	ClientID     string `json:"client_id" form:"client_id" validate:"omitempty,max=36"`
	ServiceID    string `json:"service_id" form:"service_id" validate:"omitempty,max=36"`
}

// DocumentFile is the uploaded part of a multipart form.
type DocumentFile struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.ReadSeeker
}

type DocumentResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	FilePath     string  `json:"file_path"`
	FileSize     *int64  `json:"file_size"`
	MimeType     *string `json:"mime_type"`
	DocumentType string  `json:"document_type"`
	ClientID     *string `json:"client_id"`
	ClientName   *string `json:"client_name"`
	ServiceID    *string `json:"service_id"`
	ServiceName  *string `json:"service_name"`
	UploadedAt   string  `json:"uploaded_at"`
}

// DocumentDownload is a blob ready to stream back. The caller closes Body.
type DocumentDownload struct {
	Name        string
	ContentType string
	Body        io.ReadCloser
}

type DefaultDocumentService struct {
	DocumentRepo DocumentRepository
	Store        BlobStore
	Validate     *validator.Validate
	rec          recorder
	now          func() time.Time
}

func NewDocumentService(repo DocumentRepository, store BlobStore, validate *validator.Validate, relay notify.Relay) *DefaultDocumentService {
	rec := newRecorder(relay, "document", "documents")
	rec.messages.Created = "Document uploaded successfully"
	rec.messages.CreateFailed = "Error uploading document"
	return &DefaultDocumentService{
		DocumentRepo: repo,
		Store:        store,
		Validate:     validate,
		rec:          rec,
		now:          utils.NowUTC,
	}
}

func (d *DefaultDocumentService) GetDocuments(ctx context.Context, sess auth.Session) ([]*DocumentResponse, apierror.ErrorResponse) {
	docs, err := d.DocumentRepo.FindAll(ctx, sess.UserID)
	if err != nil {
		return nil, d.rec.fail(ctx, sess, notify.ActionFetch, "", d.rec.messages.FetchFailed, err)
	}

	resp := make([]*DocumentResponse, len(docs))
	for i, doc := range docs {
		resp[i] = toDocumentResponse(doc)
	}
	return resp, nil
}

func (d *DefaultDocumentService) GetDocument(ctx context.Context, sess auth.Session, id string) (*DocumentResponse, apierror.ErrorResponse) {
	doc, err := d.DocumentRepo.FindByID(ctx, id, sess.UserID)
	if err != nil {
		return nil, d.rec.fail(ctx, sess, notify.ActionFetch, id, d.rec.messages.FetchFailed, err)
	}
	if doc == nil {
		return nil, d.rec.notFound()
	}
	return toDocumentResponse(doc), nil
}

// UploadDocument stores the blob first and then its metadata row. When the
// row cannot be written the blob is removed again.
func (d *DefaultDocumentService) UploadDocument(ctx context.Context, sess auth.Session, req *DocumentRequest, file *DocumentFile) (*Mutation[*DocumentResponse], apierror.ErrorResponse) {
	if file == nil || file.Body == nil {
		return nil, apierror.MissingFileError
	}

	utils.Sanitize(req)
	if err := d.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	contentType, ext, err := sniff(file)
	if err != nil {
		return nil, d.rec.fail(ctx, sess, notify.ActionUpload, "", d.rec.messages.CreateFailed, err)
	}

	path := blobPath(sess.UserID, d.now(), ext)
	if err := d.Store.Upload(ctx, path, file.Body, file.Size, contentType); err != nil {
		return nil, d.rec.fail(ctx, sess, notify.ActionUpload, "", d.rec.messages.CreateFailed, err)
	}

	size := file.Size
	doc := &entity.Document{
		UserID:       sess.UserID,
		Name:         utils.OrDefault(req.Name, file.Filename),
		FilePath:     path,
		FileSize:     &size,
		MimeType:     utils.NullableString(contentType),
		DocumentType: utils.OrDefault(req.DocumentType, entity.DocumentOther),
		ClientID:     utils.NullableString(req.ClientID),
		ServiceID:    utils.NullableString(req.ServiceID),
	}

	if err := d.DocumentRepo.Create(ctx, doc); err != nil {
		if rerr := d.Store.Remove(context.WithoutCancel(ctx), path); rerr != nil {
			log.Errorf("failed to remove blob %s after metadata insert failed: %v", path, rerr)
			monitoring.CaptureError(rerr, map[string]any{"blob_path": path, "reason": "orphan_upload"})
		}
		return nil, d.rec.fail(ctx, sess, notify.ActionUpload, "", d.rec.messages.CreateFailed, err)
	}

	msg := d.rec.ok(ctx, sess, notify.ActionUpload, doc.ID, d.rec.messages.Created)
	resp := &Mutation[*DocumentResponse]{Message: msg, Record: toDocumentResponse(doc)}
	if created, err := d.DocumentRepo.FindByID(ctx, doc.ID, sess.UserID); err == nil && created != nil {
		resp.Record = toDocumentResponse(created)
	}
	return resp, nil
}

// UpdateDocument edits the metadata; the stored blob is left untouched.
func (d *DefaultDocumentService) UpdateDocument(ctx context.Context, sess auth.Session, id string, req *DocumentEditRequest) (*Mutation[*DocumentResponse], apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := d.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	doc := &entity.Document{
		Name:         req.Name,
		DocumentType: utils.OrDefault(req.DocumentType, entity.DocumentOther),
		ClientID:     utils.NullableString(req.ClientID),
		ServiceID:    utils.NullableString(req.ServiceID),
	}

	found, err := d.DocumentRepo.Update(ctx, id, sess.UserID, doc)
	if err != nil {
		return nil, d.rec.fail(ctx, sess, notify.ActionUpdate, id, d.rec.messages.UpdateFailed, err)
	}
	if !found {
		return nil, d.rec.notFound()
	}

	msg := d.rec.ok(ctx, sess, notify.ActionUpdate, id, d.rec.messages.Updated)
	resp := &Mutation[*DocumentResponse]{Message: msg}
	if updated, err := d.DocumentRepo.FindByID(ctx, id, sess.UserID); err != nil {
		log.Warnf("document %s updated but could not be re-read: %v", id, err)
	} else if updated != nil {
		resp.Record = toDocumentResponse(updated)
	}
	return resp, nil
}

func (d *DefaultDocumentService) DownloadDocument(ctx context.Context, sess auth.Session, id string) (*DocumentDownload, apierror.ErrorResponse) {
	const failed = "Error downloading document"

	doc, err := d.DocumentRepo.FindByID(ctx, id, sess.UserID)
	if err != nil {
		return nil, d.rec.fail(ctx, sess, notify.ActionDownload, id, failed, err)
	}
	if doc == nil {
		return nil, d.rec.notFound()
	}

	body, err := d.Store.Download(ctx, doc.FilePath)
	if err != nil {
		return nil, d.rec.fail(ctx, sess, notify.ActionDownload, id, failed, err)
	}

	contentType := genericContentType
	if doc.MimeType != nil {
		contentType = *doc.MimeType
	}
	return &DocumentDownload{Name: doc.Name, ContentType: contentType, Body: body}, nil
}

// DeleteDocument removes the row and the blob together: a failed blob
// removal rolls the row back.
func (d *DefaultDocumentService) DeleteDocument(ctx context.Context, sess auth.Session, id string) (*Ack, apierror.ErrorResponse) {
	var released string
	found, err := d.DocumentRepo.DeleteWith(ctx, id, sess.UserID, func(doc *entity.Document) error {
		if err := d.Store.Remove(ctx, doc.FilePath); err != nil {
			return fmt.Errorf("remove blob %s: %w", doc.FilePath, err)
		}
		released = doc.FilePath
		return nil
	})
	if err != nil {
		if released != "" {
			log.Errorf("blob %s removed but document %s was kept: %v", released, id, err)
			monitoring.CaptureError(err, map[string]any{"blob_path": released, "document_id": id, "reason": "orphan_row"})
		}
		return nil, d.rec.fail(ctx, sess, notify.ActionDelete, id, d.rec.messages.DeleteFailed, err)
	}
	if !found {
		return nil, d.rec.notFound()
	}
	return &Ack{Message: d.rec.ok(ctx, sess, notify.ActionDelete, id, d.rec.messages.Deleted)}, nil
}

// sniff settles the media type and file extension, leaving Body rewound.
func sniff(file *DocumentFile) (string, string, error) {
	contentType := strings.TrimSpace(file.ContentType)
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if contentType != "" && contentType != genericContentType && ext != "" {
		return contentType, ext, nil
	}

	mt, err := mimetype.DetectReader(file.Body)
	if err != nil {
		return "", "", fmt.Errorf("detect media type: %w", err)
	}
	if _, err := file.Body.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("rewind upload: %w", err)
	}

	if contentType == "" || contentType == genericContentType {
		contentType = mt.String()
	}
	if ext == "" {
		ext = mt.Extension()
	}
	return contentType, ext, nil
}

func blobPath(ownerID string, at time.Time, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%d-%s%s", ownerID, at.UnixMilli(), uuid.NewString()[:8], ext)
}

func toDocumentResponse(doc *entity.Document) *DocumentResponse {
	resp := &DocumentResponse{
		ID:           doc.ID,
		Name:         doc.Name,
		FilePath:     doc.FilePath,
		FileSize:     doc.FileSize,
		MimeType:     doc.MimeType,
		DocumentType: doc.DocumentType,
		ClientID:     doc.ClientID,
		ServiceID:    doc.ServiceID,
		UploadedAt:   utils.FormatTime(doc.UploadedAt),
	}
	if doc.Client != nil {
		resp.ClientName = &doc.Client.Name
	}
	if doc.Service != nil {
		resp.ServiceName = &doc.Service.ServiceName
	}
	return resp
}
