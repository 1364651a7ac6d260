package service

import (
	"bytes"
	"clientdesk/cmd/internal/domain/database/repository"
	"clientdesk/cmd/internal/domain/entity"
	"clientdesk/cmd/internal/integration/storage"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func newDocumentService(t *testing.T) (*DefaultDocumentService, *storage.LocalStore) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	svc := NewDocumentService(repository.NewDocumentRepository(newTestDB(t)), store, newValidator(), &recordingRelay{})
	svc.now = func() time.Time { return time.UnixMilli(1720000000000) }
	return svc, store
}

func pdfUpload(name string) *DocumentFile {
	return &DocumentFile{
		Filename:    name,
		Size:        int64(len(pdfBytes)),
		ContentType: "",
		Body:        bytes.NewReader(pdfBytes),
	}
}

func TestUploadThenDownloadIsByteIdentical(t *testing.T) {
	svc, _ := newDocumentService(t)
	ctx := context.Background()

	created, apierr := svc.UploadDocument(ctx, owner, &DocumentRequest{DocumentType: "tax_return"}, pdfUpload("return-2080.pdf"))
	require.Nil(t, apierr)
	assert.Equal(t, "Document uploaded successfully", created.Message)

	doc := created.Record
	assert.Equal(t, "return-2080.pdf", doc.Name)
	assert.Regexp(t, `^staff-1/1720000000000-[0-9a-f]{8}\.pdf$`, doc.FilePath)
	assert.Equal(t, strPtr("application/pdf"), doc.MimeType)
	require.NotNil(t, doc.FileSize)
	assert.Equal(t, int64(len(pdfBytes)), *doc.FileSize)

	dl, apierr := svc.DownloadDocument(ctx, owner, doc.ID)
	require.Nil(t, apierr)
	defer dl.Body.Close()

	got, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, got)
	assert.Equal(t, "return-2080.pdf", dl.Name)
	assert.Equal(t, "application/pdf", dl.ContentType)
}

func TestUploadSniffsExtensionWhenFilenameHasNone(t *testing.T) {
	svc, _ := newDocumentService(t)

	created, apierr := svc.UploadDocument(context.Background(), owner, &DocumentRequest{Name: "Receipt"}, pdfUpload("scan"))
	require.Nil(t, apierr)
	assert.Equal(t, "Receipt", created.Record.Name)
	assert.True(t, strings.HasSuffix(created.Record.FilePath, ".pdf"))
	assert.Equal(t, entity.DocumentOther, created.Record.DocumentType)
}

func TestUploadWithoutFile(t *testing.T) {
	svc, _ := newDocumentService(t)

	_, apierr := svc.UploadDocument(context.Background(), owner, &DocumentRequest{}, nil)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
	assert.Equal(t, "Please select a file", apierr.Error())
}

func TestDeleteDocumentRemovesBlob(t *testing.T) {
	svc, store := newDocumentService(t)
	ctx := context.Background()

	created, apierr := svc.UploadDocument(ctx, owner, &DocumentRequest{}, pdfUpload("contract.pdf"))
	require.Nil(t, apierr)

	_, apierr = svc.DeleteDocument(ctx, owner, created.Record.ID)
	require.Nil(t, apierr)

	docs, apierr := svc.GetDocuments(ctx, owner)
	require.Nil(t, apierr)
	assert.Empty(t, docs)

	_, err := store.Download(ctx, created.Record.FilePath)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

type stuckStore struct {
	BlobStore
}

func (stuckStore) Remove(context.Context, string) error {
	return errors.New("access denied")
}

func TestDeleteDocumentKeepsRowWhenBlobStays(t *testing.T) {
	svc, store := newDocumentService(t)
	ctx := context.Background()

	created, apierr := svc.UploadDocument(ctx, owner, &DocumentRequest{}, pdfUpload("contract.pdf"))
	require.Nil(t, apierr)

	svc.Store = stuckStore{BlobStore: store}
	_, apierr = svc.DeleteDocument(ctx, owner, created.Record.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusInternalServerError, apierr.Code())
	assert.Equal(t, "Error deleting document", apierr.Error())

	docs, apierr := svc.GetDocuments(ctx, owner)
	require.Nil(t, apierr)
	assert.Len(t, docs, 1)
}

type failingDocumentRepo struct {
	DocumentRepository
}

func (failingDocumentRepo) Create(context.Context, *entity.Document) error {
	return errors.New("disk full")
}

type pathRecordingStore struct {
	*storage.LocalStore
	uploaded []string
}

func (p *pathRecordingStore) Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) error {
	p.uploaded = append(p.uploaded, path)
	return p.LocalStore.Upload(ctx, path, body, size, contentType)
}

func TestUploadRemovesBlobWhenInsertFails(t *testing.T) {
	svc, store := newDocumentService(t)
	recording := &pathRecordingStore{LocalStore: store}
	svc.Store = recording
	svc.DocumentRepo = failingDocumentRepo{}
	ctx := context.Background()

	_, apierr := svc.UploadDocument(ctx, owner, &DocumentRequest{}, pdfUpload("receipt.pdf"))
	require.NotNil(t, apierr)
	assert.Equal(t, "Error uploading document", apierr.Error())

	require.Len(t, recording.uploaded, 1)
	_, err := store.Download(ctx, recording.uploaded[0])
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUploadsInSameMillisecondKeepSeparateBlobs(t *testing.T) {
	svc, _ := newDocumentService(t)
	ctx := context.Background()

	upload := func(body string) *DocumentResponse {
		created, apierr := svc.UploadDocument(ctx, owner, &DocumentRequest{}, &DocumentFile{
			Filename: "return.pdf",
			Size:     int64(len(body)),
			Body:     strings.NewReader(body),
		})
		require.Nil(t, apierr)
		return created.Record
	}
	download := func(id string) string {
		dl, apierr := svc.DownloadDocument(ctx, owner, id)
		require.Nil(t, apierr)
		defer dl.Body.Close()
		got, err := io.ReadAll(dl.Body)
		require.NoError(t, err)
		return string(got)
	}

	first := upload("%PDF-1.4 first")
	second := upload("%PDF-1.4 second")
	assert.NotEqual(t, first.FilePath, second.FilePath)

	assert.Equal(t, "%PDF-1.4 first", download(first.ID))
	assert.Equal(t, "%PDF-1.4 second", download(second.ID))

	_, apierr := svc.DeleteDocument(ctx, owner, second.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "%PDF-1.4 first", download(first.ID))
}

func TestUpdateDocumentKeepsFile(t *testing.T) {
	svc, _ := newDocumentService(t)
	ctx := context.Background()

	created, apierr := svc.UploadDocument(ctx, owner, &DocumentRequest{}, pdfUpload("statement.pdf"))
	require.Nil(t, apierr)

	updated, apierr := svc.UpdateDocument(ctx, owner, created.Record.ID, &DocumentEditRequest{
		Name:         "FY statement",
		DocumentType: "financial_statement",
	})
	require.Nil(t, apierr)
	require.NotNil(t, updated.Record)
	assert.Equal(t, "FY statement", updated.Record.Name)
	assert.Equal(t, created.Record.FilePath, updated.Record.FilePath)
	assert.Equal(t, created.Record.MimeType, updated.Record.MimeType)
	assert.Equal(t, created.Record.UploadedAt, updated.Record.UploadedAt)

	_, apierr = svc.DownloadDocument(ctx, stranger, created.Record.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}
