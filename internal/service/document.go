package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"pdfchat/internal/model"
	"pdfchat/internal/repository"
	"pdfchat/internal/storage"
)

// UploadPrefix is the key prefix every uploaded object is stored under.
const UploadPrefix = "uploads/"

var tracer = otel.Tracer("pdfchat/internal/service")

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// Download is either a redirect URL (presigning backends) or an open body the caller must close.
type Download struct {
	Document *model.Document
	URL      string
	Body     io.ReadCloser
	Size     int64
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload validates the content type, stores the bytes and saves metadata; storage is rolled back if the DB save fails.
	// - originalFilename is kept in metadata only; the storage key is generated.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Download resolves a document's stored bytes. It returns ErrContentExpired once retention removed them.
	Download(ctx context.Context, id string) (*Download, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store         storage.Storage
	repo          repository.DocumentRepository
	presignExpiry time.Duration
	now           func() time.Time
}

// NewDocumentService constructs a new DocumentService.
// repo may be nil when the datastore is unreachable; every operation then fails with ErrDatastoreUnavailable.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, presignExpiry time.Duration) DocumentService {
	return &documentService{
		store:         store,
		repo:          repo,
		presignExpiry: presignExpiry,
		now:           time.Now,
	}
}

// storageKey is uploads/<UTC timestamp with microseconds>_<uuid>.pdf.
func storageKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s%s%06d_%s.pdf", UploadPrefix, t.Format("20060102150405"), t.Nanosecond()/1000, uuid.NewString())
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Upload")
	defer span.End()

	if contentType != PDFContentType {
		return nil, ErrInvalidMediaType
	}
	if s.repo == nil {
		return nil, ErrDatastoreUnavailable
	}
	if r == nil {
		return nil, ErrReaderNil
	}

	now := s.now().UTC()
	key := storageKey(now)
	span.SetAttributes(attribute.String("storage.key", key), attribute.Int64("upload.size", size))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		span.SetStatus(codes.Error, "storage put failed")
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		Filename:    originalFilename,
		StoragePath: objInfo.Key,
		ContentType: contentType,
		Size:        objInfo.Size,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		span.SetStatus(codes.Error, "db save failed")
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	span.SetAttributes(attribute.String("document.id", stored.ID))
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if s.repo == nil {
		return nil, ErrDatastoreUnavailable
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	return findDocument(ctx, s.repo, id)
}

// Download prefers a presigned URL and falls back to streaming from storage.
func (s *documentService) Download(ctx context.Context, id string) (*Download, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Download")
	defer span.End()

	doc, err := findDocument(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	if p, ok := s.store.(storage.Presigner); ok {
		u, err := p.PresignGet(ctx, doc.StoragePath, s.presignExpiry)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				return nil, ErrContentExpired
			}
			return nil, fmt.Errorf("presign: %w", err)
		}
		return &Download{Document: doc, URL: u, Size: doc.Size}, nil
	}

	body, info, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrContentExpired
		}
		return nil, fmt.Errorf("open stored object: %w", err)
	}
	return &Download{Document: doc, Body: body, Size: info.Size}, nil
}

// findDocument is shared by every lookup-by-id use case: validate, check the datastore, then fetch.
// Malformed ids are rejected before the datastore check so they never surface as NotFound.
func findDocument(ctx context.Context, repo repository.DocumentRepository, id string) (*model.Document, error) {
	oid, err := ParseDocumentID(id)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, ErrDatastoreUnavailable
	}
	doc, err := repo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}
