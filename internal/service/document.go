package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfmarket/internal/model"
	"pdfmarket/internal/repository"
	"pdfmarket/internal/storage"
)

const pdfContentType = "application/pdf"

// DocumentSummary is the public browse row.
type DocumentSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	UploaderName string   `json:"uploader_name"`
	PricePoints  int      `json:"price_points"`
	Tags         []string `json:"tags"`
}

// DocumentDetails is the public details view.
type DocumentDetails struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	UploaderName string    `json:"uploader_name"`
	PricePoints  int       `json:"price_points"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// UploadRequest carries the metadata accompanying an uploaded file.
type UploadRequest struct {
	Title       string
	Description string
	PricePoints int
	Tags        []string
}

// UpdateRequest carries an uploader's metadata edit. All fields are applied;
// the uploader id and creation time are immutable.
type UpdateRequest struct {
	Title       string
	Description string
	PricePoints int
	Tags        []string
	IsActive    bool
}

// FileResult packages a downloadable file. The caller owns Content and must
// close it.
type FileResult struct {
	Content     io.ReadCloser
	FileName    string
	ContentType string
	Size        int64
}

// DocumentService defines the catalog use cases, including the download
// resolver.
type DocumentService interface {
	// Browse returns active documents matching the filter, newest first,
	// annotated with uploader display names.
	Browse(ctx context.Context, f repository.BrowseFilter) ([]DocumentSummary, error)

	// Details returns a single document's public view, active or not.
	Details(ctx context.Context, id string) (*DocumentDetails, error)

	// Upload streams the file to object storage, records the metadata, and
	// credits the uploader's reward points.
	Upload(ctx context.Context, uploaderID string, req UploadRequest, r io.Reader, size int64) (*DocumentDetails, error)

	// Update applies a metadata edit. Only the uploader may edit; anyone
	// else gets ErrNotFound.
	Update(ctx context.Context, userID, documentID string, req UpdateRequest) (*DocumentDetails, error)

	// Deactivate hides the document from the catalog. Only the uploader may
	// deactivate; anyone else gets ErrNotFound.
	Deactivate(ctx context.Context, userID, documentID string) error

	// ListByUploader returns the uploader's own documents, inactive included.
	ListByUploader(ctx context.Context, uploaderID string) ([]model.Document, error)

	// Download resolves entitlement and returns the file bytes. Absent,
	// inactive and unlinked documents and failed entitlement checks all
	// yield ErrNotFound.
	Download(ctx context.Context, userID, documentID string) (*FileResult, error)
}

type documentService struct {
	store        storage.Storage
	documents    repository.DocumentRepository
	accounts     repository.AccountRepository
	entitlement  *EntitlementChecker
	uploadReward int
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, documents repository.DocumentRepository, accounts repository.AccountRepository, entitlement *EntitlementChecker, uploadReward int) DocumentService {
	return &documentService{
		store:        store,
		documents:    documents,
		accounts:     accounts,
		entitlement:  entitlement,
		uploadReward: uploadReward,
	}
}

// Browse joins active documents with uploader names at read time.
func (s *documentService) Browse(ctx context.Context, f repository.BrowseFilter) ([]DocumentSummary, error) {
	docs, err := s.documents.Browse(ctx, f)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.UserName
	}

	out := make([]DocumentSummary, 0, len(docs))
	for _, d := range docs {
		name, ok := names[d.UploaderID]
		if !ok {
			name = "Unknown"
		}
		out = append(out, DocumentSummary{
			ID:           d.ID,
			Title:        d.Title,
			UploaderName: name,
			PricePoints:  d.PricePoints,
			Tags:         d.Tags,
		})
	}
	return out, nil
}

func (s *documentService) Details(ctx context.Context, id string) (*DocumentDetails, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, id)
		}
		return nil, err
	}
	return s.toDetails(ctx, doc)
}

func (s *documentService) Upload(ctx context.Context, uploaderID string, req UploadRequest, r io.Reader, size int64) (*DocumentDetails, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if uploaderID == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if req.PricePoints < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}

	key := path.Join("pdfs", uuid.New().String()+".pdf")

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: pdfContentType,
		Metadata: map[string]string{
			"uploader-id": uploaderID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		UploaderID:  uploaderID,
		PricePoints: req.PricePoints,
		Tags:        req.Tags,
		IsActive:    true,
		StoragePath: objInfo.Key,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.documents.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if err := s.creditUploadReward(ctx, uploaderID); err != nil {
		return nil, err
	}

	return s.toDetails(ctx, stored)
}

// creditUploadReward grants the per-upload reward to the uploader's balance.
func (s *documentService) creditUploadReward(ctx context.Context, uploaderID string) error {
	if s.uploadReward <= 0 {
		return nil
	}
	acc, err := s.accounts.FindByID(ctx, uploaderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: uploader %s", ErrNotFound, uploaderID)
		}
		return err
	}
	acc.PointsBalance += s.uploadReward
	return s.accounts.Replace(ctx, acc)
}

func (s *documentService) Update(ctx context.Context, userID, documentID string, req UpdateRequest) (*DocumentDetails, error) {
	doc, err := s.ownedByUploader(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	doc.Title = req.Title
	doc.Description = req.Description
	doc.PricePoints = req.PricePoints
	doc.Tags = req.Tags
	doc.IsActive = req.IsActive

	if err := s.documents.Replace(ctx, doc); err != nil {
		return nil, err
	}
	return s.toDetails(ctx, doc)
}

func (s *documentService) Deactivate(ctx context.Context, userID, documentID string) error {
	doc, err := s.ownedByUploader(ctx, userID, documentID)
	if err != nil {
		return err
	}
	doc.IsActive = false
	return s.documents.Replace(ctx, doc)
}

func (s *documentService) ListByUploader(ctx context.Context, uploaderID string) ([]model.Document, error) {
	if uploaderID == "" {
		return nil, ErrIDRequired
	}
	return s.documents.ListAllByUploader(ctx, uploaderID)
}

func (s *documentService) Download(ctx context.Context, userID, documentID string) (*FileResult, error) {
	if userID == "" || documentID == "" {
		return nil, ErrIDRequired
	}

	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
		}
		return nil, err
	}
	// Inactive documents are not downloadable, purchased or not, and a
	// document whose bytes were never committed has nothing to serve.
	if !doc.IsActive || doc.StoragePath == "" {
		return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
	}

	ok, err := s.entitlement.CanDownload(ctx, userID, doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Same error as an absent document, so the response does not confirm
		// the document exists.
		return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
	}

	content, info, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("fetch from storage: %w", err)
	}

	name := strings.TrimSpace(doc.Title)
	if name == "" {
		name = "document"
	}

	return &FileResult{
		Content:     content,
		FileName:    name + ".pdf",
		ContentType: pdfContentType,
		Size:        info.Size,
	}, nil
}

// ownedByUploader loads the document and verifies userID uploaded it.
// Missing documents and foreign documents are indistinguishable to the caller.
func (s *documentService) ownedByUploader(ctx context.Context, userID, documentID string) (*model.Document, error) {
	if userID == "" || documentID == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
		}
		return nil, err
	}
	if doc.UploaderID != userID {
		return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
	}
	return doc, nil
}

func (s *documentService) toDetails(ctx context.Context, doc *model.Document) (*DocumentDetails, error) {
	uploaderName := "Unknown"
	uploader, err := s.accounts.FindByID(ctx, doc.UploaderID)
	switch {
	case err == nil:
		uploaderName = uploader.UserName
	case errors.Is(err, sql.ErrNoRows):
		// Display path tolerates a missing uploader record.
	default:
		return nil, err
	}

	return &DocumentDetails{
		ID:           doc.ID,
		Title:        doc.Title,
		Description:  doc.Description,
		UploaderName: uploaderName,
		PricePoints:  doc.PricePoints,
		Tags:         doc.Tags,
		CreatedAt:    doc.CreatedAt,
		IsActive:     doc.IsActive,
	}, nil
}
