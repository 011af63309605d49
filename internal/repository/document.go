package repository

import (
	"context"

	"pdfmarket/internal/model"
)

// BrowseFilter narrows the public catalog listing. All fields are optional;
// the zero value matches every active document.
type BrowseFilter struct {
	// Query matches title or description, case-insensitively.
	Query string
	// Tag matches documents carrying the exact tag.
	Tag string
	// MinPrice / MaxPrice bound the price in points; nil means unbounded.
	MinPrice *int
	MaxPrice *int
}

// DocumentRepository defines data access for document metadata.
type DocumentRepository interface {
	// FindByID returns a document by its ID, active or not.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// Browse returns active documents matching the filter, newest first.
	Browse(ctx context.Context, f BrowseFilter) ([]model.Document, error)

	// ListAllByUploader returns every document uploaded by the account,
	// including inactive ones, newest first.
	ListAllByUploader(ctx context.Context, uploaderID string) ([]model.Document, error)

	// ListAll returns every document in the system (active + inactive).
	ListAll(ctx context.Context) ([]model.Document, error)

	// Create inserts a new document record.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Replace persists the current state of an existing document.
	Replace(ctx context.Context, doc *model.Document) error

	// Delete removes a document by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error
}
