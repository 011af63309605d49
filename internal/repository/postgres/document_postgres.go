package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"pdfmarket/internal/model"
	"pdfmarket/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// Tags are stored as a JSONB array on the row.
type DocumentPostgres struct {
	q Querier
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(q Querier) *DocumentPostgres {
	return &DocumentPostgres{q: q}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, title, description, uploader_id, price_points, tags, is_active, storage_path, created_at`

// FindByID fetches a single document by its ID, active or not.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
	`
	return scanDocument(r.q.QueryRowContext(ctx, q, id))
}

// Browse returns active documents matching the filter, newest first.
// The WHERE clause is assembled from the filter's set fields only.
func (r *DocumentPostgres) Browse(ctx context.Context, f repository.BrowseFilter) ([]model.Document, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if f.Tag != "" {
		tag, err := json.Marshal([]string{f.Tag})
		if err != nil {
			return nil, fmt.Errorf("marshal tag filter: %w", err)
		}
		args = append(args, string(tag))
		where = append(where, fmt.Sprintf("tags @> $%d::jsonb", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		where = append(where, fmt.Sprintf("price_points >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		where = append(where, fmt.Sprintf("price_points <= $%d", len(args)))
	}

	q := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, id DESC
	`
	return r.queryDocuments(ctx, q, args...)
}

// ListAllByUploader returns the uploader's documents, including inactive ones.
func (r *DocumentPostgres) ListAllByUploader(ctx context.Context, uploaderID string) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE uploader_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryDocuments(ctx, q, uploaderID)
}

// ListAll returns every document in the system.
func (r *DocumentPostgres) ListAll(ctx context.Context) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY created_at DESC, id DESC
	`
	return r.queryDocuments(ctx, q)
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	tags, err := marshalTags(doc.Tags)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO documents (id, title, description, uploader_id, price_points, tags, is_active, storage_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9)
		RETURNING ` + documentColumns + `
	`
	return scanDocument(r.q.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.UploaderID,
		doc.PricePoints,
		tags,
		doc.IsActive,
		nullableString(doc.StoragePath),
		doc.CreatedAt,
	))
}

// Replace updates an existing document row. The uploader id is immutable and
// is not part of the update set.
func (r *DocumentPostgres) Replace(ctx context.Context, doc *model.Document) error {
	tags, err := marshalTags(doc.Tags)
	if err != nil {
		return err
	}
	const q = `
		UPDATE documents
		SET title = $2, description = $3, price_points = $4, tags = $5::jsonb, is_active = $6, storage_path = $7
		WHERE id = $1
	`
	_, err = r.q.ExecContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.PricePoints,
		tags,
		doc.IsActive,
		nullableString(doc.StoragePath),
	)
	return err
}

// Delete removes a document by ID. It does not return an error if the row
// does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.q.ExecContext(ctx, q, id)
	return err
}

func (r *DocumentPostgres) queryDocuments(ctx context.Context, q string, args ...any) ([]model.Document, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row *sql.Row) (*model.Document, error) {
	return scanDocumentRow(row)
}

func scanDocumentRow(s rowScanner) (*model.Document, error) {
	var (
		d           model.Document
		tags        []byte
		storagePath sql.NullString
	)
	if err := s.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&d.UploaderID,
		&d.PricePoints,
		&tags,
		&d.IsActive,
		&storagePath,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	d.StoragePath = storagePath.String
	return &d, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(b), nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
