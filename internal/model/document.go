package model

import "time"

// Document represents an uploaded PDF's metadata record.
// Bytes live in object storage under StoragePath; an empty StoragePath means
// the file was never committed and the document cannot be downloaded.
type Document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	UploaderID  string   `json:"uploader_id"`
	PricePoints int      `json:"price_points"`
	Tags        []string `json:"tags"`
	// IsActive false hides the document from the public catalog and blocks
	// new purchases and non-uploader downloads.
	IsActive    bool      `json:"is_active"`
	StoragePath string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
