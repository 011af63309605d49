package repository

import (
	"context"

	"pdfmarket/internal/model"
)

// AccountRepository defines data access for accounts using SQL queries only.
// No business logic here — strictly persistence operations.
type AccountRepository interface {
	// FindByID returns an account by its ID, including the owned-document set.
	FindByID(ctx context.Context, id string) (*model.Account, error)

	// FindByHandle returns an account whose username or email matches handle.
	FindByHandle(ctx context.Context, handle string) (*model.Account, error)

	// ListAll returns every account in the system.
	ListAll(ctx context.Context) ([]model.Account, error)

	// Create inserts a new account record.
	Create(ctx context.Context, acc *model.Account) (*model.Account, error)

	// Replace persists the current state of an existing account. The
	// owned-document set is written append-only: ids already stored are
	// left untouched, so replaying the same mutated account is harmless.
	Replace(ctx context.Context, acc *model.Account) error
}
