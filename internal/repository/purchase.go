package repository

import (
	"context"

	"pdfmarket/internal/model"
)

// PurchaseRepository defines data access for purchase records.
// Records are insert-only; there is no update or delete.
type PurchaseRepository interface {
	// Create inserts a new purchase record.
	Create(ctx context.Context, p *model.Purchase) (*model.Purchase, error)

	// ListByBuyer returns every purchase made by the account, newest first.
	ListByBuyer(ctx context.Context, buyerID string) ([]model.Purchase, error)

	// ListAll returns every purchase in the system.
	ListAll(ctx context.Context) ([]model.Purchase, error)
}
