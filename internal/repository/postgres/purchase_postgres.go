package postgres

import (
	"context"

	"pdfmarket/internal/model"
	"pdfmarket/internal/repository"
)

// PurchasePostgres is a PostgreSQL implementation of repository.PurchaseRepository.
// Purchase rows are insert-only; nothing in this repository mutates them.
type PurchasePostgres struct {
	q Querier
}

// NewPurchasePostgres creates a new PurchasePostgres repository.
func NewPurchasePostgres(q Querier) *PurchasePostgres {
	return &PurchasePostgres{q: q}
}

var _ repository.PurchaseRepository = (*PurchasePostgres)(nil)

const purchaseColumns = `id, document_id, buyer_id, price_points, purchased_at`

// Create inserts a new purchase row and returns the stored record.
func (r *PurchasePostgres) Create(ctx context.Context, p *model.Purchase) (*model.Purchase, error) {
	const q = `
		INSERT INTO purchases (id, document_id, buyer_id, price_points, purchased_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + purchaseColumns + `
	`
	row := r.q.QueryRowContext(ctx, q,
		p.ID,
		p.DocumentID,
		p.BuyerID,
		p.PricePoints,
		p.PurchasedAt,
	)
	var out model.Purchase
	if err := row.Scan(
		&out.ID,
		&out.DocumentID,
		&out.BuyerID,
		&out.PricePoints,
		&out.PurchasedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByBuyer returns the buyer's purchases, newest first.
func (r *PurchasePostgres) ListByBuyer(ctx context.Context, buyerID string) ([]model.Purchase, error) {
	const q = `
		SELECT ` + purchaseColumns + `
		FROM purchases
		WHERE buyer_id = $1
		ORDER BY purchased_at DESC, id DESC
	`
	return r.queryPurchases(ctx, q, buyerID)
}

// ListAll returns every purchase in the system.
func (r *PurchasePostgres) ListAll(ctx context.Context) ([]model.Purchase, error) {
	const q = `
		SELECT ` + purchaseColumns + `
		FROM purchases
		ORDER BY purchased_at DESC, id DESC
	`
	return r.queryPurchases(ctx, q)
}

func (r *PurchasePostgres) queryPurchases(ctx context.Context, q string, args ...any) ([]model.Purchase, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := make([]model.Purchase, 0)
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(
			&p.ID,
			&p.DocumentID,
			&p.BuyerID,
			&p.PricePoints,
			&p.PurchasedAt,
		); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return purchases, nil
}
