package mocks

import (
	"context"

	"pdfmarket/internal/repository"
)

// PassthroughAtomic implements repository.Atomic without a real transaction:
// the callback runs against the configured repositories directly. Err, when
// set, is returned without invoking the callback, standing in for a failure
// to begin or commit.
type PassthroughAtomic struct {
	AccountRepo  repository.AccountRepository
	PurchaseRepo repository.PurchaseRepository
	Err          error
}

var _ repository.Atomic = (*PassthroughAtomic)(nil)

func (a *PassthroughAtomic) Transact(ctx context.Context, fn func(tx repository.Tx) error) error {
	if a.Err != nil {
		return a.Err
	}
	return fn(a)
}

func (a *PassthroughAtomic) Accounts() repository.AccountRepository {
	return a.AccountRepo
}

func (a *PassthroughAtomic) Purchases() repository.PurchaseRepository {
	return a.PurchaseRepo
}
