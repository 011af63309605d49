package repository

import "context"

// Tx exposes repository views bound to a single open transaction. Writes
// made through these views commit or abort together.
type Tx interface {
	Accounts() AccountRepository
	Purchases() PurchaseRepository
}

// Atomic runs a function against transactional repository views. It is the
// storage collaborator's side of the purchase contract: the buyer debit, the
// seller credit and the purchase insert must land as one unit, so that two
// concurrent purchases by the same under-funded buyer cannot both pass the
// balance check and both commit.
type Atomic interface {
	// Transact begins a transaction, invokes fn with views bound to it, and
	// commits when fn returns nil. Any error from fn rolls everything back
	// and is returned unchanged.
	Transact(ctx context.Context, fn func(tx Tx) error) error
}
