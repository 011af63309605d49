package service

import (
	"context"

	"pdfmarket/internal/model"
	"pdfmarket/internal/repository"
)

// EntitlementChecker decides whether an account may download a document's
// bytes: the uploader always may, anyone else only with a purchase record.
// The owned-set cache on the account is deliberately not consulted here;
// purchase records are the authoritative source.
type EntitlementChecker struct {
	purchases repository.PurchaseRepository
}

// NewEntitlementChecker constructs a checker over the purchase store.
func NewEntitlementChecker(purchases repository.PurchaseRepository) *EntitlementChecker {
	return &EntitlementChecker{purchases: purchases}
}

// CanDownload reports whether userID is entitled to the document's bytes.
func (e *EntitlementChecker) CanDownload(ctx context.Context, userID string, doc *model.Document) (bool, error) {
	if doc.UploaderID == userID {
		return true, nil
	}
	return e.HasPurchased(ctx, userID, doc.ID)
}

// HasPurchased reports whether a purchase record exists for (user, document).
// A scan of the buyer's records is fine at this scale.
func (e *EntitlementChecker) HasPurchased(ctx context.Context, userID, documentID string) (bool, error) {
	records, err := e.purchases.ListByBuyer(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range records {
		if p.DocumentID == documentID {
			return true, nil
		}
	}
	return false, nil
}
