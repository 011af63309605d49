package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pdfmarket/internal/model"
	"pdfmarket/internal/repository"
)

// PurchaseResult is returned to the buyer after a successful purchase.
type PurchaseResult struct {
	Purchase     model.Purchase `json:"purchase"`
	BuyerBalance int            `json:"buyer_balance"`
}

// PurchasedDocument is one row of a buyer's purchase history. Title reflects
// the document's current state and reads "Unknown" once the document is gone;
// the snapshotted price and timestamp come from the immutable record.
type PurchasedDocument struct {
	DocumentID  string    `json:"document_id"`
	Title       string    `json:"title"`
	PricePoints int       `json:"price_points"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// PurchaseService executes purchases and answers purchase-history questions.
type PurchaseService interface {
	// Purchase moves the document's price from buyer to seller and appends
	// an immutable purchase record. Fails with ErrNotFound (buyer absent,
	// document absent or inactive), ErrInsufficientPoints, or
	// ErrSellerMissing.
	Purchase(ctx context.Context, buyerID, documentID string) (*PurchaseResult, error)

	// ListMine returns the buyer's purchase history, newest first.
	ListMine(ctx context.Context, buyerID string) ([]PurchasedDocument, error)
}

type purchaseService struct {
	documents repository.DocumentRepository
	purchases repository.PurchaseRepository
	atomic    repository.Atomic
}

// NewPurchaseService constructs a new PurchaseService.
func NewPurchaseService(documents repository.DocumentRepository, purchases repository.PurchaseRepository, atomic repository.Atomic) PurchaseService {
	return &purchaseService{documents: documents, purchases: purchases, atomic: atomic}
}

func (s *purchaseService) Purchase(ctx context.Context, buyerID, documentID string) (*PurchaseResult, error) {
	if buyerID == "" || documentID == "" {
		return nil, ErrIDRequired
	}

	// Resolve the document up front; inactive documents are invisible to
	// purchase, same as to browsing.
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
		}
		return nil, err
	}
	if !doc.IsActive {
		return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
	}

	var result *PurchaseResult

	// Balance check, debit, credit and record insert run as one atomic unit.
	// Reading the accounts inside the same transaction closes the
	// check-then-act window between two concurrent purchases by the same
	// buyer.
	err = s.atomic.Transact(ctx, func(tx repository.Tx) error {
		accounts := tx.Accounts()

		buyer, err := accounts.FindByID(ctx, buyerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: buyer %s", ErrNotFound, buyerID)
			}
			return err
		}

		seller, err := accounts.FindByID(ctx, doc.UploaderID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: document %s has no uploader account %s", ErrSellerMissing, doc.ID, doc.UploaderID)
			}
			return err
		}

		if buyer.PointsBalance < doc.PricePoints {
			return fmt.Errorf("%w: account %s, document %s (price %d, balance %d)",
				ErrInsufficientPoints, buyer.ID, doc.ID, doc.PricePoints, buyer.PointsBalance)
		}

		buyer.PointsBalance -= doc.PricePoints
		if !buyer.Owns(doc.ID) {
			buyer.OwnedDocumentIDs = append(buyer.OwnedDocumentIDs, doc.ID)
		}

		// Self-purchase: the debit is the entire economic effect. Crediting
		// the same account back would let it mint points off its own listing.
		selfPurchase := seller.ID == buyer.ID
		if !selfPurchase {
			seller.PointsBalance += doc.PricePoints
		}

		if err := accounts.Replace(ctx, buyer); err != nil {
			return err
		}
		if !selfPurchase {
			if err := accounts.Replace(ctx, seller); err != nil {
				return err
			}
		}

		// Price is snapshotted from the document at this moment, never taken
		// from the request.
		purchase := &model.Purchase{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			BuyerID:     buyer.ID,
			PricePoints: doc.PricePoints,
			PurchasedAt: time.Now().UTC(),
		}
		stored, err := tx.Purchases().Create(ctx, purchase)
		if err != nil {
			return err
		}

		result = &PurchaseResult{Purchase: *stored, BuyerBalance: buyer.PointsBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListMine joins the buyer's purchase records with the current catalog titles.
func (s *purchaseService) ListMine(ctx context.Context, buyerID string) ([]PurchasedDocument, error) {
	if buyerID == "" {
		return nil, ErrIDRequired
	}

	records, err := s.purchases.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	out := make([]PurchasedDocument, 0, len(records))
	for _, p := range records {
		title := "Unknown"
		doc, err := s.documents.FindByID(ctx, p.DocumentID)
		switch {
		case err == nil:
			title = doc.Title
		case errors.Is(err, sql.ErrNoRows):
			// Document deleted since; keep the record with a placeholder.
		default:
			return nil, err
		}
		out = append(out, PurchasedDocument{
			DocumentID:  p.DocumentID,
			Title:       title,
			PricePoints: p.PricePoints,
			PurchasedAt: p.PurchasedAt,
		})
	}
	return out, nil
}
