package model

import "time"

// Purchase is the immutable record of one account acquiring download rights
// to one document. PricePoints is the document's price at purchase time and
// is never rewritten, even if the document's price changes later.
type Purchase struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	BuyerID     string    `json:"buyer_id"`
	PricePoints int       `json:"price_points"`
	PurchasedAt time.Time `json:"purchased_at"`
}
