package model

import "time"

// Roles assigned to accounts. The role is carried in the JWT and checked by
// the role middleware; the core only distinguishes admins for the /admin surface.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// Account represents a registered user or administrator.
// This is a pure domain model with no database-specific dependencies or tags.
type Account struct {
	ID            string `json:"id"`
	UserName      string `json:"user_name"`
	Email         string `json:"email"`
	PasswordHash  string `json:"-"`
	Role          string `json:"role"`
	PointsBalance int    `json:"points_balance"`
	// OwnedDocumentIDs caches the ids of documents this account has purchased.
	// It is advisory only; purchase records are the authoritative entitlement
	// source. The set is append-only.
	OwnedDocumentIDs []string  `json:"owned_document_ids"`
	CreatedAt        time.Time `json:"created_at"`
}

// Owns reports whether the owned-set cache already contains the document id.
func (a *Account) Owns(documentID string) bool {
	for _, id := range a.OwnedDocumentIDs {
		if id == documentID {
			return true
		}
	}
	return false
}
