package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pdfmarket/internal/password"
	"pdfmarket/internal/repository"
	"pdfmarket/internal/storage"
)

// UserOverview is one row of the admin user listing. Upload and purchase
// counts include inactive documents.
type UserOverview struct {
	ID            string `json:"id"`
	UserName      string `json:"user_name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	PointsBalance int    `json:"points_balance"`
	UploadCount   int    `json:"upload_count"`
	PurchaseCount int    `json:"purchase_count"`
}

// PlatformStats is the system-wide rollup. TotalPointsInSystem is invariant
// under purchases between distinct accounts and drops by exactly the price on
// a self-purchase, which makes it a useful economy health check.
type PlatformStats struct {
	TotalAccounts       int `json:"total_accounts"`
	TotalDocuments      int `json:"total_documents"`
	TotalPurchases      int `json:"total_purchases"`
	TotalPointsInSystem int `json:"total_points_in_system"`
}

// ModeratedDocument is one row of the admin document listing.
type ModeratedDocument struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	UploaderID   string    `json:"uploader_id"`
	UploaderName string    `json:"uploader_name"`
	PricePoints  int       `json:"price_points"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// UpdateUserRequest applies partial edits; nil fields are left untouched.
type UpdateUserRequest struct {
	Email         *string
	PointsBalance *int
}

// AdminService provides the read-only rollups and the few admin mutations.
// Rollups join full snapshots of the three stores at call time; nothing is
// cached or maintained incrementally.
type AdminService interface {
	Users(ctx context.Context) ([]UserOverview, error)
	Stats(ctx context.Context) (*PlatformStats, error)
	Documents(ctx context.Context) ([]ModeratedDocument, error)

	// DeleteDocument removes stored bytes (best-effort) and the catalog
	// record. Purchase records referencing the document are left alone.
	DeleteDocument(ctx context.Context, id string) error

	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) error
	ResetPassword(ctx context.Context, id, newPassword string) error
}

type adminService struct {
	accounts  repository.AccountRepository
	documents repository.DocumentRepository
	purchases repository.PurchaseRepository
	store     storage.Storage
}

// NewAdminService constructs a new AdminService.
func NewAdminService(accounts repository.AccountRepository, documents repository.DocumentRepository, purchases repository.PurchaseRepository, store storage.Storage) AdminService {
	return &adminService{accounts: accounts, documents: documents, purchases: purchases, store: store}
}

func (s *adminService) Users(ctx context.Context) ([]UserOverview, error) {
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.purchases.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	uploads := make(map[string]int)
	for _, d := range docs {
		uploads[d.UploaderID]++
	}
	buys := make(map[string]int)
	for _, p := range purchases {
		buys[p.BuyerID]++
	}

	out := make([]UserOverview, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, UserOverview{
			ID:            a.ID,
			UserName:      a.UserName,
			Email:         a.Email,
			Role:          a.Role,
			PointsBalance: a.PointsBalance,
			UploadCount:   uploads[a.ID],
			PurchaseCount: buys[a.ID],
		})
	}
	return out, nil
}

func (s *adminService) Stats(ctx context.Context) (*PlatformStats, error) {
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.purchases.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	totalPoints := 0
	for _, a := range accounts {
		totalPoints += a.PointsBalance
	}

	return &PlatformStats{
		TotalAccounts:       len(accounts),
		TotalDocuments:      len(docs),
		TotalPurchases:      len(purchases),
		TotalPointsInSystem: totalPoints,
	}, nil
}

func (s *adminService) Documents(ctx context.Context) ([]ModeratedDocument, error) {
	docs, err := s.documents.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.UserName
	}

	out := make([]ModeratedDocument, 0, len(docs))
	for _, d := range docs {
		name, ok := names[d.UploaderID]
		if !ok {
			// Unlike a purchase, a missing uploader here is tolerated: this
			// is a display path, not a money-moving one.
			name = "Unknown"
		}
		out = append(out, ModeratedDocument{
			ID:           d.ID,
			Title:        d.Title,
			UploaderID:   d.UploaderID,
			UploaderName: name,
			PricePoints:  d.PricePoints,
			Tags:         d.Tags,
			CreatedAt:    d.CreatedAt,
			IsActive:     d.IsActive,
		})
	}
	return out, nil
}

func (s *adminService) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: document %s", ErrNotFound, id)
		}
		return err
	}

	// Bytes first, best-effort: a storage failure must not block the
	// metadata removal.
	if doc.StoragePath != "" {
		if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
			log.Printf("delete stored object %s for document %s: %v", doc.StoragePath, doc.ID, err)
		}
	}

	return s.documents.Delete(ctx, id)
}

func (s *adminService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) error {
	if id == "" {
		return ErrIDRequired
	}
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: account %s", ErrNotFound, id)
		}
		return err
	}

	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		acc.Email = *req.Email
	}
	if req.PointsBalance != nil {
		if *req.PointsBalance < 0 {
			return fmt.Errorf("points balance must not be negative")
		}
		acc.PointsBalance = *req.PointsBalance
	}

	return s.accounts.Replace(ctx, acc)
}

func (s *adminService) ResetPassword(ctx context.Context, id, newPassword string) error {
	if id == "" {
		return ErrIDRequired
	}
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("password is required")
	}
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: account %s", ErrNotFound, id)
		}
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	acc.PasswordHash = hash

	return s.accounts.Replace(ctx, acc)
}
