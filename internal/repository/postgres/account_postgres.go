package postgres

import (
	"context"
	"database/sql"

	"pdfmarket/internal/model"
	"pdfmarket/internal/repository"
)

// AccountPostgres is a PostgreSQL implementation of repository.AccountRepository.
// The owned-document set lives in the user_owned_documents join table and is
// written append-only.
type AccountPostgres struct {
	q Querier
}

// NewAccountPostgres creates a new AccountPostgres repository.
func NewAccountPostgres(q Querier) *AccountPostgres {
	return &AccountPostgres{q: q}
}

var _ repository.AccountRepository = (*AccountPostgres)(nil)

const accountColumns = `id, user_name, email, password_hash, role, points_balance, created_at`

// FindByID fetches a single account and its owned-document set.
func (r *AccountPostgres) FindByID(ctx context.Context, id string) (*model.Account, error) {
	const q = `
		SELECT ` + accountColumns + `
		FROM users
		WHERE id = $1
	`
	acc, err := scanAccount(r.q.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadOwned(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// FindByHandle fetches a single account by username or email.
func (r *AccountPostgres) FindByHandle(ctx context.Context, handle string) (*model.Account, error) {
	const q = `
		SELECT ` + accountColumns + `
		FROM users
		WHERE user_name = $1 OR email = $1
	`
	acc, err := scanAccount(r.q.QueryRowContext(ctx, q, handle))
	if err != nil {
		return nil, err
	}
	if err := r.loadOwned(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// ListAll returns every account. Owned-document sets are loaded with a single
// pass over the join table rather than one query per account.
func (r *AccountPostgres) ListAll(ctx context.Context) ([]model.Account, error) {
	const q = `
		SELECT ` + accountColumns + `
		FROM users
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	index := make(map[string]int)
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(
			&a.ID,
			&a.UserName,
			&a.Email,
			&a.PasswordHash,
			&a.Role,
			&a.PointsBalance,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.OwnedDocumentIDs = []string{}
		index[a.ID] = len(accounts)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qOwned = `SELECT user_id, document_id FROM user_owned_documents`
	ownedRows, err := r.q.QueryContext(ctx, qOwned)
	if err != nil {
		return nil, err
	}
	defer ownedRows.Close()

	for ownedRows.Next() {
		var userID, docID string
		if err := ownedRows.Scan(&userID, &docID); err != nil {
			return nil, err
		}
		if i, ok := index[userID]; ok {
			accounts[i].OwnedDocumentIDs = append(accounts[i].OwnedDocumentIDs, docID)
		}
	}
	if err := ownedRows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

// Create inserts a new account row and returns the stored record.
func (r *AccountPostgres) Create(ctx context.Context, acc *model.Account) (*model.Account, error) {
	const q = `
		INSERT INTO users (id, user_name, email, password_hash, role, points_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + accountColumns + `
	`
	out, err := scanAccount(r.q.QueryRowContext(ctx, q,
		acc.ID,
		acc.UserName,
		acc.Email,
		acc.PasswordHash,
		acc.Role,
		acc.PointsBalance,
		acc.CreatedAt,
	))
	if err != nil {
		return nil, err
	}
	out.OwnedDocumentIDs = append([]string{}, acc.OwnedDocumentIDs...)
	return out, nil
}

// Replace updates the account row and appends any new owned-document ids.
// Existing join rows are never removed or rewritten, so replaying the same
// mutated account is safe.
func (r *AccountPostgres) Replace(ctx context.Context, acc *model.Account) error {
	const q = `
		UPDATE users
		SET user_name = $2, email = $3, password_hash = $4, role = $5, points_balance = $6
		WHERE id = $1
	`
	if _, err := r.q.ExecContext(ctx, q,
		acc.ID,
		acc.UserName,
		acc.Email,
		acc.PasswordHash,
		acc.Role,
		acc.PointsBalance,
	); err != nil {
		return err
	}

	const qOwn = `
		INSERT INTO user_owned_documents (user_id, document_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	for _, docID := range acc.OwnedDocumentIDs {
		if _, err := r.q.ExecContext(ctx, qOwn, acc.ID, docID); err != nil {
			return err
		}
	}
	return nil
}

func (r *AccountPostgres) loadOwned(ctx context.Context, acc *model.Account) error {
	const q = `SELECT document_id FROM user_owned_documents WHERE user_id = $1`
	rows, err := r.q.QueryContext(ctx, q, acc.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	acc.OwnedDocumentIDs = []string{}
	for rows.Next() {
		var docID string
		if err := rows.Scan(&docID); err != nil {
			return err
		}
		acc.OwnedDocumentIDs = append(acc.OwnedDocumentIDs, docID)
	}
	return rows.Err()
}

func scanAccount(row *sql.Row) (*model.Account, error) {
	var a model.Account
	if err := row.Scan(
		&a.ID,
		&a.UserName,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.PointsBalance,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
