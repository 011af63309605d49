package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"pdfmarket/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountRows(accs ...*model.Account) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_name", "email", "password_hash", "role", "points_balance", "created_at"})
	for _, a := range accs {
		rows.AddRow(a.ID, a.UserName, a.Email, a.PasswordHash, a.Role, a.PointsBalance, a.CreatedAt)
	}
	return rows
}

func TestAccountPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountPostgres(db)
	ctx := context.Background()

	t.Run("found with owned documents", func(t *testing.T) {
		acc := &model.Account{ID: "u1", UserName: "alice", Email: "alice@example.com", PasswordHash: "h", Role: "user", PointsBalance: 100, CreatedAt: time.Now().UTC()}

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("u1").
			WillReturnRows(accountRows(acc))
		mock.ExpectQuery("SELECT document_id FROM user_owned_documents").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"document_id"}).AddRow("d1").AddRow("d2"))

		got, err := repo.FindByID(ctx, "u1")

		assert.NoError(t, err)
		assert.Equal(t, "alice", got.UserName)
		assert.Equal(t, []string{"d1", "d2"}, got.OwnedDocumentIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, got)
	})
}

func TestAccountPostgres_FindByHandle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountPostgres(db)
	ctx := context.Background()

	acc := &model.Account{ID: "u1", UserName: "alice", Email: "alice@example.com", PasswordHash: "h", Role: "user", PointsBalance: 100, CreatedAt: time.Now().UTC()}

	// One placeholder serves both the username and the email match.
	mock.ExpectQuery("SELECT (.+) FROM users WHERE user_name = (.+) OR email = (.+)").
		WithArgs("alice@example.com").
		WillReturnRows(accountRows(acc))
	mock.ExpectQuery("SELECT document_id FROM user_owned_documents").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"document_id"}))

	got, err := repo.FindByHandle(ctx, "alice@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Empty(t, got.OwnedDocumentIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountPostgres_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	a1 := &model.Account{ID: "u1", UserName: "alice", Email: "a@example.com", PasswordHash: "h", Role: "user", PointsBalance: 50, CreatedAt: now}
	a2 := &model.Account{ID: "u2", UserName: "bob", Email: "b@example.com", PasswordHash: "h", Role: "user", PointsBalance: 70, CreatedAt: now}

	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY").
		WillReturnRows(accountRows(a1, a2))
	mock.ExpectQuery("SELECT user_id, document_id FROM user_owned_documents").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "document_id"}).
			AddRow("u2", "d9").
			AddRow("stale-user", "d1"))

	got, err := repo.ListAll(ctx)

	assert.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].OwnedDocumentIDs)
	assert.Equal(t, []string{"d9"}, got[1].OwnedDocumentIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountPostgres(db)
	ctx := context.Background()

	acc := &model.Account{ID: "u1", UserName: "alice", Email: "a@example.com", PasswordHash: "h", Role: "user", PointsBalance: 100, CreatedAt: time.Now().UTC()}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(acc.ID, acc.UserName, acc.Email, acc.PasswordHash, acc.Role, acc.PointsBalance, acc.CreatedAt).
		WillReturnRows(accountRows(acc))

	got, err := repo.Create(ctx, acc)

	assert.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountPostgres_Replace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountPostgres(db)
	ctx := context.Background()

	acc := &model.Account{
		ID: "u1", UserName: "alice", Email: "a@example.com", PasswordHash: "h",
		Role: "user", PointsBalance: 40,
		OwnedDocumentIDs: []string{"d1", "d2"},
	}

	mock.ExpectExec("UPDATE users").
		WithArgs(acc.ID, acc.UserName, acc.Email, acc.PasswordHash, acc.Role, acc.PointsBalance).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_owned_documents").
		WithArgs("u1", "d1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Already present: ON CONFLICT DO NOTHING swallows the duplicate.
	mock.ExpectExec("INSERT INTO user_owned_documents").
		WithArgs("u1", "d2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Replace(ctx, acc)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
