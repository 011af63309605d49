package service

import (
	"context"
	"database/sql"
	"testing"

	"pdfmarket/internal/model"
	"pdfmarket/internal/password"
	repoMocks "pdfmarket/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubIssuer struct{}

func (stubIssuer) Issue(userID, userName, role string) (string, error) {
	return "token-" + userID, nil
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account with the starting balance", func(t *testing.T) {
		mAcc := new(repoMocks.MockAccountRepository)
		svc := NewAuthService(mAcc, stubIssuer{}, 100)

		mAcc.On("FindByHandle", ctx, "alice").Return(nil, sql.ErrNoRows)
		mAcc.On("FindByHandle", ctx, "alice@example.com").Return(nil, sql.ErrNoRows)
		mAcc.On("Create", ctx, mock.MatchedBy(func(a *model.Account) bool {
			return a.UserName == "alice" &&
				a.Role == model.RoleUser &&
				a.PointsBalance == 100 &&
				a.PasswordHash != "s3cret" &&
				password.Verify(a.PasswordHash, "s3cret")
		})).Return(func(ctx context.Context, a *model.Account) *model.Account { return a }, nil)

		res, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "alice", res.UserName)
		assert.Equal(t, model.RoleUser, res.Role)
		assert.Equal(t, 100, res.PointsBalance)
		assert.NotEmpty(t, res.Token)
		mAcc.AssertExpectations(t)
	})

	t.Run("taken username", func(t *testing.T) {
		mAcc := new(repoMocks.MockAccountRepository)
		svc := NewAuthService(mAcc, stubIssuer{}, 100)

		mAcc.On("FindByHandle", ctx, "alice").Return(account("alice", 0), nil)

		_, err := svc.Register(ctx, "alice", "other@example.com", "pw")
		assert.ErrorIs(t, err, ErrUserExists)
		mAcc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("taken email", func(t *testing.T) {
		mAcc := new(repoMocks.MockAccountRepository)
		svc := NewAuthService(mAcc, stubIssuer{}, 100)

		mAcc.On("FindByHandle", ctx, "bob").Return(nil, sql.ErrNoRows)
		mAcc.On("FindByHandle", ctx, "alice@example.com").Return(account("alice", 0), nil)

		_, err := svc.Register(ctx, "bob", "alice@example.com", "pw")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := NewAuthService(new(repoMocks.MockAccountRepository), stubIssuer{}, 100)
		_, err := svc.Register(ctx, "", "a@example.com", "pw")
		assert.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := password.Hash("s3cret")
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		mAcc := new(repoMocks.MockAccountRepository)
		svc := NewAuthService(mAcc, stubIssuer{}, 100)

		acc := account("alice", 40)
		acc.PasswordHash = hash
		mAcc.On("FindByHandle", ctx, "alice").Return(acc, nil)

		res, err := svc.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "alice", res.UserID)
		assert.Equal(t, 40, res.PointsBalance)
		assert.Equal(t, "token-alice", res.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		mAcc := new(repoMocks.MockAccountRepository)
		svc := NewAuthService(mAcc, stubIssuer{}, 100)

		acc := account("alice", 40)
		acc.PasswordHash = hash
		mAcc.On("FindByHandle", ctx, "alice").Return(acc, nil)

		_, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown handle", func(t *testing.T) {
		mAcc := new(repoMocks.MockAccountRepository)
		svc := NewAuthService(mAcc, stubIssuer{}, 100)

		mAcc.On("FindByHandle", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, err := svc.Login(ctx, "ghost", "pw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
