package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfmarket/internal/model"
	"pdfmarket/internal/password"
	"pdfmarket/internal/repository"
)

// TokenIssuer signs an access token for an authenticated account.
// Satisfied by *token.Issuer.
type TokenIssuer interface {
	Issue(userID, userName, role string) (string, error)
}

// AuthResult is returned after a successful registration or login.
type AuthResult struct {
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name"`
	Role          string `json:"role"`
	PointsBalance int    `json:"points_balance"`
	Token         string `json:"token"`
}

// AuthService implements register and login.
type AuthService interface {
	// Register creates a new account with the configured starting balance.
	// Fails with ErrUserExists when the username or email is taken.
	Register(ctx context.Context, userName, email, plainPassword string) (*AuthResult, error)

	// Login authenticates by username or email. Fails with
	// ErrInvalidCredentials on an unknown handle or wrong password.
	Login(ctx context.Context, handle, plainPassword string) (*AuthResult, error)
}

type authService struct {
	accounts       repository.AccountRepository
	tokens         TokenIssuer
	startingPoints int
}

// NewAuthService constructs a new AuthService.
func NewAuthService(accounts repository.AccountRepository, tokens TokenIssuer, startingPoints int) AuthService {
	return &authService{accounts: accounts, tokens: tokens, startingPoints: startingPoints}
}

func (s *authService) Register(ctx context.Context, userName, email, plainPassword string) (*AuthResult, error) {
	userName = strings.TrimSpace(userName)
	email = strings.TrimSpace(email)
	if userName == "" || email == "" || plainPassword == "" {
		return nil, fmt.Errorf("user name, email and password are required")
	}

	for _, handle := range []string{userName, email} {
		_, err := s.accounts.FindByHandle(ctx, handle)
		switch {
		case err == nil:
			return nil, fmt.Errorf("%w: %s", ErrUserExists, handle)
		case errors.Is(err, sql.ErrNoRows):
			// Free to use.
		default:
			return nil, err
		}
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &model.Account{
		ID:               uuid.New().String(),
		UserName:         userName,
		Email:            email,
		PasswordHash:     hash,
		Role:             model.RoleUser,
		PointsBalance:    s.startingPoints,
		OwnedDocumentIDs: []string{},
		CreatedAt:        time.Now().UTC(),
	}
	stored, err := s.accounts.Create(ctx, acc)
	if err != nil {
		return nil, err
	}

	return s.toResult(stored)
}

func (s *authService) Login(ctx context.Context, handle, plainPassword string) (*AuthResult, error) {
	acc, err := s.accounts.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(acc.PasswordHash, plainPassword) {
		return nil, ErrInvalidCredentials
	}
	return s.toResult(acc)
}

func (s *authService) toResult(acc *model.Account) (*AuthResult, error) {
	tok, err := s.tokens.Issue(acc.ID, acc.UserName, acc.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		UserID:        acc.ID,
		UserName:      acc.UserName,
		Role:          acc.Role,
		PointsBalance: acc.PointsBalance,
		Token:         tok,
	}, nil
}
