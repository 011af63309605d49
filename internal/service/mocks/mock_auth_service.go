package mocks

import (
	"context"

	"pdfmarket/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, userName, email, plainPassword string) (*service.AuthResult, error) {
	args := m.Called(ctx, userName, email, plainPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, handle, plainPassword string) (*service.AuthResult, error) {
	args := m.Called(ctx, handle, plainPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}
