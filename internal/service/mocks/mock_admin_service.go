package mocks

import (
	"context"

	"pdfmarket/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Users(ctx context.Context) ([]service.UserOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.UserOverview), args.Error(1)
}

func (m *MockAdminService) Stats(ctx context.Context) (*service.PlatformStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PlatformStats), args.Error(1)
}

func (m *MockAdminService) Documents(ctx context.Context) ([]service.ModeratedDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ModeratedDocument), args.Error(1)
}

func (m *MockAdminService) DeleteDocument(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminService) UpdateUser(ctx context.Context, id string, req service.UpdateUserRequest) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *MockAdminService) ResetPassword(ctx context.Context, id, newPassword string) error {
	args := m.Called(ctx, id, newPassword)
	return args.Error(0)
}
