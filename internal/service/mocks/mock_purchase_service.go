package mocks

import (
	"context"

	"pdfmarket/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) Purchase(ctx context.Context, buyerID, documentID string) (*service.PurchaseResult, error) {
	args := m.Called(ctx, buyerID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PurchaseResult), args.Error(1)
}

func (m *MockPurchaseService) ListMine(ctx context.Context, buyerID string) ([]service.PurchasedDocument, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.PurchasedDocument), args.Error(1)
}
