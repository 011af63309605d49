package mocks

import (
	"context"
	"io"

	"pdfmarket/internal/model"
	"pdfmarket/internal/repository"
	"pdfmarket/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Browse(ctx context.Context, f repository.BrowseFilter) ([]service.DocumentSummary, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.DocumentSummary), args.Error(1)
}

func (m *MockDocumentService) Details(ctx context.Context, id string) (*service.DocumentDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentDetails), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, uploaderID string, req service.UploadRequest, r io.Reader, size int64) (*service.DocumentDetails, error) {
	args := m.Called(ctx, uploaderID, req, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentDetails), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, userID, documentID string, req service.UpdateRequest) (*service.DocumentDetails, error) {
	args := m.Called(ctx, userID, documentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentDetails), args.Error(1)
}

func (m *MockDocumentService) Deactivate(ctx context.Context, userID, documentID string) error {
	args := m.Called(ctx, userID, documentID)
	return args.Error(0)
}

func (m *MockDocumentService) ListByUploader(ctx context.Context, uploaderID string) ([]model.Document, error) {
	args := m.Called(ctx, uploaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, userID, documentID string) (*service.FileResult, error) {
	args := m.Called(ctx, userID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileResult), args.Error(1)
}
