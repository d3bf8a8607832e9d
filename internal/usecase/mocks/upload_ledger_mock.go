package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/zots0127/reel/internal/domain/entities"
)

// MockUploadLedger is a mock implementation of UploadLedger
type MockUploadLedger struct {
	mock.Mock
}

// Save mocks the Save method
func (m *MockUploadLedger) Save(record *entities.UploadRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

// List mocks the List method
func (m *MockUploadLedger) List() ([]*entities.UploadRecord, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.UploadRecord), args.Error(1)
}

// FindByID mocks the FindByID method
func (m *MockUploadLedger) FindByID(uploadID string) (*entities.UploadRecord, error) {
	args := m.Called(uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UploadRecord), args.Error(1)
}

// DeleteByID mocks the DeleteByID method
func (m *MockUploadLedger) DeleteByID(uploadID string) (*entities.UploadRecord, error) {
	args := m.Called(uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UploadRecord), args.Error(1)
}
