package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zots0127/reel/internal/domain/entities"
)

// MockAnalysisEngine is a mock implementation of AnalysisEngine
type MockAnalysisEngine struct {
	mock.Mock
}

// Analyze mocks the Analyze method
func (m *MockAnalysisEngine) Analyze(ctx context.Context, filePath string) (map[string]interface{}, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

// Recommend mocks the Recommend method
func (m *MockAnalysisEngine) Recommend(ctx context.Context, filePath string, topN int, language, genre string) (map[string]interface{}, error) {
	args := m.Called(ctx, filePath, topN, language, genre)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

// CleanedPreview mocks the CleanedPreview method
func (m *MockAnalysisEngine) CleanedPreview(ctx context.Context, filePath string, page, pageSize int) (map[string]interface{}, error) {
	args := m.Called(ctx, filePath, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

// MockUploadMirror is a mock implementation of UploadMirror
type MockUploadMirror struct {
	mock.Mock
}

// MirrorUpload mocks the MirrorUpload method
func (m *MockUploadMirror) MirrorUpload(record *entities.UploadRecord, analysis map[string]interface{}) error {
	args := m.Called(record, analysis)
	return args.Error(0)
}

// RemoveUpload mocks the RemoveUpload method
func (m *MockUploadMirror) RemoveUpload(uploadID string) error {
	args := m.Called(uploadID)
	return args.Error(0)
}
