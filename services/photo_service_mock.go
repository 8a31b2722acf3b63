package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sync"

	"github.com/kendall-kelly/curtainry-specialist-api/utils"
)

// MockPhotoService is a mock implementation of PhotoService for testing.
// It validates uploads like the real service but skips thumbnailing.
type MockPhotoService struct {
	photos map[string][]byte
	mu     sync.RWMutex
}

// NewMockPhotoService creates a new mock photo service
func NewMockPhotoService() *MockPhotoService {
	return &MockPhotoService{
		photos: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global photo service instance for testing
func (m *MockPhotoService) SetAsMockForTesting() {
	SetPhotoService(m)
}

// Store simulates storing a photo and its thumbnail
func (m *MockPhotoService) Store(_ context.Context, orderID string, fileHeader *multipart.FileHeader) (*StoredPhoto, error) {
	data, contentType, err := utils.ReadImageFile(fileHeader)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("site-photos/%s/mock_%s", orderID, filepath.Base(fileHeader.Filename))
	stored := &StoredPhoto{Key: base, ThumbnailKey: base + "_thumb.png", ContentType: contentType}

	m.mu.Lock()
	m.photos[stored.Key] = data
	m.photos[stored.ThumbnailKey] = data
	m.mu.Unlock()

	return stored, nil
}

// URL simulates generating a URL for a stored object
func (m *MockPhotoService) URL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.photos[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("photo not found in mock storage: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// Delete simulates deleting a photo
func (m *MockPhotoService) Delete(_ context.Context, photo *StoredPhoto) error {
	if photo == nil {
		return nil
	}
	m.mu.Lock()
	delete(m.photos, photo.Key)
	delete(m.photos, photo.ThumbnailKey)
	m.mu.Unlock()
	return nil
}

// PhotoExists checks if a photo exists in mock storage
func (m *MockPhotoService) PhotoExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.photos[key]
	return exists
}

// Clear removes all photos from mock storage
func (m *MockPhotoService) Clear() {
	m.mu.Lock()
	m.photos = make(map[string][]byte)
	m.mu.Unlock()
}
