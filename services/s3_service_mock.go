package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrMockPutFailed is returned by MockS3Service when FailPuts is set
var ErrMockPutFailed = errors.New("mock S3 put failed")

type mockObject struct {
	data        []byte
	contentType string
}

// MockS3Service is a mock implementation of S3Service for testing
type MockS3Service struct {
	objects map[string]mockObject
	mu      sync.RWMutex

	// FailPuts makes every PutObject after the first FailAfter calls fail
	FailPuts  bool
	FailAfter int
	puts      int
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string]mockObject),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// PutObject stores the object in memory
func (m *MockS3Service) PutObject(_ context.Context, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.puts++
	if m.FailPuts && m.puts > m.FailAfter {
		return ErrMockPutFailed
	}

	m.objects[key] = mockObject{data: append([]byte(nil), body...), contentType: contentType}
	return nil
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockS3Service) GetPresignedURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.objects[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock S3: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteObject simulates deleting an object
func (m *MockS3Service) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Object returns a stored object's content and type (for testing assertions)
func (m *MockS3Service) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.data, obj.contentType, ok
}

// Keys returns the stored object keys
func (m *MockS3Service) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

// Clear removes all objects from mock storage
func (m *MockS3Service) Clear() {
	m.mu.Lock()
	m.objects = make(map[string]mockObject)
	m.puts = 0
	m.mu.Unlock()
}
