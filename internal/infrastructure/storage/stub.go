package storage

import (
	"context"
	"errors"
	"sync"

	appblog "github.com/blogicum/backend/internal/application/blog"
	"github.com/google/uuid"
)

// ImageStorage is what the HTTP layer needs from an image backend
type ImageStorage interface {
	appblog.ImageResolver
	StoreImage(ctx context.Context, postID uuid.UUID, filename, contentType string, data []byte) (string, error)
	DeleteImage(ctx context.Context, key string) error
}

// Ensure both backends implement ImageStorage
var (
	_ ImageStorage = (*S3ImageStorage)(nil)
	_ ImageStorage = (*StubImageStorage)(nil)
)

// StubImageStorage keeps uploaded images in memory.
// Used when object storage is disabled: posts still accept uploads, the
// images just don't survive a restart.
type StubImageStorage struct {
	// BaseURL is the base URL for resolved image URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubImageStorage creates a new StubImageStorage
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// StoreImage records the image and returns its key
func (s *StubImageStorage) StoreImage(_ context.Context, postID uuid.UUID, filename, _ string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image data is required")
	}

	key := ImageKey(postID, filename)
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return key, nil
}

// DeleteImage forgets a stored image. Missing keys are not an error.
func (s *StubImageStorage) DeleteImage(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// PublicURL resolves a key against the stub base URL
func (s *StubImageStorage) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return s.BaseURL + "/" + key
}

// Has reports whether a key is stored (for tests)
func (s *StubImageStorage) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}

// Len reports how many objects are stored (for tests)
func (s *StubImageStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
