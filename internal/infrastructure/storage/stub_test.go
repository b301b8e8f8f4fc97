package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStubImageStorage(t *testing.T) {
	s := NewStubImageStorage()
	require.NotNil(t, s)
	assert.Equal(t, "https://storage.example.com", s.BaseURL)
}

func TestStubImageStorage_StoreImage(t *testing.T) {
	s := NewStubImageStorage()
	ctx := context.Background()
	postID := uuid.New()

	t.Run("stores and keys by post", func(t *testing.T) {
		key, err := s.StoreImage(ctx, postID, "photo.JPG", "image/jpeg", []byte("data"))
		require.NoError(t, err)

		assert.Contains(t, key, "posts/"+postID.String()+"/")
		assert.Contains(t, key, ".jpg")
		assert.True(t, s.Has(key))
	})

	t.Run("empty data rejected", func(t *testing.T) {
		_, err := s.StoreImage(ctx, postID, "photo.jpg", "image/jpeg", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "image data is required")
	})

	t.Run("same filename stores distinct keys", func(t *testing.T) {
		first, err := s.StoreImage(ctx, postID, "photo.jpg", "image/jpeg", []byte("a"))
		require.NoError(t, err)
		second, err := s.StoreImage(ctx, postID, "photo.jpg", "image/jpeg", []byte("b"))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestStubImageStorage_DeleteImage(t *testing.T) {
	s := NewStubImageStorage()
	ctx := context.Background()

	key, err := s.StoreImage(ctx, uuid.New(), "photo.png", "image/png", []byte("data"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteImage(ctx, key))
	assert.False(t, s.Has(key))

	// Deleting a missing key is fine
	require.NoError(t, s.DeleteImage(ctx, "posts/nope"))
}

func TestStubImageStorage_PublicURL(t *testing.T) {
	s := NewStubImageStorage()

	assert.Equal(t, "", s.PublicURL(""))
	assert.Equal(t, "https://storage.example.com/posts/x/y.jpg", s.PublicURL("posts/x/y.jpg"))
}
