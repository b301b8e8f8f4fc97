package blog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComment(t *testing.T) {
	authorID := uuid.New()
	postID := uuid.New()

	t.Run("creates comment with valid input", func(t *testing.T) {
		comment, err := NewComment(postID, authorID, "Nice post")

		require.NoError(t, err)
		assert.Equal(t, "Nice post", comment.Text)
		assert.Equal(t, authorID, comment.AuthorID)
		assert.Equal(t, postID, comment.PostID)
	})

	t.Run("fails with empty text", func(t *testing.T) {
		_, err := NewComment(postID, authorID, "")
		assert.Error(t, err)
	})

	t.Run("fails with whitespace-only text", func(t *testing.T) {
		_, err := NewComment(postID, authorID, "   ")
		assert.Error(t, err)
	})
}

func TestCommentUpdate(t *testing.T) {
	comment, err := NewComment(uuid.New(), uuid.New(), "Original")
	require.NoError(t, err)

	require.NoError(t, comment.Update("Edited"))
	assert.Equal(t, "Edited", comment.Text)

	assert.Error(t, comment.Update(""))
	assert.Equal(t, "Edited", comment.Text)
}

func TestCommentIsAuthoredBy(t *testing.T) {
	authorID := uuid.New()
	comment, err := NewComment(uuid.New(), authorID, "text")
	require.NoError(t, err)

	assert.True(t, comment.IsAuthoredBy(authorID))
	assert.False(t, comment.IsAuthoredBy(uuid.New()))
}
