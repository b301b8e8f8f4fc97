package blog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost(t *testing.T) {
	authorID := uuid.New()

	t.Run("creates post with valid input", func(t *testing.T) {
		categoryID := uuid.New()
		pubDate := time.Now().Add(-time.Hour)
		post, err := NewPost(NewPostInput{
			Title:      "First post",
			Text:       "Hello, world",
			PubDate:    pubDate,
			AuthorID:   authorID,
			CategoryID: &categoryID,
		})

		require.NoError(t, err)
		assert.Equal(t, "First post", post.Title)
		assert.Equal(t, authorID, post.AuthorID)
		assert.True(t, post.IsPublished)
		assert.True(t, post.PubDate.Equal(pubDate))
	})

	t.Run("defaults publication date to now", func(t *testing.T) {
		post, err := NewPost(NewPostInput{
			Title:    "No date",
			Text:     "body",
			AuthorID: authorID,
		})

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), post.PubDate, time.Second)
	})

	t.Run("fails with empty title", func(t *testing.T) {
		_, err := NewPost(NewPostInput{Title: "", Text: "body", AuthorID: authorID})
		assert.Error(t, err)
	})

	t.Run("fails with empty text", func(t *testing.T) {
		_, err := NewPost(NewPostInput{Title: "Title", Text: "", AuthorID: authorID})
		assert.Error(t, err)
	})
}

func TestPostIsPubliclyVisible(t *testing.T) {
	now := time.Now()
	authorID := uuid.New()

	makePost := func(published bool, pubDate time.Time, categoryPublished bool) *Post {
		post, err := NewPost(NewPostInput{
			Title:    "Post",
			Text:     "body",
			PubDate:  pubDate,
			AuthorID: authorID,
		})
		require.NoError(t, err)
		post.IsPublished = published
		post.Category = &Category{IsPublished: categoryPublished}
		return post
	}

	t.Run("visible when published with published category and past date", func(t *testing.T) {
		post := makePost(true, now.Add(-time.Hour), true)
		assert.True(t, post.IsPubliclyVisible(now))
	})

	t.Run("hidden when unpublished", func(t *testing.T) {
		post := makePost(false, now.Add(-time.Hour), true)
		assert.False(t, post.IsPubliclyVisible(now))
	})

	t.Run("hidden when category unpublished", func(t *testing.T) {
		post := makePost(true, now.Add(-time.Hour), false)
		assert.False(t, post.IsPubliclyVisible(now))
	})

	t.Run("hidden when scheduled in the future", func(t *testing.T) {
		post := makePost(true, now.Add(time.Hour), true)
		assert.False(t, post.IsPubliclyVisible(now))
		assert.True(t, post.IsScheduled(now))
	})

	t.Run("visible exactly at publication time", func(t *testing.T) {
		post := makePost(true, now, true)
		assert.True(t, post.IsPubliclyVisible(now))
	})

	t.Run("hidden when category is missing", func(t *testing.T) {
		post := makePost(true, now.Add(-time.Hour), true)
		post.Category = nil
		assert.False(t, post.IsPubliclyVisible(now))
	})
}

func TestPostIsDetailVisibleTo(t *testing.T) {
	authorID := uuid.New()
	other := uuid.New()

	post, err := NewPost(NewPostInput{
		Title:    "Draft",
		Text:     "body",
		AuthorID: authorID,
	})
	require.NoError(t, err)

	t.Run("published post is visible to anyone", func(t *testing.T) {
		post.IsPublished = true
		assert.True(t, post.IsDetailVisibleTo(other))
		assert.True(t, post.IsDetailVisibleTo(uuid.Nil))
	})

	t.Run("unpublished post is visible only to its author", func(t *testing.T) {
		post.IsPublished = false
		assert.True(t, post.IsDetailVisibleTo(authorID))
		assert.False(t, post.IsDetailVisibleTo(other))
		assert.False(t, post.IsDetailVisibleTo(uuid.Nil))
	})
}

func TestPostUpdate(t *testing.T) {
	authorID := uuid.New()
	post, err := NewPost(NewPostInput{
		Title:    "Original",
		Text:     "body",
		AuthorID: authorID,
	})
	require.NoError(t, err)

	categoryID := uuid.New()
	newDate := time.Now().Add(24 * time.Hour)

	err = post.Update("Updated", "new body", newDate, &categoryID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Updated", post.Title)
	assert.Equal(t, "new body", post.Text)
	assert.Equal(t, &categoryID, post.CategoryID)
	assert.Nil(t, post.LocationID)
	assert.True(t, post.PubDate.Equal(newDate))

	err = post.Update("", "new body", newDate, nil, nil)
	assert.Error(t, err)
}

func TestPostIsAuthoredBy(t *testing.T) {
	authorID := uuid.New()
	post, err := NewPost(NewPostInput{Title: "t", Text: "b", AuthorID: authorID})
	require.NoError(t, err)

	assert.True(t, post.IsAuthoredBy(authorID))
	assert.False(t, post.IsAuthoredBy(uuid.New()))
}
