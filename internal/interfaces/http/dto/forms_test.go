package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostForm_ParsedPubDate(t *testing.T) {
	t.Run("datetime-local format", func(t *testing.T) {
		form := PostForm{PubDate: "2026-03-15T09:30"}

		parsed, err := form.ParsedPubDate()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 15, 9, 30, 0, 0, time.Local), parsed)
	})

	t.Run("date only", func(t *testing.T) {
		form := PostForm{PubDate: "2026-03-15"}

		parsed, err := form.ParsedPubDate()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local), parsed)
	})

	t.Run("space separated with seconds", func(t *testing.T) {
		form := PostForm{PubDate: "2026-03-15 09:30:45"}

		parsed, err := form.ParsedPubDate()
		require.NoError(t, err)
		assert.Equal(t, 45, parsed.Second())
	})

	t.Run("empty means now decided later", func(t *testing.T) {
		form := PostForm{}

		parsed, err := form.ParsedPubDate()
		require.NoError(t, err)
		assert.True(t, parsed.IsZero())
	})

	t.Run("garbage", func(t *testing.T) {
		form := PostForm{PubDate: "next tuesday"}

		_, err := form.ParsedPubDate()
		assert.Error(t, err)
	})
}

func TestPostForm_ParsedCategoryID(t *testing.T) {
	id := uuid.New()

	t.Run("valid", func(t *testing.T) {
		form := PostForm{CategoryID: id.String()}

		parsed, err := form.ParsedCategoryID()
		require.NoError(t, err)
		require.NotNil(t, parsed)
		assert.Equal(t, id, *parsed)
	})

	t.Run("empty means none chosen", func(t *testing.T) {
		form := PostForm{}

		parsed, err := form.ParsedCategoryID()
		require.NoError(t, err)
		assert.Nil(t, parsed)
	})

	t.Run("invalid", func(t *testing.T) {
		form := PostForm{CategoryID: "not-a-uuid"}

		_, err := form.ParsedCategoryID()
		assert.Error(t, err)
	})
}
