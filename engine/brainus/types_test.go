package brainus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Validate(t *testing.T) {
	t.Run("Should accept a normal query", func(t *testing.T) {
		require.NoError(t, NewQuery("What is photosynthesis?").Validate())
	})

	t.Run("Should reject empty text", func(t *testing.T) {
		err := NewQuery("").Validate()
		require.Error(t, err)
		assert.True(t, IsCode(err, ErrCodeValidation))
	})

	t.Run("Should reject whitespace-only text", func(t *testing.T) {
		err := NewQuery("   \t\n").Validate()
		require.Error(t, err)
		assert.True(t, IsCode(err, ErrCodeValidation))
	})

	t.Run("Should reject oversized text", func(t *testing.T) {
		err := NewQuery(strings.Repeat("x", MaxQueryLength+1)).Validate()
		require.Error(t, err)
		assert.True(t, IsCode(err, ErrCodeValidation))
	})
}

func TestQuery_Store(t *testing.T) {
	t.Run("Should fall back to the default store", func(t *testing.T) {
		assert.Equal(t, DefaultStoreID, Query{Text: "q"}.Store())
	})

	t.Run("Should keep an explicit store", func(t *testing.T) {
		assert.Equal(t, "support", Query{Text: "q", StoreID: "support"}.Store())
	})
}

func TestError(t *testing.T) {
	t.Run("Should expose its code through IsCode", func(t *testing.T) {
		err := NewError(ErrCodeQuotaExceeded, "limit reached")
		assert.True(t, IsCode(err, ErrCodeQuotaExceeded))
		assert.False(t, IsCode(err, ErrCodeRateLimited))
	})

	t.Run("Should unwrap to the underlying cause", func(t *testing.T) {
		cause := NewError(ErrCodeAPI, "boom")
		wrapped := WrapError(ErrCodeTimeout, "deadline", cause)
		apiErr, ok := AsError(wrapped)
		require.True(t, ok)
		assert.Equal(t, ErrCodeTimeout, apiErr.Code)
	})

	t.Run("Should report retry-after hints only when present", func(t *testing.T) {
		assert.Zero(t, RetryAfterHint(NewError(ErrCodeAPI, "boom")))
		assert.Zero(t, RetryAfterHint(nil))
	})
}
