package cache

import (
	"testing"
	"time"

	"github.com/brainus-ai/brainus-go/engine/brainus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerCache(t *testing.T) {
	t.Run("Should return a stored answer", func(t *testing.T) {
		c := New(16, time.Minute)
		c.Set("default", "What is DNA?", &brainus.QueryResult{
			Answer:       "The molecule carrying genetic instructions.",
			Citations:    []brainus.Citation{{Source: "bio-201"}},
			HasCitations: true,
		})

		entry, ok := c.Get("default", "What is DNA?")

		require.True(t, ok)
		assert.Equal(t, "The molecule carrying genetic instructions.", entry.Answer)
		assert.True(t, entry.HasCitations)
		require.Len(t, entry.Citations, 1)
		assert.False(t, entry.CachedAt.IsZero())
	})

	t.Run("Should miss on unknown queries", func(t *testing.T) {
		c := New(16, time.Minute)

		_, ok := c.Get("default", "never asked")

		assert.False(t, ok)
	})

	t.Run("Should key per store", func(t *testing.T) {
		c := New(16, time.Minute)
		c.Set("primary", "q", &brainus.QueryResult{Answer: "from primary"})

		_, ok := c.Get("secondary", "q")

		assert.False(t, ok)
	})

	t.Run("Should expire entries after the TTL", func(t *testing.T) {
		c := New(16, 20*time.Millisecond)
		c.Set("default", "q", &brainus.QueryResult{Answer: "short-lived"})

		time.Sleep(50 * time.Millisecond)
		_, ok := c.Get("default", "q")

		assert.False(t, ok)
	})

	t.Run("Should ignore nil results", func(t *testing.T) {
		c := New(16, time.Minute)
		c.Set("default", "q", nil)

		assert.Equal(t, 0, c.Len())
	})

	t.Run("Should drop everything on purge", func(t *testing.T) {
		c := New(16, time.Minute)
		c.Set("default", "q1", &brainus.QueryResult{Answer: "a1"})
		c.Set("default", "q2", &brainus.QueryResult{Answer: "a2"})

		c.Purge()

		assert.Equal(t, 0, c.Len())
	})
}

func TestKey(t *testing.T) {
	t.Run("Should be deterministic and store-sensitive", func(t *testing.T) {
		assert.Equal(t, Key("a", "q"), Key("a", "q"))
		assert.NotEqual(t, Key("a", "q"), Key("b", "q"))
		assert.NotEqual(t, Key("a", "q1"), Key("a", "q2"))
	})
}
