package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/brainus-ai/brainus-go/engine/brainus"
	"github.com/brainus-ai/brainus-go/engine/dispatch"
	"github.com/brainus-ai/brainus-go/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyService answers every query except those containing "fail".
type flakyService struct{}

func (flakyService) SubmitQuery(_ context.Context, text, _ string) (*brainus.QueryResult, error) {
	if strings.Contains(text, "fail") {
		return nil, brainus.NewError(brainus.ErrCodeAPI, "unavailable")
	}
	return &brainus.QueryResult{
		Answer:    "answer to " + text,
		Citations: []brainus.Citation{{Source: "doc-1"}},
	}, nil
}

func testBatchConfig() config.BatchConfig {
	return config.BatchConfig{Size: 2, Concurrency: 2, QueryColumn: "query"}
}

func TestProcessor_Process(t *testing.T) {
	t.Run("Should keep results in input order with mixed outcomes", func(t *testing.T) {
		p := NewProcessor(dispatch.NewDispatcher(flakyService{}), testBatchConfig())
		queries := []string{"q1", "please fail", "q3", "q4", "also fail"}

		results, stats, err := p.Process(context.Background(), queries, "default")

		require.NoError(t, err)
		require.Len(t, results, 5)
		assert.True(t, results[0].Success)
		assert.Equal(t, "answer to q1", results[0].Answer)
		assert.False(t, results[1].Success)
		assert.NotEmpty(t, results[1].Error)
		assert.True(t, results[2].Success)
		assert.True(t, results[3].Success)
		assert.False(t, results[4].Success)

		assert.Equal(t, 5, stats.Total)
		assert.Equal(t, 3, stats.Succeeded)
		assert.Equal(t, 2, stats.Failed)
	})

	t.Run("Should count citations per result", func(t *testing.T) {
		p := NewProcessor(dispatch.NewDispatcher(flakyService{}), testBatchConfig())

		results, _, err := p.Process(context.Background(), []string{"q1"}, "default")

		require.NoError(t, err)
		assert.Equal(t, 1, results[0].CitationsCount)
	})

	t.Run("Should handle an empty query list", func(t *testing.T) {
		p := NewProcessor(dispatch.NewDispatcher(flakyService{}), testBatchConfig())

		results, stats, err := p.Process(context.Background(), nil, "default")

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, 0, stats.Total)
	})

	t.Run("Should stop early when the context is cancelled", func(t *testing.T) {
		p := NewProcessor(dispatch.NewDispatcher(flakyService{}), testBatchConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, _, err := p.Process(ctx, []string{"q1", "q2"}, "default")

		require.Error(t, err)
		assert.Empty(t, results)
	})

	t.Run("Should sanitize degenerate configuration", func(t *testing.T) {
		p := NewProcessor(dispatch.NewDispatcher(flakyService{}), config.BatchConfig{})

		results, stats, err := p.Process(context.Background(), []string{"q1", "q2"}, "default")

		require.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Equal(t, 2, stats.Succeeded)
	})
}
