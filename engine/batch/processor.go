package batch

import (
	"context"
	"time"

	"github.com/brainus-ai/brainus-go/engine/brainus"
	"github.com/brainus-ai/brainus-go/engine/dispatch"
	"github.com/brainus-ai/brainus-go/pkg/config"
	"github.com/brainus-ai/brainus-go/pkg/logger"
	"golang.org/x/time/rate"
)

// Result is the per-query outcome of a batch run.
type Result struct {
	Query          string
	Answer         string
	CitationsCount int
	Error          string
	Success        bool
}

// Stats summarizes a batch run.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Processor drives large query sets through the dispatcher in fixed-size
// batches, pacing between batches to stay under the service's rate limits.
type Processor struct {
	dispatcher  *dispatch.Dispatcher
	size        int
	concurrency int
	limiter     *rate.Limiter
}

// NewProcessor builds a processor from the batch config section.
func NewProcessor(d *dispatch.Dispatcher, cfg config.BatchConfig) *Processor {
	size := cfg.Size
	if size < 1 {
		size = 1
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	var limiter *rate.Limiter
	if cfg.PacePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.PacePerSec), 1)
	}
	return &Processor{
		dispatcher:  d,
		size:        size,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// Process runs every query against the given store and returns per-query
// results in input order. Individual failures are recorded, not propagated;
// only context cancellation aborts the run early.
func (p *Processor) Process(ctx context.Context, queries []string, storeID string) ([]Result, Stats, error) {
	log := logger.FromContext(ctx)
	start := time.Now()
	results := make([]Result, 0, len(queries))
	totalBatches := (len(queries) + p.size - 1) / p.size

	for batchNum := 0; batchNum*p.size < len(queries); batchNum++ {
		if err := ctx.Err(); err != nil {
			return results, statsFor(results, start), err
		}
		lo := batchNum * p.size
		hi := min(lo+p.size, len(queries))
		chunk := queries[lo:hi]
		log.Info("processing batch",
			"batch", batchNum+1,
			"total_batches", totalBatches,
			"queries", len(chunk),
		)

		batch := make([]brainus.Query, len(chunk))
		for i, text := range chunk {
			batch[i] = brainus.Query{Text: text, StoreID: storeID}
		}
		for _, outcome := range p.dispatcher.QueryMultiple(ctx, batch, p.concurrency) {
			results = append(results, toResult(outcome))
		}

		if p.limiter != nil && hi < len(queries) {
			if err := p.limiter.Wait(ctx); err != nil {
				return results, statsFor(results, start), err
			}
		}
	}

	stats := statsFor(results, start)
	log.Info("batch processing complete",
		"total", stats.Total,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)
	return results, stats, nil
}

func toResult(outcome dispatch.Outcome) Result {
	if outcome.Err != nil {
		return Result{Query: outcome.Query.Text, Error: outcome.Err.Error()}
	}
	return Result{
		Query:          outcome.Query.Text,
		Answer:         outcome.Result.Answer,
		CitationsCount: len(outcome.Result.Citations),
		Success:        true,
	}
}

func statsFor(results []Result, start time.Time) Stats {
	stats := Stats{Total: len(results), Duration: time.Since(start)}
	for _, r := range results {
		if r.Success {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
	}
	return stats
}
