package aggregator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"prospector/internal/domain"
)

// Connector is a source-specific fetch-and-normalize adapter. Fault
// containment is the connector's own contract: Fetch returns an empty
// sequence on any upstream failure and never panics or blocks past its
// context deadline.
type Connector interface {
	ID() string
	Name() string
	Fetch(ctx context.Context) []domain.Opportunity
}

// Aggregator fans out one fetch per connector, joins the results, and
// merges them into a single deduplicated sequence. Declaration order of
// the connector list is the tie-break precedence: when two sources
// yield the same URL, the earlier-declared source's record is kept.
type Aggregator struct {
	connectors []Connector
	timeout    time.Duration
	logger     *slog.Logger
}

// New creates an aggregator over a fixed, ordered connector list.
// timeout bounds each connector's fetch; an expired connector
// contributes an empty result like any other failure.
func New(connectors []Connector, timeout time.Duration, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		connectors: connectors,
		timeout:    timeout,
		logger:     logger,
	}
}

// Run executes one aggregation: all connectors fetch concurrently, the
// results are concatenated in declaration order and deduplicated by
// exact URL match, keeping the first occurrence.
func (a *Aggregator) Run(ctx context.Context) ([]domain.Opportunity, domain.RunStats) {
	start := time.Now()

	results := make([][]domain.Opportunity, len(a.connectors))

	var wg sync.WaitGroup
	for i, c := range a.connectors {
		wg.Add(1)
		go func(i int, c Connector) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			results[i] = c.Fetch(fetchCtx)
		}(i, c)
	}
	wg.Wait()

	stats := domain.RunStats{}
	seen := make(map[string]struct{})
	var merged []domain.Opportunity

	for i, batch := range results {
		stats.Fetched += len(batch)

		a.logger.Debug("connector completed",
			"source", a.connectors[i].ID(),
			"count", len(batch),
		)

		for _, opp := range batch {
			if _, dup := seen[opp.URL]; dup {
				stats.Duplicates++
				continue
			}
			seen[opp.URL] = struct{}{}
			merged = append(merged, opp)
		}
	}

	stats.Unique = len(merged)
	stats.Duration = time.Since(start)

	a.logger.Info("aggregation completed",
		"fetched", stats.Fetched,
		"unique", stats.Unique,
		"duplicates", stats.Duplicates,
		"duration", stats.Duration,
	)

	return merged, stats
}
