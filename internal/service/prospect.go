package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prospector/internal/domain"
)

// PipelineID keys the persisted run state.
const PipelineID = "prospector"

// ProspectService drives one aggregation run end to end: aggregate,
// hand every record to the triage queue, record run state.
type ProspectService struct {
	aggregator Aggregator
	runState   RunStateStore
	publisher  Publisher
	logger     *slog.Logger
}

func NewProspectService(
	aggregator Aggregator,
	runState RunStateStore,
	publisher Publisher,
	logger *slog.Logger,
) *ProspectService {
	return &ProspectService{
		aggregator: aggregator,
		runState:   runState,
		publisher:  publisher,
		logger:     logger.With("pipeline", PipelineID),
	}
}

func (s *ProspectService) Run(ctx context.Context) (*domain.RunStats, error) {
	startTime := time.Now()
	s.logger.Info("starting prospect run")

	opportunities, stats := s.aggregator.Run(ctx)

	for i := range opportunities {
		if s.publisher == nil {
			break
		}
		if err := s.publisher.Publish(ctx, &opportunities[i]); err != nil {
			s.logger.Warn("publish failed",
				"url", opportunities[i].URL,
				"error", err,
			)
			stats.Errors++
			continue
		}
		stats.Published++
	}

	if err := s.updateRunState(ctx, &stats); err != nil {
		return &stats, fmt.Errorf("update run state: %w", err)
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("prospect run completed",
		"fetched", stats.Fetched,
		"unique", stats.Unique,
		"duplicates", stats.Duplicates,
		"published", stats.Published,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return &stats, nil
}

func (s *ProspectService) updateRunState(ctx context.Context, stats *domain.RunStats) error {
	state, err := s.runState.Get(ctx, PipelineID)
	if err != nil {
		return err
	}

	state.Pipeline = PipelineID
	state.LastRunAt = time.Now()
	state.TotalRuns++
	state.TotalPublished += int64(stats.Published)

	return s.runState.Update(ctx, state)
}
