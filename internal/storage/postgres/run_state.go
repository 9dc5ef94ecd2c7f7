package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"prospector/internal/domain"
)

type RunStateStore struct {
	db *sqlx.DB
}

func NewRunStateStore(db *sqlx.DB) *RunStateStore {
	return &RunStateStore{db: db}
}

func (s *RunStateStore) Get(ctx context.Context, pipeline string) (*domain.RunState, error) {
	var state domain.RunState
	query := `
		SELECT id, pipeline, last_run_at, total_runs, total_published
		FROM run_state
		WHERE pipeline = $1`

	err := s.db.GetContext(ctx, &state, query, pipeline)
	if err == sql.ErrNoRows {
		// Return empty state for new pipelines
		return &domain.RunState{
			Pipeline:  pipeline,
			LastRunAt: time.Time{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RunStateStore) Update(ctx context.Context, state *domain.RunState) error {
	query := `
		INSERT INTO run_state (pipeline, last_run_at, total_runs, total_published)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pipeline) DO UPDATE SET
			last_run_at = EXCLUDED.last_run_at,
			total_runs = EXCLUDED.total_runs,
			total_published = EXCLUDED.total_published`

	_, err := s.db.ExecContext(ctx, query,
		state.Pipeline,
		state.LastRunAt,
		state.TotalRuns,
		state.TotalPublished,
	)
	return err
}
