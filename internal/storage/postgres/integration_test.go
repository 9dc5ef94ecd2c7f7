//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"prospector/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_run_state.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM run_state")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) TestRunStateStore_Get_NewPipeline() {
	store := NewRunStateStore(s.db)

	state, err := store.Get(s.ctx, "prospector")
	s.NoError(err)
	s.Require().NotNil(state)
	s.Equal("prospector", state.Pipeline)
	s.True(state.LastRunAt.IsZero())
	s.Equal(int64(0), state.TotalRuns)
	s.Equal(int64(0), state.TotalPublished)
}

func (s *PostgresIntegrationSuite) TestRunStateStore_Update_Insert() {
	store := NewRunStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	err := store.Update(s.ctx, &domain.RunState{
		Pipeline:       "prospector",
		LastRunAt:      now,
		TotalRuns:      1,
		TotalPublished: 12,
	})
	s.NoError(err)

	state, err := store.Get(s.ctx, "prospector")
	s.NoError(err)
	s.Equal(int64(1), state.TotalRuns)
	s.Equal(int64(12), state.TotalPublished)
	s.WithinDuration(now, state.LastRunAt, time.Second)
}

func (s *PostgresIntegrationSuite) TestRunStateStore_Update_Upsert() {
	store := NewRunStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	err := store.Update(s.ctx, &domain.RunState{
		Pipeline:       "prospector",
		LastRunAt:      now.Add(-time.Hour),
		TotalRuns:      1,
		TotalPublished: 5,
	})
	s.Require().NoError(err)

	err = store.Update(s.ctx, &domain.RunState{
		Pipeline:       "prospector",
		LastRunAt:      now,
		TotalRuns:      2,
		TotalPublished: 9,
	})
	s.NoError(err)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM run_state WHERE pipeline = $1", "prospector")
	s.NoError(err)
	s.Equal(1, count)

	state, err := store.Get(s.ctx, "prospector")
	s.NoError(err)
	s.Equal(int64(2), state.TotalRuns)
	s.Equal(int64(9), state.TotalPublished)
}

func (s *PostgresIntegrationSuite) TestRunStateStore_IndependentPipelines() {
	store := NewRunStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	s.Require().NoError(store.Update(s.ctx, &domain.RunState{
		Pipeline: "prospector", LastRunAt: now, TotalRuns: 3,
	}))
	s.Require().NoError(store.Update(s.ctx, &domain.RunState{
		Pipeline: "backfill", LastRunAt: now, TotalRuns: 7,
	}))

	state, err := store.Get(s.ctx, "backfill")
	s.NoError(err)
	s.Equal(int64(7), state.TotalRuns)
}
