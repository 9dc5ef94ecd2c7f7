package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"prospector/internal/domain"
)

type Aggregator interface {
	Run(ctx context.Context) ([]domain.Opportunity, domain.RunStats)
}

type RunStateStore interface {
	Get(ctx context.Context, pipeline string) (*domain.RunState, error)
	Update(ctx context.Context, state *domain.RunState) error
}

type Publisher interface {
	Publish(ctx context.Context, opp *domain.Opportunity) error
	Close() error
}
