package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"prospector/internal/domain"
)

const (
	SourceID   = "github"
	SourceName = "GitHub Issues"

	maxPageSize = 50
)

// Config holds GitHub issue search configuration.
type Config struct {
	Query   string
	Limit   int
	Token   string
	Timeout time.Duration
}

// Source searches the GitHub issue tracker for candidate opportunities.
type Source struct {
	client *gh.Client
	query  string
	limit  int
	logger *slog.Logger
}

// New creates a new GitHub source. An optional token raises the search
// rate limit; anonymous access works for public issues.
func New(cfg Config, logger *slog.Logger) *Source {
	limit := cfg.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = cfg.Timeout
	}

	return &Source{
		client: gh.NewClient(httpClient),
		query:  cfg.Query,
		limit:  limit,
		logger: logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// Fetch returns normalized opportunities from GitHub issue search.
// Failures are contained here: any transport or payload error yields an
// empty result, logged at Warn and invisible to the caller.
func (s *Source) Fetch(ctx context.Context) []domain.Opportunity {
	opps, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("fetch failed", "error", err)
		return nil
	}
	return opps
}

func (s *Source) fetch(ctx context.Context) ([]domain.Opportunity, error) {
	opts := &gh.SearchOptions{
		Sort:        "created",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: s.limit},
	}

	result, _, err := s.client.Search.Issues(ctx, s.query, opts)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}

	return s.transform(result.Issues), nil
}

func (s *Source) transform(issues []*gh.Issue) []domain.Opportunity {
	opps := make([]domain.Opportunity, 0, len(issues))

	for _, issue := range issues {
		url := issue.GetHTMLURL()
		if url == "" {
			continue
		}

		opps = append(opps, domain.Opportunity{
			Source:      domain.SourceGitHub,
			Title:       issue.GetTitle(),
			URL:         url,
			Description: domain.Preview(issue.GetBody()),
			Priority:    domain.PriorityNormal,
		})
	}

	return opps
}
