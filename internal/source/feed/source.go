package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"prospector/internal/domain"
)

const (
	SourceID   = "rss"
	SourceName = "Syndication Feed"

	// maxItems caps how many entries one fetch extracts regardless of
	// how many the feed carries.
	maxItems = 10
)

// Config holds syndication feed configuration.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Source reads an arbitrary RSS/Atom feed. Items missing a title or
// link are skipped rather than failing the whole fetch.
type Source struct {
	parser  *gofeed.Parser
	feedURL string
	logger  *slog.Logger
}

// New creates a new feed source.
func New(cfg Config, logger *slog.Logger) *Source {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: cfg.Timeout}
	parser.UserAgent = "prospector/1.0"

	return &Source{
		parser:  parser,
		feedURL: cfg.URL,
		logger:  logger.With("source", SourceID),
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

// Fetch returns normalized opportunities from the feed.
// Failures are contained here: any transport or payload error yields an
// empty result, logged at Warn and invisible to the caller.
func (s *Source) Fetch(ctx context.Context) []domain.Opportunity {
	opps, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("fetch failed", "url", s.feedURL, "error", err)
		return nil
	}
	return opps
}

func (s *Source) fetch(ctx context.Context) ([]domain.Opportunity, error) {
	parsed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return s.transform(parsed.Items), nil
}

func (s *Source) transform(items []*gofeed.Item) []domain.Opportunity {
	opps := make([]domain.Opportunity, 0, maxItems)

	for _, item := range items {
		if len(opps) == maxItems {
			break
		}
		if item == nil || item.Title == "" || item.Link == "" {
			continue
		}

		opps = append(opps, domain.Opportunity{
			Source:   domain.SourceRSS,
			Title:    item.Title,
			URL:      item.Link,
			Priority: domain.PriorityNormal,
		})
	}

	return opps
}
