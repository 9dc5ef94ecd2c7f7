package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"prospector/internal/domain"
)

const (
	SourceID   = "reddit"
	SourceName = "Reddit"

	defaultBaseURL = "https://www.reddit.com"
	permalinkHost  = "https://www.reddit.com"
	maxPageSize    = 50
)

// Config holds Reddit listing configuration.
type Config struct {
	BaseURL   string
	Subreddit string
	Limit     int
	Timeout   time.Duration
}

// Source reads the "new posts" listing of a subreddit.
type Source struct {
	httpClient *http.Client
	baseURL    string
	subreddit  string
	limit      int
	logger     *slog.Logger
}

// New creates a new Reddit source.
func New(cfg Config, logger *slog.Logger) *Source {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limit := cfg.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	return &Source{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		subreddit:  cfg.Subreddit,
		limit:      limit,
		logger:     logger.With("source", SourceID),
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

// Fetch returns normalized opportunities from the subreddit listing.
// Failures are contained here: any transport or payload error yields an
// empty result, logged at Warn and invisible to the caller.
func (s *Source) Fetch(ctx context.Context) []domain.Opportunity {
	opps, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("fetch failed", "subreddit", s.subreddit, "error", err)
		return nil
	}
	return opps
}

func (s *Source) fetch(ctx context.Context) ([]domain.Opportunity, error) {
	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d", s.baseURL, s.subreddit, s.limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "prospector/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return s.transform(listing.Data.Children), nil
}

func (s *Source) transform(children []Child) []domain.Opportunity {
	opps := make([]domain.Opportunity, 0, len(children))

	for _, child := range children {
		post := child.Data
		if post.Permalink == "" {
			continue
		}

		opps = append(opps, domain.Opportunity{
			Source:      domain.SourceReddit,
			Title:       post.Title,
			URL:         permalinkHost + post.Permalink,
			Description: domain.Preview(post.Selftext),
			Priority:    domain.PriorityUrgent,
		})
	}

	return opps
}
