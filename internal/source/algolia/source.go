package algolia

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"prospector/internal/domain"
)

const (
	SourceID   = "hackernews"
	SourceName = "Hacker News"

	defaultBaseURL = "https://hn.algolia.com/api/v1"
	itemURLFormat  = "https://news.ycombinator.com/item?id=%s"
	maxHits        = 50
)

// Config holds HN Algolia search configuration.
type Config struct {
	BaseURL string
	Query   string
	Limit   int
	Timeout time.Duration
}

// Source queries the Hacker News search index.
type Source struct {
	httpClient *http.Client
	baseURL    string
	query      string
	limit      int
	logger     *slog.Logger
}

// New creates a new Hacker News source.
func New(cfg Config, logger *slog.Logger) *Source {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limit := cfg.Limit
	if limit <= 0 || limit > maxHits {
		limit = maxHits
	}

	return &Source{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		query:      cfg.Query,
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

// Fetch returns normalized opportunities from the search index.
// Failures are contained here: any transport or payload error yields an
// empty result, logged at Warn and invisible to the caller.
func (s *Source) Fetch(ctx context.Context) []domain.Opportunity {
	opps, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("fetch failed", "query", s.query, "error", err)
		return nil
	}
	return opps
}

func (s *Source) fetch(ctx context.Context) ([]domain.Opportunity, error) {
	searchURL := fmt.Sprintf("%s/search?query=%s&tags=story&hitsPerPage=%d",
		s.baseURL, url.QueryEscape(s.query), s.limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
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

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return s.transform(result.Hits), nil
}

func (s *Source) transform(hits []Hit) []domain.Opportunity {
	opps := make([]domain.Opportunity, 0, len(hits))

	for _, hit := range hits {
		if hit.ObjectID == "" {
			continue
		}

		// Ask-style stories carry no external URL; point at the item page.
		itemURL := hit.URL
		if itemURL == "" {
			itemURL = fmt.Sprintf(itemURLFormat, hit.ObjectID)
		}

		title := hit.Title
		if title == "" {
			title = itemURL
		}

		opps = append(opps, domain.Opportunity{
			Source:      domain.SourceHackerNews,
			Title:       title,
			URL:         itemURL,
			Description: domain.Preview(stripTags(hit.snippet())),
			Priority:    domain.PriorityNormal,
		})
	}

	return opps
}

// stripTags removes the <em> highlight markup Algolia embeds in snippets.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
