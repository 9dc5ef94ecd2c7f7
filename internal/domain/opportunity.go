package domain

import "strings"

// Source identifies the connector family an opportunity came from.
type Source string

const (
	SourceGitHub     Source = "github"
	SourceReddit     Source = "reddit"
	SourceHackerNews Source = "hackernews"
	SourceRSS        Source = "rss"
)

// Priority defaults per source family. Lower is more urgent; the triage
// consumer maps these to its own workflow.
const (
	PriorityUrgent = 0
	PriorityNormal = 1
	PriorityLow    = 2
	PriorityNone   = 3
)

// PreviewLimit bounds Description length in runes.
const PreviewLimit = 500

// Opportunity is the canonical lead record produced by a connector.
// It is created fresh per aggregation run and never mutated afterwards.
// URL is the deduplication identity: two records are duplicates iff their
// URL strings are byte-identical. No URL normalization is applied.
type Opportunity struct {
	Source      Source `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
}

// Preview collapses whitespace and truncates s to PreviewLimit runes,
// appending an ellipsis when anything was cut.
func Preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= PreviewLimit {
		return s
	}
	return string(runes[:PreviewLimit-3]) + "..."
}
