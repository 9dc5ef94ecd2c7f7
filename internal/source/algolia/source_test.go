package algolia

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospector/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Config{
		BaseURL: srv.URL,
		Query:   "Who is hiring",
		Limit:   20,
		Timeout: 5 * time.Second,
	}, testLogger())
}

const searchBody = `{
	"hits": [
		{
			"objectID": "101",
			"title": "Acme is hiring Go engineers",
			"url": "https://acme.example.com/jobs",
			"story_text": "",
			"_highlightResult": {"story_text": {"value": "We are <em>hiring</em> remote engineers"}}
		},
		{
			"objectID": "102",
			"title": "Ask HN: Who is hiring?",
			"url": "",
			"story_text": "Monthly thread."
		},
		{
			"objectID": "",
			"title": "dropped, no id",
			"url": "https://nowhere.example.com"
		}
	]
}`

func TestFetch_MapsHits(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Who is hiring", r.URL.Query().Get("query"))
		assert.Equal(t, "story", r.URL.Query().Get("tags"))
		assert.Equal(t, "20", r.URL.Query().Get("hitsPerPage"))
		_, _ = w.Write([]byte(searchBody))
	})

	opps := src.Fetch(context.Background())

	require.Len(t, opps, 2)

	assert.Equal(t, domain.SourceHackerNews, opps[0].Source)
	assert.Equal(t, "Acme is hiring Go engineers", opps[0].Title)
	assert.Equal(t, "https://acme.example.com/jobs", opps[0].URL)
	assert.Equal(t, "We are hiring remote engineers", opps[0].Description)
	assert.Equal(t, domain.PriorityNormal, opps[0].Priority)

	// Ask-style hit falls back to the constructed item page.
	assert.Equal(t, "https://news.ycombinator.com/item?id=102", opps[1].URL)
	assert.Equal(t, "Monthly thread.", opps[1].Description)
}

func TestFetch_TitleFallsBackToItemURL(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":[{"objectID":"7","title":"","url":""}]}`))
	})

	opps := src.Fetch(context.Background())

	require.Len(t, opps, 1)
	assert.Equal(t, "https://news.ycombinator.com/item?id=7", opps[0].Title)
	assert.Equal(t, "https://news.ycombinator.com/item?id=7", opps[0].URL)
}

func TestFetch_NonSuccessStatusYieldsEmpty(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	assert.Empty(t, src.Fetch(context.Background()))
}

func TestFetch_MalformedPayloadYieldsEmpty(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits": [{`))
	})

	assert.Empty(t, src.Fetch(context.Background()))
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<em>hiring</em> now", "hiring now"},
		{"no markup", "no markup"},
		{"", ""},
		{"<em>a</em><em>b</em>", "ab"},
	}
	for _, tt := range tests {
		if got := stripTags(tt.input); got != tt.want {
			t.Errorf("stripTags(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
