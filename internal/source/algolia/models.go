package algolia

// SearchResponse represents the Algolia search response structure.
type SearchResponse struct {
	Hits []Hit `json:"hits"`
}

type Hit struct {
	ObjectID        string     `json:"objectID"`
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	StoryText       string     `json:"story_text"`
	HighlightResult *Highlight `json:"_highlightResult"`
}

type Highlight struct {
	StoryText *HighlightField `json:"story_text"`
}

type HighlightField struct {
	Value string `json:"value"`
}

// snippet returns the highlighted story text when present, falling back
// to the plain story text.
func (h Hit) snippet() string {
	if h.HighlightResult != nil && h.HighlightResult.StoryText != nil && h.HighlightResult.StoryText.Value != "" {
		return h.HighlightResult.StoryText.Value
	}
	return h.StoryText
}
