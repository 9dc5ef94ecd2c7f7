package reddit

// Listing represents the Reddit listing response structure.
type Listing struct {
	Data ListingData `json:"data"`
}

type ListingData struct {
	Children []Child `json:"children"`
}

type Child struct {
	Data Post `json:"data"`
}

type Post struct {
	Title     string `json:"title"`
	Permalink string `json:"permalink"`
	Selftext  string `json:"selftext"`
}
