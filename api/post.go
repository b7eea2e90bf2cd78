package api

// PostSummary is a post as it appears in a listing.
type PostSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Cover       string `json:"cover,omitempty"`
}

// Post is a single post with its content rendered to HTML.
type Post struct {
	PostSummary
	Draft   bool   `json:"draft"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
}

type Error struct {
	Error string `json:"error"`
}
