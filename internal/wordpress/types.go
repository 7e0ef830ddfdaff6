// Package wordpress is the publish-target boundary: a thin client for the
// WordPress REST API plus the content transforms applied on the way out.
package wordpress

// PublishResult is the normalized outcome of a create or update call. Both
// provider verbs return the same shape so callers never branch on which one
// ran.
type PublishResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"post_id,omitempty"`
	URL     string `json:"url,omitempty"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PublishOptions carries the caller-supplied knobs for a publish attempt.
type PublishOptions struct {
	// Status is the post status to request ("publish" or "draft").
	// Defaults to "publish" when empty.
	Status     string
	Categories []int
	Tags       []int
}

// Post mirrors the subset of the WP REST post resource we read back.
type Post struct {
	ID     int    `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

// Media mirrors the subset of the WP REST media resource we read back.
type Media struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
}

type wpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
