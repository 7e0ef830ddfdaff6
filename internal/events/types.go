// Package events publishes article lifecycle events to a Redis Stream for
// external observers (analytics, notifications). Publishing is always best
// effort; pipelines never fail on a stream error.
package events

// Stream name constant
const StreamArticleEvents = "articles:events"

// Schema version constant
const SchemaVersionV1 = "v1"

// Event type constants
const (
	TypeArticleGenerated     = "article.generated"
	TypeArticlePublished     = "article.published"
	TypeArticlePublishFailed = "article.publish_failed"
)

// Event is one article lifecycle event message.
type Event struct {
	ID        string `json:"id"` // unique event id (uuid)
	Type      string `json:"type"`
	ArticleID uint   `json:"article_id"`
	ProjectID uint   `json:"project_id"`
	PostID    string `json:"post_id,omitempty"`
	URL       string `json:"url,omitempty"`
	Error     string `json:"error,omitempty"`
}
