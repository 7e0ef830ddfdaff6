package wordpress

import "strings"

// buildPostPayload assembles the post body for the WP REST API. Title,
// content, excerpt and status are always present. Slug, categories and tags
// are included only when present and well-formed: WordPress rejects requests
// carrying an empty slug or empty term arrays, so absent and empty must not
// be sent.
func buildPostPayload(title, content, excerpt, slug, status string, categories, tags []int) map[string]interface{} {
	payload := map[string]interface{}{
		"title":   title,
		"content": content,
		"excerpt": excerpt,
		"status":  status,
	}

	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		payload["slug"] = trimmed
	}
	if len(categories) > 0 {
		payload["categories"] = categories
	}
	if len(tags) > 0 {
		payload["tags"] = tags
	}

	return payload
}
