package generator

import (
	"fmt"
	"strings"

	"github.com/seoscribe/seoscribe/internal/media"
	"github.com/seoscribe/seoscribe/internal/models"
)

// addInternalLinks appends a further-reading section pointing at up to three
// sibling articles of the same project.
func addInternalLinks(content string, siblings []models.Article, siteURL string) string {
	var links []string
	for _, sibling := range siblings {
		if sibling.Slug == "" {
			continue
		}
		target := sibling.PublishedURL
		if target == "" {
			target = strings.TrimRight(siteURL, "/") + "/" + sibling.Slug
		}
		links = append(links, fmt.Sprintf("- [%s](%s)", sibling.Title, target))
		if len(links) == 3 {
			break
		}
	}
	if len(links) == 0 {
		return content
	}
	return content + "\n\n## Further reading\n\n" + strings.Join(links, "\n") + "\n"
}

// insertStockImage places the image after the first heading's section so it
// lands below the introduction.
func insertStockImage(content string, img media.Image) string {
	imgMarkdown := fmt.Sprintf("\n![%s](%s)\n*Photo: %s*\n", img.Alt, img.URL, img.Credit)

	// Insert before the second heading when there is one, otherwise append.
	lines := strings.Split(content, "\n")
	headings := 0
	for i, line := range lines {
		if strings.HasPrefix(line, "## ") {
			headings++
			if headings == 2 {
				rest := strings.Join(lines[i:], "\n")
				return strings.Join(lines[:i], "\n") + imgMarkdown + "\n" + rest
			}
		}
	}
	return content + "\n" + imgMarkdown
}

// embedVideo appends a video embed figure at the end of the article.
func embedVideo(content string, video *media.Video) string {
	if video == nil {
		return content
	}
	embed := fmt.Sprintf("\n\n<figure class=\"video-embed\"><iframe src=\"https://www.youtube.com/embed/%s\" "+
		"title=\"%s\" allowfullscreen></iframe></figure>\n", video.ID, video.Title)
	return content + embed
}

// metaDescriptionFrom derives a meta description from the first prose
// paragraph, truncated on a word boundary.
func metaDescriptionFrom(content string, maxLen int) string {
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") || strings.HasPrefix(block, "|") ||
			strings.HasPrefix(block, "!") || strings.HasPrefix(block, "<") {
			continue
		}
		if len(block) <= maxLen {
			return block
		}
		cut := block[:maxLen]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		return cut + "…"
	}
	return ""
}
