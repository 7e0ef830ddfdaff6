package generator

import (
	"fmt"
	"strings"

	"github.com/seoscribe/seoscribe/internal/models"
)

// buildSystemPrompt describes the writing persona from project context.
func buildSystemPrompt(project *models.Project, settings *models.ArticleSettings) string {
	var sb strings.Builder
	sb.WriteString("You are an experienced SEO content writer producing publish-ready blog articles in GitHub-flavored markdown.\n")
	fmt.Fprintf(&sb, "You write for %s", project.Name)
	if project.Website != "" {
		fmt.Fprintf(&sb, " (%s)", project.Website)
	}
	sb.WriteString(".\n")
	if project.Description != "" {
		fmt.Fprintf(&sb, "About the site: %s\n", project.Description)
	}
	if project.Audience != "" {
		fmt.Fprintf(&sb, "Target audience: %s\n", project.Audience)
	}
	fmt.Fprintf(&sb, "Tone: %s. Language: %s.\n", project.Tone, settings.Language)
	sb.WriteString("Use ## headings, short paragraphs, and a comparison table where it helps. Do not include a top-level H1; the title is set separately.")
	return sb.String()
}

// buildUserPrompt describes the individual assignment.
func buildUserPrompt(item workItem, article *models.Article, settings *models.ArticleSettings) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write an article titled %q.\n", article.Title)
	fmt.Fprintf(&sb, "Primary keyword: %q. Content type: %s.\n", item.Keyword, item.ContentType)
	fmt.Fprintf(&sb, "Length: between %d and %d words.\n", settings.MinWords, settings.MaxWords)
	sb.WriteString("Work the primary keyword into the opening paragraph and at least two headings naturally. ")
	sb.WriteString("End with a short conclusion. Return only the article markdown, no preamble.")
	return sb.String()
}

// buildQualityPrompt asks the model to edit its own draft.
func buildQualityPrompt(content string) string {
	return "Edit the following article for clarity, grammar, and flow. " +
		"Keep the markdown structure, headings, links, images, and embeds exactly as they are. " +
		"Return only the edited markdown.\n\n" + content
}
