package wordpress

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var commentExpr = regexp.MustCompile(`(?s)<!--.*?-->`)

// md converts GFM markdown with single newlines rendered as <br>, matching
// what the editor preview shows. Raw HTML in article bodies is passed
// through, content is trusted (we generated it).
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithUnsafe(),
	),
)

// MarkdownToHTML converts an article's markdown body to HTML.
func MarkdownToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// StripComments removes HTML comments from content. Generation models
// occasionally leave editorial notes in comments that must not reach the
// published post.
func StripComments(content string) string {
	return commentExpr.ReplaceAllString(content, "")
}
