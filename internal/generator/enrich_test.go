package generator

import (
	"strings"
	"testing"

	"github.com/seoscribe/seoscribe/internal/media"
	"github.com/seoscribe/seoscribe/internal/models"
)

func TestAddInternalLinks(t *testing.T) {
	siblings := []models.Article{
		{Title: "First", Slug: "first", PublishedURL: "https://site/first"},
		{Title: "Second", Slug: "second"},
		{Title: "No Slug"},
		{Title: "Third", Slug: "third"},
		{Title: "Fourth", Slug: "fourth"},
	}

	out := addInternalLinks("body", siblings, "https://site/")

	if !strings.Contains(out, "## Further reading") {
		t.Fatalf("expected further reading section: %s", out)
	}
	if !strings.Contains(out, "[First](https://site/first)") {
		t.Errorf("expected published URL link: %s", out)
	}
	if !strings.Contains(out, "[Second](https://site/second)") {
		t.Errorf("expected slug fallback link: %s", out)
	}
	if strings.Contains(out, "No Slug") {
		t.Errorf("slugless article should be skipped: %s", out)
	}
	if strings.Count(out, "\n- [") > 3 {
		t.Errorf("expected at most 3 links: %s", out)
	}
}

func TestAddInternalLinksNoSiblings(t *testing.T) {
	if out := addInternalLinks("body", nil, "https://site"); out != "body" {
		t.Errorf("expected content unchanged, got %q", out)
	}
}

func TestInsertStockImageBeforeSecondHeading(t *testing.T) {
	content := "intro\n\n## One\n\ntext\n\n## Two\n\nmore"
	img := media.Image{URL: "https://img/x.jpg", Alt: "alt text", Credit: "Someone"}

	out := insertStockImage(content, img)

	imgIdx := strings.Index(out, "![alt text]")
	twoIdx := strings.Index(out, "## Two")
	if imgIdx == -1 || twoIdx == -1 || imgIdx > twoIdx {
		t.Errorf("image should land before second heading: %s", out)
	}
}

func TestInsertStockImageAppendsWhenOneSection(t *testing.T) {
	out := insertStockImage("## Only\n\ntext", media.Image{URL: "u", Alt: "a", Credit: "c"})
	if !strings.HasSuffix(strings.TrimSpace(out), "*Photo: c*") {
		t.Errorf("expected image appended at end: %s", out)
	}
}

func TestEmbedVideo(t *testing.T) {
	out := embedVideo("body", &media.Video{ID: "abc123", Title: "How To"})
	if !strings.Contains(out, "youtube.com/embed/abc123") {
		t.Errorf("expected embed iframe: %s", out)
	}
	if out := embedVideo("body", nil); out != "body" {
		t.Errorf("nil video should leave content unchanged, got %q", out)
	}
}

func TestMetaDescriptionFrom(t *testing.T) {
	content := "## Heading\n\n| a | b |\n\nThis is the opening paragraph of the article with plenty of words to describe it.\n\nSecond paragraph."
	meta := metaDescriptionFrom(content, 155)
	if !strings.HasPrefix(meta, "This is the opening paragraph") {
		t.Errorf("expected first prose paragraph, got %q", meta)
	}

	long := strings.Repeat("word ", 60)
	meta = metaDescriptionFrom(long, 50)
	if len(meta) > 55 {
		t.Errorf("expected truncation near 50 chars, got %d: %q", len(meta), meta)
	}
	if !strings.HasSuffix(meta, "…") {
		t.Errorf("expected ellipsis on truncated description: %q", meta)
	}
}
