package wordpress

import (
	"strings"
	"testing"
)

func TestMarkdownToHTMLRendersHardBreaks(t *testing.T) {
	out, err := MarkdownToHTML("line one\nline two")
	if err != nil {
		t.Fatalf("MarkdownToHTML returned error: %v", err)
	}
	if !strings.Contains(out, "<br") {
		t.Errorf("expected single newline to render as <br>, got: %s", out)
	}
}

func TestMarkdownToHTMLRendersGFMTable(t *testing.T) {
	md := "| A | B |\n|---|---|\n| 1 | 2 |"
	out, err := MarkdownToHTML(md)
	if err != nil {
		t.Fatalf("MarkdownToHTML returned error: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected GFM table to render, got: %s", out)
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single comment", "<p>a</p><!-- note --><p>b</p>", "<p>a</p><p>b</p>"},
		{"multiline comment", "<p>a</p><!-- line1\nline2 --><p>b</p>", "<p>a</p><p>b</p>"},
		{"no comments", "<p>a</p>", "<p>a</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripComments(tt.in); got != tt.want {
				t.Errorf("StripComments(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
