package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/seoscribe/seoscribe/internal/models"
)

// Client talks to one WordPress site's REST API using an application
// password. One client per integration; construct with the decrypted
// password and pass it into the pipeline (no shared process-wide instance).
type Client struct {
	baseURL     string
	username    string
	appPassword string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a WordPress client for the given site.
func NewClient(siteURL, username, appPassword string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:     strings.TrimRight(siteURL, "/"),
		username:    username,
		appPassword: appPassword,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

func (c *Client) apiURL(p string) string {
	return c.baseURL + "/wp-json/wp/v2" + p
}

func (c *Client) doJSON(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.appPassword)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var we wpError
	if err := json.Unmarshal(raw, &we); err == nil && we.Message != "" {
		return fmt.Errorf("wordpress returned status %d: %s (%s)", resp.StatusCode, we.Message, we.Code)
	}
	return fmt.Errorf("wordpress returned status %d: %s", resp.StatusCode, string(raw))
}

// CreatePost creates a new post.
func (c *Client) CreatePost(ctx context.Context, payload map[string]interface{}) (*Post, error) {
	var post Post
	if err := c.doJSON(ctx, http.MethodPost, c.apiURL("/posts"), payload, &post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// UpdatePost updates an existing post by its remote id.
func (c *Client) UpdatePost(ctx context.Context, postID string, payload map[string]interface{}) (*Post, error) {
	var post Post
	if err := c.doJSON(ctx, http.MethodPost, c.apiURL("/posts/"+postID), payload, &post); err != nil {
		return nil, fmt.Errorf("update post %s: %w", postID, err)
	}
	return &post, nil
}

// TestConnection verifies the credentials by fetching the authenticated user.
func (c *Client) TestConnection(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/users/me"), nil, nil); err != nil {
		return fmt.Errorf("test connection: %w", err)
	}
	return nil
}

// UploadMedia sideloads a file into the site's media library.
func (c *Client) UploadMedia(ctx context.Context, filename, contentType string, data []byte) (*Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("/media"), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.appPassword)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var media Media
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &media, nil
}

// ProcessContentImages rewrites external <img> sources to copies hosted by
// the target site so posts do not hotlink third-party hosts. Every step is
// best effort: any download or upload failure leaves the original URL in
// place and never aborts the publish.
func (c *Client) ProcessContentImages(ctx context.Context, content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		c.logger.Warn("Image processing: failed to parse content", "error", err)
		return content
	}

	rewritten := false
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if src == "" || strings.HasPrefix(src, c.baseURL) || strings.HasPrefix(src, "data:") {
			return
		}

		media, err := c.sideloadImage(ctx, src)
		if err != nil {
			c.logger.Warn("Image processing: sideload failed, keeping original URL",
				"src", src, "error", err)
			return
		}

		img.SetAttr("src", media.SourceURL)
		rewritten = true
	})

	if !rewritten {
		return content
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		c.logger.Warn("Image processing: failed to serialize content", "error", err)
		return content
	}
	return out
}

func (c *Client) sideloadImage(ctx context.Context, src string) (*Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image host returned %s", resp.Status)
	}

	// Cap downloads at 10MB
	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	filename := path.Base(strings.SplitN(src, "?", 2)[0])
	if filename == "" || filename == "." || filename == "/" {
		filename = "image"
	}
	if path.Ext(filename) == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			filename += exts[0]
		}
	}

	return c.UploadMedia(ctx, filename, contentType, data)
}

// PublishArticle runs the full outbound transform and publishes the article:
// markdown to HTML, comment strip, table normalization, image sideloading,
// then create or update depending on whether the article already has a
// remote post id. Both paths return the same normalized result shape.
func (c *Client) PublishArticle(ctx context.Context, article *models.Article, opts PublishOptions) (*PublishResult, error) {
	content, err := MarkdownToHTML(article.Content)
	if err != nil {
		return nil, fmt.Errorf("convert content: %w", err)
	}

	content = StripComments(content)

	content, err = NormalizeTables(content)
	if err != nil {
		return nil, fmt.Errorf("normalize tables: %w", err)
	}

	content = c.ProcessContentImages(ctx, content)

	status := opts.Status
	if status == "" {
		status = "publish"
	}

	payload := buildPostPayload(
		article.Title,
		content,
		article.MetaDescription,
		article.Slug,
		status,
		opts.Categories,
		opts.Tags,
	)

	var post *Post
	if article.CMSPostID != "" {
		post, err = c.UpdatePost(ctx, article.CMSPostID, payload)
	} else {
		post, err = c.CreatePost(ctx, payload)
	}
	if err != nil {
		return nil, err
	}

	return &PublishResult{
		Success: true,
		PostID:  fmt.Sprintf("%d", post.ID),
		URL:     post.Link,
		Status:  post.Status,
	}, nil
}
