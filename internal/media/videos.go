package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Video is one video-search result suitable for embedding.
type Video struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// VideoClient searches the YouTube Data API for embeddable videos.
type VideoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	stubMode   bool
}

// NewVideoClient creates a video-search client. An empty baseURL selects the
// public YouTube Data API endpoint.
func NewVideoClient(baseURL, apiKey string, stubMode bool) *VideoClient {
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	return &VideoClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		stubMode:   stubMode,
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search returns the top embeddable video for the query, or nil when none
// was found.
func (c *VideoClient) Search(ctx context.Context, query string) (*Video, error) {
	if c.stubMode {
		return &Video{
			ID:    "stub12345",
			Title: query,
			URL:   "https://www.youtube.com/watch?v=stub12345",
		}, nil
	}

	u := c.baseURL + "/search?part=snippet&type=video&videoEmbeddable=true&maxResults=1&q=" +
		url.QueryEscape(query) + "&key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("video provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Items) == 0 {
		return nil, nil
	}

	item := parsed.Items[0]
	return &Video{
		ID:    item.ID.VideoID,
		Title: item.Snippet.Title,
		URL:   "https://www.youtube.com/watch?v=" + item.ID.VideoID,
	}, nil
}
