// Package media wraps the stock-image and video-search providers used to
// enrich generated articles. Both clients are best-effort collaborators:
// callers treat every error as "skip the enrichment".
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Image is one stock photo result.
type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Credit string `json:"credit"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageClient searches a Pexels-compatible stock photo API.
type ImageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	stubMode   bool
}

// NewImageClient creates a stock-image client. An empty baseURL selects the
// public Pexels endpoint.
func NewImageClient(baseURL, apiKey string, stubMode bool) *ImageClient {
	if baseURL == "" {
		baseURL = "https://api.pexels.com/v1"
	}
	return &ImageClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		stubMode:   stubMode,
	}
}

type pexelsSearchResponse struct {
	Photos []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		Photographer string `json:"photographer"`
		Alt          string `json:"alt"`
		Src          struct {
			Large string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// Search returns up to count stock photos matching the query.
func (c *ImageClient) Search(ctx context.Context, query string, count int) ([]Image, error) {
	if c.stubMode {
		return []Image{{
			URL:    "https://images.example.com/stub.jpg",
			Alt:    query,
			Credit: "Stub Photographer",
			Width:  1200,
			Height: 800,
		}}, nil
	}

	if count <= 0 {
		count = 1
	}

	u := c.baseURL + "/search?query=" + url.QueryEscape(query) + "&per_page=" + strconv.Itoa(count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("image provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	images := make([]Image, 0, len(parsed.Photos))
	for _, p := range parsed.Photos {
		images = append(images, Image{
			URL:    p.Src.Large,
			Alt:    p.Alt,
			Credit: p.Photographer,
			Width:  p.Width,
			Height: p.Height,
		})
	}
	return images, nil
}
