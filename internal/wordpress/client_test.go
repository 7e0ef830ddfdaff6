package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seoscribe/seoscribe/internal/models"
)

func newTestSite(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, "admin", "app-pass", nil)
}

func TestPublishArticleCreatesWhenNoRemoteID(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}
	_, client := newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if user, pass, ok := r.BasicAuth(); !ok || user != "admin" || pass != "app-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Post{ID: 42, Link: "https://x/y", Status: "publish"})
	})

	article := &models.Article{
		Title:           "Hello",
		Content:         "## Heading\n\nBody text.",
		MetaDescription: "meta",
	}

	result, err := client.PublishArticle(context.Background(), article, PublishOptions{})
	if err != nil {
		t.Fatalf("PublishArticle returned error: %v", err)
	}

	if gotPath != "/wp-json/wp/v2/posts" {
		t.Errorf("expected create path, got %s", gotPath)
	}
	if !result.Success || result.PostID != "42" || result.URL != "https://x/y" {
		t.Errorf("unexpected result: %+v", result)
	}
	if gotPayload["status"] != "publish" {
		t.Errorf("expected default status publish, got %v", gotPayload["status"])
	}
	if _, ok := gotPayload["slug"]; ok {
		t.Error("empty slug must not be sent")
	}
}

func TestPublishArticleUpdatesWhenRemoteIDPresent(t *testing.T) {
	var gotPath string
	_, client := newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Post{ID: 7, Link: "https://x/z", Status: "publish"})
	})

	article := &models.Article{Title: "Hello", Content: "body", CMSPostID: "7"}

	result, err := client.PublishArticle(context.Background(), article, PublishOptions{Status: "publish"})
	if err != nil {
		t.Fatalf("PublishArticle returned error: %v", err)
	}
	if gotPath != "/wp-json/wp/v2/posts/7" {
		t.Errorf("expected update path, got %s", gotPath)
	}
	if result.PostID != "7" {
		t.Errorf("expected post id 7, got %s", result.PostID)
	}
}

func TestPublishArticleSurfacesProviderError(t *testing.T) {
	_, client := newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(wpError{Code: "rest_invalid_param", Message: "Invalid parameter: status"})
	})

	article := &models.Article{Title: "Hello", Content: "body"}

	_, err := client.PublishArticle(context.Background(), article, PublishOptions{Status: "bogus"})
	if err == nil {
		t.Fatal("expected error from provider")
	}
	if !strings.Contains(err.Error(), "rest_invalid_param") {
		t.Errorf("expected provider error code in message, got: %v", err)
	}
}

func TestTestConnection(t *testing.T) {
	_, client := newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/users/me" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id":1}`))
	})

	if err := client.TestConnection(context.Background()); err != nil {
		t.Errorf("TestConnection returned error: %v", err)
	}
}

func TestTestConnectionRejectsBadCredentials(t *testing.T) {
	_, client := newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if err := client.TestConnection(context.Background()); err == nil {
		t.Error("expected error for 401 response")
	}
}
