package cron

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/seoscribe/seoscribe/internal/pipeline"
)

type stubPublishRunner struct {
	result *pipeline.PublishRunResult
	err    error
	calls  int
}

func (s *stubPublishRunner) Run(ctx context.Context) (*pipeline.PublishRunResult, error) {
	s.calls++
	return s.result, s.err
}

type stubGenerateRunner struct {
	result *pipeline.GenerateRunResult
	err    error
}

func (s *stubGenerateRunner) Run(ctx context.Context) (*pipeline.GenerateRunResult, error) {
	return s.result, s.err
}

func newRouter(secret string, p *stubPublishRunner, g *stubGenerateRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, secret, p, g)
	return r
}

func TestTriggerRejectsMissingSecret(t *testing.T) {
	p := &stubPublishRunner{result: &pipeline.PublishRunResult{Success: true}}
	r := newRouter("s3cret", p, &stubGenerateRunner{result: &pipeline.GenerateRunResult{Success: true}})

	for _, header := range []string{"", "Bearer wrong", "s3cret"} {
		req := httptest.NewRequest(http.MethodPost, "/api/cron/auto-publish", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}
	if p.calls != 0 {
		t.Errorf("pipeline must not run on rejected requests, ran %d times", p.calls)
	}
}

func TestTriggerRejectsEverythingWhenSecretUnset(t *testing.T) {
	r := newRouter("", &stubPublishRunner{}, &stubGenerateRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/cron/auto-publish", nil)
	req.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with empty configured secret, got %d", w.Code)
	}
}

func TestAutoPublishAcceptsBothVerbs(t *testing.T) {
	p := &stubPublishRunner{result: &pipeline.PublishRunResult{
		Success: true,
		Message: "Published 0 articles, 0 failed",
		Results: []pipeline.ArticleResult{},
	}}
	r := newRouter("s3cret", p, &stubGenerateRunner{})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/api/cron/auto-publish", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", method, w.Code)
		}

		var body pipeline.PublishRunResult
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: invalid JSON response: %v", method, err)
		}
		if !body.Success || body.Published != 0 || body.Failed != 0 || body.Results == nil {
			t.Errorf("%s: unexpected body: %+v", method, body)
		}
	}
}

func TestAutoPublishScanErrorIsNon200(t *testing.T) {
	p := &stubPublishRunner{err: errors.New("due article scan failed: connection refused")}
	r := newRouter("s3cret", p, &stubGenerateRunner{})

	req := httptest.NewRequest(http.MethodPost, "/api/cron/auto-publish", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for store outage, got %d", w.Code)
	}
}

func TestGenerateScheduledReturnsStats(t *testing.T) {
	g := &stubGenerateRunner{result: &pipeline.GenerateRunResult{
		Success: true,
		Message: "Generated 1 of 1 articles across 1 projects",
		Stats:   pipeline.GenerateRunStats{Projects: 1, Processed: 1, Generated: 1},
	}}
	r := newRouter("s3cret", &stubPublishRunner{}, g)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/generate-scheduled", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body pipeline.GenerateRunResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Stats.Generated != 1 || body.Stats.Projects != 1 {
		t.Errorf("unexpected stats: %+v", body.Stats)
	}
}
