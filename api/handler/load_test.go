package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/harvest/config"
	"github.com/use-agent/harvest/loader"
	"github.com/use-agent/harvest/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postLoad(t *testing.T, run LoadFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/load", Load(config.LoaderConfig{Browser: "chrome", Timeout: 30 * time.Second}, run))

	req := httptest.NewRequest(http.MethodPost, "/load", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.LoadResponse {
	t.Helper()
	var resp models.LoadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, w.Body.String())
	}
	return resp
}

func TestLoad_Success(t *testing.T) {
	run := func(ctx context.Context, cfg loader.Config) ([]models.Document, []loader.Failure, error) {
		if len(cfg.URLs) != 2 {
			t.Errorf("run received %d URLs, want 2", len(cfg.URLs))
		}
		return []models.Document{
				{PageContent: "hello", Metadata: models.Metadata{Source: cfg.URLs[0]}},
			}, []loader.Failure{
				{URL: cfg.URLs[1], Err: models.NewLoadError(models.ErrCodeNavigation, "dns failure", nil)},
			}, nil
	}

	w := postLoad(t, run, `{"urls": ["https://a.test", "https://bad.test"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	resp := decode(t, w)
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if len(resp.Documents) != 1 || resp.Documents[0].Metadata.Source != "https://a.test" {
		t.Errorf("Documents = %+v, want one from https://a.test", resp.Documents)
	}
	if len(resp.Failed) != 1 || resp.Failed[0].URL != "https://bad.test" {
		t.Errorf("Failed = %+v, want one entry for https://bad.test", resp.Failed)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	w := postLoad(t, nil, `{"urls": [`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decode(t, w); resp.Error == nil || resp.Error.Code != models.ErrCodeInvalidInput {
		t.Errorf("error = %+v, want INVALID_INPUT", resp.Error)
	}
}

func TestLoad_RequiresURLs(t *testing.T) {
	for _, body := range []string{`{}`, `{"urls": []}`} {
		if w := postLoad(t, nil, body); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestLoad_RejectsUnknownBrowser(t *testing.T) {
	w := postLoad(t, nil, `{"urls": ["https://a.test"], "browser": "safari"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLoad_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{models.ErrCodeInvalidBrowser, http.StatusBadRequest},
		{models.ErrCodeBrowserLaunch, http.StatusServiceUnavailable},
		{models.ErrCodeNavigation, http.StatusBadGateway},
		{models.ErrCodeTimeout, http.StatusGatewayTimeout},
		{models.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			run := func(ctx context.Context, cfg loader.Config) ([]models.Document, []loader.Failure, error) {
				return nil, nil, models.NewLoadError(tt.code, "boom", nil)
			}
			w := postLoad(t, run, `{"urls": ["https://a.test"], "continue_on_failure": false}`)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if resp := decode(t, w); resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestMergeConfig(t *testing.T) {
	defaults := config.LoaderConfig{
		Browser:    "firefox",
		Timeout:    20 * time.Second,
		MaxTimeout: 60 * time.Second,
		Proxy:      "http://proxy:8080",
	}

	req := &models.LoadRequest{URLs: []string{"https://a.test"}, Timeout: 90}
	req.Defaults()
	// Defaults() fills the browser; clear it to exercise the server-side default.
	req.Browser = ""

	cfg := mergeConfig(req, defaults)
	if cfg.Browser != "firefox" {
		t.Errorf("Browser = %q, want server default firefox", cfg.Browser)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want capped 60s", cfg.Timeout)
	}
	if cfg.Proxy != defaults.Proxy {
		t.Errorf("Proxy = %q, want %q", cfg.Proxy, defaults.Proxy)
	}
	if !cfg.ContinueOnFailure {
		t.Error("ContinueOnFailure = false, want default true")
	}
	if !cfg.Headless {
		t.Error("Headless = false, want default true")
	}
}
