package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/harvest/config"
	"github.com/use-agent/harvest/loader"
	"github.com/use-agent/harvest/models"
)

// LoadFunc runs one load batch. The production wiring builds a
// loader.Loader per request (each request owns one browser session); tests
// substitute a fake.
type LoadFunc func(ctx context.Context, cfg loader.Config) ([]models.Document, []loader.Failure, error)

// Run is the production LoadFunc.
func Run(ctx context.Context, cfg loader.Config) ([]models.Document, []loader.Failure, error) {
	l, err := loader.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return l.LoadWithFailures(ctx)
}

// Load returns a handler for POST /api/v1/load.
//
// Orchestration flow:
//  1. Parse & validate request, apply request defaults.
//  2. Merge with server-wide loader defaults.
//  3. Run the batch (launch browser, load each URL, close browser).
//  4. Return documents plus per-URL failures, with timing.
func Load(defaults config.LoaderConfig, run LoadFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.LoadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.LoadResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		docs, failures, err := run(c.Request.Context(), mergeConfig(&req, defaults))
		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs: time.Since(start).Milliseconds(),
			})
			return
		}

		failed := make([]models.FailedURL, 0, len(failures))
		for _, f := range failures {
			failed = append(failed, models.FailedURL{URL: f.URL, Error: f.Err.Error()})
		}

		c.JSON(http.StatusOK, models.LoadResponse{
			Success:   true,
			Documents: docs,
			Failed:    failed,
			Timing: models.TimingInfo{
				TotalMs: time.Since(start).Milliseconds(),
			},
		})
	}
}

// mergeConfig folds server-wide defaults into the per-request config.
// The request wins wherever it says anything.
func mergeConfig(req *models.LoadRequest, defaults config.LoaderConfig) loader.Config {
	browser := req.Browser
	if browser == "" {
		browser = defaults.Browser
	}

	execPath := req.ExecutablePath
	if execPath == "" {
		execPath = defaults.ExecutablePath
	}

	timeout := time.Duration(req.Timeout) * time.Second
	if timeout <= 0 {
		timeout = defaults.Timeout
	}
	if defaults.MaxTimeout > 0 && timeout > defaults.MaxTimeout {
		timeout = defaults.MaxTimeout
	}

	return loader.Config{
		URLs:                 req.URLs,
		ContinueOnFailure:    *req.ContinueOnFailure,
		Browser:              browser,
		ExecutablePath:       execPath,
		Headless:             *req.Headless,
		Timeout:              timeout,
		Stealth:              req.Stealth,
		Proxy:                defaults.Proxy,
		NoSandbox:            defaults.NoSandbox,
		BlockedResourceTypes: defaults.BlockedResourceTypes,
		Selector:             req.Selector,
		Format:               req.Format,
	}
}

// respondError maps a LoadError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	var loadErr *models.LoadError
	if !errors.As(err, &loadErr) {
		loadErr = models.NewLoadError(models.ErrCodeInternal, err.Error(), err)
	}

	status := http.StatusInternalServerError
	switch loadErr.Code {
	case models.ErrCodeInvalidBrowser, models.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case models.ErrCodeBrowserLaunch:
		status = http.StatusServiceUnavailable
	case models.ErrCodeNavigation, models.ErrCodePartition:
		status = http.StatusBadGateway
	case models.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}

	c.JSON(status, models.LoadResponse{
		Success: false,
		Timing:  timing,
		Error:   loadErr.ToDetail(),
	})
}
