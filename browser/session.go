package browser

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/harvest/models"
	"github.com/ysmood/gson"
)

// domStableWindow is how long the DOM must stay unchanged (within
// domStableDiff) before a navigation is considered settled.
const (
	domStableWindow = 300 * time.Millisecond
	domStableDiff   = 0.1
)

// rodSession is the rod-backed Session shared by the Chrome and Firefox
// launch paths. The two differ only in how the process is spawned and
// which per-page capabilities are installed.
type rodSession struct {
	browser *rod.Browser
	page    *rod.Page
	router  *rod.HijackRouter
	cleanup func() // kills the browser process, removes temp profiles

	closeOnce sync.Once
	closeErr  error
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)

	if err := p.Navigate(url); err != nil {
		return categorize(err, "navigation to target URL failed")
	}

	// Let SPA content settle. Non-convergence is not fatal: extract
	// whatever DOM is present when the window elapses.
	if err := p.WaitDOMStable(domStableWindow, domStableDiff); err != nil {
		slog.Debug("DOM did not stabilise, proceeding with current state",
			"url", url, "error", err,
		)
	}
	return nil
}

func (s *rodSession) Source(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", categorize(err, "failed to read rendered page source")
	}
	return html, nil
}

func (s *rodSession) Title(ctx context.Context) string {
	res, err := s.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// Close stops the hijack router, closes the page, disconnects from the
// browser, and kills the underlying process. Safe to call more than once;
// only the first call does anything.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		if s.router != nil {
			_ = s.router.Stop()
		}
		if s.page != nil {
			_ = s.page.Close()
		}
		if s.browser != nil {
			s.closeErr = s.browser.Close()
		}
		if s.cleanup != nil {
			s.cleanup()
		}
	})
	return s.closeErr
}

// setExtraHeaders installs extra HTTP headers on the page. The values must
// be wrapped as gson.JSON for the NetworkSetExtraHTTPHeaders call.
func setExtraHeaders(page *rod.Page, headers map[string]string) error {
	if len(headers) == 0 {
		return nil
	}
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return proto.NetworkSetExtraHTTPHeaders{Headers: m}.Call(page)
}

// categorize wraps raw errors into typed LoadErrors so callers can map them
// to failure policies and HTTP status codes.
func categorize(err error, msg string) *models.LoadError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewLoadError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewLoadError(models.ErrCodeTimeout, "operation canceled", err)
	default:
		return models.NewLoadError(models.ErrCodeNavigation, msg, err)
	}
}
