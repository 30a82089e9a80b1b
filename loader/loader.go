// Package loader fetches rendered web pages through a browser session and
// converts them into plain-text Document records.
package loader

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/harvest/browser"
	"github.com/use-agent/harvest/models"
	"github.com/use-agent/harvest/partition"
)

// DefaultTimeout is the per-URL deadline when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// Config is the loader configuration. Set once at construction, read-only
// thereafter.
type Config struct {
	// URLs are the pages to load, processed strictly in order.
	URLs []string

	// ContinueOnFailure controls the per-URL failure policy. When true,
	// a failing URL is logged and skipped; when false, the first failure
	// aborts the batch.
	ContinueOnFailure bool

	// Browser selects the automation driver: "chrome" (default when
	// empty) or "firefox". Unknown values are rejected by New.
	Browser string

	// ExecutablePath overrides the browser binary path.
	ExecutablePath string

	// Headless controls whether the browser runs headless.
	Headless bool

	// Timeout is the per-URL deadline (navigation + rendering +
	// extraction). Zero means DefaultTimeout.
	Timeout time.Duration

	// Stealth enables anti-bot-detection evasions. Chrome only.
	Stealth bool

	// UserAgent overrides the browser's user agent. Chrome only.
	UserAgent string

	// Headers are extra HTTP headers sent with every request. Chrome only.
	Headers map[string]string

	// Proxy is an optional proxy URL for all requests.
	Proxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool

	// BlockedResourceTypes lists resource types to block during page load
	// ("Image", "Stylesheet", "Font", "Media", "Script"). Chrome only.
	BlockedResourceTypes []string

	// Selector is an optional CSS selector applied to the rendered HTML
	// before extraction. Only matched elements contribute text.
	Selector string

	// Format controls the PageContent representation: "text" (default),
	// "article", "markdown" or "html".
	Format string
}

// Failure records one URL skipped under the continue-on-failure policy.
type Failure struct {
	URL string
	Err error
}

// Loader drives one browser session serially across a fixed URL list and
// assembles a Document per successfully loaded URL.
type Loader struct {
	cfg      Config
	kind     browser.Kind
	format   partition.Format
	launch   browser.Factory
	renderer *partition.Renderer
}

// New validates cfg and returns a ready Loader. The browser choice and
// output format are resolved here, so an unsupported value fails with a
// configuration error before any browser process is spawned.
func New(cfg Config) (*Loader, error) {
	name := cfg.Browser
	if name == "" {
		name = string(browser.KindChrome)
	}
	kind, err := browser.ParseKind(name)
	if err != nil {
		return nil, err
	}

	format, err := partition.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Loader{
		cfg:      cfg,
		kind:     kind,
		format:   format,
		launch:   browser.Launch,
		renderer: partition.NewRenderer(),
	}, nil
}

// NewLoader is the convenience constructor matching the common case:
// headless Chrome, continue on failure, plain-text output.
func NewLoader(urls ...string) (*Loader, error) {
	return New(Config{
		URLs:              urls,
		ContinueOnFailure: true,
		Headless:          true,
	})
}

// Load processes every configured URL in order and returns one Document per
// success. With ContinueOnFailure, failing URLs are logged and skipped;
// otherwise the first failure aborts the batch and is returned. The browser
// session is closed exactly once on every path.
func (l *Loader) Load(ctx context.Context) ([]models.Document, error) {
	docs, _, err := l.LoadWithFailures(ctx)
	return docs, err
}

// LoadWithFailures is Load plus the list of URLs that were skipped under
// the continue-on-failure policy.
func (l *Loader) LoadWithFailures(ctx context.Context) ([]models.Document, []Failure, error) {
	sess, err := l.launch(ctx, browser.Options{
		Kind:                 l.kind,
		Headless:             l.cfg.Headless,
		Bin:                  l.cfg.ExecutablePath,
		Proxy:                l.cfg.Proxy,
		NoSandbox:            l.cfg.NoSandbox,
		UserAgent:            l.cfg.UserAgent,
		Headers:              l.cfg.Headers,
		Stealth:              l.cfg.Stealth,
		BlockedResourceTypes: l.cfg.BlockedResourceTypes,
	})
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			slog.Warn("browser session close failed", "error", cerr)
		}
	}()

	docs := make([]models.Document, 0, len(l.cfg.URLs))
	var failures []Failure

	for _, url := range l.cfg.URLs {
		doc, err := l.loadOne(ctx, sess, url)
		if err != nil {
			// A canceled parent context dooms every remaining URL;
			// surface it instead of skipping through the whole list.
			if !l.cfg.ContinueOnFailure || ctx.Err() != nil {
				return nil, nil, err
			}
			slog.Error("failed to load URL, skipping", "url", url, "error", err)
			failures = append(failures, Failure{URL: url, Err: err})
			continue
		}
		docs = append(docs, doc)
	}

	return docs, failures, nil
}

// loadOne runs the fetch → extract → assemble sequence for a single URL.
func (l *Loader) loadOne(ctx context.Context, sess browser.Session, url string) (models.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	if err := sess.Navigate(ctx, url); err != nil {
		return models.Document{}, err
	}

	raw, err := sess.Source(ctx)
	if err != nil {
		return models.Document{}, err
	}

	if l.cfg.Selector != "" {
		filtered, serr := partition.ApplyCSSSelector(raw, l.cfg.Selector)
		if serr != nil {
			return models.Document{}, models.NewLoadError(
				models.ErrCodePartition,
				"selector filtering failed",
				serr,
			)
		}
		raw = filtered
	}

	content, err := l.renderer.Render(raw, url, l.format)
	if err != nil {
		return models.Document{}, err
	}

	return models.Document{
		PageContent: content,
		Metadata: models.Metadata{
			Source: url,
			Title:  sess.Title(ctx),
		},
	}, nil
}
