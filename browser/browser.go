package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/use-agent/harvest/models"
)

// Kind selects the browser-automation driver.
type Kind string

const (
	KindChrome  Kind = "chrome"
	KindFirefox Kind = "firefox"
)

// ParseKind resolves a browser name to a Kind. Unknown names are rejected
// with an INVALID_BROWSER configuration error, before any process is spawned.
func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(name)) {
	case KindChrome:
		return KindChrome, nil
	case KindFirefox:
		return KindFirefox, nil
	default:
		return "", models.NewLoadError(
			models.ErrCodeInvalidBrowser,
			fmt.Sprintf("unsupported browser %q: use %q or %q", name, KindChrome, KindFirefox),
			nil,
		)
	}
}

// Options configures a browser session launch.
type Options struct {
	// Kind selects the driver. Must be a value returned by ParseKind.
	Kind Kind

	// Headless controls whether the browser runs headless.
	Headless bool

	// Bin overrides the browser binary path. Empty means auto-detect.
	Bin string

	// Proxy is an optional proxy URL applied to all requests.
	Proxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker). Chrome only.
	NoSandbox bool

	// UserAgent overrides the browser's user agent. Chrome only.
	UserAgent string

	// Headers are extra HTTP headers sent with every request. Chrome only.
	Headers map[string]string

	// Stealth injects anti-bot-detection evasions before each navigation.
	// Chrome only.
	Stealth bool

	// BlockedResourceTypes lists resource types to block during page load
	// ("Image", "Stylesheet", "Font", "Media", "Script"). Chrome only.
	BlockedResourceTypes []string
}

// Session is a live browser-automation handle. A Session owns one page and
// is driven serially: Navigate, then Source, for each URL in turn.
// Close must be called exactly once; implementations make repeated calls
// no-ops.
type Session interface {
	// Navigate loads the URL and waits for the rendered DOM to settle.
	Navigate(ctx context.Context, url string) error

	// Source returns the serialized DOM after JavaScript execution.
	Source(ctx context.Context) (string, error)

	// Title returns the current page title. Best-effort: an empty string
	// is returned when the title cannot be read.
	Title(ctx context.Context) string

	// Close releases the page and kills the browser process.
	Close() error
}

// Factory produces a live Session from launch options. loader.New accepts a
// Factory so tests can substitute a double; Launch is the production one.
type Factory func(ctx context.Context, opts Options) (Session, error)

// Launch spawns a browser process for opts.Kind and returns a connected
// Session. The ctx bounds the launch and connect phase only, not the
// session's lifetime.
func Launch(ctx context.Context, opts Options) (Session, error) {
	switch opts.Kind {
	case KindChrome:
		return launchChrome(ctx, opts)
	case KindFirefox:
		return launchFirefox(ctx, opts)
	default:
		_, err := ParseKind(string(opts.Kind))
		return nil, err
	}
}
