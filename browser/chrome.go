package browser

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/harvest/models"
)

// launchChrome spawns a Chromium process via the rod launcher and opens the
// session's single page.
func launchChrome(ctx context.Context, opts Options) (Session, error) {
	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(opts.NoSandbox)

	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	if opts.Proxy != "" {
		l = l.Proxy(opts.Proxy)
	}

	// Flags that keep a scraping browser quiet and deterministic.
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewLoadError(
			models.ErrCodeBrowserLaunch,
			"failed to launch chrome",
			err,
		)
	}
	slog.Info("chrome launched", "controlURL", controlURL, "headless", opts.Headless)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, models.NewLoadError(
			models.ErrCodeBrowserLaunch,
			"failed to connect to chrome",
			err,
		)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, models.NewLoadError(
			models.ErrCodeBrowserLaunch,
			"failed to open page",
			err,
		)
	}

	// Stealth JS must be installed before the first navigation; it only
	// takes effect for documents created afterwards.
	if opts.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", err,
			)
		}
	}

	if opts.UserAgent != "" {
		_ = proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}.Call(page)
	}

	if err := setExtraHeaders(page, opts.Headers); err != nil {
		slog.Warn("failed to set extra headers", "error", err)
	}

	// Resource blocking must also be mounted before navigation.
	router := setupHijack(page, opts.BlockedResourceTypes)

	return &rodSession{
		browser: b,
		page:    page,
		router:  router,
		cleanup: l.Kill,
	}, nil
}
