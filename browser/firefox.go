package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/harvest/models"
)

// firefoxConnectTimeout bounds how long we wait for Firefox to advertise
// its DevTools websocket after the process starts.
const firefoxConnectTimeout = 20 * time.Second

// launchFirefox spawns a Firefox process with remote debugging enabled and
// attaches rod to the advertised DevTools websocket. Firefox speaks a CDP
// subset, which covers everything a Session needs (navigate, DOM snapshot,
// eval); Chrome-only options are ignored with a debug log.
func launchFirefox(ctx context.Context, opts Options) (Session, error) {
	bin := opts.Bin
	if bin == "" {
		var err error
		bin, err = exec.LookPath("firefox")
		if err != nil {
			return nil, models.NewLoadError(
				models.ErrCodeBrowserLaunch,
				"firefox binary not found: install firefox or set the executable path",
				err,
			)
		}
	}

	for _, unsupported := range []struct {
		set  bool
		name string
	}{
		{opts.Stealth, "stealth"},
		{opts.UserAgent != "", "user agent override"},
		{len(opts.Headers) > 0, "extra headers"},
		{len(opts.BlockedResourceTypes) > 0, "resource blocking"},
	} {
		if unsupported.set {
			slog.Debug("option not supported on firefox, ignoring", "option", unsupported.name)
		}
	}

	port, err := freePort()
	if err != nil {
		return nil, models.NewLoadError(
			models.ErrCodeBrowserLaunch,
			"failed to allocate debugging port",
			err,
		)
	}

	profile, err := os.MkdirTemp("", "harvest-firefox-")
	if err != nil {
		return nil, models.NewLoadError(
			models.ErrCodeBrowserLaunch,
			"failed to create firefox profile directory",
			err,
		)
	}

	args := []string{
		"--remote-debugging-port", strconv.Itoa(port),
		"--no-remote",
		"--profile", profile,
	}
	if opts.Headless {
		args = append(args, "--headless")
	}

	cmd := exec.Command(bin, args...)
	if err := cmd.Start(); err != nil {
		_ = os.RemoveAll(profile)
		return nil, models.NewLoadError(
			models.ErrCodeBrowserLaunch,
			"failed to start firefox",
			err,
		)
	}
	slog.Info("firefox launched", "pid", cmd.Process.Pid, "port", port, "headless", opts.Headless)

	cleanup := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
			_, _ = cmd.Process.Wait()
		}
		_ = os.RemoveAll(profile)
	}

	wsURL, err := devtoolsURL(ctx, port)
	if err != nil {
		cleanup()
		return nil, models.NewLoadError(
			models.ErrCodeBrowserLaunch,
			"firefox did not expose a DevTools endpoint",
			err,
		)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		cleanup()
		return nil, models.NewLoadError(
			models.ErrCodeBrowserLaunch,
			"failed to connect to firefox",
			err,
		)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		cleanup()
		return nil, models.NewLoadError(
			models.ErrCodeBrowserLaunch,
			"failed to open page",
			err,
		)
	}

	return &rodSession{
		browser: b,
		page:    page,
		cleanup: cleanup,
	}, nil
}

// devtoolsURL polls the local DevTools HTTP endpoint until Firefox reports
// its browser-level websocket URL.
func devtoolsURL(ctx context.Context, port int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, firefoxConnectTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("http://127.0.0.1:%d/json/version", port)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		select {
		case <-ctx.Done():
			if lastErr == nil {
				lastErr = ctx.Err()
			}
			return "", lastErr
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return "", err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				lastErr = err
				continue
			}
			var version struct {
				WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
			}
			err = json.NewDecoder(resp.Body).Decode(&version)
			_ = resp.Body.Close()
			if err != nil {
				lastErr = err
				continue
			}
			if version.WebSocketDebuggerURL != "" {
				return version.WebSocketDebuggerURL, nil
			}
		}
	}
}

// freePort asks the kernel for an unused TCP port on the loopback interface.
func freePort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port, nil
}
