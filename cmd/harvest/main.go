package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/use-agent/harvest/loader"
)

func main() {
	app := &cli.App{
		Name:      "harvest",
		Usage:     "load browser-rendered pages as plain-text documents",
		ArgsUsage: "URL [URL ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "browser",
				Value: "chrome",
				Usage: "browser driver: chrome or firefox",
			},
			&cli.StringFlag{
				Name:  "executable-path",
				Usage: "browser binary `PATH` override",
			},
			&cli.BoolFlag{
				Name:  "headless",
				Value: true,
				Usage: "run the browser headless",
			},
			&cli.BoolFlag{
				Name:  "continue-on-failure",
				Value: true,
				Usage: "skip failing URLs instead of aborting the batch",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 30 * time.Second,
				Usage: "per-URL deadline",
			},
			&cli.BoolFlag{
				Name:  "stealth",
				Usage: "enable anti-bot-detection evasions (chrome only)",
			},
			&cli.BoolFlag{
				Name:  "no-sandbox",
				Usage: "disable Chrome's sandbox (needed in Docker)",
			},
			&cli.StringFlag{
				Name:  "proxy",
				Usage: "proxy `URL` for all requests",
			},
			&cli.StringFlag{
				Name:  "selector",
				Usage: "CSS `SELECTOR` scoping text extraction",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "page content format: text, article, markdown or html",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "ndjson",
				Usage:   "output style: ndjson (one document per line) or text",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level: debug, info, warn or error",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	urls := c.Args().Slice()
	if len(urls) == 0 {
		return cli.Exit("at least one URL is required", 2)
	}

	initLogger(c.String("log-level"))

	l, err := loader.New(loader.Config{
		URLs:              urls,
		ContinueOnFailure: c.Bool("continue-on-failure"),
		Browser:           c.String("browser"),
		ExecutablePath:    c.String("executable-path"),
		Headless:          c.Bool("headless"),
		Timeout:           c.Duration("timeout"),
		Stealth:           c.Bool("stealth"),
		NoSandbox:         c.Bool("no-sandbox"),
		Proxy:             c.String("proxy"),
		Selector:          c.String("selector"),
		Format:            c.String("format"),
	})
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs, err := l.Load(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	switch c.String("output") {
	case "text":
		for _, doc := range docs {
			fmt.Printf("==> %s\n\n%s\n\n", doc.Metadata.Source, doc.PageContent)
		}
	default:
		enc := json.NewEncoder(os.Stdout)
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return cli.Exit(err.Error(), 1)
			}
		}
	}

	return nil
}

// initLogger sends structured logs to stderr so stdout stays clean for
// document output.
func initLogger(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
