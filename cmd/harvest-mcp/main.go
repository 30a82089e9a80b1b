package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// loadRequest mirrors the harvestd API request model.
type loadRequest struct {
	URLs              []string `json:"urls"`
	ContinueOnFailure *bool    `json:"continue_on_failure,omitempty"`
	Browser           string   `json:"browser,omitempty"`
	Selector          string   `json:"selector,omitempty"`
	Format            string   `json:"format,omitempty"`
}

// loadResponse mirrors the harvestd API response model.
type loadResponse struct {
	Success   bool `json:"success"`
	Documents []struct {
		PageContent string `json:"page_content"`
		Metadata    struct {
			Source string `json:"source"`
			Title  string `json:"title"`
		} `json:"metadata"`
	} `json:"documents"`
	Failed []struct {
		URL   string `json:"url"`
		Error string `json:"error"`
	} `json:"failed"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("HARVEST_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("HARVEST_API_KEY")

	s := server.NewMCPServer(
		"harvest",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	loadURLsTool := mcp.NewTool("load_urls",
		mcp.WithDescription("Load one or more web pages in a headless browser (JavaScript rendered) and return their plain-text content. Failing URLs are skipped and reported."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of URLs to load, processed in order"),
		),
		mcp.WithString("browser",
			mcp.Description("Browser driver: 'chrome' (default) or 'firefox'"),
			mcp.Enum("chrome", "firefox"),
		),
		mcp.WithString("format",
			mcp.Description("Page content format: 'text' (default, partitioned plain text), 'article' (readability main content), 'markdown', or 'html'"),
			mcp.Enum("text", "article", "markdown", "html"),
		),
		mcp.WithString("selector",
			mcp.Description("Optional CSS selector scoping text extraction to matched elements"),
		),
	)

	s.AddTool(loadURLsTool, handleLoadURLs(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleLoadURLs(apiURL, apiKey string) server.ToolHandlerFunc {
	// A batch holds a browser session for its whole duration; allow for
	// slow pages across many URLs.
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		payload := loadRequest{
			URLs:     urls,
			Browser:  request.GetString("browser", ""),
			Format:   request.GetString("format", ""),
			Selector: request.GetString("selector", ""),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/load", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load request failed: %v", err)), nil
		}

		var resp loadResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse load response: %v", err)), nil
		}

		if !resp.Success {
			msg := "load failed"
			if resp.Error != nil {
				msg = fmt.Sprintf("load failed: %s: %s", resp.Error.Code, resp.Error.Message)
			}
			return mcp.NewToolResultError(msg), nil
		}

		var sb strings.Builder
		for _, doc := range resp.Documents {
			fmt.Fprintf(&sb, "==> %s\n\n%s\n\n", doc.Metadata.Source, doc.PageContent)
		}
		if len(resp.Failed) > 0 {
			sb.WriteString("Failed URLs:\n")
			for _, f := range resp.Failed {
				fmt.Fprintf(&sb, "- %s: %s\n", f.URL, f.Error)
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// apiPost sends a POST request to the harvestd API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
