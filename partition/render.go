package partition

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/use-agent/harvest/models"
)

// Format selects the PageContent representation.
type Format string

const (
	// FormatText partitions the page into text elements joined with
	// blank lines. The default.
	FormatText Format = "text"

	// FormatArticle extracts the main article text via readability.
	FormatArticle Format = "article"

	// FormatMarkdown converts the readability-cleaned HTML to Markdown.
	FormatMarkdown Format = "markdown"

	// FormatHTML passes the rendered HTML through unchanged.
	FormatHTML Format = "html"
)

// ParseFormat resolves a format name. The empty string means FormatText.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatText:
		return FormatText, nil
	case FormatArticle:
		return FormatArticle, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", models.NewLoadError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unsupported format %q: use text, article, markdown or html", name),
			nil,
		)
	}
}

// Renderer turns rendered HTML into the requested output format. The
// markdown converter is created once and reused across pages
// (goroutine-safe).
type Renderer struct {
	md *converter.Converter
}

// NewRenderer initialises a Renderer with a pre-configured Markdown converter.
func NewRenderer() *Renderer {
	return &Renderer{md: newMarkdownConverter()}
}

// Render produces the page content string for one URL.
func (r *Renderer) Render(rawHTML, sourceURL string, format Format) (string, error) {
	switch format {
	case FormatArticle:
		article, ok := ExtractArticle(rawHTML, sourceURL)
		if !ok {
			// Readability fallback carries raw HTML; partitioned text
			// is the better plain-text degradation.
			elements, err := Partition(rawHTML)
			if err != nil {
				return "", err
			}
			return JoinText(elements), nil
		}
		return strings.TrimSpace(article.TextContent), nil

	case FormatMarkdown:
		article, _ := ExtractArticle(rawHTML, sourceURL)
		md, err := toMarkdown(r.md, article.Content, sourceURL)
		if err != nil {
			return "", models.NewLoadError(
				models.ErrCodePartition,
				"markdown conversion failed",
				err,
			)
		}
		return md, nil

	case FormatHTML:
		return rawHTML, nil

	default: // FormatText
		elements, err := Partition(rawHTML)
		if err != nil {
			return "", err
		}
		return JoinText(elements), nil
	}
}
