// Package partition converts rendered HTML into an ordered sequence of plain
// text elements, plus the alternative output formats built on top of that
// (readability articles, markdown).
package partition

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/harvest/models"
)

// Element is one text segment extracted from the page, in document order.
type Element struct {
	// Tag is the HTML element the text came from (e.g. "p", "h1", "li").
	Tag string

	// Text is the whitespace-collapsed text content.
	Text string
}

// noiseSelector matches elements that never contribute page text.
const noiseSelector = "script, style, noscript, template, iframe, svg, head"

// blockSelector matches text-bearing block elements. Partition keeps only
// the innermost matches so nested containers don't duplicate their
// children's text.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, dt, dd, th, td, pre, blockquote, figcaption, caption, div"

// Partition parses rendered HTML and returns its text segments in document
// order. Elements with no visible text are dropped. A page whose text lives
// outside any recognised block element degrades to a single body-level
// element rather than returning nothing.
func Partition(rawHTML string) ([]Element, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewLoadError(
			models.ErrCodePartition,
			"failed to parse page HTML",
			err,
		)
	}

	doc.Find(noiseSelector).Remove()

	var elements []Element
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Containers holding other block elements are skipped; their
		// text is emitted by the innermost blocks.
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		text := collapseWhitespace(s.Text())
		if text == "" {
			return
		}
		elements = append(elements, Element{Tag: goquery.NodeName(s), Text: text})
	})

	if len(elements) == 0 {
		if text := collapseWhitespace(doc.Find("body").Text()); text != "" {
			elements = append(elements, Element{Tag: "body", Text: text})
		}
	}

	return elements, nil
}

// JoinText joins element texts with blank-line separators, the canonical
// plain-text document representation.
func JoinText(elements []Element) string {
	parts := make([]string, len(elements))
	for i, el := range elements {
		parts[i] = el.Text
	}
	return strings.Join(parts, "\n\n")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
