package partition

import (
	"strings"
	"testing"
)

func TestPartition_DocumentOrder(t *testing.T) {
	html := `<html><head><title>ignored</title></head><body>
		<h1>Title</h1>
		<p>Intro paragraph.</p>
		<ul><li>first item</li><li>second item</li></ul>
		<blockquote>a quote</blockquote>
	</body></html>`

	elements, err := Partition(html)
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}

	want := []string{"Title", "Intro paragraph.", "first item", "second item", "a quote"}
	if len(elements) != len(want) {
		t.Fatalf("got %d elements %v, want %d", len(elements), elements, len(want))
	}
	for i, text := range want {
		if elements[i].Text != text {
			t.Errorf("elements[%d].Text = %q, want %q", i, elements[i].Text, text)
		}
	}
}

func TestPartition_StripsNoise(t *testing.T) {
	html := `<html><body>
		<script>var tracked = true;</script>
		<style>p { color: red }</style>
		<noscript>enable javascript</noscript>
		<p>visible text</p>
	</body></html>`

	elements, err := Partition(html)
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}
	if len(elements) != 1 || elements[0].Text != "visible text" {
		t.Errorf("got %v, want single element %q", elements, "visible text")
	}
}

func TestPartition_NestedBlocksNotDuplicated(t *testing.T) {
	html := `<div><div><p>once only</p></div></div>`

	elements, err := Partition(html)
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}
	if len(elements) != 1 {
		t.Fatalf("got %d elements %v, want 1", len(elements), elements)
	}
	if elements[0].Tag != "p" || elements[0].Text != "once only" {
		t.Errorf("element = %+v, want p/%q", elements[0], "once only")
	}
}

func TestPartition_CollapsesWhitespace(t *testing.T) {
	elements, err := Partition("<p>  spaced \n\t out  </p>")
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}
	if len(elements) != 1 || elements[0].Text != "spaced out" {
		t.Errorf("got %v, want %q", elements, "spaced out")
	}
}

func TestPartition_BodyFallback(t *testing.T) {
	// Text outside any recognised block element still surfaces.
	elements, err := Partition("<html><body>bare text<br>more</body></html>")
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}
	if len(elements) != 1 || !strings.Contains(elements[0].Text, "bare text") {
		t.Errorf("got %v, want a body-level fallback element", elements)
	}
}

func TestPartition_EmptyInput(t *testing.T) {
	elements, err := Partition("")
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}
	if len(elements) != 0 {
		t.Errorf("got %v, want no elements", elements)
	}
}

func TestJoinText(t *testing.T) {
	tests := []struct {
		name     string
		elements []Element
		want     string
	}{
		{"empty", nil, ""},
		{"single", []Element{{Tag: "p", Text: "one"}}, "one"},
		{"multiple", []Element{{Tag: "h1", Text: "a"}, {Tag: "p", Text: "b"}, {Tag: "p", Text: "c"}}, "a\n\nb\n\nc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinText(tt.elements); got != tt.want {
				t.Errorf("JoinText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyCSSSelector(t *testing.T) {
	html := `<html><body><nav>menu</nav><main><p>kept</p></main></body></html>`

	got, err := ApplyCSSSelector(html, "main")
	if err != nil {
		t.Fatalf("ApplyCSSSelector() error: %v", err)
	}
	if !strings.Contains(got, "kept") || strings.Contains(got, "menu") {
		t.Errorf("filtered HTML = %q, want main content only", got)
	}
}

func TestApplyCSSSelector_NoMatchFallsBack(t *testing.T) {
	html := `<p>original</p>`
	got, err := ApplyCSSSelector(html, "#missing")
	if err != nil {
		t.Fatalf("ApplyCSSSelector() error: %v", err)
	}
	if got != html {
		t.Errorf("got %q, want original HTML back", got)
	}
}

func TestApplyCSSSelector_InvalidSelector(t *testing.T) {
	if _, err := ApplyCSSSelector("<p>x</p>", "p["); err == nil {
		t.Error("invalid selector accepted")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"TEXT", FormatText, false},
		{"article", FormatArticle, false},
		{"markdown", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderer_TextFormat(t *testing.T) {
	r := NewRenderer()
	got, err := r.Render("<h1>A</h1><p>B</p>", "https://a.test", FormatText)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != "A\n\nB" {
		t.Errorf("Render() = %q, want %q", got, "A\n\nB")
	}
}

func TestRenderer_HTMLPassthrough(t *testing.T) {
	r := NewRenderer()
	raw := "<html><body><p>as is</p></body></html>"
	got, err := r.Render(raw, "https://a.test", FormatHTML)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != raw {
		t.Errorf("Render() = %q, want unchanged input", got)
	}
}

func TestRenderer_ArticleFallsBackToPartition(t *testing.T) {
	// Far below readability's minimum content threshold, so the article
	// path must degrade to partitioned text, never raw HTML.
	r := NewRenderer()
	got, err := r.Render("<p>tiny</p>", "https://a.test", FormatArticle)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != "tiny" {
		t.Errorf("Render() = %q, want %q", got, "tiny")
	}
}
