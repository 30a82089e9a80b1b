package models

// Metadata describes where a Document came from.
type Metadata struct {
	// Source is the exact URL the document was loaded from.
	Source string `json:"source"`

	// Title is the page title reported by the browser, when available.
	Title string `json:"title,omitempty"`
}

// Document is the output record for one successfully loaded URL:
// the extracted page text paired with its source metadata.
// A Document is never partial — a failed URL produces no Document at all.
type Document struct {
	PageContent string   `json:"page_content"`
	Metadata    Metadata `json:"metadata"`
}
