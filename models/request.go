package models

// LoadRequest is the payload for POST /api/v1/load.
type LoadRequest struct {
	// URLs are the pages to load, processed strictly in order. Required.
	URLs []string `json:"urls" binding:"required,min=1,dive,url"`

	// ContinueOnFailure controls the per-URL failure policy. When true,
	// a failing URL is logged and skipped; when false, the first failure
	// aborts the whole batch.
	// Default: true.
	ContinueOnFailure *bool `json:"continue_on_failure,omitempty"`

	// Browser selects the automation driver: "chrome" or "firefox".
	// Default: "chrome".
	Browser string `json:"browser,omitempty" binding:"omitempty,oneof=chrome firefox"`

	// ExecutablePath overrides the browser binary path.
	ExecutablePath string `json:"executable_path,omitempty"`

	// Headless controls whether the browser runs headless.
	// Default: true.
	Headless *bool `json:"headless,omitempty"`

	// Timeout is the maximum duration in seconds for a single URL
	// (navigation + rendering + extraction).
	// Default: 30. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// Stealth enables anti-bot-detection evasions (e.g. navigator.webdriver
	// masking). Chrome only.
	// Default: false.
	Stealth bool `json:"stealth,omitempty"`

	// Selector is an optional CSS selector applied to the rendered HTML
	// before text extraction. Only matched elements contribute text.
	Selector string `json:"selector,omitempty"`

	// Format controls the PageContent representation.
	// Allowed: "text" (default), "article", "markdown", "html".
	Format string `json:"format,omitempty" binding:"omitempty,oneof=text article markdown html"`
}

// Defaults applies default values to unset fields.
func (r *LoadRequest) Defaults() {
	if r.ContinueOnFailure == nil {
		t := true
		r.ContinueOnFailure = &t
	}
	if r.Browser == "" {
		r.Browser = "chrome"
	}
	if r.Headless == nil {
		t := true
		r.Headless = &t
	}
	if r.Timeout == 0 {
		r.Timeout = 30
	}
	if r.Format == "" {
		r.Format = "text"
	}
}
