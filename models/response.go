package models

// LoadResponse is the response for POST /api/v1/load.
type LoadResponse struct {
	// Success indicates whether the batch completed (including the case
	// where some URLs were skipped under continue_on_failure).
	Success bool `json:"success"`

	// Documents holds one record per successfully loaded URL, in the
	// original request order.
	Documents []Document `json:"documents"`

	// Failed lists the URLs that were skipped, with their errors.
	// Populated only when continue_on_failure is true.
	Failed []FailedURL `json:"failed,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// FailedURL records a per-URL failure that was skipped under the
// continue-on-failure policy.
type FailedURL struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// TimingInfo provides duration breakdowns in milliseconds.
type TimingInfo struct {
	TotalMs  int64 `json:"total_ms"`
	LaunchMs int64 `json:"launch_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
