package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidBrowser = "INVALID_BROWSER"
	ErrCodeBrowserLaunch  = "BROWSER_LAUNCH_FAILED"
	ErrCodeNavigation     = "NAVIGATION_FAILED"
	ErrCodePartition      = "PARTITION_FAILED"
	ErrCodeTimeout        = "LOAD_TIMEOUT"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoadError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type LoadError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(code, message string, err error) *LoadError {
	return &LoadError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *LoadError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
