package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeScrape         = "SCRAPE_FAILED"
	ErrCodeScrapeTimeout  = "SCRAPE_TIMEOUT"
	ErrCodeBrowserCrash   = "BROWSER_CRASH"
	ErrCodeExtraction     = "CONTENT_EXTRACTION_FAILED"
	ErrCodeGeneration     = "GENERATION_FAILED"
	ErrCodeGenerationAuth = "GENERATION_AUTH_FAILURE"
	ErrCodeGenerationRate = "GENERATION_RATE_LIMITED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CloneError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type CloneError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *CloneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

// NewCloneError creates a new CloneError.
func NewCloneError(code, message string, err error) *CloneError {
	return &CloneError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *CloneError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// AsCloneError coerces any error into a *CloneError. Errors that are not
// already typed become INTERNAL_ERROR, preserving the original via Unwrap.
func AsCloneError(err error) *CloneError {
	if ce, ok := err.(*CloneError); ok {
		return ce
	}
	return NewCloneError(ErrCodeInternal, err.Error(), err)
}
