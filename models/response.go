package models

// CloneResponse is the response for POST /clone_website.
type CloneResponse struct {
	// Success indicates whether the clone pipeline completed without errors.
	Success bool `json:"success"`

	// ClonedHTML is the model-generated HTML document, returned verbatim
	// (or sanitized when output sanitization is enabled).
	ClonedHTML string `json:"cloned_html,omitempty"`

	// Message is a human-readable summary of the outcome.
	Message string `json:"message,omitempty"`

	// Metadata describes the source page the clone was generated from.
	Metadata CloneMetadata `json:"metadata"`

	// Tokens provides rough size estimates for the snapshot and the prompt.
	Tokens TokenInfo `json:"tokens"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Detail carries the failure message when Success is false. Clients
	// display it inline in the preview area.
	Detail string `json:"detail,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// CloneMetadata holds source-page information carried through the pipeline.
type CloneMetadata struct {
	Title      string `json:"title"`
	SourceURL  string `json:"source_url"`
	FinalURL   string `json:"final_url,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`

	// FetchMethod records how the page was fetched: "browser" or "http".
	FetchMethod string `json:"fetch_method,omitempty"`
}

// TokenInfo provides before/after token estimates to show how much of the
// page survived snapshot reduction.
type TokenInfo struct {
	// PageEstimate is the estimated token count of the raw rendered HTML.
	PageEstimate int `json:"page_estimate"`

	// PromptEstimate is the estimated token count of the assembled prompt.
	PromptEstimate int `json:"prompt_estimate"`
}

// TimingInfo breaks down the time spent in each pipeline stage.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// RenderMs is the time spent navigating and rendering the page.
	RenderMs int64 `json:"render_ms"`

	// ExtractMs is the time spent reducing the page to a snapshot.
	ExtractMs int64 `json:"extract_ms"`

	// GenerationMs is the time spent waiting on the hosted model.
	GenerationMs int64 `json:"generation_ms"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string       `json:"status"` // "healthy" or "degraded"
	Uptime  string       `json:"uptime"`
	Browser BrowserStats `json:"browser"`
	Version string       `json:"version"`
}

// BrowserStats reports utilisation of the renderer's page slots.
type BrowserStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
