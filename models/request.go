package models

// CloneRequest is the payload for POST /clone_website.
type CloneRequest struct {
	// TargetURL is the page to clone. Required; must be an absolute
	// http(s) URL. Full syntactic validation happens in the pipeline so
	// that invalid input is rejected before any browser work starts.
	TargetURL string `json:"target_url" binding:"required"`

	// FetchMode controls how the page is fetched.
	// "browser" (default): headless Chrome, renders script-driven content.
	// "http": plain HTTP GET with a Chrome TLS fingerprint (fast, no JS).
	// "auto": browser first, falling back to HTTP if the browser path fails.
	FetchMode string `json:"fetch_mode,omitempty" binding:"omitempty,oneof=browser http auto"`

	// Timeout is the maximum duration in seconds for the render step.
	// Default: 30. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// Stealth enables anti-bot-detection evasions before navigation.
	// Default: false.
	Stealth bool `json:"stealth,omitempty"`

	// RemoveOverlays strips fixed/sticky cookie banners and popups from the
	// rendered DOM before the snapshot is taken, so the clone reflects the
	// page itself rather than its consent UI. Default: false.
	RemoveOverlays bool `json:"remove_overlays,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *CloneRequest) Defaults() {
	if r.FetchMode == "" {
		r.FetchMode = "browser"
	}
	if r.Timeout == 0 {
		r.Timeout = 30
	}
}
