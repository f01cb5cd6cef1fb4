package models

// PageSnapshot is the in-memory, per-request representation of a rendered
// page. The renderer fills the raw fields; the extractor refines it into the
// compact form the prompt builder consumes. It is never persisted and is
// owned solely by the in-flight request.
type PageSnapshot struct {
	// SourceURL is the URL the caller asked to clone.
	SourceURL string

	// FinalURL is the URL after following all redirects.
	FinalURL string

	// StatusCode is the HTTP status code of the navigation, when known.
	StatusCode int

	// RawHTML is the fully rendered document as read back from the browser
	// (or the response body on the plain-HTTP path).
	RawHTML string

	// Title is the page title. The renderer fills it from document.title;
	// the extractor may replace it with the readability-derived title.
	Title string

	// FetchMethod records how the page was fetched: "browser" or "http".
	FetchMethod string

	// VisibleText is the extractor's prioritized, Markdown-compacted subset
	// of the page's visible text, already truncated to the snapshot budget.
	VisibleText string

	// Outline lists structural cues: headings in document order plus
	// landmark markers (header/nav/main/footer presence).
	Outline []string

	// Palette holds the page's dominant color and typography signals.
	Palette StylePalette
}

// StylePalette captures the visual signals the clone must reproduce,
// most importantly the background/text color pairing.
type StylePalette struct {
	// BackgroundColor is the computed background color of <body>.
	BackgroundColor string

	// TextColor is the computed text color of <body>.
	TextColor string

	// LinkColor is the computed color of the first hyperlink, if any.
	LinkColor string

	// FontFamily is the computed font stack of <body>.
	FontFamily string

	// AccentColors are additional colors harvested from inline styles and
	// theme metadata, most frequent first.
	AccentColors []string
}
