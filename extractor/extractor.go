package extractor

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/use-agent/recast/models"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid. Below this threshold we assume
// the algorithm failed to locate the main content and fall back to raw HTML.
const minContentLength = 50

// truncationMarker is appended when visible text is cut to fit the budget.
const truncationMarker = "\n...[TRUNCATED]..."

// Extractor reduces a full rendered document to a compact snapshot suitable
// for embedding in a model prompt. The Markdown converter is created once and
// reused across all requests (goroutine-safe).
type Extractor struct {
	mdConverter *converter.Converter

	// maxTextChars caps the VisibleText field. The prompt builder applies
	// its own overall budget on top; this keeps a pathological page from
	// dragging megabytes of text through the pipeline.
	maxTextChars int
}

// New initialises the Extractor with a pre-configured Markdown converter.
// maxTextChars <= 0 disables the text cap.
func New(maxTextChars int) *Extractor {
	return &Extractor{
		mdConverter:  newMarkdownConverter(),
		maxTextChars: maxTextChars,
	}
}

// Extract refines a raw snapshot in place and returns it.
//
// Flow:
//  1. Readability extracts the main content (raw-HTML fallback on failure).
//  2. The content is compacted to Markdown for the prompt
//     (plain-text fallback if conversion fails).
//  3. Structural outline: headings in document order + landmark markers.
//  4. Palette: computed styles from the renderer stay authoritative;
//     gaps are filled from inline styles and theme metadata.
//  5. Visible text is truncated to the snapshot budget.
func (e *Extractor) Extract(snap *models.PageSnapshot) (*models.PageSnapshot, error) {
	if snap.RawHTML == "" {
		return nil, models.NewCloneError(
			models.ErrCodeExtraction,
			"rendered page is empty",
			nil,
		)
	}

	// ── 1. Main-content extraction ──────────────────────────────────
	article, ok := extractContent(snap.RawHTML, snap.SourceURL)
	if ok && article.Title != "" {
		// Readability usually derives a better title; keep the
		// document.title from the renderer as the safety net.
		snap.Title = article.Title
	}

	// ── 2. Markdown compaction ──────────────────────────────────────
	text, err := e.mdConverter.ConvertString(article.Content, converter.WithDomain(snap.SourceURL))
	if err != nil {
		slog.Warn("markdown conversion failed, falling back to plain text",
			"url", snap.SourceURL, "error", err,
		)
		text = article.TextContent
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = strings.TrimSpace(stripTags(snap.RawHTML))
	}
	if text == "" {
		return nil, models.NewCloneError(
			models.ErrCodeExtraction,
			"no visible text could be extracted from the page",
			nil,
		)
	}

	// ── 3. Structural outline ───────────────────────────────────────
	snap.Outline = buildOutline(snap.RawHTML)

	// ── 4. Palette enrichment ───────────────────────────────────────
	enrichPalette(&snap.Palette, snap.RawHTML)

	// ── 5. Truncate to budget ───────────────────────────────────────
	if e.maxTextChars > 0 && len(text) > e.maxTextChars {
		text = text[:e.maxTextChars] + truncationMarker
	}
	snap.VisibleText = text

	return snap, nil
}

// extractContent runs the Mozilla Readability algorithm on rawHTML.
//
// Fallback behaviour (the pipeline must never fail just because readability
// choked):
//   - If URL parsing fails           → raw HTML in Content
//   - If readability.FromReader errs → raw HTML in Content
//   - If extracted TextContent < 50  → raw HTML in Content
func extractContent(rawHTML string, sourceURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("readability: invalid source URL, falling back to raw HTML",
			"url", sourceURL, "error", err,
		)
		return fallbackArticle(rawHTML), false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed, falling back to raw HTML",
			"url", sourceURL, "error", err,
		)
		return fallbackArticle(rawHTML), false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Warn("readability: extracted content too short, falling back to raw HTML",
			"url", sourceURL, "length", len(article.TextContent),
		)
		return fallbackArticle(rawHTML), false
	}

	return article, true
}

// fallbackArticle wraps raw HTML into an Article so the pipeline can proceed
// uniformly regardless of whether readability succeeded.
func fallbackArticle(rawHTML string) readability.Article {
	return readability.Article{
		Content:     rawHTML,
		TextContent: stripTags(rawHTML),
	}
}

// stripTags extracts visible text from an HTML fragment by parsing it with
// goquery. Returns trimmed plain text.
func stripTags(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script, style, noscript").Remove()
	return strings.TrimSpace(doc.Text())
}
