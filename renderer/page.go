package renderer

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/recast/models"
	"github.com/ysmood/gson"
)

// Render produces a best-effort snapshot of the page as a user's browser
// would see it after script execution settles.
//
// Fetch modes:
//
//	"browser" — headless Chrome only (default)
//	"http"    — plain HTTP GET with a Chrome TLS fingerprint, no JS
//	"auto"    — browser first; if the browser path fails, fall back to HTTP
func (r *Renderer) Render(ctx context.Context, req *models.CloneRequest) (*models.PageSnapshot, error) {
	timeout := time.Duration(req.Timeout) * time.Second
	if timeout <= 0 {
		timeout = r.rendererCfg.DefaultTimeout
	}
	if timeout > r.rendererCfg.MaxTimeout {
		timeout = r.rendererCfg.MaxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if req.FetchMode == "http" {
		return r.httpFetcher.fetch(ctx, req.TargetURL)
	}

	snap, err := r.renderBrowser(ctx, req)
	if err != nil && req.FetchMode == "auto" {
		slog.Warn("browser render failed, falling back to plain HTTP",
			"url", req.TargetURL, "error", err,
		)
		return r.httpFetcher.fetch(ctx, req.TargetURL)
	}
	return snap, err
}

// renderBrowser is the headless-Chrome path.
//
// Lifecycle (order matters):
//
//  1. Acquire slot        – bounds concurrent tabs; honors ctx cancellation
//  2. Open fresh page     – one isolated tab per request, never reused
//  3. DEFER: close page   – guaranteed release on every exit path
//  4. Stealth injection   – must precede navigation to take effect
//  5. Hijack mount        – resource blocking, must precede navigation
//  6. Context binding     – propagate the deadline to all Rod operations
//  7. Navigate + wait     – DOM-stable heuristic for script-driven pages
//  8. Read back           – HTML, title, final URL, status, computed styles
func (r *Renderer) renderBrowser(ctx context.Context, req *models.CloneRequest) (*models.PageSnapshot, error) {
	// ── 1. Acquire a page slot ──────────────────────────────────────
	select {
	case <-r.slots:
	case <-ctx.Done():
		return nil, categorizeError(ctx.Err(), "timed out waiting for a free page slot")
	}
	defer func() { r.slots <- struct{}{} }()

	r.activePages.Add(1)
	defer r.activePages.Add(-1)

	// ── 2. Open a fresh, isolated page ──────────────────────────────
	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewCloneError(
			models.ErrCodeBrowserCrash,
			"failed to open browser page",
			err,
		)
	}

	// ── 3. CRITICAL DEFER: the page must die with the request ───────
	// Close uses the ORIGINAL page reference (without request context),
	// so cleanup succeeds even after the request deadline has expired.
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			slog.Warn("cleanup: failed to close page", "error", closeErr)
		}
	}()

	// ── 4. Stealth injection ────────────────────────────────────────
	if req.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 4b. Extra headers: plausible Accept-Language + search referer ──
	if u, parseErr := url.Parse(req.TargetURL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{
				"Accept-Language": "en-US,en;q=0.9",
				"Referer":         "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()),
			}),
		}.Call(page)
	}

	// ── 5. Mount hijack router (blocks images/fonts/media) ──────────
	router := setupHijack(page, r.rendererCfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 6. Bind request context to the page ─────────────────────────
	p := page.Context(ctx)

	// ── 7. Navigate and wait for the DOM to settle ──────────────────
	if navErr := p.Navigate(req.TargetURL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to target URL failed")
	}
	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}

	// ── 7b. Status code via the performance API (best-effort) ───────
	// Reading NavigationTiming avoids CDP network event listeners, which
	// conflict with the Fetch domain used by the hijack router.
	var statusCode int
	if res, evalErr := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); evalErr == nil {
		statusCode = res.Value.Int()
	}

	// ── 7c. Remove overlays (cookie banners, popups) ────────────────
	if req.RemoveOverlays {
		removeOverlays(p)
	}

	// ── 8. Read back the rendered document ──────────────────────────
	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to read rendered page HTML")
	}

	title := evalStringOrEmpty(p, `() => document.title`)
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.TargetURL
	}

	return &models.PageSnapshot{
		SourceURL:   req.TargetURL,
		FinalURL:    finalURL,
		StatusCode:  statusCode,
		RawHTML:     rawHTML,
		Title:       title,
		FetchMethod: "browser",
		Palette:     readComputedPalette(p),
	}, nil
}

// readComputedPalette evaluates the page's computed base styles. Only the
// browser path can do this; the HTTP path leaves the palette to the extractor.
func readComputedPalette(p *rod.Page) models.StylePalette {
	res, err := p.Eval(`() => {
		const cs = window.getComputedStyle(document.body);
		const link = document.querySelector('a[href]');
		return {
			background: cs.backgroundColor,
			text: cs.color,
			font: cs.fontFamily,
			link: link ? window.getComputedStyle(link).color : ''
		};
	}`)
	if err != nil {
		return models.StylePalette{}
	}
	return models.StylePalette{
		BackgroundColor: res.Value.Get("background").Str(),
		TextColor:       res.Value.Get("text").Str(),
		FontFamily:      res.Value.Get("font").Str(),
		LinkColor:       res.Value.Get("link").Str(),
	}
}

// removeOverlays injects JS to remove fixed/sticky positioned elements with
// high z-index, which are typically cookie consent banners and popup overlays.
func removeOverlays(p *rod.Page) {
	const js = `() => {
		const els = document.querySelectorAll('*');
		for (const el of els) {
			const style = window.getComputedStyle(el);
			const pos = style.position;
			if (pos === 'fixed' || pos === 'sticky') {
				const z = parseInt(style.zIndex, 10);
				if (z >= 900 || style.zIndex === 'auto') {
					el.remove();
				}
			}
		}
		const selectors = [
			'[class*="cookie"]', '[class*="consent"]', '[class*="overlay"]',
			'[id*="cookie"]', '[id*="consent"]', '[id*="overlay"]',
			'[class*="popup"]', '[id*="popup"]',
			'[class*="gdpr"]', '[id*="gdpr"]',
		];
		for (const sel of selectors) {
			document.querySelectorAll(sel).forEach(el => {
				const style = window.getComputedStyle(el);
				if (style.position === 'fixed' || style.position === 'sticky' || style.position === 'absolute') {
					el.remove();
				}
			});
		}
		document.documentElement.style.overflow = '';
		document.body.style.overflow = '';
	}`
	_, _ = p.Eval(js)
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// categorizeError wraps raw errors into typed CloneErrors so the API layer
// can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.CloneError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewCloneError(models.ErrCodeScrapeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewCloneError(models.ErrCodeScrapeTimeout, "request canceled", err)
	default:
		return models.NewCloneError(models.ErrCodeScrape, msg, err)
	}
}
