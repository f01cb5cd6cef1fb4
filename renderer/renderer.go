package renderer

import (
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/recast/config"
	"github.com/use-agent/recast/models"
)

// Renderer manages the global browser lifecycle. Pages are never shared:
// every Render call opens a fresh tab and closes it before returning, so no
// mutable browser state leaks between concurrent requests. A slot channel
// bounds the number of simultaneously open tabs.
type Renderer struct {
	browser     *rod.Browser
	slots       chan struct{}
	browserCfg  config.BrowserConfig
	rendererCfg config.RendererConfig
	httpFetcher *httpFetcher
	activePages atomic.Int32
}

// New launches a headless browser and prepares the page slots.
func New(browserCfg config.BrowserConfig, rendererCfg config.RendererConfig) (*Renderer, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.DefaultProxy != "" {
		l = l.Proxy(browserCfg.DefaultProxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewCloneError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewCloneError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	maxPages := browserCfg.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}
	slots := make(chan struct{}, maxPages)
	for i := 0; i < maxPages; i++ {
		slots <- struct{}{}
	}
	slog.Info("renderer ready", "maxPages", maxPages)

	return &Renderer{
		browser:     browser,
		slots:       slots,
		browserCfg:  browserCfg,
		rendererCfg: rendererCfg,
		httpFetcher: newHTTPFetcher(browserCfg.DefaultProxy),
	}, nil
}

// Stats returns a snapshot of current page-slot utilisation.
func (r *Renderer) Stats() models.BrowserStats {
	return models.BrowserStats{
		MaxPages:    cap(r.slots),
		ActivePages: int(r.activePages.Load()),
	}
}

// Close kills the browser process. Call this on graceful shutdown to prevent
// zombie Chrome processes.
func (r *Renderer) Close() {
	slog.Info("renderer shutting down: closing browser")
	r.browser.MustClose()
	slog.Info("renderer shutdown complete")
}
