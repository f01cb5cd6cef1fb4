// Package pipeline sequences the clone stages (render, extract, prompt
// assembly, generation) for one request and translates any stage failure
// into a single typed error. No partial results: either every stage
// succeeds and HTML comes back, or the first failing stage's error is the
// request's outcome.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/use-agent/recast/extractor"
	"github.com/use-agent/recast/models"
	"github.com/use-agent/recast/prompt"
)

// Renderer fetches and renders a target page into a raw snapshot.
// *renderer.Renderer satisfies this; tests substitute stubs.
type Renderer interface {
	Render(ctx context.Context, req *models.CloneRequest) (*models.PageSnapshot, error)
}

// Generator turns an assembled prompt into HTML text.
// *generator.Client satisfies this; tests substitute stubs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Sanitizer optionally scrubs the generated HTML before delivery.
type Sanitizer interface {
	Sanitize(html string) string
}

// Pipeline wires the clone stages together.
type Pipeline struct {
	renderer  Renderer
	extractor *extractor.Extractor
	prompts   *prompt.Builder
	generator Generator

	// sanitizer is nil when output sanitization is disabled; the model
	// output is then returned verbatim.
	sanitizer Sanitizer

	// allowPrivateHosts permits loopback/private-network targets.
	allowPrivateHosts bool
}

// New creates a Pipeline. sanitizer may be nil.
func New(r Renderer, e *extractor.Extractor, b *prompt.Builder, g Generator, s Sanitizer, allowPrivateHosts bool) *Pipeline {
	return &Pipeline{
		renderer:          r,
		extractor:         e,
		prompts:           b,
		generator:         g,
		sanitizer:         s,
		allowPrivateHosts: allowPrivateHosts,
	}
}

// Clone runs the full pipeline for one request. Validation happens before
// any render so malformed input never reaches the browser.
func (p *Pipeline) Clone(ctx context.Context, req *models.CloneRequest) (*models.CloneResponse, error) {
	totalStart := time.Now()
	req.Defaults()

	// ── 1. Validate ─────────────────────────────────────────────────
	if err := ValidateTargetURL(req.TargetURL, p.allowPrivateHosts); err != nil {
		return nil, err
	}

	// ── 2. Render ───────────────────────────────────────────────────
	renderStart := time.Now()
	snap, err := p.renderer.Render(ctx, req)
	renderMs := time.Since(renderStart).Milliseconds()
	if err != nil {
		return nil, models.AsCloneError(err)
	}

	pageTokens := extractor.EstimateTokens(snap.RawHTML)

	// ── 3. Extract ──────────────────────────────────────────────────
	extractStart := time.Now()
	snap, err = p.extractor.Extract(snap)
	extractMs := time.Since(extractStart).Milliseconds()
	if err != nil {
		return nil, models.AsCloneError(err)
	}

	// ── 4. Assemble prompt (pure) ───────────────────────────────────
	promptText := p.prompts.Build(snap)

	// ── 5. Generate ─────────────────────────────────────────────────
	genStart := time.Now()
	html, err := p.generator.Generate(ctx, promptText)
	genMs := time.Since(genStart).Milliseconds()
	if err != nil {
		return nil, models.AsCloneError(err)
	}

	// ── 6. Optional output sanitization ─────────────────────────────
	if p.sanitizer != nil {
		html = p.sanitizer.Sanitize(html)
	}

	slog.Info("clone completed",
		"url", req.TargetURL,
		"fetchMethod", snap.FetchMethod,
		"renderMs", renderMs,
		"extractMs", extractMs,
		"generationMs", genMs,
	)

	return &models.CloneResponse{
		Success:    true,
		ClonedHTML: html,
		Message:    fmt.Sprintf("Successfully generated aesthetic clone for %s", req.TargetURL),
		Metadata: models.CloneMetadata{
			Title:       snap.Title,
			SourceURL:   snap.SourceURL,
			FinalURL:    snap.FinalURL,
			StatusCode:  snap.StatusCode,
			FetchMethod: snap.FetchMethod,
		},
		Tokens: models.TokenInfo{
			PageEstimate:   pageTokens,
			PromptEstimate: extractor.EstimateTokens(promptText),
		},
		Timing: models.TimingInfo{
			TotalMs:      time.Since(totalStart).Milliseconds(),
			RenderMs:     renderMs,
			ExtractMs:    extractMs,
			GenerationMs: genMs,
		},
	}, nil
}
