package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/use-agent/recast/models"
)

const fixtureHTML = `<!DOCTYPE html>
<html>
<head>
<title>Acme Widgets</title>
<meta name="theme-color" content="#ff6600">
</head>
<body style="background-color: #ffffff; color: #222222">
<header><h1>Acme Widgets</h1></header>
<nav><a href="/pricing">Pricing</a><a href="/about">About</a></nav>
<main>
<h2 style="color: #ff6600">The best widgets money can buy</h2>
<p>Acme has been crafting artisanal widgets since 1987. Our widgets are
hand-polished, batch-tested, and shipped worldwide with a lifetime
guarantee. Thousands of satisfied customers rely on Acme widgets every
single day for their most demanding widget needs.</p>
<h2>Pricing</h2>
<p>Plans start at nine dollars a month and scale with your widget
consumption. Enterprise customers get dedicated widget support.</p>
</main>
<footer><p>Copyright Acme 1987</p></footer>
<script>console.log("should never appear in the snapshot")</script>
</body>
</html>`

func rawSnapshot(html string) *models.PageSnapshot {
	return &models.PageSnapshot{
		SourceURL:   "https://acme.example/widgets",
		FinalURL:    "https://acme.example/widgets",
		StatusCode:  200,
		RawHTML:     html,
		Title:       "Acme Widgets",
		FetchMethod: "browser",
	}
}

func TestExtract_RefinesSnapshot(t *testing.T) {
	e := New(0)

	snap, err := e.Extract(rawSnapshot(fixtureHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Title == "" {
		t.Error("expected a non-empty title")
	}
	if !strings.Contains(snap.VisibleText, "artisanal widgets") {
		t.Errorf("visible text missing page content:\n%s", snap.VisibleText)
	}
	if strings.Contains(snap.VisibleText, "console.log") {
		t.Error("script content leaked into the visible text")
	}

	var hasHeading bool
	for _, line := range snap.Outline {
		if strings.Contains(line, "Pricing") {
			hasHeading = true
		}
	}
	if !hasHeading {
		t.Errorf("outline missing headings: %v", snap.Outline)
	}
}

func TestExtract_OutlineLandmarks(t *testing.T) {
	outline := buildOutline(fixtureHTML)
	if len(outline) == 0 {
		t.Fatal("expected a non-empty outline")
	}
	if !strings.HasPrefix(outline[0], "layout: ") {
		t.Fatalf("expected landmark summary first, got %q", outline[0])
	}
	for _, landmark := range []string{"header", "nav", "main", "footer"} {
		if !strings.Contains(outline[0], landmark) {
			t.Errorf("landmark summary missing %q: %q", landmark, outline[0])
		}
	}
}

func TestExtract_PaletteFromDocument(t *testing.T) {
	var p models.StylePalette
	enrichPalette(&p, fixtureHTML)

	if p.BackgroundColor != "#ffffff" {
		t.Errorf("expected body background #ffffff, got %q", p.BackgroundColor)
	}
	if p.TextColor != "#222222" {
		t.Errorf("expected body text #222222, got %q", p.TextColor)
	}

	var hasTheme bool
	for _, c := range p.AccentColors {
		if c == "#ff6600" {
			hasTheme = true
		}
	}
	if !hasTheme {
		t.Errorf("theme-color missing from accents: %v", p.AccentColors)
	}
}

func TestExtract_PaletteComputedStylesAuthoritative(t *testing.T) {
	p := models.StylePalette{
		BackgroundColor: "rgb(10, 10, 10)",
		TextColor:       "rgb(240, 240, 240)",
	}
	enrichPalette(&p, fixtureHTML)

	if p.BackgroundColor != "rgb(10, 10, 10)" {
		t.Errorf("computed background was overwritten: %q", p.BackgroundColor)
	}
	if p.TextColor != "rgb(240, 240, 240)" {
		t.Errorf("computed text color was overwritten: %q", p.TextColor)
	}
}

func TestExtract_TruncatesVisibleText(t *testing.T) {
	e := New(100)

	long := strings.Repeat("<p>widgets and more widgets for everyone </p>", 200)
	snap, err := e.Extract(rawSnapshot("<html><head><title>T</title></head><body>" + long + "</body></html>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snap.VisibleText) > 100+len(truncationMarker) {
		t.Errorf("visible text not truncated: %d chars", len(snap.VisibleText))
	}
	if !strings.HasSuffix(snap.VisibleText, truncationMarker) {
		t.Error("truncated text missing the truncation marker")
	}
}

func TestExtract_EmptyPage(t *testing.T) {
	e := New(0)

	_, err := e.Extract(rawSnapshot(""))

	var cloneErr *models.CloneError
	if !errors.As(err, &cloneErr) || cloneErr.Code != models.ErrCodeExtraction {
		t.Fatalf("expected %s, got %v", models.ErrCodeExtraction, err)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"short word", "hi", 1},
		{"twelve runes", "abcdefghijkl", 4},
		{"multibyte runes", "日本語のテキスト", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
