package extractor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/recast/models"
)

// maxAccentColors bounds the accent list passed to the prompt.
const maxAccentColors = 6

var reColorValue = regexp.MustCompile(`(?i)(?:background(?:-color)?|color)\s*:\s*(#[0-9a-f]{3,8}|rgba?\([^)]*\)|[a-z]+)`)

// enrichPalette fills palette gaps from the document itself. Computed styles
// from the browser path stay authoritative; this pass only adds what is
// missing (the plain-HTTP path arrives with an empty palette) plus accent
// colors harvested from inline styles and theme metadata.
func enrichPalette(p *models.StylePalette, rawHTML string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return
	}

	// <meta name="theme-color"> is an explicit statement of the page's
	// brand color; always include it as the first accent.
	counts := make(map[string]int)
	var order []string
	note := func(c string) {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || c == "transparent" || c == "inherit" || c == "initial" {
			return
		}
		if _, ok := counts[c]; !ok {
			order = append(order, c)
		}
		counts[c]++
	}

	if theme, ok := doc.Find(`meta[name="theme-color"]`).Attr("content"); ok {
		note(theme)
	}

	// Inline style attributes carry the page's explicit color choices.
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		for _, m := range reColorValue.FindAllStringSubmatch(style, -1) {
			note(m[1])
		}
	})

	// Legacy bgcolor attributes still show up on old pages.
	doc.Find("[bgcolor]").Each(func(_ int, s *goquery.Selection) {
		if c, ok := s.Attr("bgcolor"); ok {
			note(c)
		}
	})

	// Body-level inline styles fill missing base colors.
	if p.BackgroundColor == "" || p.TextColor == "" {
		if style, ok := doc.Find("body").Attr("style"); ok {
			for _, m := range reColorValue.FindAllStringSubmatch(style, -1) {
				if p.BackgroundColor == "" && strings.HasPrefix(strings.ToLower(m[0]), "background") {
					p.BackgroundColor = m[1]
				} else if p.TextColor == "" && strings.HasPrefix(strings.ToLower(m[0]), "color") {
					p.TextColor = m[1]
				}
			}
		}
		if p.BackgroundColor == "" {
			if c, ok := doc.Find("body").Attr("bgcolor"); ok {
				p.BackgroundColor = c
			}
		}
	}

	// Most frequent first; ties keep document order for determinism.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxAccentColors {
		order = order[:maxAccentColors]
	}
	p.AccentColors = order
}
