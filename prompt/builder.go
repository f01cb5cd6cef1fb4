// Package prompt assembles the exact text sent to the generation model.
// Building is pure: no side effects, no network calls, byte-identical output
// for identical snapshots.
package prompt

import (
	"strings"

	"github.com/use-agent/recast/models"
)

// instructionHeader directs the model toward structural and color-palette
// similarity rather than literal content reproduction.
const instructionHeader = `You are an AI web designer tasked with creating an aesthetic HTML clone of a website.
Your goal is to replicate the visual appearance, layout, original color scheme (including background and text colors), and typography using a single, self-contained HTML file.

Key instructions for color:
* Replicate the exact background-text color pairing reported below. If the original is black text on a white background, your clone must also be black text on a white background.
* Preserve the hyperlink color if one is reported.
* Use the accent colors where the layout calls for emphasis (buttons, headers, highlights).

General instructions:
1. Generate a NEW HTML structure informed by the outline below. Do not reproduce the source content word for word; capture its aesthetic.
2. Use inline CSS or a single <style> block within the <head>. No external CSS files.
3. Do NOT include any JavaScript or <script> tags.
4. The output must be ONLY the complete HTML code, starting with <!DOCTYPE html> or <html> and ending with </html>.
5. Do not include explanations, comments, or markdown formatting (like ` + "```html" + `) outside the HTML itself.`

// truncationMarker matches the extractor's marker so a double-truncated
// prompt still reads consistently.
const truncationMarker = "\n...[TRUNCATED]..."

// minTextBudget is the smallest visible-text allowance. If the fixed prompt
// sections leave less room than this, the text section is dropped entirely
// rather than reduced to a useless stub.
const minTextBudget = 256

// Builder assembles generation prompts from page snapshots.
type Builder struct {
	// MaxChars caps the length of the assembled prompt. Visible text is
	// truncated (title, palette, and outline always survive) to fit.
	// Zero or negative disables the cap.
	MaxChars int
}

// NewBuilder creates a Builder with the given prompt budget.
func NewBuilder(maxChars int) *Builder {
	return &Builder{MaxChars: maxChars}
}

// Build assembles the prompt. Priority order under truncation: instruction
// header, title, palette, outline, then as much visible text as fits.
func (b *Builder) Build(snap *models.PageSnapshot) string {
	var fixed strings.Builder

	fixed.WriteString(instructionHeader)
	fixed.WriteString("\n\nOriginal website URL (for context only): ")
	fixed.WriteString(snap.SourceURL)

	if snap.Title != "" {
		fixed.WriteString("\n\nPage title: ")
		fixed.WriteString(snap.Title)
	}

	writePalette(&fixed, snap.Palette)

	if len(snap.Outline) > 0 {
		fixed.WriteString("\n\nStructural outline:\n")
		for _, line := range snap.Outline {
			fixed.WriteString("- ")
			fixed.WriteString(line)
			fixed.WriteByte('\n')
		}
	}

	const textHeading = "\nVisible text (for aesthetic reference - may be truncated):\n"
	const footer = "\n\nNow generate the new, self-contained HTML code that aesthetically clones the site, ensuring the background and text colors match the original:"

	text := snap.VisibleText
	if b.MaxChars > 0 {
		budget := b.MaxChars - fixed.Len() - len(textHeading) - len(footer)
		switch {
		case budget < minTextBudget:
			text = ""
		case len(text) > budget:
			text = text[:budget-len(truncationMarker)] + truncationMarker
		}
	}

	if text != "" {
		fixed.WriteString(textHeading)
		fixed.WriteString(text)
	}
	fixed.WriteString(footer)

	return fixed.String()
}

// writePalette renders the palette section, omitting unknown signals.
func writePalette(sb *strings.Builder, p models.StylePalette) {
	if p.BackgroundColor == "" && p.TextColor == "" && p.LinkColor == "" &&
		p.FontFamily == "" && len(p.AccentColors) == 0 {
		return
	}

	sb.WriteString("\n\nColor and typography signals:\n")
	if p.BackgroundColor != "" {
		sb.WriteString("- background color: " + p.BackgroundColor + "\n")
	}
	if p.TextColor != "" {
		sb.WriteString("- text color: " + p.TextColor + "\n")
	}
	if p.LinkColor != "" {
		sb.WriteString("- link color: " + p.LinkColor + "\n")
	}
	if p.FontFamily != "" {
		sb.WriteString("- font family: " + p.FontFamily + "\n")
	}
	if len(p.AccentColors) > 0 {
		sb.WriteString("- accent colors: " + strings.Join(p.AccentColors, ", ") + "\n")
	}
}
