package extractor

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// maxOutlineEntries bounds the structural outline so deep pages don't eat
// the prompt budget with hundreds of headings.
const maxOutlineEntries = 40

var (
	headingSel  = cascadia.MustCompile("h1, h2, h3")
	landmarkSel = cascadia.MustCompile("header, nav, main, aside, footer")
)

// buildOutline produces a compact structural sketch of the page: which
// layout landmarks exist, followed by the headings in document order.
// The prompt builder renders these as layout hints for the model.
func buildOutline(rawHTML string) []string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var outline []string

	// Landmark regions, deduplicated: "layout: header, nav, main, footer".
	seen := make(map[string]struct{})
	var landmarks []string
	for _, node := range cascadia.QueryAll(doc, landmarkSel) {
		tag := node.Data
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		landmarks = append(landmarks, tag)
	}
	if len(landmarks) > 0 {
		outline = append(outline, "layout: "+strings.Join(landmarks, ", "))
	}

	// Headings in document order, rendered as "h2: Pricing".
	for _, node := range cascadia.QueryAll(doc, headingSel) {
		text := strings.TrimSpace(nodeText(node))
		if text == "" {
			continue
		}
		if len(text) > 120 {
			text = text[:120]
		}
		outline = append(outline, fmt.Sprintf("%s: %s", node.Data, text))
		if len(outline) >= maxOutlineEntries {
			break
		}
	}

	return outline
}

// nodeText concatenates the text content of a node's subtree.
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}
