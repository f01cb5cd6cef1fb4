// Package sanitizer scrubs model-generated HTML before delivery. The model
// output is untrusted markup; when enabled, this pass strips scripts, event
// handlers, and dangerous URLs while preserving the styling the clone
// depends on. Rendering in a sandboxed frame remains the caller's job.
package sanitizer

import "github.com/microcosm-cc/bluemonday"

// Sanitizer wraps a bluemonday policy tuned for full-document clones.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New builds the clone-output policy: UGC base plus document structure and
// styling, since a clone is a complete styled page rather than a comment.
func New() *Sanitizer {
	p := bluemonday.UGCPolicy()

	// Document skeleton and layout landmarks.
	p.AllowElements(
		"html", "head", "title", "body",
		"header", "footer", "nav", "main", "section", "article", "aside",
		"figure", "figcaption", "button",
	)

	// Styling is the whole point of the clone: keep the <style> block and
	// inline styles. Scripts and event handlers stay banned by the policy.
	p.AllowElements("style")
	p.AllowAttrs("style", "class", "id").Globally()

	p.AllowImages()
	p.AllowDataURIImages()

	return &Sanitizer{policy: p}
}

// Sanitize returns the scrubbed document.
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
