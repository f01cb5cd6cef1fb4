package sanitizer

import (
	"strings"
	"testing"
)

func TestSanitize_StripsScripts(t *testing.T) {
	s := New()

	in := `<html><head><title>T</title></head><body>
<p>hello</p>
<script>document.cookie</script>
<iframe src="https://evil.example/"></iframe>
</body></html>`

	got := s.Sanitize(in)

	if strings.Contains(got, "<script") {
		t.Errorf("script element survived sanitization:\n%s", got)
	}
	if strings.Contains(got, "document.cookie") {
		t.Errorf("script body survived sanitization:\n%s", got)
	}
	if strings.Contains(got, "<iframe") {
		t.Errorf("iframe survived sanitization:\n%s", got)
	}
	if !strings.Contains(got, "<p>hello</p>") {
		t.Errorf("content was lost:\n%s", got)
	}
}

func TestSanitize_StripsEventHandlers(t *testing.T) {
	s := New()

	got := s.Sanitize(`<button onclick="steal()">Buy now</button>`)

	if strings.Contains(got, "onclick") {
		t.Errorf("event handler survived sanitization: %q", got)
	}
	if !strings.Contains(got, "Buy now") {
		t.Errorf("button text was lost: %q", got)
	}
}

func TestSanitize_PreservesStyling(t *testing.T) {
	s := New()

	in := `<html><head><style>body { background: #fafafa; color: #111; }</style></head>
<body style="font-family: Georgia">
<header class="hero" id="top"><h1 style="color: #ff6600">Acme</h1></header>
</body></html>`

	got := s.Sanitize(in)

	for _, want := range []string{
		"background: #fafafa",
		`style="font-family: Georgia"`,
		`class="hero"`,
		`id="top"`,
		`style="color: #ff6600"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("styling %q was lost:\n%s", want, got)
		}
	}
}

func TestSanitize_PreservesLandmarksAndImages(t *testing.T) {
	s := New()

	in := `<body><nav>menu</nav><main><img src="https://cdn.example/logo.png" alt="logo"></main><footer>fine print</footer></body>`

	got := s.Sanitize(in)

	for _, want := range []string{"<nav>", "<main>", "<footer>", "logo.png"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q to survive:\n%s", want, got)
		}
	}
}

func TestSanitize_BlocksScriptURLs(t *testing.T) {
	s := New()

	got := s.Sanitize(`<a href="javascript:alert(1)">click</a>`)

	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript URL survived sanitization: %q", got)
	}
}
