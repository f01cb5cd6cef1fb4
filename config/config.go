package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Browser  BrowserConfig
	Renderer RendererConfig
	LLM      LLMConfig
	Sanitize SanitizeConfig
	CORS     CORSConfig
	Log      LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages bounds the number of concurrently open tabs.
	MaxPages int // default: 10

	// DefaultProxy is the proxy URL for all outbound page loads.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// RendererConfig controls render behavior.
type RendererConfig struct {
	// DefaultTimeout is the per-request render timeout.
	DefaultTimeout time.Duration // default: 30s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 120s

	// BlockedResourceTypes lists resource types the browser never loads.
	// Stylesheets are deliberately NOT blocked: the snapshot reads computed
	// colors, which requires CSS to be applied.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string

	// AllowPrivateHosts permits cloning loopback/private-network targets.
	// default: false
	AllowPrivateHosts bool
}

// LLMConfig controls the hosted generation model client. The credential is
// process-wide: loaded once here, injected into the generator at construction,
// never read per request.
type LLMConfig struct {
	// APIKey authenticates against the OpenAI-compatible API.
	APIKey string

	// Model is the generation model name. default: "gpt-4o-mini"
	Model string

	// BaseURL is the API root. default: "https://api.openai.com/v1"
	BaseURL string

	// Temperature for generation. default: 0.7
	Temperature float64

	// Timeout is the deadline for a single generation call. default: 120s
	Timeout time.Duration

	// MaxPromptChars caps the assembled prompt length. Visible text is
	// truncated (priority-ordered) to fit. default: 70000
	MaxPromptChars int
}

// SanitizeConfig controls server-side sanitization of generated HTML.
type SanitizeConfig struct {
	// Enabled turns on bluemonday sanitization of the model output before
	// delivery. Off by default so the model output is returned verbatim;
	// callers are expected to render it in a sandboxed frame.
	Enabled bool // default: false
}

// CORSConfig controls cross-origin access for the browser frontend.
type CORSConfig struct {
	// AllowedOrigins lists origins permitted to call the API.
	// default: local dev frontend origins
	AllowedOrigins []string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("RECAST_HOST", "0.0.0.0"),
			Port: envIntOr("RECAST_PORT", 8080),
			Mode: envOr("RECAST_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("RECAST_HEADLESS", true),
			MaxPages:     envIntOr("RECAST_MAX_PAGES", 10),
			DefaultProxy: os.Getenv("RECAST_PROXY"),
			NoSandbox:    envBoolOr("RECAST_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("RECAST_BROWSER_BIN"),
		},
		Renderer: RendererConfig{
			DefaultTimeout: envDurationOr("RECAST_DEFAULT_TIMEOUT", 30*time.Second),
			MaxTimeout:     envDurationOr("RECAST_MAX_TIMEOUT", 120*time.Second),
			BlockedResourceTypes: envSliceOr("RECAST_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
			AllowPrivateHosts: envBoolOr("RECAST_ALLOW_PRIVATE_HOSTS", false),
		},
		LLM: LLMConfig{
			APIKey:         os.Getenv("RECAST_LLM_API_KEY"),
			Model:          envOr("RECAST_LLM_MODEL", "gpt-4o-mini"),
			BaseURL:        envOr("RECAST_LLM_BASE_URL", "https://api.openai.com/v1"),
			Temperature:    envFloatOr("RECAST_LLM_TEMPERATURE", 0.7),
			Timeout:        envDurationOr("RECAST_LLM_TIMEOUT", 120*time.Second),
			MaxPromptChars: envIntOr("RECAST_MAX_PROMPT_CHARS", 70000),
		},
		Sanitize: SanitizeConfig{
			Enabled: envBoolOr("RECAST_SANITIZE_OUTPUT", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: envSliceOr("RECAST_CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			}),
		},
		Log: LogConfig{
			Level:  envOr("RECAST_LOG_LEVEL", "info"),
			Format: envOr("RECAST_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
