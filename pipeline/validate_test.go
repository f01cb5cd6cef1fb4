package pipeline

import (
	"testing"

	"github.com/use-agent/recast/models"
)

func TestValidateTargetURL(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		allowPrivate bool
		wantCode     string // empty means valid
	}{
		{"valid http", "http://info.cern.ch/hypertext/WWW/TheProject.html", false, ""},
		{"valid https", "https://example.com/", false, ""},
		{"valid with port", "https://example.com:8443/page", false, ""},
		{"empty", "", false, models.ErrCodeInvalidInput},
		{"whitespace", "  \t ", false, models.ErrCodeInvalidInput},
		{"no scheme", "example.com/page", false, models.ErrCodeInvalidInput},
		{"ftp scheme", "ftp://example.com/", false, models.ErrCodeInvalidInput},
		{"javascript scheme", "javascript:alert(1)", false, models.ErrCodeInvalidInput},
		{"no host", "http://", false, models.ErrCodeInvalidInput},
		{"localhost blocked", "http://localhost:3000/", false, models.ErrCodeInvalidInput},
		{"localhost subdomain blocked", "http://app.localhost/", false, models.ErrCodeInvalidInput},
		{"loopback blocked", "http://127.0.0.1/", false, models.ErrCodeInvalidInput},
		{"private 10.x blocked", "http://10.0.0.5/", false, models.ErrCodeInvalidInput},
		{"private 192.168.x blocked", "http://192.168.1.1/", false, models.ErrCodeInvalidInput},
		{"link local blocked", "http://169.254.169.254/latest/meta-data/", false, models.ErrCodeInvalidInput},
		{"unspecified blocked", "http://0.0.0.0/", false, models.ErrCodeInvalidInput},
		{"ipv6 loopback blocked", "http://[::1]/", false, models.ErrCodeInvalidInput},
		{"cloud metadata name blocked", "http://metadata.google.internal/", false, models.ErrCodeInvalidInput},
		{"localhost allowed when opted in", "http://localhost:3000/", true, ""},
		{"loopback allowed when opted in", "http://127.0.0.1:8000/", true, ""},
		{"public ip ok", "http://93.184.216.34/", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTargetURL(tt.url, tt.allowPrivate)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected %q to be valid, got %v", tt.url, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %q to be rejected", tt.url)
			}
			if err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, err.Code)
			}
			if err.Message == "" {
				t.Error("expected a non-empty message")
			}
		})
	}
}
