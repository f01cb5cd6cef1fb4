package pipeline

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/use-agent/recast/models"
)

// ValidateTargetURL checks that raw is a syntactically valid absolute
// http(s) URL. Unless allowPrivate is set, loopback and private-network
// targets are rejected so the service cannot be pointed at itself or at
// internal infrastructure.
func ValidateTargetURL(raw string, allowPrivate bool) *models.CloneError {
	if strings.TrimSpace(raw) == "" {
		return models.NewCloneError(models.ErrCodeInvalidInput, "target_url is required", nil)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return models.NewCloneError(models.ErrCodeInvalidInput, "target_url is not a valid URL", err)
	}
	if !u.IsAbs() {
		return models.NewCloneError(models.ErrCodeInvalidInput, "target_url must be an absolute URL", nil)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return models.NewCloneError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unsupported URL scheme %q: only http and https are allowed", u.Scheme),
			nil,
		)
	}
	if u.Hostname() == "" {
		return models.NewCloneError(models.ErrCodeInvalidInput, "target_url has no host", nil)
	}

	if !allowPrivate && isPrivateHost(u.Hostname()) {
		return models.NewCloneError(
			models.ErrCodeInvalidInput,
			"target_url points at a private or loopback address",
			nil,
		)
	}

	return nil
}

// isPrivateHost reports whether host is a loopback/private/link-local target.
// Only literal addresses and well-known local names are checked; no DNS
// resolution happens here.
func isPrivateHost(host string) bool {
	lower := strings.ToLower(host)
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") || lower == "metadata.google.internal" {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}
