package checker

import (
	"net/url"
	"strings"
)

// TargetInfo contains parsed target information
type TargetInfo struct {
	Original string // Original target string
	Scheme   string // http, https, or empty
	Host     string // Hostname (without protocol, path, port)
	Port     string // Port if specified
	Path     string // Path if specified
	FullURL  string // Full normalized URL (for HTTP requests)
}

// ParseTarget parses a target string into structured components.
// This handles various input formats:
//   - example.com
//   - http://example.com
//   - https://example.com:443/path
//   - example.com:8080
func ParseTarget(target string) *TargetInfo {
	info := &TargetInfo{
		Original: target,
	}

	parsed, err := url.Parse(target)

	// If parsing fails, the scheme is empty, or the "scheme" is really a
	// hostname fragment (contains dots), prepend https:// and parse again.
	// A reviewer defaults to https since that is what it is reviewing.
	if err != nil || parsed.Scheme == "" || strings.Contains(parsed.Scheme, ".") {
		parsed, _ = url.Parse("https://" + target)
	}

	if parsed != nil {
		info.Scheme = parsed.Scheme
		info.Host = parsed.Hostname()
		info.Port = parsed.Port()
		info.Path = parsed.Path
		info.FullURL = parsed.String()
	}

	// Fallback: if URL parsing completely failed, extract host manually
	if info.Host == "" {
		host := target
		if idx := strings.Index(host, "://"); idx != -1 {
			host = host[idx+3:]
		}
		if idx := strings.IndexAny(host, "/:"); idx != -1 {
			host = host[:idx]
		}
		info.Host = host
		if info.FullURL == "" {
			info.FullURL = "https://" + host
		}
	}

	return info
}

// HandshakeAddr returns the host:port to use for a raw TLS handshake
func (t *TargetInfo) HandshakeAddr() string {
	port := t.Port
	if port == "" {
		port = "443"
	}
	return t.Host + ":" + port
}
