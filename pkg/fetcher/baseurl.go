package fetcher

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// SanitizeBaseURL cleans up a pasted API base URL: whitespace, markdown link
// wrappers, trailing punctuation and trailing slashes are removed.
func SanitizeBaseURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	cleaned = strings.TrimSpace(cleaned)
	return strings.TrimRight(cleaned, "/")
}

// ValidateBaseURL checks that a sanitized base URL is an absolute http(s) URL.
func ValidateBaseURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", rawURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", rawURL)
	}
	return nil
}
