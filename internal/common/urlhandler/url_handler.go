package urlhandler

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
)

// Regex for cleaning filenames
var (
	unsafeFilenameCharsRegex = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)
	multipleUnderscoresRegex = regexp.MustCompile(`_+`)
	rootDomainRegex          = regexp.MustCompile(`(?i)[a-z0-9-]+\.[a-z0-9-]+$`)
)

// NormalizeURL adds an https scheme when missing and lowercases the host.
// Used for URL lists where entries are often written as bare hosts.
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", errorwrapper.NewMalformedInputError(rawURL, "URL is empty")
	}

	if !strings.Contains(trimmedURL, "://") {
		trimmedURL = "https://" + trimmedURL
	}

	target, err := Parse(trimmedURL)
	if err != nil {
		return "", err
	}
	return Canonicalize(target), nil
}

// ResolveURL resolves a relative or absolute URL against a base URL
func ResolveURL(href string, base *url.URL) (string, error) {
	trimmedHref := strings.TrimSpace(href)
	if trimmedHref == "" {
		return "", errorwrapper.NewMalformedInputError(href, "href is empty")
	}

	parsedHref, err := url.Parse(trimmedHref)
	if err != nil {
		return "", errorwrapper.NewMalformedInputError(href, err.Error())
	}
	if parsedHref.IsAbs() {
		return parsedHref.String(), nil
	}

	if base == nil {
		return "", errorwrapper.NewMalformedInputError(href, "cannot resolve relative URL without a base URL")
	}

	return base.ResolveReference(parsedHref).String(), nil
}

// RootDomain returns the last two labels of a hostname ("example.com" for "a.b.example.com").
// The second return value is false for IP literals and single-label hosts.
func RootDomain(hostname string) (string, bool) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if host, _, err := net.SplitHostPort(hostname); err == nil {
		hostname = host
	}
	if hostname == "" || net.ParseIP(strings.Trim(hostname, "[]")) != nil {
		return "", false
	}

	match := rootDomainRegex.FindString(hostname)
	if match == "" {
		return "", false
	}
	return match, true
}

// SanitizeFilename creates a safe filename string from a URL or any input string.
// It removes the protocol, replaces unsafe characters with underscores, and cleans up underscores.
func SanitizeFilename(input string) string {
	name := input
	if i := strings.Index(name, "://"); i != -1 {
		name = name[i+3:]
	}

	name = unsafeFilenameCharsRegex.ReplaceAllString(name, "_")
	name = multipleUnderscoresRegex.ReplaceAllString(name, "_")

	// Dots next to underscores or other dots would allow "..", so flatten them
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.ReplaceAll(name, "_.", "_")
	name = strings.ReplaceAll(name, "._", "_")

	name = strings.Trim(name, "_.")

	if name == "" {
		return "sanitized_empty_input"
	}

	return name
}
