package urlhandler

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
)

// Target is an absolute endpoint identity.
// Port is 0 when the URL carried no explicit port.
type Target struct {
	Scheme   string
	Host     string
	Port     int
	Path     string
	RawQuery string
}

// ConnectionTarget is the minimal shape a network client needs to open a connection.
type ConnectionTarget struct {
	Host   string
	Port   int
	Scheme string
}

// Address returns host:port, bracketing IPv6 literals.
func (ct ConnectionTarget) Address() string {
	return net.JoinHostPort(ct.Host, strconv.Itoa(ct.Port))
}

// DefaultPort returns the default port for a scheme, or 0 when the scheme has none.
func DefaultPort(scheme string) int {
	switch strings.ToLower(scheme) {
	case "http":
		return 80
	case "https":
		return 443
	default:
		return 0
	}
}

// Parse turns a raw absolute URL into a Target.
// Relative, scheme-less and host-less inputs fail with errorwrapper.ErrMalformedInput.
func Parse(rawURL string) (Target, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return Target{}, errorwrapper.NewMalformedInputError(rawURL, "URL is empty")
	}

	parsedURL, err := url.Parse(trimmed)
	if err != nil {
		return Target{}, errorwrapper.NewMalformedInputError(rawURL, err.Error())
	}
	if !parsedURL.IsAbs() {
		return Target{}, errorwrapper.NewMalformedInputError(rawURL, "URL is not absolute")
	}
	if parsedURL.Hostname() == "" {
		return Target{}, errorwrapper.NewMalformedInputError(rawURL, "URL has no host")
	}

	port := 0
	if rawPort := parsedURL.Port(); rawPort != "" {
		port, err = strconv.Atoi(rawPort)
		if err != nil || port <= 0 || port > 65535 {
			return Target{}, errorwrapper.NewMalformedInputError(rawURL, "invalid port '"+rawPort+"'")
		}
	}

	return Target{
		Scheme:   strings.ToLower(parsedURL.Scheme),
		Host:     strings.ToLower(parsedURL.Hostname()),
		Port:     port,
		Path:     parsedURL.EscapedPath(),
		RawQuery: parsedURL.RawQuery,
	}, nil
}

// EffectivePort returns the explicit port or the scheme default.
func (t Target) EffectivePort() int {
	if t.Port != 0 {
		return t.Port
	}
	return DefaultPort(t.Scheme)
}

// SameSite reports whether both targets share scheme, host and effective port.
func (t Target) SameSite(other Target) bool {
	return t.Scheme == other.Scheme &&
		t.Host == other.Host &&
		t.EffectivePort() == other.EffectivePort()
}

// SiteKey returns scheme://host[:port] with the default port elided.
func (t Target) SiteKey() string {
	return t.Scheme + "://" + t.authority()
}

// String returns the canonical form.
func (t Target) String() string {
	return Canonicalize(t)
}

// URL returns the canonical form as a *url.URL.
func (t Target) URL() *url.URL {
	u := &url.URL{
		Scheme:   t.Scheme,
		Host:     t.authority(),
		RawQuery: t.RawQuery,
	}
	if path, err := url.PathUnescape(t.Path); err == nil {
		u.Path = path
		u.RawPath = t.Path
	} else {
		u.Path = t.Path
	}
	return u
}

func (t Target) authority() string {
	host := t.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if t.Port != 0 && t.Port != DefaultPort(t.Scheme) {
		return host + ":" + strconv.Itoa(t.Port)
	}
	return host
}
