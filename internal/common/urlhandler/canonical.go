package urlhandler

// Canonicalize returns scheme://host[:port]path[?query], eliding the scheme's default port.
func Canonicalize(t Target) string {
	canonical := Prefix(t)
	if t.RawQuery != "" {
		canonical += "?" + t.RawQuery
	}
	return canonical
}

// Prefix returns scheme://host[:port]path without the query string.
// It is the scope key used to look up existing findings.
func Prefix(t Target) string {
	return t.SiteKey() + t.Path
}

// AppendPath returns the canonical scheme/host/port and path with suffix appended.
// The query string is dropped.
func AppendPath(t Target, suffix string) string {
	return Prefix(t) + suffix
}

// ToConnectionTarget returns host, port and scheme, defaulting the port to 80/443.
// Schemes without a known default keep Port 0 unless one was given.
func ToConnectionTarget(t Target) ConnectionTarget {
	return ConnectionTarget{
		Host:   t.Host,
		Port:   t.EffectivePort(),
		Scheme: t.Scheme,
	}
}

// CanonicalizeString parses rawURL and canonicalizes it.
func CanonicalizeString(rawURL string) (string, error) {
	t, err := Parse(rawURL)
	if err != nil {
		return "", err
	}
	return Canonicalize(t), nil
}

// PrefixString parses rawURL and returns its scope prefix.
func PrefixString(rawURL string) (string, error) {
	t, err := Parse(rawURL)
	if err != nil {
		return "", err
	}
	return Prefix(t), nil
}

// AppendPathString parses rawURL and appends suffix to its path.
func AppendPathString(rawURL string, suffix string) (string, error) {
	t, err := Parse(rawURL)
	if err != nil {
		return "", err
	}
	return AppendPath(t, suffix), nil
}

// ToConnectionTargetString parses rawURL and returns its connection target.
func ToConnectionTargetString(rawURL string) (ConnectionTarget, error) {
	t, err := Parse(rawURL)
	if err != nil {
		return ConnectionTarget{}, err
	}
	return ToConnectionTarget(t), nil
}
