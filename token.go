package selfupdate

import (
	"net/url"
	"strings"
)

// canUseTokenForDomain returns true if other URL is in the same domain as origin URL.
// An "api." prefix on the origin is ignored so that a token for api.github.com
// is still sent to github.com and codeload.github.com.
func canUseTokenForDomain(origin, other string) (bool, error) {
	originURL, err := url.Parse(origin)
	if err != nil {
		return false, err
	}
	otherURL, err := url.Parse(other)
	if err != nil {
		return false, err
	}
	domain := strings.ToLower(strings.TrimPrefix(originURL.Hostname(), "api."))
	host := strings.ToLower(otherURL.Hostname())
	if domain == "" {
		return false, nil
	}
	return host == domain || strings.HasSuffix(host, "."+domain), nil
}

// redactURL strips query parameters and fragments from a URL
// so it can be displayed without leaking tokens.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
