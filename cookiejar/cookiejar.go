// cookiejar/cookiejar.go

/* Package cookiejar attaches a cookie jar to the HTTP client so the session cookie set by
the API (typically the refresh cookie) travels with every request, including the refresh
call itself. It also offers helpers to seed custom cookies and to redact session cookies
before they reach the logs. */

package cookiejar

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/deploymenttheory/go-api-session-client/logger"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// sensitiveCookieNames are compared case-insensitively.
var sensitiveCookieNames = map[string]bool{
	"sessionid":     true,
	"session":       true,
	"refresh_token": true,
	"access_token":  true,
}

// SetupCookieJar initializes the HTTP client with a public-suffix aware cookie jar if enabled.
func SetupCookieJar(client *http.Client, enableCookieJar bool, log logger.Logger) error {
	if !enableCookieJar {
		log.Debug("Cookie jar disabled, session cookies will not be sent")
		return nil
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		log.Error("Failed to create cookie jar", zap.Error(err))
		return fmt.Errorf("setupCookieJar failed: %w", err)
	}
	client.Jar = jar

	log.Debug("Cookie jar enabled")
	return nil
}

// ApplyCustomCookies seeds the client's jar with name/value pairs scoped to baseURL.
func ApplyCustomCookies(client *http.Client, baseURL string, cookies map[string]string, log logger.Logger) error {
	if len(cookies) == 0 {
		return nil
	}
	if client.Jar == nil {
		return fmt.Errorf("custom cookies supplied but the cookie jar is disabled")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL for custom cookies: %w", err)
	}

	jarCookies := make([]*http.Cookie, 0, len(cookies))
	for name, value := range cookies {
		jarCookies = append(jarCookies, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	client.Jar.SetCookies(u, jarCookies)

	log.Debug("Custom cookies applied", zap.Int("count", len(jarCookies)), zap.String("host", u.Host))
	return nil
}

// RedactSensitiveCookies returns copies of cookies with session values replaced by "REDACTED".
// The input slice is left untouched.
func RedactSensitiveCookies(cookies []*http.Cookie) []*http.Cookie {
	redacted := make([]*http.Cookie, 0, len(cookies))
	for _, cookie := range cookies {
		c := *cookie
		if sensitiveCookieNames[strings.ToLower(c.Name)] {
			c.Value = "REDACTED"
		}
		redacted = append(redacted, &c)
	}
	return redacted
}

// CookiesFromHeader converts the Set-Cookie entries of a header into cookies.
func CookiesFromHeader(header http.Header) []*http.Cookie {
	resp := http.Response{Header: header}
	return resp.Cookies()
}
