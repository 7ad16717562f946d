// headers/headers.go
package headers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/deploymenttheory/go-api-session-client/headers/redact"
	"github.com/deploymenttheory/go-api-session-client/logger"
	"github.com/deploymenttheory/go-api-session-client/version"
	"go.uber.org/zap"
)

const (
	ContentTypeJSON = "application/json"
	bearerPrefix    = "Bearer "
)

// BuildRequestHeaders derives the header set for a single request attempt.
// Entries are layered in increasing priority:
//   - defaults: Accept and User-Agent, plus Content-Type when contentType is not empty
//   - Authorization: Bearer <credential>, when credential is not empty
//   - overrides supplied by the caller
//
// A new http.Header is returned on every call, so a retried attempt never sees
// mutations made to a previous one.
func BuildRequestHeaders(credential, contentType string, overrides map[string]string) http.Header {
	h := make(http.Header)
	h.Set("Accept", ContentTypeJSON)
	h.Set("User-Agent", version.UserAgent())
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}

	if credential != "" {
		h.Set("Authorization", BearerToken(credential))
	}

	for name, value := range overrides {
		h.Set(name, value)
	}

	return h
}

// BearerToken ensures the token is prefixed with "Bearer " only once.
func BearerToken(token string) string {
	if strings.HasPrefix(token, bearerPrefix) {
		return token
	}
	return bearerPrefix + token
}

// HeaderHandler is responsible for setting and logging the headers of one request.
type HeaderHandler struct {
	req               *http.Request
	log               logger.Logger
	hideSensitiveData bool
}

// NewHeaderHandler creates a new instance of HeaderHandler for a given http.Request.
func NewHeaderHandler(req *http.Request, log logger.Logger, hideSensitiveData bool) *HeaderHandler {
	return &HeaderHandler{
		req:               req,
		log:               log,
		hideSensitiveData: hideSensitiveData,
	}
}

// Apply copies every entry of h onto the request, replacing existing values.
func (hh *HeaderHandler) Apply(h http.Header) {
	for name, values := range h {
		hh.req.Header.Del(name)
		for _, v := range values {
			hh.req.Header.Add(name, v)
		}
	}
}

// LogHeaders logs the request headers at debug level, redacting credentials when
// hideSensitiveData is set.
func (hh *HeaderHandler) LogHeaders() {
	if hh.log.GetLogLevel() > logger.LogLevelDebug {
		return
	}

	redactedHeaders := http.Header{}
	for name, values := range hh.req.Header {
		if len(values) > 0 {
			redactedHeaders.Set(name, redact.RedactSensitiveHeaderData(hh.hideSensitiveData, name, values[0]))
		}
	}

	hh.log.Debug("HTTP Request Headers", zap.String("Headers", HeadersToString(redactedHeaders)))
}

// HeadersToString converts a http.Header to a string for logging,
// one header per line, sorted by name.
func HeadersToString(headers http.Header) string {
	headerStrings := make([]string, 0, len(headers))
	for name, values := range headers {
		headerStrings = append(headerStrings, fmt.Sprintf("%s: %s", name, strings.Join(values, ", ")))
	}
	sort.Strings(headerStrings)
	return strings.Join(headerStrings, "\n")
}

// CheckDeprecationHeader checks the response headers for the Deprecation header and logs a warning if present.
func CheckDeprecationHeader(resp *http.Response, log logger.Logger) {
	deprecationHeader := resp.Header.Get("Deprecation")
	if deprecationHeader == "" {
		return
	}

	endpoint := ""
	if resp.Request != nil && resp.Request.URL != nil {
		endpoint = resp.Request.URL.String()
	}

	log.Warn("API endpoint is deprecated",
		zap.String("Date", deprecationHeader),
		zap.String("Endpoint", endpoint),
	)
}
