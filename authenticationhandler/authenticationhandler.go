// authenticationhandler/authenticationhandler.go

/* Package authenticationhandler exchanges the session cookie for a fresh access token
by calling the API's refresh endpoint. It performs exactly one call per Refresh and never
retries; coordinating concurrent callers is the job of the refreshgroup package. */
package authenticationhandler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/deploymenttheory/go-api-session-client/logger"
)

// DefaultRefreshEndpoint is the path of the refresh endpoint relative to the base URL.
const DefaultRefreshEndpoint = "/refresh"

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenResponse represents the body returned by the refresh endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// RefreshError reports a refresh endpoint that answered with a non-2xx status.
// Message is taken from the error body when the endpoint sent one.
type RefreshError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *RefreshError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("token refresh failed with status code: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("token refresh failed with status code: %d", e.StatusCode)
}

// Refresher calls the refresh endpoint.
type Refresher struct {
	httpClient        Doer
	refreshURL        string
	log               logger.Logger
	hideSensitiveData bool
}

// NewRefresher creates a Refresher posting to baseURL + endpoint. An empty endpoint
// means DefaultRefreshEndpoint.
func NewRefresher(httpClient Doer, baseURL, endpoint string, log logger.Logger, hideSensitiveData bool) *Refresher {
	if endpoint == "" {
		endpoint = DefaultRefreshEndpoint
	}
	return &Refresher{
		httpClient:        httpClient,
		refreshURL:        strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(endpoint, "/"),
		log:               log,
		hideSensitiveData: hideSensitiveData,
	}
}

// URL returns the absolute URL of the refresh endpoint.
func (r *Refresher) URL() string {
	return r.refreshURL
}
