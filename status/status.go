// status/status.go
// Package status classifies HTTP responses by what they mean for the session.
package status

import (
	"net/http"
)

// Classification is the session-level meaning of one request attempt.
type Classification int

const (
	// Success covers every status that is not an authentication failure, including
	// application errors such as 404 or 500. Those are passed through to the caller.
	Success Classification = iota
	// Unauthorized means the credential expired or is invalid and a refresh may fix it.
	Unauthorized
	// Forbidden means the credential is rejected outright; refreshing will not help.
	Forbidden
	// TransportError means no response was received at all.
	TransportError
)

func (c Classification) String() string {
	switch c {
	case Success:
		return "success"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// ClassifyStatusCode maps a status code to its Classification.
//
//   - 401 Unauthorized: Unauthorized
//   - 403 Forbidden: Forbidden
//   - anything else: Success
func ClassifyStatusCode(statusCode int) Classification {
	switch statusCode {
	case http.StatusUnauthorized:
		return Unauthorized
	case http.StatusForbidden:
		return Forbidden
	default:
		return Success
	}
}

// Classify classifies a transport result. A nil response or a non-nil error is a TransportError.
func Classify(resp *http.Response, err error) Classification {
	if err != nil || resp == nil {
		return TransportError
	}
	return ClassifyStatusCode(resp.StatusCode)
}

// IsSuccessStatusCode reports whether statusCode is in the 2xx range. The refresh
// endpoint treats anything else as a failed refresh.
func IsSuccessStatusCode(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsRedirectStatusCode checks if the provided HTTP status code is one of the redirect codes.
// Redirects are followed by the transport; the code is only used to annotate logs.
func IsRedirectStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}
