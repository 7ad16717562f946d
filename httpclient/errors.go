// httpclient/errors.go
package httpclient

import "errors"

var (
	// ErrSessionTerminated is returned by Do when the server rejected the session (403) or
	// the credential could not be refreshed. The store has been cleared and the teardown
	// callback invoked.
	ErrSessionTerminated = errors.New("session terminated")

	// ErrTransport is returned by Do when no response was received.
	ErrTransport = errors.New("transport error")

	// ErrInvalidRequest is returned by Do when the request options cannot be encoded.
	ErrInvalidRequest = errors.New("invalid request")
)
