// httpclient/authenticate.go
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/deploymenttheory/go-api-session-client/dispatcher"
	"github.com/deploymenttheory/go-api-session-client/response"
	"github.com/deploymenttheory/go-api-session-client/status"
	"go.uber.org/zap"
)

// maxDrainBytes bounds how much of a rejected response body is read before closing it,
// so the connection can be reused.
const maxDrainBytes = 64 << 10

// Authenticate sends the request described by opts to endpoint with the current
// credential. A 401 triggers a single coordinated refresh followed by one replay of the
// request. The response is returned unread; the caller must close its body.
// Authenticate returns nil when the session ended (403 or failed refresh), when no
// response was received, or when ctx ended while waiting for a refresh.
func (c *Client) Authenticate(ctx context.Context, endpoint string, opts *dispatcher.RequestOptions) *http.Response {
	resp, _ := c.Do(ctx, endpoint, opts)
	return resp
}

// Do behaves like Authenticate but reports why no response was returned.
// The error wraps ErrSessionTerminated, ErrTransport, ErrInvalidRequest or the
// context error of a caller that stopped waiting for a refresh.
func (c *Client) Do(ctx context.Context, endpoint string, opts *dispatcher.RequestOptions) (*http.Response, error) {
	prepared, err := dispatcher.Prepare(opts)
	if err != nil {
		c.Logger.Error("Failed to encode request body", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	url := c.dispatcher.URL(endpoint)

	credential, _ := c.store.Get()
	resp, classification, err := c.dispatcher.SendPrepared(ctx, endpoint, prepared, credential)

	switch classification {
	case status.TransportError:
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)

	case status.Forbidden:
		apiErr := response.ParseErrorResponse(resp)
		drainAndClose(resp)
		c.Logger.LogError("request_forbidden", prepared.Method, url, resp.StatusCode, apiErr.Message, apiErr, c.rawResponse(apiErr))
		c.terminateSession(prepared.Method, url, "forbidden")
		return nil, fmt.Errorf("%w: %w", ErrSessionTerminated, apiErr)

	case status.Unauthorized:
		drainAndClose(resp)
		c.Logger.Info("Credential rejected, waiting for a fresh one", zap.String("method", prepared.Method), zap.String("url", url))

		fresh, err := c.obtainFreshCredential(ctx, prepared.Method, url)
		if err != nil {
			if !errors.Is(err, ErrSessionTerminated) {
				c.Logger.Warn("Gave up waiting for credential refresh", zap.String("method", prepared.Method), zap.String("url", url), zap.Error(err))
			}
			return nil, err
		}

		c.Logger.Debug("Retrying request with refreshed credential", zap.String("method", prepared.Method), zap.String("url", url))
		retried, retriedClassification, err := c.dispatcher.SendPrepared(ctx, endpoint, prepared, fresh)
		switch retriedClassification {
		case status.TransportError:
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		case status.Unauthorized, status.Forbidden:
			// Returned as is; a replayed request is never recovered a second time.
			c.Logger.Warn("Retried request rejected again",
				zap.String("method", prepared.Method),
				zap.String("url", url),
				zap.Int("status_code", retried.StatusCode),
			)
		}
		return retried, nil
	}

	return resp, nil
}

// obtainFreshCredential joins the refresh in flight, or leads a new one. The leader calls
// the refresh endpoint once and stores the new credential before any participant resumes.
// A failed refresh ends the session once for the whole cohort.
func (c *Client) obtainFreshCredential(ctx context.Context, method, url string) (string, error) {
	return c.refresh.Do(ctx, func() (string, error) {
		c.Logger.LogRefreshAttempt("refresh_start", c.refresher.URL(), c.refresh.Pending())

		// Detached so a leader that gives up does not fail the rest of the cohort.
		refreshCtx := context.WithoutCancel(ctx)
		if c.config.RefreshTimeout > 0 {
			var cancel context.CancelFunc
			refreshCtx, cancel = context.WithTimeout(refreshCtx, c.config.RefreshTimeout)
			defer cancel()
		}

		token, err := c.refresher.Refresh(refreshCtx)
		if err != nil {
			c.terminateSession(method, url, "refresh_failed")
			return "", fmt.Errorf("%w: %w", ErrSessionTerminated, err)
		}

		if err := c.store.Set(token); err != nil {
			c.Logger.Warn("Failed to persist refreshed credential", zap.Error(err))
		}

		c.Logger.Info("Credential refreshed, resuming requests", zap.Int("waiters", c.refresh.Pending()))
		return token, nil
	})
}

// rawResponse returns the error body for logging, unless sensitive data is hidden.
func (c *Client) rawResponse(apiErr *response.APIError) string {
	if c.config.HideSensitiveData {
		return ""
	}
	return apiErr.RawResponse
}

// terminateSession clears the credential store and runs the teardown callback.
func (c *Client) terminateSession(method, url, reason string) {
	if err := c.store.Clear(); err != nil {
		c.Logger.Warn("Failed to clear credential store", zap.Error(err))
	}
	c.terminations.Add(1)
	c.Logger.LogSessionTerminated("session_terminated", method, url, reason)

	if c.onTerminated != nil {
		c.onTerminated()
	}
}

func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	_ = resp.Body.Close()
}
