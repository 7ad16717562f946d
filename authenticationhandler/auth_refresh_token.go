// authenticationhandler/auth_refresh_token.go
package authenticationhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/deploymenttheory/go-api-session-client/headers"
	"github.com/deploymenttheory/go-api-session-client/headers/redact"
	"github.com/deploymenttheory/go-api-session-client/response"
	"github.com/deploymenttheory/go-api-session-client/status"
	"go.uber.org/zap"
)

// maxTokenResponseSize caps how much of the refresh response body is read.
const maxTokenResponseSize = 1 << 20

// Refresh posts to the refresh endpoint and returns the new access token.
// The session cookie travels through the HTTP client's cookie jar; no body is sent.
// A non-2xx answer yields a *RefreshError.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	r.log.Debug("Attempting to refresh token", zap.String("URL", r.refreshURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.refreshURL, nil)
	if err != nil {
		r.log.Error("Failed to create new request for token refresh", zap.Error(err))
		return "", err
	}
	req.Header.Set("Accept", headers.ContentTypeJSON)
	req.Header.Set("Content-Type", headers.ContentTypeJSON)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.LogAuthTokenError("token_refresh_request_error", http.MethodPost, r.refreshURL, 0, err)
		return "", fmt.Errorf("token refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if !status.IsSuccessStatusCode(resp.StatusCode) {
		apiErr := response.ParseErrorResponse(resp)
		refreshErr := &RefreshError{StatusCode: resp.StatusCode, Status: resp.Status, Message: apiErr.Message}
		r.log.LogAuthTokenError("token_refresh_failed", http.MethodPost, r.refreshURL, resp.StatusCode, refreshErr)
		return "", refreshErr
	}

	tokenResp := &TokenResponse{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTokenResponseSize)).Decode(tokenResp); err != nil {
		r.log.Error("Failed to decode token response", zap.Error(err))
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", r.log.Error("Empty access token received")
	}

	fields := []zap.Field{zap.String("AccessToken", redact.Token(r.hideSensitiveData, tokenResp.AccessToken))}
	if expiry, ok := TokenExpiry(tokenResp.AccessToken); ok {
		fields = append(fields, zap.Time("Expiry", expiry), zap.Duration("Duration", expiry.Sub(timeNow())))
	}
	r.log.Info("Token refreshed successfully", fields...)

	return tokenResp.AccessToken, nil
}

// IsRefreshRejected reports whether err is a refresh endpoint rejection rather than a
// transport or decoding failure.
func IsRefreshRejected(err error) bool {
	var refreshErr *RefreshError
	return errors.As(err, &refreshErr)
}
