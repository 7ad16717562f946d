// logger/zaplogger_logfields.go
package logger

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LogRequestEnd logs the completion of an HTTP request, including the HTTP method, URL, status code, and duration.
func (d *defaultLogger) LogRequestEnd(event string, method string, url string, statusCode int, duration time.Duration) {
	if d.logLevel <= LogLevelInfo {
		fields := []zap.Field{
			zap.String("event", event),
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status_code", statusCode),
			zap.Duration("duration", duration),
		}
		d.logger.Info("HTTP request completed", fields...)
	}
}

// LogError logs an error that occurs during the processing of an HTTP request.
func (d *defaultLogger) LogError(event string, method string, url string, statusCode int, serverStatusMessage string, err error, rawResponse string) {
	if d.logLevel <= LogLevelError {
		errorMessage := ""
		if err != nil {
			errorMessage = err.Error()
		}

		fields := []zap.Field{
			zap.String("event", event),
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status_code", statusCode),
			zap.String("status_message", serverStatusMessage),
			zap.String("error_message", errorMessage),
			zap.String("raw_response", rawResponse),
		}
		d.logger.Error("Error occurred", fields...)
	}
}

// LogAuthTokenError logs issues encountered while presenting or renewing the access token.
func (d *defaultLogger) LogAuthTokenError(event string, method string, url string, statusCode int, err error) {
	if d.logLevel <= LogLevelError {
		fields := []zap.Field{
			zap.String("event", event),
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status_code", statusCode),
			zap.Error(err),
		}
		d.logger.Error("Error with authentication token", fields...)
	}
}

// LogRefreshAttempt logs the start of a credential refresh together with the size of the
// cohort already waiting on it.
func (d *defaultLogger) LogRefreshAttempt(event string, url string, waiters int) {
	if d.logLevel <= LogLevelInfo {
		fields := []zap.Field{
			zap.String("event", event),
			zap.String("url", url),
			zap.Int("waiters", waiters),
		}
		d.logger.Info("Token expired, attempting silent refresh", fields...)
	}
}

// LogSessionTerminated logs an irrecoverable session failure.
func (d *defaultLogger) LogSessionTerminated(event string, method string, url string, reason string) {
	if d.logLevel <= LogLevelWarn {
		fields := []zap.Field{
			zap.String("event", event),
			zap.String("method", method),
			zap.String("url", url),
			zap.String("reason", reason),
		}
		d.logger.Warn("Session terminated", fields...)
	}
}

// LogCookies logs the names of the cookies attached to a request. Values are never logged.
func (d *defaultLogger) LogCookies(direction string, req *http.Request, method, url string) {
	if d.logLevel > LogLevelDebug || req == nil {
		return
	}

	cookies := req.Cookies()
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}

	d.logger.Debug("Cookies",
		zap.String("direction", direction),
		zap.String("method", method),
		zap.String("url", url),
		zap.Strings("cookie_names", names),
	)
}
