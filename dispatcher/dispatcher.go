// dispatcher/dispatcher.go

/* Package dispatcher builds and sends a single authenticated request and classifies its
response. It reads the credential it is given and never touches the credential store;
recovering from an expired credential is left to the caller. */
package dispatcher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deploymenttheory/go-api-session-client/concurrency"
	"github.com/deploymenttheory/go-api-session-client/headers"
	"github.com/deploymenttheory/go-api-session-client/logger"
	"github.com/deploymenttheory/go-api-session-client/status"
	"go.uber.org/zap"
)

// Transport issues HTTP requests. *http.Client satisfies it; session cookies are
// included when the client carries a cookie jar.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestOptions describe the request a caller wants sent.
// A nil *RequestOptions means GET with no body.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Body    interface{}
}

// PreparedRequest is a request whose body has been encoded once so it can be sent
// several times with different credentials.
type PreparedRequest struct {
	Method      string
	Headers     map[string]string
	body        []byte
	hasBody     bool
	contentType string
}

// Dispatcher sends prepared requests through a Transport.
type Dispatcher struct {
	transport         Transport
	baseURL           string
	log               logger.Logger
	concurrency       *concurrency.ConcurrencyHandler
	hideSensitiveData bool
}

// Config carries the Dispatcher's collaborators.
type Config struct {
	Transport         Transport
	BaseURL           string
	Logger            logger.Logger
	Concurrency       *concurrency.ConcurrencyHandler
	HideSensitiveData bool
}

// New creates a Dispatcher. A nil Concurrency handler allows a single request at a time.
func New(cfg Config) *Dispatcher {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	ch := cfg.Concurrency
	if ch == nil {
		ch = concurrency.NewConcurrencyHandler(1, log, nil)
	}
	return &Dispatcher{
		transport:         cfg.Transport,
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		log:               log,
		concurrency:       ch,
		hideSensitiveData: cfg.HideSensitiveData,
	}
}

// Prepare validates opts and encodes the body.
func Prepare(opts *RequestOptions) (*PreparedRequest, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}

	data, contentType, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	return &PreparedRequest{
		Method:      method,
		Headers:     opts.Headers,
		body:        data,
		hasBody:     opts.Body != nil,
		contentType: contentType,
	}, nil
}

// URL resolves endpoint against the base URL. Absolute endpoints are used unchanged.
func (d *Dispatcher) URL(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.IsAbs() {
		return endpoint
	}
	if endpoint != "" && !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return d.baseURL + endpoint
}

// Send prepares opts and sends them once. See SendPrepared.
func (d *Dispatcher) Send(ctx context.Context, endpoint string, opts *RequestOptions, credential string) (*http.Response, status.Classification, error) {
	prepared, err := Prepare(opts)
	if err != nil {
		return nil, status.TransportError, err
	}
	return d.SendPrepared(ctx, endpoint, prepared, credential)
}

// SendPrepared builds a fresh http.Request for prepared, attaches credential as a bearer
// token when not empty, and issues it. The response is returned unread together with its
// classification. A transport failure returns status.TransportError and the error.
func (d *Dispatcher) SendPrepared(ctx context.Context, endpoint string, prepared *PreparedRequest, credential string) (*http.Response, status.Classification, error) {
	target := d.URL(endpoint)

	ctx, requestID, err := d.concurrency.AcquireConcurrencyPermit(ctx)
	if err != nil {
		return nil, status.TransportError, err
	}
	defer d.concurrency.ReleaseConcurrencyPermit(requestID)

	log := d.log.With(zap.String("request_id", requestID.String()))

	var body *bytes.Reader
	if prepared.hasBody {
		body = bytes.NewReader(prepared.body)
	}

	var req *http.Request
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, prepared.Method, target, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, prepared.Method, target, nil)
	}
	if err != nil {
		log.Error("Failed to create request", zap.String("method", prepared.Method), zap.String("url", target), zap.Error(err))
		return nil, status.TransportError, fmt.Errorf("failed to create request: %w", err)
	}

	hh := headers.NewHeaderHandler(req, log, d.hideSensitiveData)
	hh.Apply(headers.BuildRequestHeaders(credential, prepared.contentType, prepared.Headers))
	hh.LogHeaders()
	log.LogCookies("outgoing", req, prepared.Method, target)

	start := time.Now()
	resp, err := d.transport.Do(req)
	duration := time.Since(start)

	classification := status.Classify(resp, err)
	d.concurrency.RecordResponse(classification, duration)

	if err != nil {
		log.LogError("request_error", prepared.Method, target, 0, "", err, "")
		return nil, status.TransportError, fmt.Errorf("%s %s: %w", prepared.Method, target, err)
	}

	headers.CheckDeprecationHeader(resp, log)
	log.LogRequestEnd("request_end", prepared.Method, target, resp.StatusCode, duration)

	return resp, classification, nil
}
