package falcon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/internal/telemetry/logger"
)

const maxBodySize = 10 * 1024 * 1024 // 10MB

// Observer receives one callback per HTTP round trip. Endpoint is the
// request path without query string; status is 0 when no response arrived.
type Observer interface {
	ObserveRequest(endpoint, method string, status int, elapsed time.Duration)
}

// transport performs HTTP communication with the API.
type transport struct {
	baseURL   *url.URL
	client    *http.Client
	userAgent string
	requestID string
	observer  Observer
}

// request is a single API call.
type request struct {
	Method string
	Path   string
	Query  url.Values
	Token  domain.Token

	// Exactly one of JSON or Form is sent as the body.
	JSON any
	Form url.Values
}

// response is a fully read API response.
type response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

func newTransport(baseURL string, httpClient *http.Client, userAgent string) (*transport, error) {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}

	return &transport{
		baseURL:   u,
		client:    httpClient,
		userAgent: userAgent,
	}, nil
}

// do executes a request and reads the whole body.
func (t *transport) do(ctx context.Context, req *request) (*response, error) {
	httpReq, err := t.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	log := logger.L(ctx)
	log.Debug("api request", "method", req.Method, "path", req.Path)

	start := time.Now()
	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		t.observe(req, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	// Limit response body size to prevent memory exhaustion
	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize+1))
	elapsed := time.Since(start)
	t.observe(req, httpResp.StatusCode, elapsed)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > maxBodySize {
		return nil, fmt.Errorf("response too large: exceeds %d bytes", maxBodySize)
	}

	if id := httpResp.Header.Get("X-Cs-Traceid"); id != "" {
		log = logger.L(logger.WithTraceID(ctx, id))
	}
	log.Debug("api response",
		"method", req.Method,
		"path", req.Path,
		"status", httpResp.StatusCode,
		"duration", elapsed,
	)

	return &response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

func (t *transport) buildRequest(ctx context.Context, req *request) (*http.Request, error) {
	u := t.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var (
		bodyReader  io.Reader
		contentType = "application/json"
	)
	switch {
	case req.Form != nil:
		bodyReader = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	t.addHeaders(httpReq, req.Token, contentType)
	return httpReq, nil
}

// addHeaders adds authentication and common headers.
func (t *transport) addHeaders(req *http.Request, token domain.Token, contentType string) {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if !token.IsZero() {
		req.Header.Set("Authorization", "Bearer "+token.Value())
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.requestID != "" {
		req.Header.Set("X-Request-ID", t.requestID)
	}
}

func (t *transport) observe(req *request, status int, elapsed time.Duration) {
	if t.observer != nil {
		t.observer.ObserveRequest(req.Path, req.Method, status, elapsed)
	}
}

// resourcesBody is the success envelope of list and entity endpoints.
type resourcesBody[T any] struct {
	Meta struct {
		TraceID    string `json:"trace_id"`
		Pagination *struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
			Total  int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
	Resources []T `json:"resources"`
}

func decodeResources[T any](resp *response) (*resourcesBody[T], error) {
	var body resourcesBody[T]
	if len(resp.Body) == 0 {
		return &body, nil
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &body, nil
}
