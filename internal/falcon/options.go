package falcon

import (
	"net/http"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.crowdstrike.com"
	defaultTimeout = 30 * time.Second
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	timeout      time.Duration
	userAgent    string
	requestID    string
	observer     Observer
}

// WithBaseURL sets the API base URL (e.g. https://api.us-2.crowdstrike.com).
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithCredentials sets the OAuth2 API client credentials.
func WithCredentials(clientID, clientSecret string) ClientOption {
	return func(c *clientConfig) {
		c.clientID = clientID
		c.clientSecret = clientSecret
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP timeout.
// Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithRequestID sets the X-Request-ID header sent on every request.
func WithRequestID(id string) ClientOption {
	return func(c *clientConfig) {
		c.requestID = id
	}
}

// WithObserver installs a hook called after every HTTP round trip.
func WithObserver(o Observer) ClientOption {
	return func(c *clientConfig) {
		c.observer = o
	}
}
