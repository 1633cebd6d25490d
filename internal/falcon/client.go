package falcon

import (
	"net/http"
	"strings"
)

// Client is the Falcon API client.
type Client struct {
	transport    *transport
	clientID     string
	clientSecret string
}

// NewClient creates a client with the given options. Credentials are only
// required by RequestToken; querying with a cached token needs none.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		timeout:   defaultTimeout,
		userAgent: "falcon-speak",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if strings.TrimSpace(cfg.baseURL) == "" {
		return nil, ErrNoBaseURL
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}

	t, err := newTransport(cfg.baseURL, httpClient, cfg.userAgent)
	if err != nil {
		return nil, err
	}
	t.requestID = cfg.requestID
	t.observer = cfg.observer

	return &Client{
		transport:    t,
		clientID:     cfg.clientID,
		clientSecret: cfg.clientSecret,
	}, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.transport.baseURL.String()
}
