package falcon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yndnr/falcon-speak/internal/core/domain"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// RequestToken performs the client-credential grant. Only HTTP 201 with a
// non-empty access_token is a success.
func (c *Client) RequestToken(ctx context.Context) (domain.Token, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", domain.ErrMissingCredentials
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	resp, err := c.transport.do(ctx, &request{
		Method: http.MethodPost,
		Path:   pathOAuthToken,
		Form:   form,
	})
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusCreated {
		return "", &AuthenticationError{APIError: parseAPIError(resp)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body, &tr); err != nil || tr.AccessToken == "" {
		base := parseAPIError(resp)
		base.Message = "response missing access_token"
		return "", &AuthenticationError{APIError: base}
	}

	return domain.Token(tr.AccessToken), nil
}

// Probe tests a token with a minimal detections query (offset 0, limit 1).
// 200 means Valid, 403 means Expired; any other status is a *RequestError.
func (c *Client) Probe(ctx context.Context, token domain.Token) (domain.Validity, error) {
	q := url.Values{}
	q.Set("offset", "0")
	q.Set("limit", strconv.Itoa(1))

	resp, err := c.transport.do(ctx, &request{
		Method: http.MethodGet,
		Path:   ProbePath,
		Query:  q,
		Token:  token,
	})
	if err != nil {
		return 0, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return domain.Valid, nil
	case http.StatusForbidden:
		return domain.Expired, nil
	default:
		return 0, newRequestError(http.MethodGet, ProbePath, resp)
	}
}
