package falcon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoBaseURL is returned by NewClient when no base URL is configured.
var ErrNoBaseURL = errors.New("falcon: no base URL configured")

// APIError carries the status and the first server error of a failed call.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	TraceID    string
}

func (e *APIError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("falcon: API error %d: %s (trace_id=%s)", e.StatusCode, e.Message, e.TraceID)
	}
	return fmt.Sprintf("falcon: API error %d: %s", e.StatusCode, e.Message)
}

// AuthenticationError indicates the token endpoint rejected the credentials
// or answered without an access token.
type AuthenticationError struct {
	APIError
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("falcon: token request failed with status %d: %s", e.StatusCode, e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *AuthenticationError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// RequestError indicates a list, hydrate or probe call returned an
// unexpected status.
type RequestError struct {
	APIError
	Method string
	Path   string
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("falcon: %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	if e.TraceID != "" {
		msg += " (trace_id=" + e.TraceID + ")"
	}
	return msg
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *RequestError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// errorBody is the error envelope returned by every Falcon endpoint.
type errorBody struct {
	Meta struct {
		TraceID string `json:"trace_id"`
	} `json:"meta"`
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// parseAPIError builds the base error from a response. The message is the
// first entry of the errors array, falling back to the raw body.
func parseAPIError(resp *response) APIError {
	base := APIError{StatusCode: resp.StatusCode}

	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		base.TraceID = body.Meta.TraceID
		if len(body.Errors) > 0 {
			base.Code = body.Errors[0].Code
			base.Message = body.Errors[0].Message
		}
	}
	if base.TraceID == "" {
		base.TraceID = resp.Headers.Get("X-Cs-Traceid")
	}
	if base.Message == "" {
		base.Message = strings.TrimSpace(string(resp.Body))
	}
	if base.Message == "" {
		base.Message = http.StatusText(resp.StatusCode)
	}
	return base
}

func newRequestError(method, path string, resp *response) *RequestError {
	return &RequestError{APIError: parseAPIError(resp), Method: method, Path: path}
}
