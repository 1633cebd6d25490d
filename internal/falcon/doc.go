// Package falcon is the HTTP client for the CrowdStrike Falcon API.
//
// The client is stateless with respect to the bearer token: every
// authenticated call takes the token to use, so token caching and refresh
// stay in the service layer. It implements:
//
//   - RequestToken: OAuth2 client-credential grant (POST /oauth2/token)
//   - Probe: cheap authenticated call used to test a cached token
//   - QueryIDs: list phase of a resource family (GET, paginated)
//   - GetEntities: hydrate phase (POST {"ids":[...]} or GET ?ids=)
//
// Failures are reported as *AuthenticationError or *RequestError, both of
// which unwrap to *APIError via errors.As.
package falcon
