// Package service holds the token lifecycle and the list-then-hydrate
// query engine.
//
// This package contains:
//
//   - TokenService: requests, caches, probes and refreshes the bearer token
//   - QueryService: lists identifiers of a resource family and hydrates them
//     into typed records, validating the token before each phase
//
// Collaborators (token store, API client, prober) are injected as
// interfaces so tests can substitute fakes.
package service
