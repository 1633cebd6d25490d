// Package domain defines the core domain models for falcon-speak.
//
// Domain models are plain values without IO dependencies. This package
// contains:
//
//   - Token: the cached bearer token and its probe-derived validity
//   - Family: the four Falcon resource families (detections, incidents,
//     behaviors, devices)
//   - ResourceQuery: page, sort and FQL filter of a list request
//   - Records: typed views of hydrated API objects that keep their raw JSON
//   - Errors: domain-specific error definitions
package domain
