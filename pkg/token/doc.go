// Package token provides helpers for inspecting bearer tokens and for
// generating local secrets.
//
// Fingerprints identify a cached token without revealing it: the first
// 16 hex characters of its SHA-256 digest. Claims decodes the payload of a
// JWT-shaped token without verifying its signature; the result is for
// display only and never decides whether a token is usable.
package token
