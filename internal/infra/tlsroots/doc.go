// Package tlsroots builds the certificate pool used to verify the Falcon
// API endpoint.
//
// By default the system roots are used. An extra PEM bundle (api.ca_file)
// can be added for networks that re-sign TLS traffic through an
// inspecting proxy.
package tlsroots
