// Package confloader layers configuration sources with koanf.
//
// Priority (highest to lowest):
//
//  1. Overrides (command-line flags)
//  2. Environment variables
//  3. .env files, which never override the real environment
//  4. Configuration file (YAML)
//  5. Defaults
package confloader
