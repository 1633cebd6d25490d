// Package config defines the falcon-speak configuration.
//
//   - spec.go: CLIConfig struct (~/.falcon-speak/config.yaml)
//   - loader.go: layered loading and saving
//   - verify.go: validation
package config
