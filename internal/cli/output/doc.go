// Package output renders command results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned tables driven by `table` struct tags
//   - json.go, yaml.go: machine-readable formats
//   - records.go: Falcon record projections
//
// Results go to stdout; diagnostics never do.
package output
