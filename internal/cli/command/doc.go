// Package command provides the falcon-speak command line.
//
// Commands are defined with urfave/cli/v2:
//
//   - root.go: application, global flags, legacy action flags
//   - runtime.go: per-invocation wiring of config, logger, store and client
//   - token.go: token subcommand group
//   - query.go: detections, incidents, behaviors and hosts
//   - config.go: config subcommand group
//   - errors.go: exit codes and error rendering
//
// Each action loads what it needs from the runtime, calls a service and
// renders through internal/cli/output.
package command
