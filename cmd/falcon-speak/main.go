// Package main provides the entry point for falcon-speak.
//
// falcon-speak is a command-line client for the CrowdStrike Falcon API:
// it caches an OAuth2 bearer token and lists detections, incidents,
// behaviors and hosts.
package main

import (
	"context"
	"os"

	"github.com/yndnr/falcon-speak/internal/cli/command"
	"github.com/yndnr/falcon-speak/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	code := command.Run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
