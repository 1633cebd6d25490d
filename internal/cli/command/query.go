package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/falcon-speak/internal/cli/output"
	"github.com/yndnr/falcon-speak/internal/core/domain"
)

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "offset",
			Usage: "index of the first record (default from query.offset)",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "maximum number of records (default from query.limit)",
		},
	}
}

func modeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "filter mode: default (new, in_progress, true_positive) or all",
		Value:   string(domain.FilterDefault),
	}
}

// pageFrom returns the configured page with subcommand flags applied.
func pageFrom(c *cli.Context, rt *runtime) domain.Page {
	page := rt.cfg.Page()
	if c.IsSet("offset") {
		page.Offset = c.Int("offset")
	}
	if c.IsSet("limit") {
		page.Limit = c.Int("limit")
	}
	return page
}

// DetectionsCommand returns the detections command.
func DetectionsCommand() *cli.Command {
	return &cli.Command{
		Name:    "detections",
		Aliases: []string{"detects"},
		Usage:   "List detections, most recent behavior first",
		Flags:   append([]cli.Flag{modeFlag()}, pageFlags()...),
		Action: func(c *cli.Context) error {
			rt, err := runtimeFrom(c)
			if err != nil {
				return err
			}
			return runDetections(rt, c.String("mode"), pageFrom(c, rt))
		},
	}
}

// IncidentsCommand returns the incidents command.
func IncidentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "incidents",
		Usage: "List incidents, most recent behavior first",
		Flags: append([]cli.Flag{modeFlag()}, pageFlags()...),
		Action: func(c *cli.Context) error {
			rt, err := runtimeFrom(c)
			if err != nil {
				return err
			}
			return runIncidents(rt, c.String("mode"), pageFrom(c, rt))
		},
	}
}

// BehaviorsCommand returns the behaviors command.
func BehaviorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "behaviors",
		Usage: "List behaviors",
		Flags: pageFlags(),
		Action: func(c *cli.Context) error {
			rt, err := runtimeFrom(c)
			if err != nil {
				return err
			}
			return runBehaviors(rt, pageFrom(c, rt))
		},
	}
}

// HostsCommand returns the hosts command.
func HostsCommand() *cli.Command {
	return &cli.Command{
		Name:      "hosts",
		Aliases:   []string{"lookup"},
		Usage:     "Look up hosts by hostname (FQL wildcards such as WS-* allowed)",
		ArgsUsage: "HOSTNAME",
		Flags:     pageFlags(),
		Action: func(c *cli.Context) error {
			rt, err := runtimeFrom(c)
			if err != nil {
				return err
			}
			if c.NArg() != 1 {
				return usageError{err: domain.ErrInvalidArgument.WithDetails("exactly one HOSTNAME is required")}
			}
			return runHosts(rt, c.Args().First(), pageFrom(c, rt))
		},
	}
}

func runDetections(rt *runtime, mode string, page domain.Page) error {
	fm, err := domain.ParseFilterMode(mode)
	if err != nil {
		return usageError{err: err}
	}
	qs, err := rt.queryService()
	if err != nil {
		return err
	}
	records, err := qs.Detections(rt.ctx, fm, page)
	if err != nil {
		return err
	}
	return output.Records(rt.stdout, rt.format(), rt.cfg.Output.Wide, records)
}

func runIncidents(rt *runtime, mode string, page domain.Page) error {
	fm, err := domain.ParseFilterMode(mode)
	if err != nil {
		return usageError{err: err}
	}
	qs, err := rt.queryService()
	if err != nil {
		return err
	}
	records, err := qs.Incidents(rt.ctx, fm, page)
	if err != nil {
		return err
	}
	return output.Records(rt.stdout, rt.format(), rt.cfg.Output.Wide, records)
}

func runBehaviors(rt *runtime, page domain.Page) error {
	qs, err := rt.queryService()
	if err != nil {
		return err
	}
	records, err := qs.Behaviors(rt.ctx, page)
	if err != nil {
		return err
	}
	return output.Records(rt.stdout, rt.format(), rt.cfg.Output.Wide, records)
}

func runHosts(rt *runtime, hostname string, page domain.Page) error {
	qs, err := rt.queryService()
	if err != nil {
		return err
	}
	records, err := qs.DevicesByHostname(rt.ctx, hostname, page)
	if err != nil {
		return err
	}
	return output.Records(rt.stdout, rt.format(), rt.cfg.Output.Wide, records)
}
