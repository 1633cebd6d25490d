package command

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/internal/infra/buildinfo"
)

// Legacy action flag names, in the order they are reported.
var actionNames = []string{"generate", "detections", "incidents", "behaviors", "hostname"}

// App creates the CLI application. Results go to stdout, usage and
// diagnostics to stderr.
func App(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:  "falcon-speak",
		Usage: "Speak with the CrowdStrike Falcon API",
		UsageText: "falcon-speak [global options] command [command options]\n" +
			"   falcon-speak [global options] (-g | -d [default|all] | -i [default|all] | -b | -n HOSTNAME)",
		Version:   buildinfo.String(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     append(globalFlags(), actionFlags()...),
		Commands: []*cli.Command{
			TokenCommand(),
			DetectionsCommand(),
			IncidentsCommand(),
			BehaviorsCommand(),
			HostsCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: before,
		After:  after,
		Action: legacyAction,
		OnUsageError: func(c *cli.Context, err error, _ bool) error {
			return usageError{err: err}
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// Run executes the application and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := App(stdout, stderr).RunContext(ctx, normalizeLegacyArgs(args))
	return HandleError(stderr, err)
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file (default: ~/.falcon-speak/config.yaml when present)",
		},
		&cli.StringSliceFlag{
			Name:  "env-file",
			Usage: ".env files to load; existing environment variables win",
			Value: cli.NewStringSlice(".env"),
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "Falcon API base URL (env FALCON_API_BASE_URL)",
		},
		&cli.StringFlag{
			Name:  "ca-file",
			Usage: "extra PEM bundle trusted for the API endpoint",
		},
		&cli.StringFlag{
			Name:  "client-id",
			Usage: "API client ID (env FALCON_API_CLIENT_ID)",
		},
		&cli.StringFlag{
			Name:  "client-secret",
			Usage: "API client secret (env FALCON_API_CLIENT_SECRET)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "HTTP timeout per request",
		},
		&cli.StringFlag{
			Name:  "token-path",
			Usage: "token cache file",
		},
		&cli.StringFlag{
			Name:  "token-store",
			Usage: "token cache backend: file, memory, badger",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "log progress at debug level",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "log format: text, json",
		},
		&cli.StringFlag{
			Name:  "log-backend",
			Usage: "log backend: slog, zap",
		},
		&cli.StringFlag{
			Name:  "metrics-textfile",
			Usage: "write Prometheus metrics to this file on exit",
		},
	}
}

// actionFlags are the single-shot action flags. Exactly
// one may be given when no subcommand is used.
func actionFlags() []cli.Flag {
	const category = "Actions"
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     "generate",
			Aliases:  []string{"g"},
			Usage:    "generate an oauth token (valid for about 30 minutes)",
			Category: category,
		},
		&cli.StringFlag{
			Name:     "detections",
			Aliases:  []string{"d"},
			Usage:    "retrieve detections; mode `MODE` is default or all",
			Category: category,
		},
		&cli.StringFlag{
			Name:     "incidents",
			Aliases:  []string{"i"},
			Usage:    "retrieve incidents; mode `MODE` is default or all",
			Category: category,
		},
		&cli.BoolFlag{
			Name:     "behaviors",
			Aliases:  []string{"b"},
			Usage:    "retrieve behaviors",
			Category: category,
		},
		&cli.StringFlag{
			Name:     "hostname",
			Aliases:  []string{"n"},
			Usage:    "look up hosts by `NAME` (FQL wildcards allowed)",
			Category: category,
		},
	}
}

// normalizeLegacyArgs lets -d and -i be given without a mode, as in
// "falcon-speak -d", by inserting the default mode.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[0])
	for i := 1; i < len(args); i++ {
		a := args[i]
		out = append(out, a)
		if a == "--" {
			out = append(out, args[i+1:]...)
			break
		}
		switch a {
		case "-d", "--detections", "-i", "--incidents":
		default:
			continue
		}
		if i+1 < len(args) {
			if _, err := domain.ParseFilterMode(args[i+1]); err == nil {
				continue
			}
		}
		out = append(out, string(domain.FilterDefault))
	}
	return out
}

// legacyAction dispatches the single-shot action flags.
func legacyAction(c *cli.Context) error {
	if c.Args().Present() {
		return usageError{err: fmt.Errorf("unknown command %q", c.Args().First())}
	}

	var given []string
	for _, name := range actionNames {
		if c.IsSet(name) {
			given = append(given, name)
		}
	}

	switch len(given) {
	case 0:
		cli.HelpPrinter(c.App.ErrWriter, cli.AppHelpTemplate, c.App)
		return errNoAction
	case 1:
	default:
		return usageError{err: domain.ErrArgumentConflict.WithDetails(
			"--" + strings.Join(given, ", --") + " cannot be combined")}
	}

	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	page := rt.cfg.Page()

	switch given[0] {
	case "generate":
		return runGenerate(rt)
	case "detections":
		return runDetections(rt, c.String("detections"), page)
	case "incidents":
		return runIncidents(rt, c.String("incidents"), page)
	case "behaviors":
		return runBehaviors(rt, page)
	default:
		return runHosts(rt, c.String("hostname"), page)
	}
}

func before(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	c.App.Metadata[runtimeKey] = rt
	c.Context = rt.ctx
	return nil
}

func after(c *cli.Context) error {
	rt, ok := c.App.Metadata[runtimeKey].(*runtime)
	if !ok {
		return nil
	}
	if err := rt.close(); err != nil {
		rt.log.Warn("cleanup failed", "error", err)
	}
	return nil
}
