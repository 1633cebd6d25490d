package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/falcon-speak/internal/cli/output"
	"github.com/yndnr/falcon-speak/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: withRuntime(func(rt *runtime) error {
			info := buildinfo.Get()
			if f := rt.format(); f != output.FormatTable {
				return output.NewFormatter(f, false).Format(rt.stdout, info)
			}
			_, err := rt.stdout.Write([]byte("falcon-speak " + buildinfo.String() + "\n"))
			return err
		}),
	}
}
