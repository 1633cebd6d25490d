package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/knadh/koanf/maps"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/falcon-speak/internal/cli/config"
	"github.com/yndnr/falcon-speak/internal/cli/output"
	"github.com/yndnr/falcon-speak/pkg/token"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration with secrets masked",
				Action: withRuntime(configShow),
			},
			{
				Name:  "init",
				Usage: "Write a starter configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "overwrite an existing file",
					},
					&cli.BoolFlag{
						Name:  "with-secrets",
						Usage: "also write the client secret and encryption key",
					},
					&cli.BoolFlag{
						Name:  "generate-key",
						Usage: "print a fresh token encryption key for FALCON_TOKEN_ENCRYPTION_KEY",
					},
				},
				Action: func(c *cli.Context) error {
					rt, err := runtimeFrom(c)
					if err != nil {
						return err
					}
					return configInit(rt, c.Bool("force"), c.Bool("with-secrets"), c.Bool("generate-key"))
				},
			},
		},
	}
}

// configMap converts cfg into nested maps keyed like the config file.
func configMap(cfg *config.CLIConfig) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return m, nil
}

func configShow(rt *runtime) error {
	m, err := configMap(rt.cfg.Redacted())
	if err != nil {
		return err
	}

	format := rt.format()
	if format == output.FormatTable {
		flat, _ := maps.Flatten(m, nil, ".")
		return output.NewFormatter(format, rt.cfg.Output.Wide).Format(rt.stdout, flat)
	}
	return output.NewFormatter(format, rt.cfg.Output.Wide).Format(rt.stdout, m)
}

func configInit(rt *runtime, force, withSecrets, generateKey bool) error {
	if _, err := os.Stat(rt.cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", rt.cfgPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}

	if err := config.Save(rt.cfg, rt.cfgPath, withSecrets); err != nil {
		return err
	}
	fmt.Fprintf(rt.stdout, "wrote %s\n", rt.cfgPath)

	if generateKey {
		key, err := token.GenerateKey()
		if err != nil {
			return fmt.Errorf("generate key: %w", err)
		}
		fmt.Fprintf(rt.stdout, "FALCON_TOKEN_ENCRYPTION_KEY=%s\n", key)
	}
	return nil
}
