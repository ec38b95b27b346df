package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/lixenwraith/gs/config"
	"github.com/lixenwraith/gs/config/cache"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "yaml",
		Usage:   "output format (yaml, json, toml)",
	}
}

func sampleCommand() *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "print the default configuration",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.BoolFlag{
				Name:  "commented",
				Usage: "annotate YAML output with field descriptions",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("commented") {
				data, err := config.SampleYAML(AppConfig{})
				if err != nil {
					return err
				}
				_, err = cmd.Root().Writer.Write(data)
				return err
			}

			format, err := config.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			sample, err := config.Sample(AppConfig{})
			if err != nil {
				return err
			}
			return config.Encode(cmd.Root().Writer, sample, format)
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "load the configuration and print the active values",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (JSON, YAML or TOML)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file applied after the config file",
			},
			&cli.BoolFlag{
				Name:  "env",
				Usage: "apply the process environment last",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := loggerFrom(ctx)

			format, err := config.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			b := config.NewBuilder[AppConfig]().WithLogger(logger)
			if path := cmd.String("config"); path != "" {
				b.WithFile(path)
			} else {
				b.WithFileDiscovery(config.DefaultDiscoveryOptions("gsconfig"))
			}
			if path := cmd.String("env-file"); path != "" {
				b.WithEnvFile(path)
			}
			if cmd.Bool("env") {
				b.WithProcessEnv()
			}

			cfg, err := b.Build()
			if err != nil {
				return err
			}
			logger.Debug("loaded", zap.String("config", config.Describe(cfg)))

			snapshot, err := config.Snapshot(cfg)
			if err != nil {
				return err
			}
			return config.Encode(cmd.Root().Writer, snapshot, format)
		},
	}
}

func connFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "conn",
		Value: "memory",
		Usage: "cache connection string (memory, path:DIR, redis://HOST:PORT/DB)",
	}
}

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "read and write cache entries",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "store a value",
				ArgsUsage: "KEY VALUE",
				Flags: []cli.Flag{
					connFlag(),
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "time to live, 0 never expires",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return fmt.Errorf("expected KEY VALUE, got %d arguments", cmd.Args().Len())
					}
					c, err := cache.Open(cmd.String("conn"), cache.WithLogger(loggerFrom(ctx)))
					if err != nil {
						return err
					}
					defer c.Close()
					return c.Set(ctx, cmd.Args().Get(0), cmd.Args().Get(1), cmd.Duration("ttl"))
				},
			},
			{
				Name:      "get",
				Usage:     "print a value",
				ArgsUsage: "KEY",
				Flags:     []cli.Flag{connFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("expected KEY, got %d arguments", cmd.Args().Len())
					}
					c, err := cache.Open(cmd.String("conn"), cache.WithLogger(loggerFrom(ctx)))
					if err != nil {
						return err
					}
					defer c.Close()

					value, found, err := c.Get(ctx, cmd.Args().First())
					if err != nil {
						return err
					}
					if !found {
						return fmt.Errorf("key %q not found", cmd.Args().First())
					}
					_, err = fmt.Fprintln(cmd.Root().Writer, value)
					return err
				},
			},
		},
	}
}
