// Command gsconfig renders, loads and caches configuration for a demo schema.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type loggerKey struct{}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "gsconfig",
		Usage: "declarative configuration toolkit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "human readable development logs",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger, err := newLogger(cmd.String("log-level"), cmd.Bool("dev"))
			if err != nil {
				return ctx, fmt.Errorf("invalid logger configuration: %w", err)
			}
			return context.WithValue(ctx, loggerKey{}, logger), nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			_ = loggerFrom(ctx).Sync()
			return nil
		},
		Commands: []*cli.Command{
			sampleCommand(),
			showCommand(),
			cacheCommand(),
		},
	}
}

func loggerFrom(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}
