package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/weberc2/blockfs/pkg/filesystem"
	"github.com/weberc2/blockfs/pkg/log"
	. "github.com/weberc2/blockfs/pkg/types"
)

func main() {
	app := cli.App{
		Name:        appName,
		Description: "an in-memory block file system",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a YAML config file.",
				EnvVars: []string{envVarPrefix + "_CONFIG_FILE"},
				Value:   DefaultConfigFile(),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "One of `debug`, `info`, `warn` or `error`.",
			},
			&cli.StringFlag{
				Name:  "device",
				Usage: "The block device: `memory` or `s3`.",
			},
			&cli.Int64Flag{
				Name:  "block-size",
				Usage: "The size of each device block in bytes.",
			},
			&cli.Uint64Flag{
				Name:  "blocks",
				Usage: "The number of blocks on the device.",
			},
			&cli.IntFlag{
				Name:  "descriptors",
				Usage: "The capacity of the descriptor table.",
			},
		},
		Commands: []*cli.Command{{
			Name:        "demo",
			Description: "run a demonstration of the file system operations",
			Action: withFileSystem(func(
				fs *filesystem.FileSystem,
				ctx *cli.Context,
			) error {
				return Demo(fs, os.Stdout)
			}),
		}, {
			Name:        "run",
			Usage:       "run SCRIPT",
			Description: "execute the operations listed in a YAML script",
			Action: withFileSystem(func(
				fs *filesystem.FileSystem,
				ctx *cli.Context,
			) error {
				if ctx.NArg() != 1 {
					return fmt.Errorf("wanted exactly 1 script; found `%d`", ctx.NArg())
				}
				script, err := LoadScript(ctx.Args().First())
				if err != nil {
					return err
				}
				return script.Run(fs, os.Stdout)
			}),
		}, {
			Name:        "serve",
			Description: "serve the file system over HTTP",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "addr",
					Usage: "The address to listen on.",
				},
			},
			Action: withConfig(func(c *Config, ctx *cli.Context) error {
				return c.Serve(ctx.Context)
			}),
		}},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

// withConfig loads and validates the configuration, applying any flags that
// were explicitly set, and stores the configured logger in the context.
func withConfig(f func(*Config, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		c, err := LoadConfig(ctx.String("config"))
		if err != nil {
			return err
		}
		if ctx.IsSet("log-level") {
			c.LogLevel = ctx.String("log-level")
		}
		if ctx.IsSet("device") {
			c.Device = ctx.String("device")
		}
		if ctx.IsSet("block-size") {
			c.BlockSize = Byte(ctx.Int64("block-size"))
		}
		if ctx.IsSet("blocks") {
			c.Blocks = ctx.Uint64("blocks")
		}
		if ctx.IsSet("descriptors") {
			c.Descriptors = ctx.Int("descriptors")
		}
		if ctx.IsSet("addr") {
			c.Addr = ctx.String("addr")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		ctx.Context = log.Context(ctx.Context, c.Logger())
		return f(c, ctx)
	}
}

func withFileSystem(
	f func(*filesystem.FileSystem, *cli.Context) error,
) cli.ActionFunc {
	return withConfig(func(c *Config, ctx *cli.Context) error {
		fs, err := c.FileSystem(log.FromContext(ctx.Context))
		if err != nil {
			return err
		}
		return f(fs, ctx)
	})
}
