package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/docnav/internal/config"
	"github.com/standardbeagle/docnav/internal/version"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "docnav: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:                   "docnav",
		Usage:                  "Browse API documentation as a navigable tree",
		Version:                version.Info(),
		Writer:                 out,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   config.FileName,
			},
			&cli.StringFlag{
				Name:  "gir-dir",
				Usage: "Directory of .gir introspection files (overrides config)",
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "YAML catalog file used instead of the gir directory",
			},
			&cli.StringFlag{
				Name:  "table",
				Usage: "TOML category table merged over the built-in platform table",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "tree",
				Aliases:   []string{"t"},
				Usage:     "Show the documentation tree below a path",
				ArgsUsage: "[comma-joined path]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "depth",
						Aliases: []string{"d"},
						Usage:   "Levels to expand",
						Value:   2,
					},
					&cli.BoolFlag{
						Name:  "compact",
						Usage: "Compact output",
					},
					&cli.BoolFlag{
						Name:  "ids",
						Usage: "Show item ids",
					},
				},
				Action: treeCommand,
			},
			{
				Name:      "ls",
				Usage:     "List the children of a path",
				ArgsUsage: "[comma-joined path]",
				Action:    listCommand,
			},
			{
				Name:      "lookup",
				Usage:     "Show one item with its members",
				ArgsUsage: "<id>",
				Action:    lookupCommand,
			},
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Fuzzy search across all documentation",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max",
						Aliases: []string{"m"},
						Usage:   "Maximum results (0 = config max_results)",
					},
					&cli.StringSliceFlag{
						Name:  "variant",
						Usage: "Only show these variants (container, category, member, leaf)",
					},
				},
				Action: searchCommand,
			},
			{
				Name:   "languages",
				Usage:  "List the languages the documentation covers",
				Action: languagesCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the documentation over MCP on stdio",
				Action: mcpCommand,
			},
			{
				Name:  "version",
				Usage: "Print detailed version information",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, version.FullInfo())
					return err
				},
			},
		},
	}
}
