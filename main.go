package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/scrollsense/scrollsense/internal/run"
)

func main() {
	app := &cli.App{
		Name:  "scrollsense",
		Usage: "on-device content analysis for the pages you scroll",
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Run one analysis cycle against a URL or local HTML file",
				ArgsUsage: "[url]",
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: "file", Usage: "analyze a local HTML file instead of fetching"},
				),
				Action: run.AnalyzeAction,
			},
			{
				Name:      "watch",
				Usage:     "Re-analyze a URL on a fixed cadence until interrupted",
				ArgsUsage: "url",
				Flags: append(commonFlags(),
					&cli.IntFlag{Name: "interval", Usage: "seconds between cycles"},
					&cli.IntFlag{Name: "startup-delay", Usage: "seconds before the first cycle"},
				),
				Action: run.WatchAction,
			},
			{
				Name:  "batch",
				Usage: "Analyze a list of URLs concurrently",
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: "urls", Usage: "comma-separated URLs to analyze"},
					&cli.IntFlag{Name: "workers", Usage: "concurrent fetch workers"},
				),
				Action: run.BatchAction,
			},
			{
				Name:  "history",
				Usage: "Show recorded classifications from the local store",
				Flags: append(commonFlags(),
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "max entries to show"},
					&cli.StringFlag{Name: "hostname", Usage: "only entries for this hostname"},
					&cli.BoolFlag{Name: "summary", Usage: "aggregate per hostname instead of listing"},
				),
				Action: run.HistoryAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commonFlags are shared by every command that assembles the pipeline.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "YAML config file"},
		&cli.StringFlag{Name: "format", Value: "json", Usage: "output format: json or yaml"},
		&cli.BoolFlag{Name: "share-text", Usage: "opt in to attaching raw text to results"},
		&cli.StringFlag{Name: "history", Usage: "SQLite file to record results into"},
		&cli.StringFlag{Name: "adapter-rules", Usage: "YAML file with extra site adapter rules"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug detail"},
	}
}
