package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "golden: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	inputFlags := []cli.Flag{
		&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "analyse `TEXT` instead of a file or stdin"},
	}

	return &cli.App{
		Name:  "golden",
		Usage: "golden-ratio text analysis: sections, keywords, patterns and document type",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration `FILE`", EnvVars: []string{"GOLDEN_CONFIG"}},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
			&cli.BoolFlag{Name: "html", Usage: "treat input as HTML and extract its text"},
			&cli.BoolFlag{Name: "no-cache", Usage: "disable analyzer caches and snapshots"},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "run every analyzer and print the combined result",
				ArgsUsage: "[FILE]",
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{Name: "only", Usage: "restrict to `PART`s: sections, keywords, patterns, classification"},
				}, inputFlags...),
				Action: analyzeAction,
			},
			{
				Name:      "segment",
				Usage:     "split text into golden-ratio sections",
				ArgsUsage: "[FILE]",
				Flags:     inputFlags,
				Action:    segmentAction,
			},
			{
				Name:      "keywords",
				Usage:     "extract weighted keywords",
				ArgsUsage: "[FILE]",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "maximum number of keywords"},
				}, inputFlags...),
				Action: keywordsAction,
			},
			{
				Name:      "patterns",
				Usage:     "detect structured patterns",
				ArgsUsage: "[FILE]",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "recursive", Usage: "report words recurring across self-similar segments"},
					&cli.IntFlag{Name: "depth", Value: 3, Usage: "recursion depth for --recursive"},
					&cli.BoolFlag{Name: "fractal", Usage: "also print the fractal dimension"},
				}, inputFlags...),
				Action: patternsAction,
			},
			{
				Name:      "classify",
				Usage:     "classify the document type",
				ArgsUsage: "[FILE]",
				Flags:     inputFlags,
				Action:    classifyAction,
			},
			{
				Name:      "batch",
				Usage:     "analyse a JSONL corpus, one result per line",
				ArgsUsage: "CORPUS.jsonl",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: 4, Usage: "parallel analyses"},
				},
				Action: batchAction,
			},
			{
				Name:  "cache",
				Usage: "inspect the analyzer caches",
				Subcommands: []*cli.Command{
					{
						Name:   "stats",
						Usage:  "print cache and module statistics",
						Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "print JSON"}},
						Action: cacheStatsAction,
					},
					{
						Name:   "clear",
						Usage:  "empty every cache and its snapshot",
						Action: cacheClearAction,
					},
				},
			},
		},
	}
}
