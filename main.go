package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/qgc-crawler/internal/cache"
	"github.com/dtnitsch/qgc-crawler/internal/inspect"
	"github.com/dtnitsch/qgc-crawler/internal/match"
	"github.com/dtnitsch/qgc-crawler/models"
	"github.com/dtnitsch/qgc-crawler/pkg/help"
)

func main() {
	globalFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
		},
		&cli.StringFlag{
			Name:  "cache-backend",
			Usage: "Text cache backend: memory, file or sqlite",
		},
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "Directory (file backend) or database path (sqlite backend) of the text cache",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log per-batch progress",
		},
	}

	app := &cli.App{
		Name:  "qgc-crawler",
		Usage: "Find creditors from a client list in a QGC or Edital document",
		Flags: globalFlags,
		Commands: []*cli.Command{
			{
				Name:   "match",
				Usage:  "Match a client list against a document and write an xlsx report",
				Action: match.MatchAction,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "document",
						Aliases:  []string{"d"},
						Usage:    "Document to search (PDF, HTML or text)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "clients",
						Usage:    "Client list (.xlsx first column, or one name per line)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "tolerance",
						Usage: fmt.Sprintf("Minimum score to accept a match (%d-100, recommended %d-%d)", models.MinimumScoreFloor, models.RecommendedScoreLow, models.RecommendedScoreHigh),
						Value: models.DefaultMinimumScore,
					},
					&cli.BoolFlag{
						Name:  "short-name-boost",
						Usage: "Require a higher score for names with a single significant word",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "section-scoping",
						Usage: "Match inside each credit-class section separately",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Clients matched in parallel (default: number of CPUs)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Report path (default: qgc_resultados_<timestamp>.xlsx)",
					},
					&cli.StringFlag{
						Name:  "fields",
						Usage: "Comma-separated summary fields to print (default: all)",
					},
				}, globalFlags...),
			},
			{
				Name:   "inspect",
				Usage:  "Print the classification and sections of a document",
				Action: inspect.InspectAction,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "document",
						Aliases:  []string{"d"},
						Usage:    "Document to inspect",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "keywords",
						Usage: "Number of frequent document terms to print",
						Value: 15,
					},
					&cli.StringFlag{
						Name:  "fields",
						Usage: "Comma-separated fields to print (default: all)",
					},
				}, globalFlags...),
			},
			{
				Name:  "quickstart",
				Usage: "Print example commands and configuration",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
			{
				Name:  "cache",
				Usage: "Manage the extracted-text cache",
				Subcommands: []*cli.Command{
					{
						Name:   "clear",
						Usage:  "Remove one document (--fingerprint or --document) or every cached document",
						Action: cache.ClearAction,
						Flags: append([]cli.Flag{
							&cli.StringFlag{
								Name:  "fingerprint",
								Usage: "SHA256 fingerprint of the document to remove",
							},
							&cli.StringFlag{
								Name:  "document",
								Usage: "Document whose cache entry should be removed",
							},
						}, globalFlags...),
					},
					{
						Name:   "list",
						Usage:  "List cached documents (sqlite backend)",
						Action: cache.ListAction,
						Flags:  globalFlags,
					},
					{
						Name:   "runs",
						Usage:  "List recent matching runs",
						Action: cache.RunsAction,
						Flags: append([]cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Number of runs to show",
								Value: 20,
							},
						}, globalFlags...),
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
