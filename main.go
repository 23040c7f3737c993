package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/aspect-analyzer/internal/analyze"
	dbactions "github.com/dtnitsch/aspect-analyzer/internal/db"
	"github.com/dtnitsch/aspect-analyzer/internal/imports"
	"github.com/dtnitsch/aspect-analyzer/internal/reviews"
	"github.com/dtnitsch/aspect-analyzer/internal/serve"
	"github.com/dtnitsch/aspect-analyzer/pkg/help"
)

func main() {
	app := &cli.App{
		Name:  "raa",
		Usage: "Analyze review categories and the aspects assigned to them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file (default ./config.yaml when present)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path (default next to the executable)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "quickstart",
				Usage: "Print a YAML quick start guide",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
			{
				Name:   "import",
				Usage:  "Load categories from a file or the review category API and store them",
				Action: imports.ImportAction,
				Flags: append(sampleFlags(),
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "CSV, JSON or HTML file to import",
					},
					&cli.BoolFlag{
						Name:  "api",
						Usage: "Fetch from the review category API instead of a file",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Use the single-request /all endpoint instead of paging",
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "API base URL",
					},
					&cli.StringFlag{
						Name:    "shared-secret",
						Usage:   "API shared secret",
						EnvVars: []string{"RAA_API_SHARED_SECRET"},
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Records per API page",
					},
					&cli.StringFlag{
						Name:  "sort-by",
						Value: "id",
						Usage: "API sort field",
					},
					&cli.StringFlag{
						Name:  "sort-order",
						Value: "asc",
						Usage: "API sort order: asc or desc",
					},
				),
			},
			{
				Name:   "datasets",
				Usage:  "List stored datasets",
				Action: dbactions.DatasetsAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Maximum datasets to list (0 = all)",
					},
					formatFlag(),
				},
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show one dataset (default latest)",
						ArgsUsage: "[dataset-id]",
						Action:    dbactions.DatasetAction,
						Flags:     []cli.Flag{datasetFlag(), formatFlag()},
					},
					{
						Name:      "delete",
						Usage:     "Delete a dataset and its categories",
						ArgsUsage: "<dataset-id>",
						Action:    dbactions.DeleteDatasetAction,
					},
				},
			},
			{
				Name:   "summary",
				Usage:  "Show summary statistics",
				Action: analyze.SummaryAction,
				Flags:  sourceFlags(formatFlag()),
			},
			{
				Name:   "frequency",
				Usage:  "Show how often each aspect is assigned",
				Action: analyze.FrequencyAction,
				Flags: sourceFlags(formatFlag(),
					&cli.StringFlag{
						Name:  "order",
						Usage: "Sort order: desc or asc",
					},
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"n"},
						Usage:   "Show only the first N aspects (0 = all)",
					},
				),
			},
			{
				Name:   "matrix",
				Usage:  "Show the category by aspect presence matrix",
				Action: analyze.MatrixAction,
				Flags:  sourceFlags(append(matrixFlags(), formatFlag())...),
			},
			{
				Name:      "category",
				Usage:     "Show the details of one category",
				ArgsUsage: "[name]",
				Action:    analyze.CategoryAction,
				Flags: sourceFlags(formatFlag(),
					&cli.StringFlag{
						Name:  "name",
						Usage: "Category name",
					},
				),
			},
			{
				Name:   "empty",
				Usage:  "List categories without aspects",
				Action: analyze.EmptyAction,
				Flags:  sourceFlags(formatFlag()),
			},
			{
				Name:   "distribution",
				Usage:  "Show the histogram of aspects per category",
				Action: analyze.DistributionAction,
				Flags: sourceFlags(formatFlag(),
					&cli.IntFlag{
						Name:  "bins",
						Value: 20,
						Usage: "Number of histogram bins",
					},
				),
			},
			{
				Name:   "export",
				Usage:  "Write the analysis tables to files plus a YAML report",
				Action: analyze.ExportAction,
				Flags: sourceFlags(append(matrixFlags(),
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Directory for exported files",
					},
					&cli.StringFlag{
						Name:  "formats",
						Value: "csv,json",
						Usage: "Comma-separated export formats: csv, json, html",
					},
					&cli.BoolFlag{
						Name:  "links",
						Usage: "Also write downloads.html with embedded download links",
					},
				)...),
			},
			{
				Name:   "reviews",
				Usage:  "Analyze aspects across individual reviews",
				Action: reviews.ReviewsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Review CSV with review_id, review_text, category and aspects columns",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "view",
						Value: "stats",
						Usage: "Table to show: stats, pivot, top, low, unique",
					},
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"n"},
						Usage:   "Number of aspects for --view top",
					},
					formatFlag(),
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the upload and analytics HTTP API",
				Action: serve.ServeAction,
				Flags: append(sampleFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (default :5001)",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Require this value in the X-API-Key header",
						EnvVars: []string{"RAA_SERVER_API_KEY"},
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: "table",
		Usage: "Output format: table, json, yaml, csv",
	}
}

func datasetFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "dataset",
		Usage: "Stored dataset ID (default latest)",
	}
}

func sampleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "max-rows",
			Usage: "Randomly sample at most this many categories (0 = all)",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "Sampling seed",
		},
	}
}

func matrixFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "max-aspects",
			Usage: "Matrix column limit",
		},
		&cli.IntFlag{
			Name:  "max-categories",
			Usage: "Matrix row limit",
		},
	}
}

// sourceFlags adds the dataset selection flags shared by the analysis
// commands: a stored dataset or a file loaded directly.
func sourceFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		datasetFlag(),
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Analyze a CSV, JSON or HTML file without importing it",
		},
	}
	flags = append(flags, sampleFlags()...)
	return append(flags, extra...)
}
