package imports

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/aspect-analyzer/internal/common"
	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
	dbpkg "github.com/dtnitsch/aspect-analyzer/pkg/db"
	"github.com/dtnitsch/aspect-analyzer/pkg/fetcher"
	"github.com/dtnitsch/aspect-analyzer/pkg/loader"
)

// ImportAction loads categories from a file or the category API and stores
// them as a dataset. Identical data maps to the existing dataset.
func ImportAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	logger := common.NewLogger(c, cfg)

	var (
		records []models.CategoryRecord
		source  string
	)
	switch {
	case c.String("file") != "":
		source = c.String("file")
		records, err = loader.LoadFile(source, loader.Options{MaxRows: cfg.MaxRows, Seed: cfg.SampleSeed})
		if err != nil {
			return err
		}
	case c.Bool("api"):
		api := cfg.API
		if c.IsSet("base-url") {
			api.BaseURL = c.String("base-url")
		}
		if c.IsSet("shared-secret") {
			api.SharedSecret = c.String("shared-secret")
		}
		if c.IsSet("page-size") {
			api.PageSize = c.Int("page-size")
		}
		records, source, err = fetchFromAPI(c.Context, api, c.Bool("all"), c.String("sort-by"), c.String("sort-order"))
		if err != nil {
			return err
		}
		logger.Info("Fetched categories from API", "base_url", source, "count", len(records), "all_endpoint", c.Bool("all"))
		records = loader.Sample(records, cfg.MaxRows, cfg.SampleSeed)
	default:
		return fmt.Errorf("nothing to import: pass --file <path> or --api")
	}

	if len(records) == 0 {
		return fmt.Errorf("no categories found in %s", source)
	}
	aspects.Normalize(records)

	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	id, cacheHit, err := database.SaveDataset(source, records)
	if err != nil {
		return err
	}
	logger.Info("Dataset stored", "dataset_id", id, "rows", len(records), "cache_hit", cacheHit, "db", database.Path())

	summary := aspects.Summarize(records)
	status := "imported"
	if cacheHit {
		status = "already imported"
	}
	fmt.Printf("Dataset %s (%s)\n", id, status)
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Source:          %s\n", source)
	fmt.Printf("Categories:      %d\n", summary.Total)
	fmt.Printf("With aspects:    %d\n", summary.WithAspects)
	fmt.Printf("Without aspects: %d\n", summary.WithoutAspects)
	fmt.Printf("Mean aspects:    %s\n", common.FormatMean(summary.MeanAspects))
	return nil
}

func fetchFromAPI(ctx context.Context, api models.APIConfig, all bool, sortBy, sortOrder string) ([]models.CategoryRecord, string, error) {
	f, err := fetcher.NewFetcher(api)
	if err != nil {
		return nil, "", err
	}
	source := fetcher.SanitizeBaseURL(api.BaseURL)
	if all {
		records, err := f.FetchAllEndpoint(ctx)
		return records, source + "/all", err
	}
	records, err := f.FetchAll(ctx, sortBy, sortOrder)
	return records, source, err
}
