package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
	dbpkg "github.com/dtnitsch/aspect-analyzer/pkg/db"
	"github.com/dtnitsch/aspect-analyzer/pkg/loader"
)

// GetDatasetIDOrLatest returns the dataset from --dataset or the first
// argument, or the latest dataset if neither is given.
func GetDatasetIDOrLatest(c *cli.Context, database *dbpkg.DB) (string, error) {
	id := c.String("dataset")
	if id == "" && c.NArg() > 0 {
		id = c.Args().First()
	}
	if id != "" {
		return id, nil
	}

	latest, err := database.LatestDataset()
	if errors.Is(err, dbpkg.ErrNoDataset) {
		return "", fmt.Errorf("no datasets found. Run 'raa import --file ...' first")
	}
	if err != nil {
		return "", err
	}
	return latest.ID, nil
}

// LoadDataset loads the records an analysis command works on: --file when
// given, otherwise a stored dataset. The returned label names the source.
func LoadDataset(c *cli.Context, cfg *models.Config, logger *slog.Logger) (*aspects.Dataset, string, error) {
	if path := c.String("file"); path != "" {
		records, err := loader.LoadFile(path, loader.Options{MaxRows: cfg.MaxRows, Seed: cfg.SampleSeed})
		if err != nil {
			return nil, "", err
		}
		logger.Info("Loaded category file", "file", path, "rows", len(records))
		return aspects.NewDataset(records), path, nil
	}

	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	id, err := GetDatasetIDOrLatest(c, database)
	if err != nil {
		return nil, "", err
	}
	records, err := database.LoadCategories(id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Info("Loaded stored dataset", "dataset_id", id, "rows", len(records))
	return aspects.NewDataset(records), id, nil
}
