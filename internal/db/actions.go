package db

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/aspect-analyzer/internal/common"
	dbpkg "github.com/dtnitsch/aspect-analyzer/pkg/db"
	"github.com/dtnitsch/aspect-analyzer/pkg/export"
)

func DatasetsAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	datasets, err := database.ListDatasets(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	if len(datasets) == 0 {
		fmt.Println("No datasets found")
		return nil
	}

	t := &export.Table{Columns: []string{"id", "created", "rows", "with_aspects", "source"}}
	for _, d := range datasets {
		t.Rows = append(t.Rows, []any{d.ID, d.CreatedAt.Format("2006-01-02 15:04:05"), d.RecordCount, d.WithAspects, d.Source})
	}
	if err := common.Render(os.Stdout, c.String("format"), "Datasets", t, datasets); err != nil {
		return err
	}

	if format := c.String("format"); format == "" || format == common.FormatTable {
		fmt.Printf("\nTotal: %d datasets\n", len(datasets))
		fmt.Printf("\nTip: Use 'raa summary --dataset <id>' to analyze one\n")
	}
	return nil
}

// DatasetAction shows details for a specific dataset
func DatasetAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	id, err := GetDatasetIDOrLatest(c, database)
	if err != nil {
		return err
	}
	d, err := database.GetDataset(id)
	if err != nil {
		return err
	}

	if format := c.String("format"); format != "" && format != common.FormatTable {
		t := &export.Table{
			Columns: []string{"id", "created", "rows", "with_aspects", "source", "fingerprint"},
			Rows:    [][]any{{d.ID, d.CreatedAt.Format("2006-01-02 15:04:05"), d.RecordCount, d.WithAspects, d.Source, d.Fingerprint}},
		}
		return common.Render(os.Stdout, format, "Dataset "+d.ID, t, d)
	}

	fmt.Printf("Dataset %s\n", d.ID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:      %s\n", d.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Source:       %s\n", d.Source)
	fmt.Printf("Rows:         %d (%d with aspects)\n", d.RecordCount, d.WithAspects)
	fmt.Printf("Fingerprint:  %s\n", d.Fingerprint)
	return nil
}

func DeleteDatasetAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("usage: raa datasets delete <id>")
	}
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	id := c.Args().First()
	if err := database.DeleteDataset(id); err != nil {
		return err
	}
	fmt.Printf("Deleted dataset %s\n", id)
	return nil
}
