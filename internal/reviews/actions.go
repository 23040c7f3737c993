package reviews

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/aspect-analyzer/internal/common"
	"github.com/dtnitsch/aspect-analyzer/pkg/analytics"
	"github.com/dtnitsch/aspect-analyzer/pkg/export"
)

// ReviewsAction analyzes a review CSV (review_id, review_text, category,
// aspects). --view picks which table to print.
func ReviewsAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	logger := common.NewLogger(c, cfg)

	path := c.String("file")
	if path == "" {
		return fmt.Errorf("no review file provided via --file flag")
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reviews, err := analytics.ReadReviewsCSV(f)
	if err != nil {
		return fmt.Errorf("error processing %s: %w", path, err)
	}
	stats := analytics.Analyze(reviews)
	logger.Info("Reviews analyzed", "file", path, "reviews", len(reviews), "stats", len(stats))

	format := c.String("format")
	switch view := c.String("view"); view {
	case "", "stats":
		return common.Render(os.Stdout, format, "Aspect Analysis by Category", export.StatsTable(stats), stats)
	case "pivot":
		p := analytics.Pivot(stats)
		return common.Render(os.Stdout, format, "Aspect Percentage by Category", export.PivotTable(p), p)
	case "top":
		top := analytics.TopAspects(stats, cfg.TopN)
		return common.Render(os.Stdout, format, "Top Aspects", export.FrequencyTable(top), top)
	case "low":
		low := analytics.LowPercentage(stats)
		if len(low) == 0 {
			fmt.Println("No aspects below 5% of their category's reviews")
			return nil
		}
		return common.Render(os.Stdout, format, "Low Percentage Aspects", export.StatsTable(low), low)
	case "unique":
		unique := analytics.UniqueAspectsPerCategory(stats)
		t := &export.Table{Columns: []string{"category", "unique_aspects"}}
		for _, u := range unique {
			t.Rows = append(t.Rows, []any{u.Category, u.UniqueAspects})
		}
		return common.Render(os.Stdout, format, "Unique Aspects per Category", t, unique)
	default:
		return fmt.Errorf("unknown view %q (use: stats, pivot, top, low, unique)", view)
	}
}
