package analyze

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/aspect-analyzer/internal/common"
	dbactions "github.com/dtnitsch/aspect-analyzer/internal/db"
	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
	"github.com/dtnitsch/aspect-analyzer/pkg/caching"
	"github.com/dtnitsch/aspect-analyzer/pkg/export"
)

// session bundles what every analysis command needs.
type session struct {
	cfg       *models.Config
	logger    *slog.Logger
	analyzer  *aspects.Analyzer
	dataset   *aspects.Dataset
	datasetID string // empty when loaded from --file
	label     string
}

func open(c *cli.Context) (*session, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	logger := common.NewLogger(c, cfg)

	ds, label, err := dbactions.LoadDataset(c, cfg, logger)
	if err != nil {
		return nil, err
	}
	s := &session{
		cfg:      cfg,
		logger:   logger,
		analyzer: aspects.NewAnalyzer(caching.NewCache(cfg.CacheTTL)),
		dataset:  ds,
		label:    label,
	}
	if c.String("file") == "" {
		s.datasetID = label
	}
	return s, nil
}

func (s *session) matrixOptions() aspects.MatrixOptions {
	return aspects.MatrixOptions{MaxAspects: s.cfg.MaxAspects, MaxCategories: s.cfg.MaxCategories}
}

func SummaryAction(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	summary := s.analyzer.Summary(s.dataset)

	if format := c.String("format"); format != "" && format != common.FormatTable {
		return common.Render(os.Stdout, format, "Summary", export.SummaryTable(summary), summary)
	}

	fmt.Printf("Category Analysis: %s\n", s.label)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total Categories:        %d\n", summary.Total)
	fmt.Printf("Categories with Aspects: %d\n", summary.WithAspects)
	fmt.Printf("Categories without:      %d\n", summary.WithoutAspects)
	fmt.Printf("Avg. Aspects/Category:   %s\n", common.FormatMean(summary.MeanAspects))
	if !summary.HasData() {
		fmt.Println("\nNo category data available")
	}
	return nil
}

func FrequencyAction(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	order, err := models.ParseOrder(s.cfg.Order)
	if err != nil {
		return err
	}

	freq := s.analyzer.Frequency(s.dataset, order)
	if n := c.Int("top"); n > 0 && n < len(freq) {
		freq = freq[:n]
	}
	if len(freq) == 0 {
		fmt.Println("No aspects found")
		return nil
	}
	return common.Render(os.Stdout, c.String("format"), "Aspect Frequency", export.FrequencyTable(freq), freq)
}

func MatrixAction(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	m := s.analyzer.Matrix(s.dataset, s.matrixOptions())
	if m == nil {
		fmt.Println("No category data available")
		return nil
	}
	s.logger.Info("Matrix built", "aspects", len(m.Rows), "categories", len(m.Columns))
	return common.Render(os.Stdout, c.String("format"), "Aspect-Category Matrix", export.MatrixTable(m), m)
}

func CategoryAction(c *cli.Context) error {
	name := c.String("name")
	if name == "" && c.NArg() > 0 {
		name = c.Args().First()
	}
	if name == "" {
		return fmt.Errorf("usage: raa category <name>")
	}

	s, err := open(c)
	if err != nil {
		return err
	}
	rec, ok := aspects.FindCategory(s.dataset.Records, name)
	if !ok {
		return fmt.Errorf("category %q not found in %s", name, s.label)
	}
	b := aspects.Breakdown(rec)

	if format := c.String("format"); format != "" && format != common.FormatTable {
		return common.Render(os.Stdout, format, "Category "+name, export.BreakdownTable(b), b)
	}

	fmt.Printf("Category: %s (%d aspects)\n", rec.Name, rec.AspectsCount)
	fmt.Println(strings.Repeat("=", 60))
	if len(b.Aspects) == 0 {
		fmt.Println("This category has no aspects")
		return nil
	}
	if err := common.WriteText(os.Stdout, export.BreakdownTable(b)); err != nil {
		return err
	}
	fmt.Println("\nAspect types:")
	for _, tc := range b.TypeCounts {
		fmt.Printf("  %-20s %d\n", tc.Aspect, tc.Count)
	}
	return nil
}

func EmptyAction(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	empty := aspects.WithoutAspects(s.dataset.Records)
	if len(empty) == 0 {
		fmt.Println("All categories have aspects")
		return nil
	}
	if err := common.Render(os.Stdout, c.String("format"), "Categories without Aspects", export.RecordsTable(empty), empty); err != nil {
		return err
	}
	if format := c.String("format"); format == "" || format == common.FormatTable {
		fmt.Printf("\n%d categories without aspects\n", len(empty))
	}
	return nil
}

func DistributionAction(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	freq := s.analyzer.Frequency(s.dataset, models.OrderDescending)
	d := aspects.Distribution(freq, c.Int("bins"))
	if d == nil {
		fmt.Println("No aspects found")
		return nil
	}

	if format := c.String("format"); format != "" && format != common.FormatTable {
		return common.Render(os.Stdout, format, "Aspect Usage Distribution", export.DistributionTable(d), d)
	}
	fmt.Printf("Mean usage: %.2f  Median usage: %.2f\n\n", d.Mean, d.Median)
	return common.WriteText(os.Stdout, export.DistributionTable(d))
}
