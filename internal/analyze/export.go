package analyze

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
	"github.com/dtnitsch/aspect-analyzer/pkg/export"
	"github.com/dtnitsch/aspect-analyzer/pkg/manifest"
	"github.com/dtnitsch/aspect-analyzer/pkg/storage"
)

type exportFile struct {
	name  string
	title string
	table *export.Table
}

// ExportAction writes every analysis as CSV, JSON records and HTML below
// the output directory, plus a YAML report.
func ExportAction(c *cli.Context) error {
	s, err := open(c)
	if err != nil {
		return err
	}
	store := &storage.Storage{Dir: s.cfg.OutputDir}
	now := time.Now()

	order, err := models.ParseOrder(s.cfg.Order)
	if err != nil {
		return err
	}
	freq := s.analyzer.Frequency(s.dataset, order)
	summary := s.analyzer.Summary(s.dataset)
	m := s.analyzer.Matrix(s.dataset, s.matrixOptions())

	files := []exportFile{
		{"aspect_frequency", "Aspect Frequency", export.FrequencyTable(freq)},
		{"aspect_category_matrix", "Aspect-Category Matrix", export.MatrixTable(m)},
		{"categories", "Categories", export.RecordsTable(s.dataset.Records)},
		{"categories_without_aspects", "Categories without Aspects", export.RecordsTable(aspects.WithoutAspects(s.dataset.Records))},
		{"summary", "Summary", export.SummaryTable(summary)},
	}

	formats := strings.Split(c.String("formats"), ",")
	var written []string
	var links []string
	for _, f := range files {
		for _, format := range formats {
			ext := strings.TrimSpace(format)
			var buf bytes.Buffer
			var renderErr error
			switch ext {
			case "csv":
				renderErr = export.WriteCSV(&buf, f.table)
			case "json":
				renderErr = export.WriteJSONRecords(&buf, f.table)
			case "html":
				renderErr = export.WriteHTMLTable(&buf, f.title, f.table)
			default:
				return fmt.Errorf("unknown export format %q (use: csv, json, html)", format)
			}
			if renderErr != nil {
				return fmt.Errorf("failed to render %s: %w", f.name, renderErr)
			}

			name := f.name + "." + ext
			path, err := store.SaveFile(name, buf.Bytes())
			if err != nil {
				return err
			}
			written = append(written, name)
			s.logger.Info("Export written", "file", path, "rows", len(f.table.Rows))
		}

		if c.Bool("links") {
			csvLink, err := export.CSVDownloadLink(f.table, f.name+".csv")
			if err != nil {
				return err
			}
			jsonLink, err := export.JSONDownloadLink(f.table, f.name+".json")
			if err != nil {
				return err
			}
			links = append(links, fmt.Sprintf("<p>%s: %s | %s</p>", f.title, csvLink, jsonLink))
		}
	}

	if len(links) > 0 {
		page := "<!DOCTYPE html>\n<html><body>\n" + strings.Join(links, "\n") + "\n</body></html>\n"
		if _, err := store.SaveFile("downloads.html", []byte(page)); err != nil {
			return err
		}
		written = append(written, "downloads.html")
	}

	report := manifest.GenerateReport(manifest.Input{
		DatasetID: s.datasetID,
		Source:    s.label,
		Summary:   summary,
		Frequency: freq,
		Matrix:    m,
		Files:     written,
	}, store, now)
	reportPath, err := manifest.SaveReport(report, store, now)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d files to %s\n", len(written), store.Path(""))
	fmt.Printf("Report: %s\n", reportPath)
	return nil
}
