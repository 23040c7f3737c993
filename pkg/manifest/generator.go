package manifest

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/mapreduce"
	"github.com/dtnitsch/aspect-analyzer/pkg/storage"
)

// TopAspectsInReport is how many aspects the report lists.
const TopAspectsInReport = 25

// Input is everything a report is built from.
type Input struct {
	DatasetID string
	Source    string
	Summary   models.Summary
	Frequency []models.AspectCount
	Matrix    *models.Matrix
	Files     []string
}

// GenerateReport builds the report. File sizes are looked up through the
// storage layer; files that cannot be stat'ed are listed without a size.
func GenerateReport(in Input, s *storage.Storage, now time.Time) Report {
	counts := mapreduce.NewCounts()
	for _, f := range in.Frequency {
		counts.Add(f.Aspect, f.Count)
	}

	report := Report{
		GeneratedAt:   now.Format(time.RFC3339),
		DatasetID:     in.DatasetID,
		Source:        in.Source,
		Summary:       reportSummary(in.Summary),
		TopAspects:    mapreduce.TopKeywords(counts, TopAspectsInReport),
		UniqueAspects: counts.Len(),
	}
	if in.Matrix != nil {
		report.Matrix = &MatrixShape{Aspects: len(in.Matrix.Rows), Categories: len(in.Matrix.Columns)}
	}

	for _, path := range in.Files {
		file := ExportedFile{Path: path}
		if s != nil {
			if stats, err := s.GetFileStats(path); err == nil {
				file.SizeBytes = stats.SizeBytes
			}
		}
		report.Files = append(report.Files, file)
	}
	return report
}

// SaveReport writes the report as report-<date>.yaml and returns its path.
func SaveReport(report Report, s *storage.Storage, now time.Time) (string, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("error marshalling report: %w", err)
	}

	path, err := s.SaveFile(fmt.Sprintf("report-%s.yaml", now.Format("2006-01-02")), data)
	if err != nil {
		return "", fmt.Errorf("error saving report: %w", err)
	}
	return path, nil
}
