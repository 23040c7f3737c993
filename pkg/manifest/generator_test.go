package manifest

import (
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/storage"
)

func TestGenerateReport(t *testing.T) {
	s := &storage.Storage{Dir: t.TempDir()}
	if _, err := s.SaveFile("frequency.csv", []byte("aspect,count\n")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	var freq []models.AspectCount
	for i := 0; i < 30; i++ {
		freq = append(freq, models.AspectCount{Aspect: fmt.Sprintf("a%02d", i), Count: 30 - i})
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	report := GenerateReport(Input{
		DatasetID: "abc",
		Summary:   models.Summary{Total: 3, WithAspects: 2, WithoutAspects: 1, MeanAspects: 1.5},
		Frequency: freq,
		Matrix:    &models.Matrix{Columns: []string{"x", "y"}, Rows: []models.MatrixRow{{Aspect: "a00", Cells: []int{1, 0}}}},
		Files:     []string{"frequency.csv", "missing.csv"},
	}, s, now)

	if report.GeneratedAt != "2026-03-01T12:00:00Z" {
		t.Errorf("GeneratedAt = %q", report.GeneratedAt)
	}
	if len(report.TopAspects) != TopAspectsInReport || report.TopAspects[0] != "a00:30" {
		t.Errorf("TopAspects = %v", report.TopAspects)
	}
	if report.UniqueAspects != 30 {
		t.Errorf("UniqueAspects = %d, want 30", report.UniqueAspects)
	}
	if report.Matrix == nil || *report.Matrix != (MatrixShape{Aspects: 1, Categories: 2}) {
		t.Errorf("Matrix = %+v", report.Matrix)
	}
	wantFiles := []ExportedFile{{Path: "frequency.csv", SizeBytes: 13}, {Path: "missing.csv"}}
	if !reflect.DeepEqual(report.Files, wantFiles) {
		t.Errorf("Files = %+v, want %+v", report.Files, wantFiles)
	}
	if report.Summary.MeanAspects == nil || *report.Summary.MeanAspects != 1.5 {
		t.Errorf("Summary.MeanAspects = %v", report.Summary.MeanAspects)
	}
}

func TestGenerateReport_EmptyDataset(t *testing.T) {
	report := GenerateReport(Input{Summary: models.Summary{MeanAspects: math.NaN()}}, nil, time.Now())
	if report.Summary.MeanAspects != nil {
		t.Errorf("MeanAspects = %v, want nil for empty dataset", *report.Summary.MeanAspects)
	}
	if report.Matrix != nil || len(report.TopAspects) != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestSaveReport(t *testing.T) {
	s := &storage.Storage{Dir: t.TempDir()}
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	report := GenerateReport(Input{
		Summary:   models.Summary{Total: 1, WithAspects: 1, MeanAspects: 1},
		Frequency: []models.AspectCount{{Aspect: "Location", Count: 1}},
	}, s, now)

	path, err := SaveReport(report, s, now)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if path != filepath.Join(s.Dir, "report-2026-03-01.yaml") {
		t.Errorf("path = %q", path)
	}

	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var back Report
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(back.TopAspects, []string{"Location:1"}) || back.Summary.Total != 1 {
		t.Errorf("round trip = %+v", back)
	}
}
