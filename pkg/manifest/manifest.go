package manifest

import "github.com/dtnitsch/aspect-analyzer/models"

// Report is the YAML analysis report written next to exported files.
// It gives a quick overview of a dataset without opening the exports.
type Report struct {
	GeneratedAt  string         `yaml:"generated_at" json:"generated_at"`
	DatasetID    string         `yaml:"dataset_id,omitempty" json:"dataset_id,omitempty"`
	Source       string         `yaml:"source,omitempty" json:"source,omitempty"`
	Summary      ReportSummary  `yaml:"summary" json:"summary"`
	TopAspects   []string       `yaml:"top_aspects" json:"top_aspects"`
	Matrix       *MatrixShape   `yaml:"matrix,omitempty" json:"matrix,omitempty"`
	Files        []ExportedFile `yaml:"files,omitempty" json:"files,omitempty"`
	UniqueAspects int            `yaml:"unique_aspects" json:"unique_aspects"`
}

// ReportSummary mirrors models.Summary with an optional mean, since YAML
// has no portable NaN for readers in other tools.
type ReportSummary struct {
	Total          int      `yaml:"total" json:"total"`
	WithAspects    int      `yaml:"with_aspects" json:"with_aspects"`
	WithoutAspects int      `yaml:"without_aspects" json:"without_aspects"`
	MeanAspects    *float64 `yaml:"mean_aspects" json:"mean_aspects"`
}

// MatrixShape records the size of the exported presence matrix.
type MatrixShape struct {
	Aspects    int `yaml:"aspects" json:"aspects"`
	Categories int `yaml:"categories" json:"categories"`
}

// ExportedFile is one file produced by an export run.
type ExportedFile struct {
	Path      string `yaml:"path" json:"path"`
	SizeBytes int64  `yaml:"size_bytes,omitempty" json:"size_bytes,omitempty"`
}

func reportSummary(s models.Summary) ReportSummary {
	out := ReportSummary{Total: s.Total, WithAspects: s.WithAspects, WithoutAspects: s.WithoutAspects}
	if s.HasData() {
		mean := s.MeanAspects
		out.MeanAspects = &mean
	}
	return out
}
