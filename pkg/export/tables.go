package export

import (
	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/analytics"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
)

// FrequencyTable lays a frequency table out as aspect, count.
func FrequencyTable(freq []models.AspectCount) *Table {
	t := &Table{Columns: []string{"aspect", "count"}}
	for _, f := range freq {
		t.Rows = append(t.Rows, []any{f.Aspect, f.Count})
	}
	return t
}

// RecordsTable lists categories with their raw and parsed aspects. The
// aspects column is rendered as a list literal so the export loads back.
func RecordsTable(records []models.CategoryRecord) *Table {
	t := &Table{Columns: []string{"id", "name", "aspectsCount", "aspects"}}
	for _, r := range records {
		t.Rows = append(t.Rows, []any{string(r.ID), r.Name, r.AspectsCount, aspects.FormatList(r.AspectsParsed)})
	}
	return t
}

// MatrixTable lays the presence matrix out as aspect plus one 0/1 column
// per category. A nil matrix gives an empty table.
func MatrixTable(m *models.Matrix) *Table {
	if m == nil {
		return &Table{Columns: []string{"aspect"}}
	}
	t := &Table{Columns: m.Header()}
	for _, row := range m.Rows {
		line := make([]any, 0, len(row.Cells)+1)
		line = append(line, row.Aspect)
		for _, c := range row.Cells {
			line = append(line, c)
		}
		t.Rows = append(t.Rows, line)
	}
	return t
}

// SummaryTable is the single-row summary rollup.
func SummaryTable(s models.Summary) *Table {
	return &Table{
		Columns: []string{"total", "with_aspects", "without_aspects", "mean_aspects"},
		Rows:    [][]any{{s.Total, s.WithAspects, s.WithoutAspects, s.MeanAspects}},
	}
}

// BreakdownTable lists one category's aspects split into type and subtype.
func BreakdownTable(b models.CategoryBreakdown) *Table {
	t := &Table{Columns: []string{"aspect", "type", "subtype"}}
	for _, a := range b.Aspects {
		t.Rows = append(t.Rows, []any{a.Aspect, a.Type, a.Subtype})
	}
	return t
}

// DistributionTable lists histogram bins.
func DistributionTable(d *models.UsageDistribution) *Table {
	t := &Table{Columns: []string{"low", "high", "count"}}
	if d == nil {
		return t
	}
	for _, b := range d.Bins {
		t.Rows = append(t.Rows, []any{b.Low, b.High, b.Count})
	}
	return t
}

// StatsTable lists per-category review statistics.
func StatsTable(stats []analytics.CategoryAspectStat) *Table {
	t := &Table{Columns: []string{"category", "aspect", "count", "total_reviews", "percentage", "is_low_percentage"}}
	for _, s := range stats {
		t.Rows = append(t.Rows, []any{s.Category, s.Aspect, s.Count, s.TotalReviews, s.Percentage, s.IsLowPercentage})
	}
	return t
}

// PivotTable lays the review pivot out as aspect plus one percentage column
// per category.
func PivotTable(p *analytics.PivotTable) *Table {
	if p == nil {
		return &Table{Columns: []string{"aspect"}}
	}
	t := &Table{Columns: append([]string{"aspect"}, p.Categories...)}
	for _, row := range p.Rows {
		line := make([]any, 0, len(row.Values)+1)
		line = append(line, row.Aspect)
		for _, v := range row.Values {
			line = append(line, v)
		}
		t.Rows = append(t.Rows, line)
	}
	return t
}
