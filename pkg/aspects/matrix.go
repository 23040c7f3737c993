package aspects

import (
	"sort"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/mapreduce"
)

// MatrixOptions caps the presence matrix. Zero or negative caps use the
// defaults (1000 aspects, 500 categories).
type MatrixOptions struct {
	MaxAspects    int
	MaxCategories int
}

func (o MatrixOptions) withDefaults() MatrixOptions {
	if o.MaxAspects <= 0 {
		o.MaxAspects = models.DefaultMaxAspects
	}
	if o.MaxCategories <= 0 {
		o.MaxCategories = models.DefaultMaxCategories
	}
	return o
}

// BuildMatrix builds the aspect x category presence matrix.
//
// Rows are the MaxAspects most frequent aspects (first-seen tie break).
// Columns are the MaxCategories records with the largest AspectsCount,
// ties kept in input order. Column selection does not look at the rows, so
// a top category can show 0 for a top aspect. Returns nil for an empty
// collection.
func BuildMatrix(records []models.CategoryRecord, opts MatrixOptions) *models.Matrix {
	if len(records) == 0 {
		return nil
	}
	opts = opts.withDefaults()

	counts := countAspects(ParsedLists(records))
	top := mapreduce.TopN(counts, opts.MaxAspects)
	columns := RankByAspectsCount(records, false)
	if len(columns) > opts.MaxCategories {
		columns = columns[:opts.MaxCategories]
	}

	sets := make([]map[string]struct{}, len(columns))
	names := make([]string, len(columns))
	for j, rec := range columns {
		names[j] = rec.Name
		set := make(map[string]struct{}, len(rec.AspectsParsed))
		for _, a := range rec.AspectsParsed {
			set[a] = struct{}{}
		}
		sets[j] = set
	}

	m := &models.Matrix{
		Columns: names,
		Rows:    make([]models.MatrixRow, len(top)),
	}
	for i, e := range top {
		cells := make([]int, len(columns))
		for j, set := range sets {
			if _, ok := set[e.Key]; ok {
				cells[j] = 1
			}
		}
		m.Rows[i] = models.MatrixRow{Aspect: e.Key, Cells: cells}
	}
	return m
}

// RankByAspectsCount returns records sorted by descending AspectsCount,
// ties in input order. With onlyWithAspects, records with a zero count are
// dropped.
func RankByAspectsCount(records []models.CategoryRecord, onlyWithAspects bool) []models.CategoryRecord {
	out := make([]models.CategoryRecord, 0, len(records))
	for _, rec := range records {
		if onlyWithAspects && rec.AspectsCount <= 0 {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AspectsCount > out[j].AspectsCount
	})
	return out
}
