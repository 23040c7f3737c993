// Package analytics computes per-category aspect statistics over individual
// reviews, as uploaded through the review CSV endpoint.
package analytics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/mapreduce"
)

// LowPercentageThreshold flags aspects seen in fewer than this share of a
// category's reviews.
const LowPercentageThreshold = 5.0

// RequiredColumns lists the header fields a review CSV must carry.
var RequiredColumns = []string{"review_id", "review_text", "category", "aspects"}

// ErrNoReviews is returned for a review file without data rows.
var ErrNoReviews = errors.New("no reviews found")

// ReviewRecord is one review with its comma separated aspect tags.
type ReviewRecord struct {
	ReviewID    string   `json:"review_id"`
	ReviewText  string   `json:"review_text"`
	Category    string   `json:"category"`
	Aspects     string   `json:"aspects"`
	AspectsList []string `json:"aspects_list"`
}

// CategoryAspectStat is how often an aspect occurs within one category.
type CategoryAspectStat struct {
	Category        string  `json:"category" yaml:"category"`
	Aspect          string  `json:"aspect" yaml:"aspect"`
	Count           int     `json:"count" yaml:"count"`
	TotalReviews    int     `json:"total_reviews" yaml:"total_reviews"`
	Percentage      float64 `json:"percentage" yaml:"percentage"`
	IsLowPercentage bool    `json:"is_low_percentage" yaml:"is_low_percentage"`
}

// CategoryUniqueCount is the number of distinct aspects seen in a category.
type CategoryUniqueCount struct {
	Category      string `json:"category" yaml:"category"`
	UniqueAspects int    `json:"unique_aspects" yaml:"unique_aspects"`
}

// PivotRow holds one aspect's percentages, aligned with PivotTable.Categories.
type PivotRow struct {
	Aspect string    `json:"aspect"`
	Values []float64 `json:"values"`
}

// PivotTable is the aspect x category percentage table.
type PivotTable struct {
	Categories []string   `json:"categories"`
	Rows       []PivotRow `json:"rows"`
}

// ValidateColumns reports every required column missing from header.
func ValidateColumns(header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = struct{}{}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("the following required columns are missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SplitAspects splits a comma separated aspect cell, trimming items and
// dropping empty ones.
func SplitAspects(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ReadReviewsCSV decodes a review CSV. Extra columns are ignored.
func ReadReviewsCSV(r io.Reader) ([]ReviewRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoReviews
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := ValidateColumns(header); err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	cell := func(row []string, name string) string {
		if i := idx[name]; i < len(row) {
			return row[i]
		}
		return ""
	}

	var reviews []ReviewRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}
		raw := cell(row, "aspects")
		reviews = append(reviews, ReviewRecord{
			ReviewID:    cell(row, "review_id"),
			ReviewText:  cell(row, "review_text"),
			Category:    cell(row, "category"),
			Aspects:     raw,
			AspectsList: SplitAspects(raw),
		})
	}
	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}
	return reviews, nil
}

// Analyze counts aspects per category. Categories appear in first-seen
// order and aspects in first-seen order within each category. Percentage is
// the share of the category's reviews that mention the aspect, counting
// repeated tags within a review each time.
func Analyze(reviews []ReviewRecord) []CategoryAspectStat {
	if len(reviews) == 0 {
		return nil
	}

	var order []string
	totals := make(map[string]int)
	counts := make(map[string]*mapreduce.Counts)
	for _, r := range reviews {
		c, ok := counts[r.Category]
		if !ok {
			c = mapreduce.NewCounts()
			counts[r.Category] = c
			order = append(order, r.Category)
		}
		totals[r.Category]++
		for _, a := range r.AspectsList {
			c.Add(a, 1)
		}
	}

	var stats []CategoryAspectStat
	for _, category := range order {
		total := totals[category]
		for _, e := range counts[category].Entries() {
			pct := float64(e.Count) / float64(total) * 100
			stats = append(stats, CategoryAspectStat{
				Category:        category,
				Aspect:          e.Key,
				Count:           e.Count,
				TotalReviews:    total,
				Percentage:      pct,
				IsLowPercentage: pct < LowPercentageThreshold,
			})
		}
	}
	return stats
}

// Pivot lays the percentages out as aspects x categories, both sorted
// ascending. Missing combinations are 0.
func Pivot(stats []CategoryAspectStat) *PivotTable {
	if len(stats) == 0 {
		return nil
	}

	catIndex := make(map[string]int)
	aspectIndex := make(map[string]int)
	var categories, aspectNames []string
	for _, s := range stats {
		if _, ok := catIndex[s.Category]; !ok {
			catIndex[s.Category] = 0
			categories = append(categories, s.Category)
		}
		if _, ok := aspectIndex[s.Aspect]; !ok {
			aspectIndex[s.Aspect] = 0
			aspectNames = append(aspectNames, s.Aspect)
		}
	}
	sort.Strings(categories)
	sort.Strings(aspectNames)
	for i, c := range categories {
		catIndex[c] = i
	}
	for i, a := range aspectNames {
		aspectIndex[a] = i
	}

	rows := make([]PivotRow, len(aspectNames))
	for i, a := range aspectNames {
		rows[i] = PivotRow{Aspect: a, Values: make([]float64, len(categories))}
	}
	for _, s := range stats {
		rows[aspectIndex[s.Aspect]].Values[catIndex[s.Category]] = s.Percentage
	}
	return &PivotTable{Categories: categories, Rows: rows}
}

// TopAspects sums counts across categories and returns the n largest.
// Ties keep first-seen order. n < 0 returns all.
func TopAspects(stats []CategoryAspectStat, n int) []models.AspectCount {
	if len(stats) == 0 {
		return nil
	}
	totals := mapreduce.NewCounts()
	for _, s := range stats {
		totals.Add(s.Aspect, s.Count)
	}
	entries := mapreduce.TopN(totals, n)
	out := make([]models.AspectCount, len(entries))
	for i, e := range entries {
		out[i] = models.AspectCount{Aspect: e.Key, Count: e.Count}
	}
	return out
}

// LowPercentage returns the flagged stats, lowest percentage first.
func LowPercentage(stats []CategoryAspectStat) []CategoryAspectStat {
	if len(stats) == 0 {
		return nil
	}
	low := []CategoryAspectStat{}
	for _, s := range stats {
		if s.IsLowPercentage {
			low = append(low, s)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Percentage < low[j].Percentage
	})
	return low
}

// UniqueAspectsPerCategory counts distinct aspects per category, categories
// sorted ascending.
func UniqueAspectsPerCategory(stats []CategoryAspectStat) []CategoryUniqueCount {
	if len(stats) == 0 {
		return nil
	}
	seen := make(map[string]map[string]struct{})
	for _, s := range stats {
		if seen[s.Category] == nil {
			seen[s.Category] = make(map[string]struct{})
		}
		seen[s.Category][s.Aspect] = struct{}{}
	}
	out := make([]CategoryUniqueCount, 0, len(seen))
	for category, aspects := range seen {
		out = append(out, CategoryUniqueCount{Category: category, UniqueAspects: len(aspects)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}
