package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Order selects how a frequency table is ranked.
type Order string

const (
	OrderDescending Order = "descending"
	OrderAscending  Order = "ascending"
)

// ParseOrder accepts "asc", "ascending", "desc" and "descending".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending":
		return OrderDescending, nil
	case "asc", "ascending":
		return OrderAscending, nil
	}
	return "", fmt.Errorf("unknown order %q (use: ascending or descending)", s)
}

// AspectCount is one row of a frequency table.
type AspectCount struct {
	Aspect string `json:"aspect" yaml:"aspect"`
	Count  int    `json:"count" yaml:"count"`
}

// MatrixRow holds the presence flags of one aspect, aligned with Matrix.Columns.
type MatrixRow struct {
	Aspect string `json:"aspect"`
	Cells  []int  `json:"cells"`
}

// Matrix is the aspect x category presence table.
type Matrix struct {
	Columns []string    `json:"columns"`
	Rows    []MatrixRow `json:"rows"`
}

// Cell returns the flag for row i and column j.
func (m *Matrix) Cell(i, j int) int {
	return m.Rows[i].Cells[j]
}

// Header returns the table header: "aspect" followed by the category names.
func (m *Matrix) Header() []string {
	header := make([]string, 0, len(m.Columns)+1)
	header = append(header, "aspect")
	return append(header, m.Columns...)
}

// Summary is the dashboard header rollup.
type Summary struct {
	Total          int     `json:"total" yaml:"total"`
	WithAspects    int     `json:"with_aspects" yaml:"with_aspects"`
	WithoutAspects int     `json:"without_aspects" yaml:"without_aspects"`
	MeanAspects    float64 `json:"mean_aspects" yaml:"mean_aspects"`
}

// HasData reports whether the summary was computed over at least one record.
func (s Summary) HasData() bool {
	return s.Total > 0
}

// MarshalJSON writes an undefined mean as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	out := struct {
		alias
		MeanAspects *float64 `json:"mean_aspects"`
	}{alias: alias(s)}
	if !math.IsNaN(s.MeanAspects) {
		out.MeanAspects = &s.MeanAspects
	}
	return json.Marshal(out)
}

// AspectDetail splits an aspect such as "Product/Price" into type and subtype.
type AspectDetail struct {
	Aspect  string `json:"aspect" yaml:"aspect"`
	Type    string `json:"type" yaml:"type"`
	Subtype string `json:"subtype" yaml:"subtype"`
}

// CategoryBreakdown lists one category's aspects grouped by type.
type CategoryBreakdown struct {
	Name       string         `json:"name" yaml:"name"`
	Aspects    []AspectDetail `json:"aspects" yaml:"aspects"`
	TypeCounts []AspectCount  `json:"type_counts" yaml:"type_counts"`
}

// HistogramBin counts frequency values in [Low, High).
type HistogramBin struct {
	Low   float64 `json:"low" yaml:"low"`
	High  float64 `json:"high" yaml:"high"`
	Count int     `json:"count" yaml:"count"`
}

// UsageDistribution describes how widely aspects are used.
type UsageDistribution struct {
	Mean   float64        `json:"mean" yaml:"mean"`
	Median float64        `json:"median" yaml:"median"`
	Bins   []HistogramBin `json:"bins" yaml:"bins"`
}
