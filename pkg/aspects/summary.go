package aspects

import (
	"math"
	"sort"
	"strings"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/mapreduce"
)

// Summarize computes the dashboard header counts. The mean is NaN for an
// empty collection.
func Summarize(records []models.CategoryRecord) models.Summary {
	s := models.Summary{Total: len(records), MeanAspects: math.NaN()}
	if len(records) == 0 {
		return s
	}

	sum := 0
	for _, rec := range records {
		if rec.AspectsCount > 0 {
			s.WithAspects++
		}
		sum += rec.AspectsCount
	}
	s.WithoutAspects = s.Total - s.WithAspects
	s.MeanAspects = float64(sum) / float64(s.Total)
	return s
}

// WithoutAspects returns the records that declare no aspects, in input order.
func WithoutAspects(records []models.CategoryRecord) []models.CategoryRecord {
	out := []models.CategoryRecord{}
	for _, rec := range records {
		if rec.AspectsCount == 0 {
			out = append(out, rec)
		}
	}
	return out
}

// FindCategory returns the first record named name.
func FindCategory(records []models.CategoryRecord, name string) (models.CategoryRecord, bool) {
	for _, rec := range records {
		if rec.Name == name {
			return rec, true
		}
	}
	return models.CategoryRecord{}, false
}

// SplitAspect splits "Type/Subtype" aspects. Aspects without a slash have
// type "Other" and are their own subtype.
func SplitAspect(aspect string) models.AspectDetail {
	parts := strings.Split(aspect, "/")
	if len(parts) < 2 {
		return models.AspectDetail{Aspect: aspect, Type: "Other", Subtype: aspect}
	}
	return models.AspectDetail{Aspect: aspect, Type: parts[0], Subtype: parts[1]}
}

// Breakdown lists a category's aspects with their type split and the number
// of aspects per type, most common type first.
func Breakdown(rec models.CategoryRecord) models.CategoryBreakdown {
	b := models.CategoryBreakdown{
		Name:    rec.Name,
		Aspects: make([]models.AspectDetail, len(rec.AspectsParsed)),
	}
	types := make([]string, len(rec.AspectsParsed))
	for i, a := range rec.AspectsParsed {
		b.Aspects[i] = SplitAspect(a)
		types[i] = b.Aspects[i].Type
	}
	b.TypeCounts = toAspectCounts(mapreduce.TopN(mapreduce.Map(types), -1))
	return b
}

const defaultBins = 20

// Distribution summarizes a frequency table: mean and median count plus an
// equal-width histogram over [min, max]. Returns nil for an empty table.
func Distribution(freq []models.AspectCount, bins int) *models.UsageDistribution {
	if len(freq) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = defaultBins
	}

	values := make([]float64, len(freq))
	sum := 0.0
	for i, f := range freq {
		values[i] = float64(f.Count)
		sum += values[i]
	}
	sort.Float64s(values)

	d := &models.UsageDistribution{Mean: sum / float64(len(values))}
	mid := len(values) / 2
	if len(values)%2 == 0 {
		d.Median = (values[mid-1] + values[mid]) / 2
	} else {
		d.Median = values[mid]
	}

	lo, hi := values[0], values[len(values)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	d.Bins = make([]models.HistogramBin, bins)
	for i := range d.Bins {
		d.Bins[i].Low = lo + float64(i)*width
		d.Bins[i].High = lo + float64(i+1)*width
	}
	d.Bins[bins-1].High = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1 // max is inclusive in the last bin
		}
		d.Bins[idx].Count++
	}
	return d
}
