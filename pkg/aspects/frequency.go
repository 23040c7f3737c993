package aspects

import (
	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/mapreduce"
)

// ParsedLists collects the parsed aspect list of every record, in order.
func ParsedLists(records []models.CategoryRecord) [][]string {
	lists := make([][]string, len(records))
	for i, rec := range records {
		lists[i] = rec.AspectsParsed
	}
	return lists
}

// countAspects maps each list to an occurrence table and reduces them into
// one. Every occurrence counts, including repeats inside a single list.
func countAspects(lists [][]string) *mapreduce.Counts {
	intermediate := make([]*mapreduce.Counts, 0, len(lists))
	for _, list := range lists {
		intermediate = append(intermediate, mapreduce.Map(list))
	}
	return mapreduce.Reduce(intermediate)
}

// Frequency ranks aspects by total occurrence count.
//
// Ties keep the order in which aspects were first encountered, scanning the
// lists in order, for both descending and ascending requests.
func Frequency(lists [][]string, order models.Order) []models.AspectCount {
	counts := countAspects(lists)
	return toAspectCounts(mapreduce.Ranked(counts, order != models.OrderAscending))
}

// TopAspects returns the n most used aspects (all when n < 0).
func TopAspects(lists [][]string, n int) []models.AspectCount {
	return toAspectCounts(mapreduce.TopN(countAspects(lists), n))
}

// LeastAspects returns the n least used aspects (all when n < 0).
func LeastAspects(lists [][]string, n int) []models.AspectCount {
	return toAspectCounts(mapreduce.BottomN(countAspects(lists), n))
}

func toAspectCounts(entries []mapreduce.Entry) []models.AspectCount {
	out := make([]models.AspectCount, len(entries))
	for i, e := range entries {
		out[i] = models.AspectCount{Aspect: e.Key, Count: e.Count}
	}
	return out
}
