package mapreduce

import (
	"fmt"
	"sort"
)

// Entry is a key with its aggregated count.
type Entry struct {
	Key   string
	Count int
}

// Ranked returns all entries sorted by count. Equal counts keep first-seen
// order in both directions.
func Ranked(c *Counts, descending bool) []Entry {
	entries := c.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		if descending {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Count < entries[j].Count
	})
	return entries
}

// TopN returns the n most frequent entries. A negative n returns all.
func TopN(c *Counts, n int) []Entry {
	return limit(Ranked(c, true), n)
}

// BottomN returns the n least frequent entries. A negative n returns all.
func BottomN(c *Counts, n int) []Entry {
	return limit(Ranked(c, false), n)
}

func limit(entries []Entry, n int) []Entry {
	if n < 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// TopKeywords returns the top N entries formatted as "key:count"
// (e.g., "Product/Price:12").
func TopKeywords(c *Counts, n int) []string {
	top := TopN(c, n)
	keywords := make([]string, len(top))
	for i, e := range top {
		keywords[i] = fmt.Sprintf("%s:%d", e.Key, e.Count)
	}
	return keywords
}
