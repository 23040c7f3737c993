package mapreduce

// Counts is an occurrence table that remembers the order in which keys were
// first seen. Ranking ties are broken by that order.
type Counts struct {
	keys   []string
	values []int
	index  map[string]int
}

// NewCounts returns an empty table.
func NewCounts() *Counts {
	return &Counts{index: make(map[string]int)}
}

// Add increments key by n, registering it on first sight.
func (c *Counts) Add(key string, n int) {
	if i, ok := c.index[key]; ok {
		c.values[i] += n
		return
	}
	c.index[key] = len(c.keys)
	c.keys = append(c.keys, key)
	c.values = append(c.values, n)
}

// Get returns the count for key (0 when absent).
func (c *Counts) Get(key string) int {
	if i, ok := c.index[key]; ok {
		return c.values[i]
	}
	return 0
}

// Len returns the number of distinct keys.
func (c *Counts) Len() int {
	return len(c.keys)
}

// Total returns the sum of all counts.
func (c *Counts) Total() int {
	total := 0
	for _, v := range c.values {
		total += v
	}
	return total
}

// Entries returns all keys with their counts in first-seen order.
func (c *Counts) Entries() []Entry {
	entries := make([]Entry, len(c.keys))
	for i, k := range c.keys {
		entries[i] = Entry{Key: k, Count: c.values[i]}
	}
	return entries
}

// Map counts every item of a single list, duplicates included.
func Map(items []string) *Counts {
	counts := NewCounts()
	for _, item := range items {
		counts.Add(item, 1)
	}
	return counts
}

// Reduce aggregates intermediate tables into one. Key order follows the
// order of intermediate tables, then first-seen order within each.
func Reduce(intermediate []*Counts) *Counts {
	final := NewCounts()
	for _, counts := range intermediate {
		if counts == nil {
			continue
		}
		for i, key := range counts.keys {
			final.Add(key, counts.values[i])
		}
	}
	return final
}
