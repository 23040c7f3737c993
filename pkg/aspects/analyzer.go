package aspects

import (
	"bytes"
	"encoding/binary"
	"strconv"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/caching"
)

// Dataset is a loaded category collection plus the identity token used to
// key memoized results. Records must not be mutated after NewDataset.
type Dataset struct {
	Records []models.CategoryRecord
	Token   string
}

// NewDataset parses any unparsed aspect fields and fingerprints the records.
func NewDataset(records []models.CategoryRecord) *Dataset {
	Normalize(records)
	return &Dataset{Records: records, Token: Fingerprint(records)}
}

// Fingerprint hashes every stored field of the records in order: id, name,
// declared count, raw aspect form and parsed aspects. Each field is length
// prefixed so values containing separator bytes cannot collide.
func Fingerprint(records []models.CategoryRecord) string {
	var buf bytes.Buffer
	field := func(s string) {
		buf.Write(binary.AppendUvarint(nil, uint64(len(s))))
		buf.WriteString(s)
	}
	list := func(items []string) {
		buf.Write(binary.AppendUvarint(nil, uint64(len(items))))
		for _, item := range items {
			field(item)
		}
	}

	for _, rec := range records {
		field(string(rec.ID))
		field(rec.Name)
		field(strconv.Itoa(rec.AspectsCount))
		switch {
		case !rec.Aspects.Valid:
			field("-")
		case rec.Aspects.IsList:
			field("l")
			list(rec.Aspects.List)
		default:
			field("t")
			field(rec.Aspects.Text)
		}
		list(rec.AspectsParsed)
	}
	return caching.ContentHash(buf.Bytes())
}

// Analyzer memoizes analyses per dataset token. The cache is optional; a
// nil cache recomputes every time and yields identical results. Returned
// slices are shared between callers and must be treated as read-only.
type Analyzer struct {
	cache *caching.Cache
}

// NewAnalyzer creates an Analyzer backed by cache (may be nil).
func NewAnalyzer(cache *caching.Cache) *Analyzer {
	return &Analyzer{cache: cache}
}

// Reset drops memoized results, e.g. once the dataset they belong to has
// been replaced.
func (a *Analyzer) Reset() {
	if a.cache != nil {
		a.cache.Purge()
	}
}

// Frequency returns the frequency table of ds in the requested order.
func (a *Analyzer) Frequency(ds *Dataset, order models.Order) []models.AspectCount {
	if ds == nil {
		return []models.AspectCount{}
	}
	key := caching.Key("frequency", ds.Token, string(order))
	return a.cache.GetOrCompute(key, func() any {
		return Frequency(ParsedLists(ds.Records), order)
	}).([]models.AspectCount)
}

// Matrix returns the presence matrix of ds, nil when ds has no records.
func (a *Analyzer) Matrix(ds *Dataset, opts MatrixOptions) *models.Matrix {
	if ds == nil {
		return nil
	}
	opts = opts.withDefaults()
	key := caching.Key("matrix", ds.Token, strconv.Itoa(opts.MaxAspects), strconv.Itoa(opts.MaxCategories))
	return a.cache.GetOrCompute(key, func() any {
		return BuildMatrix(ds.Records, opts)
	}).(*models.Matrix)
}

// Summary returns the summary rollup of ds.
func (a *Analyzer) Summary(ds *Dataset) models.Summary {
	if ds == nil {
		return Summarize(nil)
	}
	key := caching.Key("summary", ds.Token)
	return a.cache.GetOrCompute(key, func() any {
		return Summarize(ds.Records)
	}).(models.Summary)
}
