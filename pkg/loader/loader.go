// Package loader converts external category files into validated
// CategoryRecords. It is the only place that sees loosely typed input.
package loader

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
)

// LoadError reports that a source could not supply category data.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load categories from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Options controls sampling after load.
type Options struct {
	MaxRows int   // 0 disables sampling
	Seed    int64 // sample seed, fixed so reloads pick the same rows
}

// DefaultOptions mirrors the dashboard defaults: at most 500 rows, seed 42.
func DefaultOptions() Options {
	return Options{MaxRows: models.DefaultMaxRows, Seed: 42}
}

// Format identifies an input encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported file type %q (use .csv, .json or .html)", filepath.Ext(path))
}

// LoadFile reads, samples and normalizes the categories stored at path.
func LoadFile(path string, opts Options) ([]models.CategoryRecord, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	records, err := Read(f, format, opts)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Source = path
			return nil, le
		}
		return nil, &LoadError{Source: path, Err: err}
	}
	return records, nil
}

// Read decodes records from r in the given format, then samples and
// normalizes them.
func Read(r io.Reader, format Format, opts Options) ([]models.CategoryRecord, error) {
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	var (
		records []models.CategoryRecord
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = ReadCSV(r)
	case FormatJSON:
		records, err = ReadJSON(r)
	case FormatHTML:
		records, err = ReadHTML(r)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, &LoadError{Source: string(format), Err: err}
	}

	records = Sample(records, opts.MaxRows, opts.Seed)
	aspects.Normalize(records)
	return records, nil
}

// Sample keeps maxRows randomly chosen records when there are more, in
// their original order. The choice depends only on seed and len(records).
func Sample(records []models.CategoryRecord, maxRows int, seed int64) []models.CategoryRecord {
	if maxRows <= 0 || len(records) <= maxRows {
		return records
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(len(records))))
	picked := rng.Perm(len(records))[:maxRows]
	sort.Ints(picked)

	out := make([]models.CategoryRecord, len(picked))
	for i, idx := range picked {
		out[i] = records[idx]
	}
	return out
}
