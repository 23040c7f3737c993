package server

import (
	"fmt"
	"io"
	"sync"

	"github.com/dtnitsch/aspect-analyzer/pkg/analytics"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
	"github.com/dtnitsch/aspect-analyzer/pkg/db"
	"github.com/dtnitsch/aspect-analyzer/pkg/loader"
)

// Workspace holds the data the API serves: the current category dataset
// and the current review upload. Uploads replace the previous data.
type Workspace struct {
	mu        sync.RWMutex
	analyzer  *aspects.Analyzer
	store     *db.DB
	loadOpts  loader.Options
	dataset   *aspects.Dataset
	datasetID string
	source    string
	reviews   []analytics.ReviewRecord
	stats     []analytics.CategoryAspectStat
}

// NewWorkspace creates an empty workspace. store may be nil, in which case
// uploads are kept in memory only.
func NewWorkspace(analyzer *aspects.Analyzer, store *db.DB, opts loader.Options) *Workspace {
	return &Workspace{analyzer: analyzer, store: store, loadOpts: opts}
}

// Analyzer returns the analyzer shared by all requests.
func (w *Workspace) Analyzer() *aspects.Analyzer {
	return w.analyzer
}

// SetCategories makes ds the current category dataset.
func (w *Workspace) SetCategories(ds *aspects.Dataset, datasetID, source string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dataset != nil && (ds == nil || ds.Token != w.dataset.Token) {
		w.analyzer.Reset()
	}
	w.dataset = ds
	w.datasetID = datasetID
	w.source = source
}

// Categories returns the current dataset and its stored id, if any.
func (w *Workspace) Categories() (*aspects.Dataset, string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dataset, w.datasetID, w.dataset != nil
}

// LoadCategories decodes an upload, persists it when a store is attached
// and makes it current.
func (w *Workspace) LoadCategories(r io.Reader, format loader.Format, source string) (*aspects.Dataset, string, error) {
	records, err := loader.Read(r, format, w.loadOpts)
	if err != nil {
		return nil, "", err
	}
	ds := aspects.NewDataset(records)

	var id string
	if w.store != nil {
		id, _, err = w.store.SaveDataset(source, ds.Records)
		if err != nil {
			return nil, "", fmt.Errorf("failed to store dataset: %w", err)
		}
	}
	w.SetCategories(ds, id, source)
	return ds, id, nil
}

// LoadReviews decodes a review CSV and replaces the current reviews.
func (w *Workspace) LoadReviews(r io.Reader) (int, error) {
	reviews, err := analytics.ReadReviewsCSV(r)
	if err != nil {
		return 0, err
	}
	stats := analytics.Analyze(reviews)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.reviews = reviews
	w.stats = stats
	return len(reviews), nil
}

// ReviewStats returns the per-category statistics of the current reviews.
func (w *Workspace) ReviewStats() ([]analytics.CategoryAspectStat, int, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats, len(w.reviews), w.reviews != nil
}
