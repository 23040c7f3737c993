package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
)

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s, status code: %d", e.URL, e.StatusCode)
}

// Fetcher talks to the review category API. It never retries; callers
// decide what to do with a failed load.
type Fetcher struct {
	client       *http.Client
	baseURL      string
	sharedSecret string
	pageSize     int
	workers      int
}

// NewFetcher builds a Fetcher from the API configuration.
func NewFetcher(cfg models.APIConfig) (*Fetcher, error) {
	base := SanitizeBaseURL(cfg.BaseURL)
	if err := ValidateBaseURL(base); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Fetcher{
		client:       &http.Client{Timeout: timeout},
		baseURL:      base,
		sharedSecret: cfg.SharedSecret,
		pageSize:     pageSize,
		workers:      workers,
	}, nil
}

// apiCategory mirrors the CAReviewCategoryDto payload.
type apiCategory struct {
	ID           models.CategoryID `json:"id"`
	Name         string            `json:"name"`
	CreatedAt    string            `json:"createdAt"`
	UpdatedAt    string            `json:"updatedAt"`
	CACategoryID string            `json:"caCategoryId"`
	RulesPath    string            `json:"rulesPath"`
	Aspects      models.RawAspects `json:"aspects"`
}

// Page is one page of the paginated endpoint.
type Page struct {
	Total   int
	Records []models.CategoryRecord
}

func (f *Fetcher) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: redact(rawURL), StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}
	if err := json.Unmarshal(bodyBytes, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// redact hides the shared secret in URLs used for error messages.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("sharedSecret") {
		q.Set("sharedSecret", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (f *Fetcher) query(extra url.Values) string {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	if f.sharedSecret != "" {
		q.Set("sharedSecret", f.sharedSecret)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// FetchPage fetches one page of categories, pages starting at 0.
func (f *Fetcher) FetchPage(ctx context.Context, page int, sortBy, sortOrder string) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(f.pageSize))
	params.Set("sortBy", sortBy)
	params.Set("sortOrder", sortOrder)

	var body struct {
		Total int           `json:"total"`
		Data  []apiCategory `json:"data"`
	}
	if err := f.getJSON(ctx, f.baseURL+"/"+f.query(params), &body); err != nil {
		return nil, err
	}
	return &Page{Total: body.Total, Records: toRecords(body.Data)}, nil
}

// pageJob is one page request for the worker pool.
type pageJob struct {
	page int
}

// pageResult holds the outcome of a pageJob.
type pageResult struct {
	page int
	data *Page
	err  error
}

// worker fetches pages from jobs until the channel is closed.
func (f *Fetcher) worker(ctx context.Context, sortBy, sortOrder string, wg *sync.WaitGroup, jobs <-chan pageJob, results chan<- pageResult) {
	defer wg.Done()
	for job := range jobs {
		p, err := f.FetchPage(ctx, job.page, sortBy, sortOrder)
		results <- pageResult{page: job.page, data: p, err: err}
	}
}

// fetchPages fetches pages [from, to) concurrently and returns them in page
// order. The first failing page, by page number, is reported.
func (f *Fetcher) fetchPages(ctx context.Context, from, to int, sortBy, sortOrder string) ([]*Page, error) {
	n := to - from
	if n <= 0 {
		return nil, nil
	}

	var wg sync.WaitGroup
	jobs := make(chan pageJob, n)
	results := make(chan pageResult, n)

	for w := 0; w < min(f.workers, n); w++ {
		wg.Add(1)
		go f.worker(ctx, sortBy, sortOrder, &wg, jobs, results)
	}
	for page := from; page < to; page++ {
		jobs <- pageJob{page: page}
	}
	close(jobs)

	wg.Wait()
	close(results)

	pages := make([]*Page, n)
	errs := make([]error, n)
	for r := range results {
		pages[r.page-from] = r.data
		errs[r.page-from] = r.err
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", from+i, err)
		}
	}
	return pages, nil
}

// FetchAll collects every category from the paginated endpoint. The first
// page tells how many pages total implies; those are fetched by the worker
// pool. Paging then continues one page at a time while fewer than total
// records were collected, and stops at the first empty page.
func (f *Fetcher) FetchAll(ctx context.Context, sortBy, sortOrder string) ([]models.CategoryRecord, error) {
	first, err := f.FetchPage(ctx, 0, sortBy, sortOrder)
	if err != nil {
		return nil, fmt.Errorf("page 0: %w", err)
	}
	all := first.Records
	if len(first.Records) == 0 {
		return all, nil
	}

	expected := (first.Total + f.pageSize - 1) / f.pageSize
	rest, err := f.fetchPages(ctx, 1, expected, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}
	for _, p := range rest {
		if len(p.Records) == 0 {
			return all, nil
		}
		all = append(all, p.Records...)
	}

	for page := max(expected, 1); len(all) < first.Total; page++ {
		p, err := f.FetchPage(ctx, page, sortBy, sortOrder)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if len(p.Records) == 0 {
			break
		}
		all = append(all, p.Records...)
	}
	return all, nil
}

// FetchAllEndpoint reads the unpaginated /all endpoint. It accepts either a
// bare array or a {"data": [...]} envelope.
func (f *Fetcher) FetchAllEndpoint(ctx context.Context) ([]models.CategoryRecord, error) {
	var raw json.RawMessage
	if err := f.getJSON(ctx, f.baseURL+"/all"+f.query(nil), &raw); err != nil {
		return nil, err
	}

	var items []apiCategory
	if err := json.Unmarshal(raw, &items); err != nil {
		var envelope struct {
			Data []apiCategory `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		items = envelope.Data
	}
	return toRecords(items), nil
}

func toRecords(items []apiCategory) []models.CategoryRecord {
	records := make([]models.CategoryRecord, len(items))
	for i, item := range items {
		parsed := aspects.Parse(item.Aspects)
		records[i] = models.CategoryRecord{
			ID:            item.ID,
			Name:          item.Name,
			AspectsCount:  len(parsed),
			Aspects:       item.Aspects,
			AspectsParsed: parsed,
		}
	}
	return records
}
