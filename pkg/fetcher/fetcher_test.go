package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dtnitsch/aspect-analyzer/models"
)

type queryLog struct {
	mu      sync.Mutex
	queries []string
}

func (l *queryLog) add(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = append(l.queries, q)
}

func (l *queryLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.queries...)
}

func newCategoryServer(t *testing.T, total int) (*httptest.Server, *queryLog) {
	t.Helper()
	seen := &queryLog{}

	mux := http.NewServeMux()
	mux.HandleFunc("/reviewCategory/", func(w http.ResponseWriter, r *http.Request) {
		seen.add(r.URL.RawQuery)
		if r.URL.Query().Get("sharedSecret") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))

		var data []map[string]any
		for i := page * size; i < min(total, (page+1)*size); i++ {
			data = append(data, map[string]any{
				"id":      i + 1,
				"name":    fmt.Sprintf("Category %d", i+1),
				"aspects": []map[string]string{{"name": "Product/Price"}, {"name": fmt.Sprintf("Aspect %d", i)}},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total": total, "data": data})
	})
	mux.HandleFunc("/reviewCategory/all", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "a", "name": "Only", "aspects": [{"name": "Location"}]}]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, seen
}

func TestFetchAll_Paginates(t *testing.T) {
	server, seen := newCategoryServer(t, 5)
	f, err := NewFetcher(models.APIConfig{BaseURL: server.URL + "/reviewCategory/", SharedSecret: "s3cret", PageSize: 2, Workers: 3})
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}

	records, err := f.FetchAll(context.Background(), "name", "desc")
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("len(records) = %d, want 5", len(records))
	}
	queries := seen.all()
	if len(queries) != 3 {
		t.Errorf("requests = %d, want 3 pages", len(queries))
	}
	if !strings.Contains(queries[0], "sortBy=name") || !strings.Contains(queries[0], "sortOrder=desc") {
		t.Errorf("query = %q, want sort params", queries[0])
	}

	rec := records[4]
	if rec.ID != "5" || rec.Name != "Category 5" || rec.AspectsCount != 2 {
		t.Errorf("records[4] = %+v", rec)
	}
	if rec.AspectsParsed[0] != "Product/Price" {
		t.Errorf("records[4].AspectsParsed = %v", rec.AspectsParsed)
	}
}

func TestFetchAll_StopsOnEmptyPage(t *testing.T) {
	mux := http.NewServeMux()
	var mu sync.Mutex
	calls := 0
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		// total overstates the data; the empty second page ends the walk.
		if r.URL.Query().Get("page") == "0" {
			_, _ = w.Write([]byte(`{"total": 10, "data": [{"id": 1, "name": "A", "aspects": []}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"total": 10, "data": []}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f, _ := NewFetcher(models.APIConfig{BaseURL: server.URL})
	records, err := f.FetchAll(context.Background(), "id", "asc")
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(records) != 1 || calls != 2 {
		t.Errorf("records = %d, calls = %d; want 1, 2", len(records), calls)
	}
}

func TestFetchAll_StatusErrorRedactsSecret(t *testing.T) {
	server, _ := newCategoryServer(t, 3)
	f, _ := NewFetcher(models.APIConfig{BaseURL: server.URL + "/reviewCategory", SharedSecret: "wrong"})

	_, err := f.FetchAll(context.Background(), "id", "asc")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("FetchAll() error = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", se.StatusCode)
	}
	if strings.Contains(se.Error(), "wrong") {
		t.Errorf("error leaks secret: %s", se.Error())
	}
}

func TestFetchAllEndpoint(t *testing.T) {
	server, _ := newCategoryServer(t, 0)
	f, _ := NewFetcher(models.APIConfig{BaseURL: server.URL + "/reviewCategory"})

	records, err := f.FetchAllEndpoint(context.Background())
	if err != nil {
		t.Fatalf("FetchAllEndpoint() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "a" || records[0].AspectsParsed[0] != "Location" {
		t.Errorf("records = %+v", records)
	}
}

func TestFetch_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	f, _ := NewFetcher(models.APIConfig{BaseURL: base})
	if _, err := f.FetchAllEndpoint(context.Background()); err == nil {
		t.Error("FetchAllEndpoint() expected error for closed server")
	}
}

func TestNewFetcher_InvalidBaseURL(t *testing.T) {
	if _, err := NewFetcher(models.APIConfig{BaseURL: "ftp://example.com"}); err == nil {
		t.Error("NewFetcher() expected error for ftp scheme")
	}
}

func TestFetchAll_PageFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"total": 4, "data": [{"id": 1, "name": "A", "aspects": []}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f, _ := NewFetcher(models.APIConfig{BaseURL: server.URL, PageSize: 1, Workers: 2})
	_, err := f.FetchAll(context.Background(), "id", "asc")
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("FetchAll() error = %v, want 500 StatusError", err)
	}
	if !strings.HasPrefix(err.Error(), "page 2:") {
		t.Errorf("error = %q, want page number", err.Error())
	}
}
