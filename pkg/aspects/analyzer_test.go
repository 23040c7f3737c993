package aspects

import (
	"reflect"
	"testing"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/caching"
)

func TestAnalyzer_CacheDoesNotChangeResults(t *testing.T) {
	cached := NewAnalyzer(caching.NewCache(0))
	uncached := NewAnalyzer(nil)
	ds := NewDataset(matrixFixture())
	opts := MatrixOptions{MaxAspects: 3, MaxCategories: 2}

	for i := 0; i < 2; i++ {
		if got, want := cached.Frequency(ds, models.OrderAscending), uncached.Frequency(ds, models.OrderAscending); !reflect.DeepEqual(got, want) {
			t.Errorf("run %d: Frequency() cached = %v, uncached = %v", i, got, want)
		}
		if got, want := cached.Matrix(ds, opts), uncached.Matrix(ds, opts); !reflect.DeepEqual(got, want) {
			t.Errorf("run %d: Matrix() cached = %+v, uncached = %+v", i, got, want)
		}
		if got, want := cached.Summary(ds), uncached.Summary(ds); got != want {
			t.Errorf("run %d: Summary() cached = %+v, uncached = %+v", i, got, want)
		}
	}
}

func TestAnalyzer_KeysByTokenAndOptions(t *testing.T) {
	cache := caching.NewCache(0)
	a := NewAnalyzer(cache)
	ds := NewDataset(matrixFixture())

	a.Frequency(ds, models.OrderDescending)
	a.Frequency(ds, models.OrderDescending)
	a.Frequency(ds, models.OrderAscending)
	a.Matrix(ds, MatrixOptions{})
	a.Matrix(ds, MatrixOptions{MaxAspects: models.DefaultMaxAspects, MaxCategories: models.DefaultMaxCategories})

	// desc, asc and a single matrix entry: defaults resolve before keying.
	if cache.Len() != 3 {
		t.Errorf("cache.Len() = %d, want 3", cache.Len())
	}

	other := NewDataset(exampleRecords())
	if other.Token == ds.Token {
		t.Fatal("different datasets share a token")
	}
	got := a.Frequency(other, models.OrderDescending)
	want := []models.AspectCount{{"Product/Price", 2}, {"Service/Staff", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Frequency(other) = %v, want %v", got, want)
	}
}

func TestAnalyzer_NilDataset(t *testing.T) {
	a := NewAnalyzer(caching.NewCache(0))
	if m := a.Matrix(nil, MatrixOptions{}); m != nil {
		t.Errorf("Matrix(nil) = %+v, want nil", m)
	}
	if f := a.Frequency(nil, models.OrderDescending); len(f) != 0 {
		t.Errorf("Frequency(nil) = %v, want empty", f)
	}
	if s := a.Summary(nil); s.HasData() {
		t.Errorf("Summary(nil) = %+v, want no data", s)
	}

	empty := NewDataset(nil)
	if m := a.Matrix(empty, MatrixOptions{}); m != nil {
		t.Errorf("Matrix(empty) = %+v, want nil", m)
	}
}

func TestFingerprint_SensitiveToContent(t *testing.T) {
	a := matrixFixture()
	b := matrixFixture()
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatal("Fingerprint() differs for identical records")
	}
	b[0].AspectsCount++
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("Fingerprint() ignores AspectsCount")
	}
	c := matrixFixture()
	c[1].AspectsParsed = []string{"Service/Staff", "Location"}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("Fingerprint() ignores parsed aspects")
	}
	d := matrixFixture()
	d[0].ID = "42"
	if Fingerprint(a) == Fingerprint(d) {
		t.Error("Fingerprint() ignores category ids")
	}
	e := matrixFixture()
	e[3].Aspects = models.TextAspects("Product/Price, Product/Quality, Location")
	if Fingerprint(a) == Fingerprint(e) {
		t.Error("Fingerprint() ignores the raw aspect form")
	}
}

func TestFingerprint_SeparatorBytesInValues(t *testing.T) {
	joined := []models.CategoryRecord{{Name: "A\x1fB", AspectsParsed: []string{}}}
	split := []models.CategoryRecord{{Name: "A", AspectsParsed: []string{"B"}}}
	if Fingerprint(joined) == Fingerprint(split) {
		t.Error("Fingerprint() collides when a name holds a separator byte")
	}

	one := []models.CategoryRecord{{Name: "x", AspectsParsed: []string{"a,b"}}}
	two := []models.CategoryRecord{{Name: "x", AspectsParsed: []string{"a", "b"}}}
	if Fingerprint(one) == Fingerprint(two) {
		t.Error("Fingerprint() collides on list boundaries")
	}
}

func TestAnalyzer_Reset(t *testing.T) {
	cache := caching.NewCache(0)
	a := NewAnalyzer(cache)
	ds := NewDataset(matrixFixture())
	a.Summary(ds)
	a.Frequency(ds, models.OrderDescending)
	if cache.Len() != 2 {
		t.Fatalf("cache.Len() = %d, want 2", cache.Len())
	}
	a.Reset()
	if cache.Len() != 0 {
		t.Errorf("cache.Len() after Reset = %d, want 0", cache.Len())
	}

	NewAnalyzer(nil).Reset()
}
