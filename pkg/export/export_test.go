package export

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
	"github.com/dtnitsch/aspect-analyzer/pkg/loader"
)

func sampleRecords() []models.CategoryRecord {
	records := []models.CategoryRecord{
		{ID: "1", Name: "Electronics", AspectsCount: 2, Aspects: models.TextAspects("['Product/Price', 'Service/Staff']")},
		{ID: "2", Name: "Food & Drink", AspectsCount: 1, Aspects: models.TextAspects("Product/Price")},
	}
	aspects.Normalize(records)
	return records
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	freq := []models.AspectCount{{Aspect: "Product/Price", Count: 2}, {Aspect: "a, b", Count: 1}}
	if err := WriteCSV(&buf, FrequencyTable(freq)); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	want := "aspect,count\nProduct/Price,2\n\"a, b\",1\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
	}
}

func TestWriteJSONRecords(t *testing.T) {
	m := aspects.BuildMatrix(sampleRecords(), aspects.MatrixOptions{})
	var buf bytes.Buffer
	if err := WriteJSONRecords(&buf, MatrixTable(m)); err != nil {
		t.Fatalf("WriteJSONRecords() error = %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[1]["aspect"] != "Service/Staff" || rows[1]["Food & Drink"] != float64(0) {
		t.Errorf("rows[1] = %v", rows[1])
	}
	// keys keep column order
	if !strings.HasPrefix(buf.String(), `[{"aspect":"Product/Price","Electronics":1,`) {
		t.Errorf("unexpected key order: %s", buf.String())
	}
}

func TestWriteJSONRecords_NaNIsNull(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONRecords(&buf, SummaryTable(aspects.Summarize(nil))); err != nil {
		t.Fatalf("WriteJSONRecords() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"mean_aspects":null`) {
		t.Errorf("NaN mean not rendered as null: %s", buf.String())
	}

	buf.Reset()
	if err := WriteJSONRecords(&buf, &Table{Columns: []string{"a"}}); err != nil || buf.String() != "[]\n" {
		t.Errorf("empty table = %q, %v", buf.String(), err)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	freq := []models.AspectCount{{Aspect: "Location", Count: 3}}
	if err := WriteYAML(&buf, freq); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}

	var back []models.AspectCount
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if len(back) != 1 || back[0] != freq[0] {
		t.Errorf("round trip = %v", back)
	}
}

func TestWriteHTMLTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTMLTable(&buf, "Categories <export>", RecordsTable(sampleRecords())); err != nil {
		t.Fatalf("WriteHTMLTable() error = %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("goquery error = %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Categories <export>" {
		t.Errorf("title = %q", got)
	}
	if n := doc.Find("tbody tr").Length(); n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
	if got := doc.Find("tbody tr").Eq(1).Find("td").Eq(1).Text(); got != "Food & Drink" {
		t.Errorf("escaped cell = %q", got)
	}

	records, err := loader.ReadHTML(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("loader.ReadHTML() error = %v", err)
	}
	if aspects.Fingerprint(records) != aspects.Fingerprint(sampleRecords()) {
		t.Errorf("HTML export does not load back: %+v", records)
	}
}

func TestRecordsTable_CSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, RecordsTable(sampleRecords())); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	records, err := loader.ReadCSV(&buf)
	if err != nil {
		t.Fatalf("loader.ReadCSV() error = %v", err)
	}
	if aspects.Fingerprint(records) != aspects.Fingerprint(sampleRecords()) {
		t.Errorf("CSV export does not load back: %+v", records)
	}
}

func TestDownloadLink(t *testing.T) {
	if got := DownloadLink(nil, "x.csv", "csv"); got != NoData {
		t.Errorf("DownloadLink(nil) = %q", got)
	}

	link, err := CSVDownloadLink(FrequencyTable([]models.AspectCount{{Aspect: "A", Count: 1}}), "analysis_export.csv")
	if err != nil {
		t.Fatalf("CSVDownloadLink() error = %v", err)
	}
	wantB64 := base64.StdEncoding.EncodeToString([]byte("aspect,count\nA,1\n"))
	want := `<a href="data:file/csv;base64,` + wantB64 + `" download="analysis_export.csv">Download CSV file</a>`
	if link != want {
		t.Errorf("CSVDownloadLink() = %s, want %s", link, want)
	}

	if got, _ := JSONDownloadLink(&Table{}, "x.json"); got != NoData {
		t.Errorf("JSONDownloadLink(empty) = %q", got)
	}
	jl, err := JSONDownloadLink(FrequencyTable([]models.AspectCount{{Aspect: "A", Count: 1}}), "x.json")
	if err != nil || !strings.Contains(jl, "data:file/json;base64,") || !strings.HasSuffix(jl, ">Download JSON file</a>") {
		t.Errorf("JSONDownloadLink() = %s, %v", jl, err)
	}
}

func TestDistributionTable(t *testing.T) {
	if tbl := DistributionTable(nil); !tbl.Empty() {
		t.Error("DistributionTable(nil) should be empty")
	}
	d := &models.UsageDistribution{Mean: 1, Median: 1, Bins: []models.HistogramBin{{Low: 0.5, High: 1.5, Count: 2}}}
	got := DistributionTable(d).Strings()
	if got[1][0] != "0.5" || got[1][2] != "2" {
		t.Errorf("DistributionTable().Strings() = %v", got)
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{3, "3"},
		{2.5, "2.5"},
		{math.NaN(), ""},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := formatCell(tt.in); got != tt.want {
			t.Errorf("formatCell(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
