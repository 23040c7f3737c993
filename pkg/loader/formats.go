package loader

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
)

// ErrNoRows is returned when a source holds a header but no data.
var ErrNoRows = errors.New("no category rows found")

type columnIndex struct {
	id, name, count, aspects int
}

func locateColumns(header []string) (columnIndex, error) {
	idx := columnIndex{id: -1, name: -1, count: -1, aspects: -1}
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "id":
			idx.id = i
		case "name":
			idx.name = i
		case "aspectscount", "aspects_count":
			idx.count = i
		case "aspects":
			idx.aspects = i
		}
	}

	var missing []string
	if idx.name < 0 {
		missing = append(missing, "name")
	}
	if idx.aspects < 0 {
		missing = append(missing, "aspects")
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("required columns are missing: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// recordFromRow builds a record from table cells. A blank aspects cell is
// an absent field; a missing or blank count falls back to the parsed length.
func recordFromRow(idx columnIndex, row []string, line int) (models.CategoryRecord, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rec := models.CategoryRecord{
		ID:   models.CategoryID(strings.TrimSpace(cell(idx.id))),
		Name: strings.TrimSpace(cell(idx.name)),
	}
	if raw := cell(idx.aspects); strings.TrimSpace(raw) != "" {
		rec.Aspects = models.TextAspects(raw)
	}
	rec.AspectsParsed = aspects.Parse(rec.Aspects)

	countText := strings.TrimSpace(cell(idx.count))
	if countText == "" {
		rec.AspectsCount = len(rec.AspectsParsed)
		return rec, nil
	}
	n, err := strconv.ParseFloat(countText, 64)
	if err != nil || !validCount(n) {
		return rec, fmt.Errorf("row %d: invalid aspectsCount %q", line, countText)
	}
	rec.AspectsCount = int(n)
	return rec, nil
}

// validCount accepts whole, non-negative counts. Exports that went through a
// float column carry them as 2.0.
func validCount(n float64) bool {
	return n >= 0 && n <= math.MaxInt32 && n == math.Trunc(n)
}

// ReadCSV decodes a CSV export with at least the name and aspects columns.
func ReadCSV(r io.Reader) ([]models.CategoryRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	idx, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.CategoryRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}
		rec, err := recordFromRow(idx, row, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}
	return records, nil
}

type jsonCategory struct {
	ID           models.CategoryID `json:"id"`
	Name         string            `json:"name"`
	AspectsCount *float64          `json:"aspectsCount"`
	Aspects      models.RawAspects `json:"aspects"`
}

// ReadJSON decodes either a JSON array of categories or an API style
// {"total": n, "data": [...]} envelope.
func ReadJSON(r io.Reader) ([]models.CategoryRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	var items []jsonCategory
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Data []jsonCategory `json:"data"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
		items = envelope.Data
	} else if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if len(items) == 0 {
		return nil, ErrNoRows
	}

	records := make([]models.CategoryRecord, len(items))
	for i, item := range items {
		rec := models.CategoryRecord{
			ID:      item.ID,
			Name:    item.Name,
			Aspects: item.Aspects,
		}
		rec.AspectsParsed = aspects.Parse(rec.Aspects)
		if item.AspectsCount != nil {
			if !validCount(*item.AspectsCount) {
				return nil, fmt.Errorf("item %d: invalid aspectsCount %v", i+1, *item.AspectsCount)
			}
			rec.AspectsCount = int(*item.AspectsCount)
		} else {
			rec.AspectsCount = len(rec.AspectsParsed)
		}
		records[i] = rec
	}
	return records, nil
}

// ReadHTML reads the first <table> of an HTML document, such as an HTML
// export of the category data. The header row may use th or td cells.
func ReadHTML(r io.Reader) ([]models.CategoryRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("no <table> element found")
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	if len(rows) < 2 {
		return nil, ErrNoRows
	}

	idx, err := locateColumns(rows[0])
	if err != nil {
		return nil, err
	}
	records := make([]models.CategoryRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := recordFromRow(idx, row, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
