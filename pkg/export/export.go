// Package export renders analysis results as CSV, JSON, YAML and HTML.
package export

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Table is a rectangular result with typed cells. Cells hold string, int,
// float64 or bool values so JSON output keeps numbers as numbers.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Strings returns header and rows as text, the form CSV and terminal output use.
func (t *Table) Strings() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Columns...))
	for _, row := range t.Rows {
		line := make([]string, len(row))
		for i, v := range row {
			line[i] = formatCell(v)
		}
		out = append(out, line)
	}
	return out
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// WriteCSV writes the header followed by every row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Strings()); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// WriteJSONRecords writes the table as an array of objects, one per row,
// with keys in column order.
func WriteJSONRecords(w io.Writer, t *Table) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range t.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := marshalJSON(col)
			if err != nil {
				return fmt.Errorf("failed to encode column %q: %w", col, err)
			}
			buf.Write(key)
			buf.WriteByte(':')

			var v any
			if j < len(row) {
				v = row[j]
			}
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				v = nil
			}
			val, err := marshalJSON(v)
			if err != nil {
				return fmt.Errorf("failed to encode %q value: %w", col, err)
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// marshalJSON is json.Marshal without HTML escaping; category names such
// as "Food & Drink" stay readable.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteYAML encodes v as YAML with two-space indentation.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

var htmlTable = template.Must(template.New("table").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// WriteHTMLTable renders a standalone HTML page holding the table. The
// output reads back with loader.ReadHTML when the columns fit.
func WriteHTMLTable(w io.Writer, title string, t *Table) error {
	lines := t.Strings()
	data := struct {
		Title  string
		Header []string
		Rows   [][]string
	}{Title: title, Header: lines[0], Rows: lines[1:]}
	if err := htmlTable.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}

// NoData is what DownloadLink returns for empty content.
const NoData = "No data to download"

// DownloadLink embeds data in a base64 data-URI anchor. kind is "csv" or
// "json" and picks the link label.
func DownloadLink(data []byte, filename, kind string) string {
	if len(data) == 0 {
		return NoData
	}
	b64 := base64.StdEncoding.EncodeToString(data)
	label := "Download " + map[string]string{"csv": "CSV", "json": "JSON"}[kind] + " file"
	return fmt.Sprintf(`<a href="data:file/%s;base64,%s" download="%s">%s</a>`,
		kind, b64, template.HTMLEscapeString(filename), label)
}

// CSVDownloadLink renders t as CSV and wraps it in a download link.
func CSVDownloadLink(t *Table, filename string) (string, error) {
	if t.Empty() {
		return NoData, nil
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return "", err
	}
	return DownloadLink(buf.Bytes(), filename, "csv"), nil
}

// JSONDownloadLink renders t as JSON records and wraps it in a download link.
func JSONDownloadLink(t *Table, filename string) (string, error) {
	if t.Empty() {
		return NoData, nil
	}
	var buf bytes.Buffer
	if err := WriteJSONRecords(&buf, t); err != nil {
		return "", err
	}
	return DownloadLink(bytes.TrimSpace(buf.Bytes()), filename, "json"), nil
}
