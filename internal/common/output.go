package common

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/dtnitsch/aspect-analyzer/pkg/export"
)

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
	FormatHTML  = "html"
)

// Render writes a result in the requested format. Tabular formats use t,
// structured formats encode v.
func Render(w io.Writer, format, title string, t *export.Table, v any) error {
	switch strings.ToLower(format) {
	case "", FormatTable:
		return WriteText(w, t)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case FormatYAML:
		return export.WriteYAML(w, v)
	case FormatCSV:
		return export.WriteCSV(w, t)
	case FormatHTML:
		return export.WriteHTMLTable(w, title, t)
	}
	return fmt.Errorf("unknown format %q (use: table, json, yaml, csv or html)", format)
}

// WriteText prints an aligned table with a dashed rule under the header.
func WriteText(w io.Writer, t *export.Table) error {
	lines := t.Strings()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, line := range lines {
		fmt.Fprintln(tw, strings.Join(line, "\t"))
		if i == 0 {
			rule := make([]string, len(line))
			for j, h := range line {
				rule[j] = strings.Repeat("-", max(len(h), 3))
			}
			fmt.Fprintln(tw, strings.Join(rule, "\t"))
		}
	}
	return tw.Flush()
}

// FormatMean prints an undefined mean as "n/a".
func FormatMean(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
