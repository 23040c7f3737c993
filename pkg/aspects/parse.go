// Package aspects turns category records into aspect analytics: parsed
// aspect lists, frequency tables, presence matrices and summary rollups.
//
// Every function is a pure function of its input and never returns an error.
// Missing data yields an explicit empty result (nil matrix, empty table,
// NaN mean) that callers decide how to present.
//
// Known limitations:
//
//   - Category names are matrix column keys. Two categories sharing a name
//     produce two columns with the same header; each column still reflects
//     its own record.
//   - Aspect matching is exact and case-sensitive; "Product/Price" and
//     "product/price" are different aspects.
package aspects

import (
	"strings"

	"github.com/dtnitsch/aspect-analyzer/models"
)

// Parse converts a raw aspect field into trimmed, non-empty aspect strings.
//
// A string wrapped in [ ] is decoded as a list literal of quoted strings.
// When that decoding fails the raw string is comma-split instead, so a
// malformed literal degrades to its comma-separated tokens rather than to an
// empty list. Order and duplicates are preserved.
func Parse(raw models.RawAspects) []string {
	if !raw.Valid {
		return []string{}
	}
	if raw.IsList {
		return cleanTokens(raw.List)
	}
	return ParseString(raw.Text)
}

// ParseString applies the Parse rules to a plain string field.
func ParseString(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return []string{}
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		if items, ok := decodeListLiteral(trimmed); ok {
			return cleanTokens(items)
		}
	}
	return cleanTokens(strings.Split(s, ","))
}

func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}

// decodeListLiteral decodes "['a', \"b\", ]" style literals. Only quoted
// string elements are accepted; anything else is a decode failure.
func decodeListLiteral(s string) ([]string, bool) {
	body := []rune(s[1 : len(s)-1])
	items := []string{}
	i := 0

	skipSpace := func() {
		for i < len(body) && isSpace(body[i]) {
			i++
		}
	}

	for {
		skipSpace()
		if i >= len(body) {
			return items, true
		}

		item, next, ok := readQuoted(body, i)
		if !ok {
			return nil, false
		}
		items = append(items, item)
		i = next

		skipSpace()
		if i >= len(body) {
			return items, true
		}
		if body[i] != ',' {
			return nil, false
		}
		i++
	}
}

// readQuoted reads one quoted string starting at body[start] and returns the
// decoded value and the index just past the closing quote.
func readQuoted(body []rune, start int) (string, int, bool) {
	quote := body[start]
	if quote != '\'' && quote != '"' {
		return "", 0, false
	}

	var sb strings.Builder
	for i := start + 1; i < len(body); i++ {
		r := body[i]
		switch {
		case r == '\\':
			if i+1 >= len(body) {
				return "", 0, false
			}
			i++
			sb.WriteString(unescape(body[i]))
		case r == quote:
			return sb.String(), i + 1, true
		case r == '\n':
			return "", 0, false
		default:
			sb.WriteRune(r)
		}
	}
	return "", 0, false // unterminated
}

func unescape(r rune) string {
	switch r {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\', '\'', '"':
		return string(r)
	}
	return "\\" + string(r)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Normalize fills AspectsParsed for every record that does not have it yet.
func Normalize(records []models.CategoryRecord) {
	for i := range records {
		if records[i].AspectsParsed == nil {
			records[i].AspectsParsed = Parse(records[i].Aspects)
		}
	}
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

// FormatList renders aspects as a single-quoted list literal that Parse
// decodes back to the same items.
func FormatList(items []string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('\'')
		sb.WriteString(literalEscaper.Replace(item))
		sb.WriteByte('\'')
	}
	sb.WriteByte(']')
	return sb.String()
}
