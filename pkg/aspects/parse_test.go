package aspects

import (
	"reflect"
	"testing"

	"github.com/dtnitsch/aspect-analyzer/models"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"comma separated", "a, b, c", []string{"a", "b", "c"}},
		{"single quoted literal", "['a','b']", []string{"a", "b"}},
		{"double quoted literal", `["Product/Price", "Service/Staff"]`, []string{"Product/Price", "Service/Staff"}},
		{"literal with spaces and trailing comma", " [ 'a' , 'b', ] ", []string{"a", "b"}},
		{"literal keeps commas inside quotes", "['Price, value', 'Staff']", []string{"Price, value", "Staff"}},
		{"literal escapes", `['It\'s', "say \"hi\""]`, []string{"It's", `say "hi"`}},
		{"literal drops blank items", "['a', '  ', '']", []string{"a"}},
		{"literal trims items", "['  a ', 'b  ']", []string{"a", "b"}},
		{"empty literal", "[]", []string{}},
		{"empty", "", []string{}},
		{"whitespace only", "   \t ", []string{}},
		{"drops empty tokens", "a,, ,b,", []string{"a", "b"}},
		{"keeps duplicates and order", "b, a, b", []string{"b", "a", "b"}},
		{"single plain value", "Product/Price", []string{"Product/Price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseString(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseString(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

// Malformed bracket input falls back to comma splitting the raw string.
func TestParseString_MalformedLiteralFallback(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"unterminated open bracket", "[unterminated", []string{"[unterminated"}},
		{"unbalanced quote", "['a', 'b]", []string{"['a'", "'b]"}},
		{"bare words", "[a, b]", []string{"[a", "b]"}},
		{"nested list", "[['a']]", []string{"[['a']]"}},
		{"numbers", "[1, 2]", []string{"[1", "2]"}},
		{"missing comma", "['a' 'b']", []string{"['a' 'b']"}},
		{"dangling escape", `['a\]`, []string{`['a\]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseString(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseString(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse_RawForms(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawAspects
		want []string
	}{
		{"absent", models.RawAspects{}, []string{}},
		{"text", models.TextAspects("x, y"), []string{"x", "y"}},
		{"list", models.ListAspects([]string{" x ", "", "y", "x"}), []string{"x", "y", "x"}},
		{"nil list", models.ListAspects(nil), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNormalize_KeepsExistingParse(t *testing.T) {
	records := []models.CategoryRecord{
		{Name: "a", Aspects: models.TextAspects("x, y")},
		{Name: "b", Aspects: models.TextAspects("x"), AspectsParsed: []string{"preset"}},
	}
	Normalize(records)

	if !reflect.DeepEqual(records[0].AspectsParsed, []string{"x", "y"}) {
		t.Errorf("records[0].AspectsParsed = %v", records[0].AspectsParsed)
	}
	if !reflect.DeepEqual(records[1].AspectsParsed, []string{"preset"}) {
		t.Errorf("records[1].AspectsParsed = %v, want untouched", records[1].AspectsParsed)
	}
}

func TestFormatList_RoundTrip(t *testing.T) {
	tests := [][]string{
		{},
		{"Product/Price"},
		{"Service/Staff", "it's", `back\slash`, "a, b", "Product/Price"},
	}
	for _, items := range tests {
		lit := FormatList(items)
		if got := ParseString(lit); !reflect.DeepEqual(got, items) {
			t.Errorf("ParseString(FormatList(%q)) = %q via %s", items, got, lit)
		}
	}
	if got := FormatList([]string{"a", "b"}); got != "['a', 'b']" {
		t.Errorf("FormatList() = %s", got)
	}
}

func FuzzParseString(f *testing.F) {
	for _, seed := range []string{"a, b", "['a','b']", "[", "]", "['", `["\`, "[,]", ""} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		got := ParseString(in)
		if got == nil {
			t.Fatalf("ParseString(%q) returned nil", in)
		}
		for _, a := range got {
			if a == "" {
				t.Fatalf("ParseString(%q) returned an empty aspect", in)
			}
		}
	})
}
