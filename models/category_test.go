package models

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestCategoryRecord_UnmarshalAspectForms(t *testing.T) {
	tests := []struct {
		name string
		json string
		want RawAspects
	}{
		{"null", `{"aspects": null}`, RawAspects{}},
		{"missing", `{}`, RawAspects{}},
		{"string", `{"aspects": "A/B, C"}`, TextAspects("A/B, C")},
		{"literal string", `{"aspects": "['A/B']"}`, TextAspects("['A/B']")},
		{"list", `{"aspects": ["A/B", "C"]}`, ListAspects([]string{"A/B", "C"})},
		{"objects", `{"aspects": [{"name": "Aspect 1"}, {"name": "Aspect 2"}]}`, ListAspects([]string{"Aspect 1", "Aspect 2"})},
		{"empty list", `{"aspects": []}`, ListAspects([]string{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec CategoryRecord
			if err := json.Unmarshal([]byte(tt.json), &rec); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(rec.Aspects, tt.want) {
				t.Errorf("Aspects = %+v, want %+v", rec.Aspects, tt.want)
			}
		})
	}
}

func TestCategoryRecord_UnmarshalRejectsNumbers(t *testing.T) {
	var rec CategoryRecord
	if err := json.Unmarshal([]byte(`{"aspects": 12}`), &rec); err == nil {
		t.Error("Unmarshal() expected error for numeric aspects")
	}
}

func TestCategoryID_NumberAndString(t *testing.T) {
	var recs []CategoryRecord
	if err := json.Unmarshal([]byte(`[{"id": 7}, {"id": "cat-9"}]`), &recs); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if recs[0].ID != "7" || recs[1].ID != "cat-9" {
		t.Fatalf("ids = %q, %q", recs[0].ID, recs[1].ID)
	}

	out, err := json.Marshal(recs[0].ID)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != "7" {
		t.Errorf("Marshal(7) = %s, want bare number", out)
	}
	out, _ = json.Marshal(recs[1].ID)
	if string(out) != `"cat-9"` {
		t.Errorf("Marshal(cat-9) = %s, want quoted string", out)
	}
}

func TestSummary_MarshalNaNMean(t *testing.T) {
	out, err := json.Marshal(Summary{MeanAspects: math.NaN()})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), `"mean_aspects":null`) {
		t.Errorf("Marshal() = %s, want null mean", out)
	}

	out, _ = json.Marshal(Summary{Total: 2, WithAspects: 2, MeanAspects: 1.5})
	if !strings.Contains(string(out), `"mean_aspects":1.5`) || !strings.Contains(string(out), `"total":2`) {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]Order{
		"":           OrderDescending,
		"desc":       OrderDescending,
		"Descending": OrderDescending,
		"asc":        OrderAscending,
		"ascending":  OrderAscending,
	} {
		got, err := ParseOrder(in)
		if err != nil || got != want {
			t.Errorf("ParseOrder(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseOrder("up"); err == nil {
		t.Error("ParseOrder(up) expected error")
	}
}
