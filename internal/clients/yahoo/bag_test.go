package yahoo

import (
	"encoding/json"
	"testing"
)

func TestFlattenCollapsesRawWrappers(t *testing.T) {
	doc := map[string]any{
		"summaryDetail": map[string]any{
			"trailingPE":    map[string]any{"raw": 10.5, "fmt": "10.50"},
			"dividendYield": map[string]any{"raw": 0.025, "fmt": "2.50%"},
		},
	}

	out := flatten(doc)

	if v, ok := out["trailingPE"].(float64); !ok || v != 10.5 {
		t.Errorf("trailingPE = %v, want 10.5", out["trailingPE"])
	}
	if v, ok := out["dividendYield"].(float64); !ok || v != 0.025 {
		t.Errorf("dividendYield = %v, want 0.025", out["dividendYield"])
	}
}

func TestFlattenFirstOccurrenceWins(t *testing.T) {
	// JSON preserves ordering through json.Decoder only per object, so
	// build the nesting explicitly: outer value first, repeat nested.
	var doc map[string]any
	if err := json.Unmarshal([]byte(`{
		"meta": {"currency": "JPY", "nested": {"currency": "USD"}}
	}`), &doc); err != nil {
		t.Fatal(err)
	}

	out := flatten(doc)
	if out["currency"] != "JPY" {
		t.Errorf("currency = %v, want JPY (first occurrence)", out["currency"])
	}
}

func TestFlattenSkipsNulls(t *testing.T) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(`{"meta": {"trailingPE": null, "lastPrice": 100.0}}`), &doc); err != nil {
		t.Fatal(err)
	}

	out := flatten(doc)
	if _, ok := out["trailingPE"]; ok {
		t.Error("null leaf should be dropped")
	}
	if out["lastPrice"] != 100.0 {
		t.Errorf("lastPrice = %v, want 100.0", out["lastPrice"])
	}
}

func TestNormalizeCoalescesAliases(t *testing.T) {
	raw := map[string]any{
		"regularMarketPrice": 2850.5,
		"chartPreviousClose": 2825.5,
		"longName":           "Toyota Motor Corporation",
		"shortName":          "Toyota",
		"trailingPE":         10.5,
	}

	bag := normalize(raw)

	if v := bag.Float("price"); v == nil || *v != 2850.5 {
		t.Errorf("price = %v, want 2850.5", v)
	}
	if v := bag.Float("previous_close"); v == nil || *v != 2825.5 {
		t.Errorf("previous_close = %v, want 2825.5", v)
	}
	// longName outranks shortName
	if v := bag.String("name"); v != "Toyota Motor Corporation" {
		t.Errorf("name = %q, want long name", v)
	}
	if v := bag.Float("per"); v == nil || *v != 10.5 {
		t.Errorf("per = %v, want 10.5", v)
	}
	if v := bag.Float("pbr"); v != nil {
		t.Errorf("pbr = %v, want nil for absent metric", v)
	}
}

func TestNormalizePrefersEarlierAlias(t *testing.T) {
	raw := map[string]any{
		"lastPrice":          100.0,
		"regularMarketPrice": 99.0,
	}

	bag := normalize(raw)
	if v := bag.Float("price"); v == nil || *v != 100.0 {
		t.Errorf("price = %v, want 100.0 from the preferred alias", v)
	}
}
