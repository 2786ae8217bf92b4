package models

import (
	"encoding/json"
	"time"
)

// Bag is a loosely-typed metric bag returned by the primary provider.
// Keys are canonical field names; the client coalesces the provider's
// inconsistently-cased spellings before a Bag leaves the adapter.
type Bag map[string]any

// Float returns the value for key as *float64, or nil when the key is
// absent or not numeric. String-encoded numbers are tolerated.
func (b Bag) Float(key string) *float64 {
	v, ok := b[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return Float(n)
	case float32:
		return Float(float64(n))
	case int:
		return Float(float64(n))
	case int64:
		return Float(float64(n))
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return Float(f)
		}
	case string:
		var f float64
		if err := json.Unmarshal([]byte(n), &f); err == nil {
			return Float(f)
		}
	}
	return nil
}

// String returns the value for key as a string, or "" when absent
func (b Bag) String(key string) string {
	if v, ok := b[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ListedEntry is one instrument from the listed-universe snapshot
type ListedEntry struct {
	Code        string `json:"code"`
	NativeName  string `json:"native_name"`
	EnglishName string `json:"english_name,omitempty"`
	Market      string `json:"market,omitempty"`
}

// DailyQuote is one end-of-day bar from the J-Quants daily quote feed.
// The API serialises missing values as null, hence the pointers.
type DailyQuote struct {
	Code   string   `json:"code"`
	Date   string   `json:"date"`
	Open   *float64 `json:"open,omitempty"`
	High   *float64 `json:"high,omitempty"`
	Low    *float64 `json:"low,omitempty"`
	Close  *float64 `json:"close,omitempty"`
	Volume *float64 `json:"volume,omitempty"`
}

// Statement is one financial statement disclosure, already parsed out of
// the provider's all-strings wire format.
type Statement struct {
	PeriodType       string   `json:"period_type"` // "FY", "1Q", ...
	PeriodEnd        string   `json:"period_end"`
	DisclosedDate    string   `json:"disclosed_date,omitempty"`
	NetSales         *float64 `json:"net_sales,omitempty"`
	Profit           *float64 `json:"profit,omitempty"`
	DividendPerShare *float64 `json:"dividend_per_share,omitempty"`
}

// RankingEntry is one row of a gainer/loser ranking
type RankingEntry struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
}

// RankingSnapshot holds the full sorted gainer and loser lists.
// It is derived data, replaced wholesale on recomputation and never
// persisted beyond its cache window.
type RankingSnapshot struct {
	TopGainers []RankingEntry `json:"top_gainers"`
	TopLosers  []RankingEntry `json:"top_losers"`
	ComputedAt time.Time      `json:"computed_at"`
}
