package yahoo

import "github.com/shiradev/kabuto/internal/models"

// fieldAliases is the normalization table for this provider: every
// spelling the API uses for a metric, in preference order, mapped to the
// one canonical name the rest of the codebase sees. Applied at the
// adapter boundary so inconsistent casings never leak out.
var fieldAliases = map[string][]string{
	"price":                 {"last_price", "lastPrice", "currentPrice", "regularMarketPrice"},
	"previous_close":        {"previous_close", "previousClose", "regularMarketPreviousClose", "chartPreviousClose"},
	"high":                  {"day_high", "dayHigh", "regularMarketDayHigh"},
	"low":                   {"day_low", "dayLow", "regularMarketDayLow"},
	"name":                  {"longName", "shortName", "name"},
	"per":                   {"trailingPE"},
	"pbr":                   {"priceToBook"},
	"dividend_yield":        {"dividendYield"},
	"dividend_payout_ratio": {"payoutRatio"},
	"market_cap":            {"marketCap"},
	"sector":                {"sector"},
	"industry":              {"industry"},
	"description":           {"longBusinessSummary"},
	"currency":              {"currency"},
}

// flatten walks a decoded JSON document and collects leaf values keyed
// by their leaf name. Formatted-value wrappers ({"raw": n, "fmt": s})
// collapse to the raw number. The first occurrence of a key wins, which
// keeps top-level price data ahead of nested repeats.
func flatten(v any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", v)
	return out
}

func flattenInto(out map[string]any, key string, v any) {
	switch t := v.(type) {
	case map[string]any:
		if raw, ok := t["raw"]; ok && len(t) <= 3 {
			if key != "" {
				if _, exists := out[key]; !exists {
					out[key] = raw
				}
			}
			return
		}
		for k, child := range t {
			flattenInto(out, k, child)
		}
	case []any:
		for _, child := range t {
			flattenInto(out, key, child)
		}
	default:
		if key == "" || v == nil {
			return
		}
		if _, exists := out[key]; !exists {
			out[key] = v
		}
	}
}

// normalize coalesces raw provider spellings into canonical Bag keys
func normalize(raw map[string]any) models.Bag {
	bag := make(models.Bag, len(fieldAliases))
	for canonical, aliases := range fieldAliases {
		for _, alias := range aliases {
			if v, ok := raw[alias]; ok && v != nil {
				bag[canonical] = v
				break
			}
		}
	}
	return bag
}
