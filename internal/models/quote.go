// Package models defines data structures for kabuto
package models

import (
	"time"
)

// Quote provenance values. Every QuoteRecord carries exactly one of these
// so consumers can tell realtime, delayed and static data apart.
const (
	SourceYahoo    = "yahoo"
	SourceJQuants  = "jquants"
	SourceFallback = "fallback"
)

// StalenessDelayed marks records from a provider whose data is known to
// lag the market by weeks.
const StalenessDelayed = "delayed end-of-period data"

// QuoteRecord holds the latest known metrics for one instrument.
// Optional metrics are pointers: a nil field means the producing provider
// did not supply the value, which is distinct from zero. Records are
// immutable once built; a refresh replaces the whole record.
type QuoteRecord struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name,omitempty"`
	NativeName    string   `json:"native_name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	PreviousClose *float64 `json:"previous_close,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePct     *float64 `json:"change_pct,omitempty"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	PER           *float64 `json:"per,omitempty"`
	PBR           *float64 `json:"pbr,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	PayoutRatio   *float64 `json:"dividend_payout_ratio,omitempty"`
	MarketCap     *float64 `json:"market_cap,omitempty"`

	Revenue *float64 `json:"revenue,omitempty"`
	Profit  *float64 `json:"profit,omitempty"`

	RevenueHistory  []FinancialPoint `json:"revenue_history,omitempty"`
	ProfitHistory   []FinancialPoint `json:"profit_history,omitempty"`
	DividendHistory []DividendPoint  `json:"dividend_history,omitempty"`
	PriceHistory    []PricePoint     `json:"price_history,omitempty"`

	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`

	Source        string    `json:"source"`
	StalenessNote string    `json:"staleness_note,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// FinancialPoint is one labelled value from a financial-history series
// (e.g. annual revenue for a fiscal year).
type FinancialPoint struct {
	Label string  `json:"label"` // fiscal period, e.g. "2024-03-31"
	Value float64 `json:"value"`
}

// DividendPoint is one historical dividend payment
type DividendPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// PricePoint is one day of price history
type PricePoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open,omitempty"`
	High   float64 `json:"high,omitempty"`
	Low    float64 `json:"low,omitempty"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume,omitempty"`
}

// FinancialHistory groups the revenue and profit series from one provider
type FinancialHistory struct {
	Revenue []FinancialPoint `json:"revenue"`
	Profit  []FinancialPoint `json:"profit"`
}

// Float returns a pointer to v, for building records with optional fields
func Float(v float64) *float64 {
	return &v
}
