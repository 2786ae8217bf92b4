// Package interfaces defines service contracts for kabuto
package interfaces

import (
	"context"

	"github.com/shiradev/kabuto/internal/models"
)

// YahooClient provides access to the public quote API.
// Bags carry canonical field names only; spelling coalescing happens
// inside the client.
type YahooClient interface {
	// FastInfo retrieves the cheap price snapshot for a ticker
	FastInfo(ctx context.Context, symbol string) (models.Bag, error)

	// Info retrieves the full descriptive metadata for a ticker
	Info(ctx context.Context, symbol string) (models.Bag, error)

	// Financials retrieves annual revenue and profit history
	Financials(ctx context.Context, symbol string) (*models.FinancialHistory, error)

	// History retrieves daily price history and dividend payments
	History(ctx context.Context, symbol string) ([]models.PricePoint, []models.DividendPoint, error)
}

// JQuantsClient provides access to the J-Quants API. Every method
// acquires a bearer token internally; a failed token exchange surfaces
// as an error and callers treat the provider as unavailable.
type JQuantsClient interface {
	// DailyQuotes retrieves the daily bar series for one code, oldest first
	DailyQuotes(ctx context.Context, code string) ([]models.DailyQuote, error)

	// DailyQuotesByDate retrieves one trading day across the whole universe
	DailyQuotesByDate(ctx context.Context, date string) ([]models.DailyQuote, error)

	// ListedInfo retrieves the full listed-instrument universe
	ListedInfo(ctx context.Context) ([]models.ListedEntry, error)

	// Statements retrieves financial statement disclosures for one code
	Statements(ctx context.Context, code string) ([]models.Statement, error)
}
