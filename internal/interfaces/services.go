package interfaces

import (
	"context"

	"github.com/shiradev/kabuto/internal/models"
)

// QuoteService aggregates quote data behind the provider-fallback chain
type QuoteService interface {
	// Fetch returns the latest metrics for the requested symbols, keyed by
	// the requested form. Symbols that exhaust every provider are omitted;
	// partial failure is never an error.
	Fetch(ctx context.Context, symbols []string) map[string]*models.QuoteRecord

	// FetchDetailed returns one record with financial, dividend and price
	// history. Returns ErrNotFound when every provider fails.
	FetchDetailed(ctx context.Context, symbol string) (*models.QuoteRecord, error)
}

// DirectoryService serves the listed-instrument universe
type DirectoryService interface {
	// List returns listed instruments, filtered by query when non-empty.
	// Matching is case-, space-, suffix- and script-insensitive.
	List(ctx context.Context, query string) ([]models.ListedEntry, error)
}

// Ranking scopes
const (
	ScopePopular = "popular"
	ScopeAll     = "all"
)

// RankingService computes top gainer/loser rankings
type RankingService interface {
	// Rankings returns the gainer/loser snapshot for the scope, truncated
	// to limit entries per list. Returns ErrUnavailable when no usable
	// data exists, which is distinct from a valid short list.
	Rankings(ctx context.Context, limit int, scope string) (*models.RankingSnapshot, error)
}
