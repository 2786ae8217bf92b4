// Package ranking computes top-gainer and top-loser lists over either
// the configured popular symbol set or the entire listed universe.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shiradev/kabuto/internal/cache"
	"github.com/shiradev/kabuto/internal/common"
	"github.com/shiradev/kabuto/internal/interfaces"
	"github.com/shiradev/kabuto/internal/models"
)

// ErrUnavailable means no usable data exists for the requested scope.
// Callers must see this explicitly rather than an empty success.
var ErrUnavailable = errors.New("ranking data unavailable")

// ErrUnknownScope means the caller asked for a scope the engine has no
// computation for.
var ErrUnknownScope = errors.New("unknown ranking scope")

const (
	// DefaultLimit applies when the caller passes a non-positive limit
	DefaultLimit = 5

	// lookbackDays bounds the walk back through the calendar for the
	// most recent trading day in the daily snapshot feed
	lookbackDays = 7
)

// Service implements RankingService. Full sorted lists are cached per
// scope and truncated per request, so one computation serves every
// limit within the TTL window.
type Service struct {
	quotes  interfaces.QuoteService
	jquants interfaces.JQuantsClient
	popular []string
	snaps   *cache.Store[*models.RankingSnapshot]
	ttl     time.Duration
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
}

// NewService creates the ranking service
func NewService(quotes interfaces.QuoteService, jq interfaces.JQuantsClient, popular []string, ttl time.Duration, logger *common.Logger) *Service {
	return &Service{
		quotes:  quotes,
		jquants: jq,
		popular: popular,
		snaps:   cache.NewStore[*models.RankingSnapshot](),
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Rankings returns the gainer/loser snapshot for the scope, each list
// truncated to limit entries.
func (s *Service) Rankings(ctx context.Context, limit int, scope string) (*models.RankingSnapshot, error) {
	if scope == "" {
		scope = interfaces.ScopePopular
	}
	if scope != interfaces.ScopePopular && scope != interfaces.ScopeAll {
		return nil, fmt.Errorf("%w %q", ErrUnknownScope, scope)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	snap, ok := s.snaps.Get(scope)
	if !ok {
		var err error
		switch scope {
		case interfaces.ScopePopular:
			snap, err = s.computePopular(ctx)
		case interfaces.ScopeAll:
			snap, err = s.computeAll(ctx)
		}
		if err != nil {
			return nil, err
		}
		s.snaps.Put(scope, snap, s.ttl)
	}

	return truncate(snap, limit), nil
}

// computePopular ranks the configured popular set using the quote
// chain's primary-plus-fallback path. Bounded cost, always attempted.
func (s *Service) computePopular(ctx context.Context) (*models.RankingSnapshot, error) {
	records := s.quotes.Fetch(ctx, s.popular)

	entries := make([]models.RankingEntry, 0, len(records))
	for _, sym := range s.popular {
		rec, ok := records[sym]
		if !ok || rec.Price == nil || rec.ChangePct == nil {
			continue
		}
		name := rec.Name
		if name == "" {
			name = rec.Symbol
		}
		entry := models.RankingEntry{
			Symbol:    rec.Symbol,
			Name:      name,
			Price:     *rec.Price,
			ChangePct: *rec.ChangePct,
		}
		if rec.Change != nil {
			entry.Change = *rec.Change
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrUnavailable
	}
	return s.buildSnapshot(entries), nil
}

// computeAll ranks the entire listed universe from the secondary
// provider's daily snapshot, deriving change from the close of the
// previous trading day since the feed does not supply it directly.
func (s *Service) computeAll(ctx context.Context) (*models.RankingSnapshot, error) {
	if s.jquants == nil {
		return nil, ErrUnavailable
	}

	day, bars, err := s.latestTradingDay(ctx, s.now())
	if err != nil {
		return nil, err
	}

	prevCloses, err := s.previousCloses(ctx, day)
	if err != nil {
		return nil, err
	}

	entries := make([]models.RankingEntry, 0, len(bars))
	for _, bar := range bars {
		if bar.Close == nil {
			continue
		}
		prev, ok := prevCloses[bar.Code]
		if !ok || prev == 0 {
			continue
		}
		change := *bar.Close - prev
		entries = append(entries, models.RankingEntry{
			Symbol:    bar.Code,
			Name:      bar.Code,
			Price:     *bar.Close,
			Change:    change,
			ChangePct: change / prev * 100,
		})
	}

	if len(entries) == 0 {
		return nil, ErrUnavailable
	}

	s.logger.Info().Int("entries", len(entries)).Str("date", day.Format("2006-01-02")).Msg("full-universe ranking computed")
	return s.buildSnapshot(entries), nil
}

// latestTradingDay walks back through the calendar until the daily feed
// returns a non-empty day.
func (s *Service) latestTradingDay(ctx context.Context, from time.Time) (time.Time, []models.DailyQuote, error) {
	for i := 0; i < lookbackDays; i++ {
		day := from.AddDate(0, 0, -i)
		bars, err := s.jquants.DailyQuotesByDate(ctx, day.Format("2006-01-02"))
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("daily snapshot fetch: %w", err)
		}
		if len(bars) > 0 {
			return day, bars, nil
		}
	}
	return time.Time{}, nil, ErrUnavailable
}

// previousCloses maps code to close for the trading day preceding day.
func (s *Service) previousCloses(ctx context.Context, day time.Time) (map[string]float64, error) {
	_, bars, err := s.latestTradingDay(ctx, day.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	closes := make(map[string]float64, len(bars))
	for _, bar := range bars {
		if bar.Close != nil {
			closes[bar.Code] = *bar.Close
		}
	}
	return closes, nil
}

// buildSnapshot sorts entries into the full gainer and loser lists
func (s *Service) buildSnapshot(entries []models.RankingEntry) *models.RankingSnapshot {
	gainers := make([]models.RankingEntry, len(entries))
	copy(gainers, entries)
	sort.SliceStable(gainers, func(i, j int) bool { return gainers[i].ChangePct > gainers[j].ChangePct })

	losers := make([]models.RankingEntry, len(entries))
	copy(losers, entries)
	sort.SliceStable(losers, func(i, j int) bool { return losers[i].ChangePct < losers[j].ChangePct })

	return &models.RankingSnapshot{
		TopGainers: gainers,
		TopLosers:  losers,
		ComputedAt: s.now(),
	}
}

// truncate returns a copy of snap with each list capped to limit
func truncate(snap *models.RankingSnapshot, limit int) *models.RankingSnapshot {
	capped := func(entries []models.RankingEntry) []models.RankingEntry {
		if len(entries) > limit {
			entries = entries[:limit]
		}
		out := make([]models.RankingEntry, len(entries))
		copy(out, entries)
		return out
	}
	return &models.RankingSnapshot{
		TopGainers: capped(snap.TopGainers),
		TopLosers:  capped(snap.TopLosers),
		ComputedAt: snap.ComputedAt,
	}
}

// Ensure Service implements RankingService
var _ interfaces.RankingService = (*Service)(nil)
