// Package quote implements the provider-fallback chain behind every
// quote read: cache, then the realtime primary provider, then the
// delayed secondary provider, then a static last-known table.
package quote

import (
	"context"
	"errors"
	"time"

	"github.com/shiradev/kabuto/internal/cache"
	"github.com/shiradev/kabuto/internal/clients/yahoo"
	"github.com/shiradev/kabuto/internal/common"
	"github.com/shiradev/kabuto/internal/interfaces"
	"github.com/shiradev/kabuto/internal/models"
	"github.com/shiradev/kabuto/internal/ratelimit"
	"github.com/shiradev/kabuto/internal/symbols"
)

// ErrNotFound means every provider and the static table failed for the
// requested symbol.
var ErrNotFound = errors.New("quote not found")

// Service implements QuoteService. Provider failure inside the chain is
// a miss value, never a surfaced error; only FetchDetailed reports total
// exhaustion, and then as ErrNotFound.
type Service struct {
	yahoo    interfaces.YahooClient
	jquants  interfaces.JQuantsClient
	gate     *ratelimit.Gate
	basic    *cache.Store[*models.QuoteRecord]
	detailed *cache.Store[*models.QuoteRecord]
	fallback map[string]*models.QuoteRecord
	ttl      time.Duration
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

// NewService creates the quote service. jq may be nil when the secondary
// provider is not configured — its leg of the chain is skipped.
func NewService(yc interfaces.YahooClient, jq interfaces.JQuantsClient, gate *ratelimit.Gate, fallback []common.FallbackQuote, ttl time.Duration, logger *common.Logger) *Service {
	return &Service{
		yahoo:    yc,
		jquants:  jq,
		gate:     gate,
		basic:    cache.NewStore[*models.QuoteRecord](),
		detailed: cache.NewStore[*models.QuoteRecord](),
		fallback: buildFallbackTable(fallback),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func buildFallbackTable(quotes []common.FallbackQuote) map[string]*models.QuoteRecord {
	table := make(map[string]*models.QuoteRecord, len(quotes))
	for _, q := range quotes {
		canon := symbols.Canonical(q.Symbol)
		if canon == "" {
			continue
		}
		table[canon] = &models.QuoteRecord{
			Symbol:        canon,
			Name:          q.Name,
			NativeName:    q.Name,
			Price:         models.Float(q.Price),
			Change:        models.Float(q.Change),
			ChangePct:     models.Float(q.ChangePct),
			Source:        models.SourceFallback,
			StalenessNote: "static last-known values",
		}
	}
	return table
}

// Fetch returns the latest metrics for the requested symbols, keyed by
// the requested form. Symbols that exhaust every provider are omitted
// from the result; fetching N symbols never fails part-way.
func (s *Service) Fetch(ctx context.Context, tickers []string) map[string]*models.QuoteRecord {
	results := make(map[string]*models.QuoteRecord, len(tickers))

	for _, raw := range tickers {
		canon := symbols.Canonical(raw)
		if canon == "" {
			continue
		}

		if rec, ok := s.basic.Get(canon); ok {
			results[raw] = rec
			continue
		}

		rec := s.fetchOne(ctx, canon)
		if rec == nil {
			continue
		}
		s.basic.Put(canon, rec, s.ttl)
		results[raw] = rec
	}

	return results
}

// fetchOne walks the chain for a single canonical symbol.
// The priority order is strict: primary, secondary, static.
func (s *Service) fetchOne(ctx context.Context, canon string) *models.QuoteRecord {
	if rec := s.fromYahoo(ctx, canon); rec != nil {
		return rec
	}
	if rec := s.fromJQuants(ctx, canon); rec != nil {
		return rec
	}
	return s.fromFallback(canon)
}

// acquire waits on the primary-provider gate; false means the caller's
// context was cancelled and the chain should give up on this leg.
func (s *Service) acquire(ctx context.Context) bool {
	if err := s.gate.Acquire(ctx); err != nil {
		s.logger.Debug().Err(err).Msg("rate gate wait abandoned")
		return false
	}
	return true
}

// fromYahoo attempts the primary provider. The fast endpoint is tried
// first; the full endpoint is queried only when the fast one lacks a
// price, to keep request volume down. A record is accepted only with a
// non-nil price.
func (s *Service) fromYahoo(ctx context.Context, canon string) *models.QuoteRecord {
	if s.yahoo == nil {
		return nil
	}
	if !s.acquire(ctx) {
		return nil
	}

	psym := symbols.Primary(canon)

	fast, err := s.yahoo.FastInfo(ctx, psym)
	if err != nil {
		s.logProviderMiss("yahoo", "fast", canon, err)
		fast = models.Bag{}
	}

	info := models.Bag{}
	price := fast.Float("price")
	if price == nil {
		if !s.acquire(ctx) {
			return nil
		}
		info, err = s.yahoo.Info(ctx, psym)
		if err != nil {
			s.logProviderMiss("yahoo", "info", canon, err)
			info = models.Bag{}
		}
		price = info.Float("price")
	}

	if price == nil {
		return nil
	}

	return s.buildYahooRecord(canon, price, fast, info)
}

// buildYahooRecord assembles a record from the fast and full bags,
// preferring fast values where both endpoints supplied the metric.
func (s *Service) buildYahooRecord(canon string, price *float64, fast, info models.Bag) *models.QuoteRecord {
	pick := func(key string) *float64 {
		if v := fast.Float(key); v != nil {
			return v
		}
		return info.Float(key)
	}
	pickStr := func(key string) string {
		if v := fast.String(key); v != "" {
			return v
		}
		return info.String(key)
	}

	name := pickStr("name")
	if name == "" {
		name = canon
	}

	rec := &models.QuoteRecord{
		Symbol:        canon,
		Name:          name,
		Price:         price,
		PreviousClose: pick("previous_close"),
		High:          pick("high"),
		Low:           pick("low"),
		PER:           pick("per"),
		PBR:           pick("pbr"),
		DividendYield: asPercentage(pick("dividend_yield")),
		PayoutRatio:   asPercentage(pick("dividend_payout_ratio")),
		MarketCap:     pick("market_cap"),
		Sector:        pickStr("sector"),
		Industry:      pickStr("industry"),
		Description:   pickStr("description"),
		Source:        models.SourceYahoo,
		FetchedAt:     s.now(),
	}

	applyChange(rec)
	return rec
}

// fromJQuants attempts the secondary provider. Its feed is end-of-period
// data delayed by weeks, so results carry the delayed staleness note.
// A missing or failed token skips the leg entirely.
func (s *Service) fromJQuants(ctx context.Context, canon string) *models.QuoteRecord {
	if s.jquants == nil {
		return nil
	}

	bars, err := s.jquants.DailyQuotes(ctx, canon)
	if err != nil {
		s.logProviderMiss("jquants", "daily_quotes", canon, err)
		return nil
	}

	latest, prev := latestBars(bars)
	if latest == nil {
		return nil
	}

	rec := &models.QuoteRecord{
		Symbol:        canon,
		Price:         latest.Close,
		High:          latest.High,
		Low:           latest.Low,
		Source:        models.SourceJQuants,
		StalenessNote: models.StalenessDelayed,
		FetchedAt:     s.now(),
	}
	if prev != nil {
		rec.PreviousClose = prev.Close
	}

	applyChange(rec)
	return rec
}

// latestBars returns the newest bar carrying a close, and the bar
// preceding it. Bars arrive oldest first.
func latestBars(bars []models.DailyQuote) (latest, prev *models.DailyQuote) {
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Close == nil {
			continue
		}
		if latest == nil {
			latest = &bars[i]
			continue
		}
		prev = &bars[i]
		return latest, prev
	}
	return latest, nil
}

// fromFallback serves the static last-known table. Not knowing the
// symbol here is the end of the chain.
func (s *Service) fromFallback(canon string) *models.QuoteRecord {
	rec, ok := s.fallback[canon]
	if !ok {
		return nil
	}
	s.logger.Info().Str("symbol", canon).Msg("serving static fallback quote")
	return rec
}

// applyChange derives change and change_pct from price and previous
// close when both are present and the close is non-zero.
func applyChange(rec *models.QuoteRecord) {
	if rec.Price == nil || rec.PreviousClose == nil || *rec.PreviousClose == 0 {
		return
	}
	change := *rec.Price - *rec.PreviousClose
	rec.Change = models.Float(change)
	rec.ChangePct = models.Float(change / *rec.PreviousClose * 100)
}

// asPercentage converts provider fractions (0.025) to percentages;
// values above 1 are assumed to be percentages already.
func asPercentage(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if *v <= 1 {
		return models.Float(*v * 100)
	}
	return v
}

func (s *Service) logProviderMiss(provider, endpoint, canon string, err error) {
	event := s.logger.Debug()
	if errors.Is(err, yahoo.ErrThrottled) {
		event = s.logger.Warn()
	}
	event.Err(err).
		Str("provider", provider).
		Str("endpoint", endpoint).
		Str("symbol", canon).
		Msg("provider attempt missed, falling through")
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
