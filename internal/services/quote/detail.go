package quote

import (
	"context"

	"github.com/shiradev/kabuto/internal/models"
	"github.com/shiradev/kabuto/internal/symbols"
)

const (
	maxAnnualStatements = 5
	maxHistoryBars      = 90
)

// FetchDetailed returns one record enriched with financial history,
// dividend history and recent price history. The fallback order is the
// same as Fetch; each provider leg additionally gathers the historical
// series its API offers. Detailed records have their own cache window,
// so two calls inside the TTL return the identical record.
func (s *Service) FetchDetailed(ctx context.Context, ticker string) (*models.QuoteRecord, error) {
	canon := symbols.Canonical(ticker)
	if canon == "" {
		return nil, ErrNotFound
	}

	if rec, ok := s.detailed.Get(canon); ok {
		return rec, nil
	}

	rec := s.detailFromYahoo(ctx, canon)
	if rec == nil {
		rec = s.detailFromJQuants(ctx, canon)
	}
	if rec == nil {
		rec = s.fromFallback(canon)
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	s.detailed.Put(canon, rec, s.ttl)
	return rec, nil
}

// detailFromYahoo runs the primary leg, then decorates the record with
// income statement history and the recent chart window. History
// failures degrade to a record without the series, not to a miss.
func (s *Service) detailFromYahoo(ctx context.Context, canon string) *models.QuoteRecord {
	rec := s.fromYahoo(ctx, canon)
	if rec == nil {
		return nil
	}

	psym := symbols.Primary(canon)

	if s.acquire(ctx) {
		fin, err := s.yahoo.Financials(ctx, psym)
		if err != nil {
			s.logProviderMiss("yahoo", "financials", canon, err)
		} else if fin != nil {
			rec.RevenueHistory = fin.Revenue
			rec.ProfitHistory = fin.Profit
			if len(fin.Revenue) > 0 {
				rec.Revenue = models.Float(fin.Revenue[0].Value)
			}
			if len(fin.Profit) > 0 {
				rec.Profit = models.Float(fin.Profit[0].Value)
			}
		}
	}

	if s.acquire(ctx) {
		prices, dividends, err := s.yahoo.History(ctx, psym)
		if err != nil {
			s.logProviderMiss("yahoo", "history", canon, err)
		} else {
			rec.PriceHistory = prices
			rec.DividendHistory = dividends
		}
	}

	return rec
}

// detailFromJQuants runs the secondary leg and decorates the record
// with the daily bar series plus annual statement history.
func (s *Service) detailFromJQuants(ctx context.Context, canon string) *models.QuoteRecord {
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

	rec.PriceHistory = barsToHistory(bars)

	if statements, err := s.jquants.Statements(ctx, canon); err != nil {
		s.logProviderMiss("jquants", "statements", canon, err)
	} else {
		applyStatements(rec, statements)
	}

	return rec
}

// barsToHistory maps the newest bars with a close into price points,
// capped to the recent window, oldest first.
func barsToHistory(bars []models.DailyQuote) []models.PricePoint {
	var points []models.PricePoint
	for _, b := range bars {
		if b.Close == nil {
			continue
		}
		p := models.PricePoint{Date: b.Date, Close: *b.Close}
		if b.Open != nil {
			p.Open = *b.Open
		}
		if b.High != nil {
			p.High = *b.High
		}
		if b.Low != nil {
			p.Low = *b.Low
		}
		if b.Volume != nil {
			p.Volume = int64(*b.Volume)
		}
		points = append(points, p)
	}
	if len(points) > maxHistoryBars {
		points = points[len(points)-maxHistoryBars:]
	}
	return points
}

// applyStatements folds annual disclosures into the record: revenue and
// profit series, dividend history, and the newest full-year scalars.
func applyStatements(rec *models.QuoteRecord, statements []models.Statement) {
	var annual []models.Statement
	for _, st := range statements {
		if st.PeriodType == "FY" && st.PeriodEnd != "" {
			annual = append(annual, st)
		}
	}
	if len(annual) > maxAnnualStatements {
		annual = annual[len(annual)-maxAnnualStatements:]
	}

	for _, st := range annual {
		if st.NetSales != nil {
			rec.RevenueHistory = append(rec.RevenueHistory, models.FinancialPoint{Label: st.PeriodEnd, Value: *st.NetSales})
		}
		if st.Profit != nil {
			rec.ProfitHistory = append(rec.ProfitHistory, models.FinancialPoint{Label: st.PeriodEnd, Value: *st.Profit})
		}
		if st.DividendPerShare != nil {
			rec.DividendHistory = append(rec.DividendHistory, models.DividendPoint{Date: st.PeriodEnd, Amount: *st.DividendPerShare})
		}
	}

	if n := len(rec.RevenueHistory); n > 0 {
		rec.Revenue = models.Float(rec.RevenueHistory[n-1].Value)
	}
	if n := len(rec.ProfitHistory); n > 0 {
		rec.Profit = models.Float(rec.ProfitHistory[n-1].Value)
	}
}
