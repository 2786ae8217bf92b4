package quote

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shiradev/kabuto/internal/models"
)

func TestFetchDetailedFromPrimary(t *testing.T) {
	yc := &mockYahoo{
		fastInfoFn: func(_ context.Context, _ string) (models.Bag, error) {
			return models.Bag{"price": 2850.5, "previous_close": 2825.5, "name": "Toyota Motor Corporation"}, nil
		},
		financialsFn: func(_ context.Context, _ string) (*models.FinancialHistory, error) {
			return &models.FinancialHistory{
				Revenue: []models.FinancialPoint{{Label: "2024-03-31", Value: 45095325000000}},
				Profit:  []models.FinancialPoint{{Label: "2024-03-31", Value: 4944933000000}},
			}, nil
		},
		historyFn: func(_ context.Context, _ string) ([]models.PricePoint, []models.DividendPoint, error) {
			return []models.PricePoint{{Date: "2024-06-10", Close: 2850.5}},
				[]models.DividendPoint{{Date: "2024-06-11", Amount: 37.5}}, nil
		},
	}

	svc := newTestService(yc, nil, nil, time.Minute)

	rec, err := svc.FetchDetailed(context.Background(), "7203")
	if err != nil {
		t.Fatalf("FetchDetailed failed: %v", err)
	}

	if rec.Source != models.SourceYahoo {
		t.Errorf("Source = %q", rec.Source)
	}
	if rec.Revenue == nil || *rec.Revenue != 45095325000000 {
		t.Errorf("Revenue = %v", rec.Revenue)
	}
	if len(rec.RevenueHistory) != 1 {
		t.Errorf("RevenueHistory has %d points", len(rec.RevenueHistory))
	}
	if len(rec.PriceHistory) != 1 || rec.PriceHistory[0].Close != 2850.5 {
		t.Errorf("PriceHistory = %+v", rec.PriceHistory)
	}
	if len(rec.DividendHistory) != 1 || rec.DividendHistory[0].Amount != 37.5 {
		t.Errorf("DividendHistory = %+v", rec.DividendHistory)
	}
}

func TestFetchDetailedHistoryFailureDegrades(t *testing.T) {
	yc := &mockYahoo{
		fastInfoFn: func(_ context.Context, _ string) (models.Bag, error) {
			return models.Bag{"price": 100.0}, nil
		},
		financialsFn: func(_ context.Context, _ string) (*models.FinancialHistory, error) {
			return nil, fmt.Errorf("financials unavailable")
		},
		historyFn: func(_ context.Context, _ string) ([]models.PricePoint, []models.DividendPoint, error) {
			return nil, nil, fmt.Errorf("chart unavailable")
		},
	}

	svc := newTestService(yc, nil, nil, time.Minute)

	rec, err := svc.FetchDetailed(context.Background(), "7203")
	if err != nil {
		t.Fatalf("FetchDetailed failed: %v", err)
	}

	// The quote survives without its decorations
	if rec.Price == nil || *rec.Price != 100.0 {
		t.Errorf("Price = %v", rec.Price)
	}
	if rec.PriceHistory != nil || rec.RevenueHistory != nil {
		t.Error("history series should be absent after decorator failures")
	}
}

func TestFetchDetailedFromSecondary(t *testing.T) {
	yc := &mockYahoo{
		fastInfoFn: func(_ context.Context, _ string) (models.Bag, error) { return nil, fmt.Errorf("down") },
		infoFn:     func(_ context.Context, _ string) (models.Bag, error) { return nil, fmt.Errorf("down") },
	}
	jq := &mockJQuants{
		dailyQuotesFn: func(_ context.Context, _ string) ([]models.DailyQuote, error) {
			return []models.DailyQuote{
				{Code: "7203", Date: "2024-06-10", Close: models.Float(2800.0)},
				{Code: "7203", Date: "2024-06-11", Close: models.Float(2850.0)},
			}, nil
		},
		statementsFn: func(_ context.Context, _ string) ([]models.Statement, error) {
			return []models.Statement{
				{PeriodType: "FY", PeriodEnd: "2023-03-31", NetSales: models.Float(37154298000000), Profit: models.Float(2451318000000), DividendPerShare: models.Float(60)},
				{PeriodType: "1Q", PeriodEnd: "2023-06-30", NetSales: models.Float(10546999000000)},
				{PeriodType: "FY", PeriodEnd: "2024-03-31", NetSales: models.Float(45095325000000), Profit: models.Float(4944933000000), DividendPerShare: models.Float(75)},
			}, nil
		},
	}

	svc := newTestService(yc, jq, nil, time.Minute)

	rec, err := svc.FetchDetailed(context.Background(), "7203")
	if err != nil {
		t.Fatalf("FetchDetailed failed: %v", err)
	}

	if rec.Source != models.SourceJQuants {
		t.Errorf("Source = %q", rec.Source)
	}
	if rec.StalenessNote != models.StalenessDelayed {
		t.Errorf("StalenessNote = %q", rec.StalenessNote)
	}

	// Only full-year statements feed the series
	if len(rec.RevenueHistory) != 2 {
		t.Fatalf("RevenueHistory has %d points, want 2 FY entries", len(rec.RevenueHistory))
	}
	// Scalars come from the newest full year
	if rec.Revenue == nil || *rec.Revenue != 45095325000000 {
		t.Errorf("Revenue = %v", rec.Revenue)
	}
	if rec.Profit == nil || *rec.Profit != 4944933000000 {
		t.Errorf("Profit = %v", rec.Profit)
	}
	if len(rec.DividendHistory) != 2 || rec.DividendHistory[1].Amount != 75 {
		t.Errorf("DividendHistory = %+v", rec.DividendHistory)
	}
	if len(rec.PriceHistory) != 2 {
		t.Errorf("PriceHistory has %d points", len(rec.PriceHistory))
	}
}

func TestFetchDetailedNotFound(t *testing.T) {
	yc := &mockYahoo{
		fastInfoFn: func(_ context.Context, _ string) (models.Bag, error) { return nil, fmt.Errorf("down") },
		infoFn:     func(_ context.Context, _ string) (models.Bag, error) { return nil, fmt.Errorf("down") },
	}

	svc := newTestService(yc, nil, nil, time.Minute)

	_, err := svc.FetchDetailed(context.Background(), "9999")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchDetailedIdempotentWithinTTL(t *testing.T) {
	yc := &mockYahoo{
		fastInfoFn: func(_ context.Context, _ string) (models.Bag, error) {
			return models.Bag{"price": 100.0}, nil
		},
		financialsFn: func(_ context.Context, _ string) (*models.FinancialHistory, error) {
			return &models.FinancialHistory{}, nil
		},
		historyFn: func(_ context.Context, _ string) ([]models.PricePoint, []models.DividendPoint, error) {
			return nil, nil, nil
		},
	}

	svc := newTestService(yc, nil, nil, time.Minute)

	first, err := svc.FetchDetailed(context.Background(), "7203")
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := svc.FetchDetailed(context.Background(), "7203")
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if first != second {
		t.Error("calls inside the TTL must return the identical cached record")
	}
	if yc.fastCalls != 1 {
		t.Errorf("primary called %d times, want 1", yc.fastCalls)
	}
}

func TestFetchDetailedBlankSymbol(t *testing.T) {
	svc := newTestService(&mockYahoo{}, nil, nil, time.Minute)

	if _, err := svc.FetchDetailed(context.Background(), "  "); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for blank input", err)
	}
}
