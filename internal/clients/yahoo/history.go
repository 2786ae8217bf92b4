package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/shiradev/kabuto/internal/models"
)

const (
	maxFinancialYears  = 5
	maxDividendEntries = 20
	historyRange       = "3mo"
)

// rawValue is the provider's formatted-number wrapper
type rawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type incomeStatement struct {
	EndDate      rawValue `json:"endDate"`
	TotalRevenue rawValue `json:"totalRevenue"`
	NetIncome    rawValue `json:"netIncome"`
}

type financialsResponse struct {
	QuoteSummary struct {
		Result []struct {
			IncomeStatementHistory struct {
				IncomeStatementHistory []incomeStatement `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteSummary"`
}

// Financials retrieves up to five years of annual revenue and profit.
// Statements missing a period label are dropped; missing line items are
// simply absent from the corresponding series.
func (c *Client) Financials(ctx context.Context, symbol string) (*models.FinancialHistory, error) {
	params := url.Values{}
	params.Set("modules", "incomeStatementHistory")

	var resp financialsResponse
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary error: %v", resp.QuoteSummary.Error)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quoteSummary returned no result")
	}

	statements := resp.QuoteSummary.Result[0].IncomeStatementHistory.IncomeStatementHistory
	if len(statements) > maxFinancialYears {
		statements = statements[:maxFinancialYears]
	}

	history := &models.FinancialHistory{}
	for _, st := range statements {
		label := st.EndDate.Fmt
		if label == "" {
			continue
		}
		if st.TotalRevenue.Raw != nil {
			history.Revenue = append(history.Revenue, models.FinancialPoint{Label: label, Value: *st.TotalRevenue.Raw})
		}
		if st.NetIncome.Raw != nil {
			history.Profit = append(history.Profit, models.FinancialPoint{Label: label, Value: *st.NetIncome.Raw})
		}
	}

	return history, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// History retrieves daily price bars for the recent window plus any
// dividend payments reported in it. Days with a null close are dropped.
func (c *Client) History(ctx context.Context, symbol string) ([]models.PricePoint, []models.DividendPoint, error) {
	params := url.Values{}
	params.Set("range", historyRange)
	params.Set("interval", "1d")
	params.Set("events", "div")

	var resp chartResponse
	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Chart.Error != nil {
		return nil, nil, fmt.Errorf("chart error: %v", resp.Chart.Error)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil, fmt.Errorf("chart returned no result")
	}

	result := resp.Chart.Result[0]

	var prices []models.PricePoint
	if len(result.Indicators.Quote) > 0 {
		q := result.Indicators.Quote[0]
		for i, ts := range result.Timestamp {
			if i >= len(q.Close) || q.Close[i] == nil {
				continue
			}
			point := models.PricePoint{
				Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
				Close: *q.Close[i],
			}
			if i < len(q.Open) && q.Open[i] != nil {
				point.Open = *q.Open[i]
			}
			if i < len(q.High) && q.High[i] != nil {
				point.High = *q.High[i]
			}
			if i < len(q.Low) && q.Low[i] != nil {
				point.Low = *q.Low[i]
			}
			if i < len(q.Volume) && q.Volume[i] != nil {
				point.Volume = *q.Volume[i]
			}
			prices = append(prices, point)
		}
	}

	var dividends []models.DividendPoint
	for _, div := range result.Events.Dividends {
		dividends = append(dividends, models.DividendPoint{
			Date:   time.Unix(div.Date, 0).UTC().Format("2006-01-02"),
			Amount: div.Amount,
		})
	}
	sort.Slice(dividends, func(i, j int) bool { return dividends[i].Date < dividends[j].Date })
	if len(dividends) > maxDividendEntries {
		dividends = dividends[len(dividends)-maxDividendEntries:]
	}

	return prices, dividends, nil
}
