package jquants

import (
	"context"
	"strconv"

	"github.com/shiradev/kabuto/internal/models"
)

// statementRecord is the wire form of one disclosure. The API serialises
// every numeric line item as a string, with "" for missing values and a
// handful of inconsistent label spellings unified here.
type statementRecord struct {
	DisclosedDate        string `json:"DisclosedDate"`
	TypeOfCurrentPeriod  string `json:"TypeOfCurrentPeriod"`
	CurrentPeriodEndDate string `json:"CurrentPeriodEndDate"`
	NetSales             string `json:"NetSales"`
	Profit               string `json:"Profit"`
	DividendAnnual       string `json:"ResultDividendPerShareAnnual"`
}

type statementsResponse struct {
	Statements    []statementRecord `json:"statements"`
	PaginationKey string            `json:"pagination_key"`
}

// jqNumber parses the provider's string-encoded numbers; "" and
// unparseable values become nil, keeping absence distinct from zero.
func jqNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return models.Float(f)
}

// Statements retrieves financial statement disclosures for one code,
// oldest first, parsed into typed values at this boundary.
func (c *Client) Statements(ctx context.Context, code string) ([]models.Statement, error) {
	var statements []models.Statement

	paginationKey := ""
	for page := 0; page < c.maxPages; page++ {
		params := map[string]string{"code": code}
		if paginationKey != "" {
			params["pagination_key"] = paginationKey
		}

		var resp statementsResponse
		if err := c.get(ctx, "/fins/statements", params, &resp); err != nil {
			return nil, err
		}

		for _, r := range resp.Statements {
			statements = append(statements, models.Statement{
				PeriodType:       r.TypeOfCurrentPeriod,
				PeriodEnd:        r.CurrentPeriodEndDate,
				DisclosedDate:    r.DisclosedDate,
				NetSales:         jqNumber(r.NetSales),
				Profit:           jqNumber(r.Profit),
				DividendPerShare: jqNumber(r.DividendAnnual),
			})
		}

		paginationKey = resp.PaginationKey
		if paginationKey == "" {
			return statements, nil
		}
	}

	c.logger.Warn().Int("pages", c.maxPages).Msg("jquants statements pagination cap reached")
	return statements, nil
}
