package jquants

import (
	"context"
	"net/http"
	"testing"
)

func TestStatements(t *testing.T) {
	server := dataServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fins/statements" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("code") != "7203" {
			t.Errorf("code = %q", r.URL.Query().Get("code"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"statements": [
				{
					"DisclosedDate": "2023-05-10",
					"TypeOfCurrentPeriod": "FY",
					"CurrentPeriodEndDate": "2023-03-31",
					"NetSales": "37154298000000",
					"Profit": "2451318000000",
					"ResultDividendPerShareAnnual": "60"
				},
				{
					"DisclosedDate": "2023-08-01",
					"TypeOfCurrentPeriod": "1Q",
					"CurrentPeriodEndDate": "2023-06-30",
					"NetSales": "10546999000000",
					"Profit": "",
					"ResultDividendPerShareAnnual": "not-a-number"
				}
			]
		}`))
	})
	defer server.Close()

	client := NewClient("refresh-secret", WithBaseURL(server.URL))

	statements, err := client.Statements(context.Background(), "7203")
	if err != nil {
		t.Fatalf("Statements failed: %v", err)
	}

	if len(statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(statements))
	}

	fy := statements[0]
	if fy.PeriodType != "FY" || fy.PeriodEnd != "2023-03-31" {
		t.Errorf("statements[0] = %+v", fy)
	}
	if fy.NetSales == nil || *fy.NetSales != 37154298000000 {
		t.Errorf("NetSales = %v", fy.NetSales)
	}
	if fy.DividendPerShare == nil || *fy.DividendPerShare != 60 {
		t.Errorf("DividendPerShare = %v", fy.DividendPerShare)
	}

	q1 := statements[1]
	if q1.Profit != nil {
		t.Errorf("empty Profit should parse to nil, got %v", *q1.Profit)
	}
	if q1.DividendPerShare != nil {
		t.Errorf("unparseable dividend should parse to nil, got %v", *q1.DividendPerShare)
	}
}

func TestJQNumber(t *testing.T) {
	if v := jqNumber(""); v != nil {
		t.Errorf("jqNumber(\"\") = %v, want nil", *v)
	}
	if v := jqNumber("abc"); v != nil {
		t.Errorf("jqNumber(abc) = %v, want nil", *v)
	}
	if v := jqNumber("0"); v == nil || *v != 0 {
		t.Errorf("jqNumber(0) = %v, want 0", v)
	}
	if v := jqNumber("-12.5"); v == nil || *v != -12.5 {
		t.Errorf("jqNumber(-12.5) = %v", v)
	}
}
