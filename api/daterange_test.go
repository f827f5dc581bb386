package api

import (
	"net/url"
	"testing"
)

func TestDateRangeParams(t *testing.T) {
	q := url.Values{}
	q.Set("start_date", "2025-01-02")
	q.Set("end_date", "2025-01-09")

	lookback, start, end, err := DateRangeParams(q)
	if err != nil {
		t.Fatalf("DateRangeParams: %v", err)
	}
	if lookback != nil {
		t.Fatalf("lookback = %v, want nil", *lookback)
	}
	if start == nil || start.Format("2006-01-02") != "2025-01-02" {
		t.Fatalf("start = %v", start)
	}
	if end == nil || end.Format("2006-01-02") != "2025-01-09" {
		t.Fatalf("end = %v", end)
	}
}

func TestDateRangeParamsLookback(t *testing.T) {
	q := url.Values{}
	q.Set("lookback_days", "30")

	lookback, start, end, err := DateRangeParams(q)
	if err != nil {
		t.Fatalf("DateRangeParams: %v", err)
	}
	if lookback == nil || *lookback != 30 {
		t.Fatalf("lookback = %v, want 30", lookback)
	}
	if start != nil || end != nil {
		t.Fatal("explicit bounds should be nil without query params")
	}
}

func TestDateRangeParamsBadInput(t *testing.T) {
	for _, q := range []url.Values{
		{"lookback_days": {"soon"}},
		{"start_date": {"01/02/2025"}},
		{"end_date": {"2025-13-40"}},
	} {
		if _, _, _, err := DateRangeParams(q); err == nil {
			t.Fatalf("expected error for %v", q)
		}
	}
}

func TestParseDateRangeRequiresWindow(t *testing.T) {
	if _, _, err := ParseDateRange(url.Values{}); err == nil {
		t.Fatal("expected error when no window is given")
	}
}
