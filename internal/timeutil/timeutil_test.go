package timeutil

import (
	"testing"
	"time"
)

func clubTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, ClubLocation())
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func TestLastThursdayBoundaryMidWeek(t *testing.T) {
	// Saturday 2025-06-14 -> Thursday 2025-06-12.
	got := LastThursdayBoundary(clubTime(t, "2025-06-14 15:00:00"))
	want := clubTime(t, "2025-06-12 00:00:00")
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLastThursdayBoundaryThursdayMorning(t *testing.T) {
	// Thursday before noon still belongs to the prior week.
	got := LastThursdayBoundary(clubTime(t, "2025-06-12 09:00:00"))
	want := clubTime(t, "2025-06-05 00:00:00")
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLastThursdayBoundaryThursdayAfternoon(t *testing.T) {
	got := LastThursdayBoundary(clubTime(t, "2025-06-12 13:00:00"))
	want := clubTime(t, "2025-06-12 00:00:00")
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDateRangeExplicitWins(t *testing.T) {
	start := clubTime(t, "2025-01-01 00:00:00")
	end := clubTime(t, "2025-01-31 00:00:00")
	lookback := 7
	s, e, err := ResolveDateRange(&lookback, &start, &end)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !s.Equal(start) || !e.Equal(end) {
		t.Fatalf("explicit range must win, got %v..%v", s, e)
	}
}

func TestResolveDateRangeLookback(t *testing.T) {
	lookback := 7
	s, e, err := ResolveDateRange(&lookback, nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if int(e.Sub(s).Hours()/24) != 7 {
		t.Fatalf("window must span 7 days, got %v..%v", s, e)
	}
}

func TestResolveDateRangeNothingGiven(t *testing.T) {
	if _, _, err := ResolveDateRange(nil, nil, nil); err == nil {
		t.Fatal("expected an error when no window is given")
	}
}

func TestCurrentMonthRange(t *testing.T) {
	now := clubTime(t, "2025-06-14 15:00:00")
	start, end := CurrentMonthRange(now)
	if !start.Equal(clubTime(t, "2025-06-01 00:00:00")) {
		t.Fatalf("month start = %v", start)
	}
	if !end.Equal(now) {
		t.Fatalf("month end = %v", end)
	}
}
