package api

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/timeutil"
)

// DateRangeParams reads the optional start_date, end_date and lookback_days
// query parameters shared by data and report endpoints.
func DateRangeParams(q url.Values) (*int, *time.Time, *time.Time, error) {
	var lookback *int
	if v := q.Get("lookback_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid lookback_days: %q", v)
		}
		lookback = &n
	}

	parse := func(name string) (*time.Time, error) {
		v := q.Get(name)
		if v == "" {
			return nil, nil
		}
		t, err := time.ParseInLocation(constants.DateFormat, v, timeutil.ClubLocation())
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", name, v)
		}
		return &t, nil
	}
	start, err := parse("start_date")
	if err != nil {
		return nil, nil, nil, err
	}
	end, err := parse("end_date")
	if err != nil {
		return nil, nil, nil, err
	}
	return lookback, start, end, nil
}

// ParseDateRange resolves the query parameters to a concrete window, failing
// when neither an explicit range nor a lookback is given.
func ParseDateRange(q url.Values) (time.Time, time.Time, error) {
	lookback, start, end, err := DateRangeParams(q)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return timeutil.ResolveDateRange(lookback, start, end)
}
