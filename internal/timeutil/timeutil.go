package timeutil

import (
	"errors"
	"time"

	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/config"
)

var clubLocation *time.Location

func init() {
	loc, err := time.LoadLocation(config.DefaultTimeZone)
	if err != nil {
		loc = time.UTC
	}
	clubLocation = loc
}

// ClubLocation is the civil timezone all week-boundary math runs in.
func ClubLocation() *time.Location {
	return clubLocation
}

// ResolveDateRange picks the query window: an explicit start/end pair wins,
// otherwise lookbackDays counts back from today. Neither is an error.
func ResolveDateRange(lookbackDays *int, start, end *time.Time) (time.Time, time.Time, error) {
	if start != nil && end != nil {
		return *start, *end, nil
	}
	if lookbackDays != nil {
		now := time.Now().In(clubLocation)
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, clubLocation)
		return today.AddDate(0, 0, -*lookbackDays), today, nil
	}
	return time.Time{}, time.Time{}, errors.New(constants.ErrDateRangeRequired)
}

// LastThursdayBoundary returns the most recent Thursday 00:00 in club time.
// On a Thursday before noon the boundary is the previous Thursday, so a week
// being settled Thursday morning still reads as the prior week.
func LastThursdayBoundary(now time.Time) time.Time {
	local := now.In(clubLocation)
	daysSince := (int(local.Weekday()) - int(time.Thursday) + 7) % 7
	if daysSince == 0 && local.Hour() < 12 {
		daysSince = 7
	}
	boundary := local.AddDate(0, 0, -daysSince)
	return time.Date(boundary.Year(), boundary.Month(), boundary.Day(), 0, 0, 0, 0, clubLocation)
}

// CurrentWeekRange is last Thursday 00:00 club time through now.
func CurrentWeekRange(now time.Time) (time.Time, time.Time) {
	return LastThursdayBoundary(now), now.In(clubLocation)
}

// CurrentMonthRange is the first of the month 00:00 club time through now.
func CurrentMonthRange(now time.Time) (time.Time, time.Time) {
	local := now.In(clubLocation)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, clubLocation)
	return start, local
}
