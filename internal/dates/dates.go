package dates

import (
	"fmt"
	"sync"
	"time"
)

// Layout is the wire format the Layan-T API uses for all dates.
const Layout = "02/01/2006 15:04"

const zoneName = "Asia/Jerusalem"

var (
	zoneOnce sync.Once
	zone     *time.Location
	zoneErr  error
)

func location() (*time.Location, error) {
	zoneOnce.Do(func() {
		zone, zoneErr = time.LoadLocation(zoneName)
	})
	return zone, zoneErr
}

// Parse parses an API date string in the Jerusalem timezone.
func Parse(s string) (time.Time, error) {
	loc, err := location()
	if err != nil {
		return time.Time{}, fmt.Errorf("load timezone %s: %w", zoneName, err)
	}
	t, err := time.ParseInLocation(Layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// AddDays shifts an API date string by the given number of days and
// returns it in the same format. Preview and execution both go through
// here so the dates shown to the operator match what is submitted.
func AddDays(s string, days int) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(Layout), nil
}

// SlackDate renders an API date as Slack date markup so each reader
// sees it in their own timezone. Falls back to the raw string when the
// input does not parse.
func SlackDate(s string) string {
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("<!date^%d^{date_short_pretty} {time}|%s (Jerusalem)>", t.Unix(), s)
}
